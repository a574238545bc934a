package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GateState is the state of the preset unlock dialog
type GateState int

const (
	GateClosed GateState = iota
	GatePrompting
)

// UnlockGate models the preset dialog: closed, or prompting with an input buffer
// It is a UI toggle, not access control.
type UnlockGate struct {
	State GateState
	Input string
}

// Open shows the dialog with an empty input
func (g *UnlockGate) Open() {
	g.State = GatePrompting
	g.Input = ""
}

// Cancel closes the dialog and discards the input
func (g *UnlockGate) Cancel() {
	g.State = GateClosed
	g.Input = ""
}

// Submit compares input against passphrase (case-sensitive)
// On success the dialog closes; on failure it stays open with the input cleared.
// Either way the typed text is not retained.
func (g *UnlockGate) Submit(input, passphrase string) error {
	g.Input = ""
	if input != passphrase {
		return ErrIncorrectPassphrase
	}
	g.State = GateClosed
	return nil
}

// IsOpen reports whether the dialog is showing
func (g UnlockGate) IsOpen() bool {
	return g.State == GatePrompting
}

// RecordEdit sets one field of one record
type RecordEdit struct {
	RecordID uuid.UUID
	Field    Field
	Value    string
}

// Session holds one browser's row list and dialog state
// Adheres to the UI shell model: the row list is owned by the session and
// replaced wholesale when the preset is loaded.
type Session struct {
	ID            uuid.UUID
	Records       []InvestmentRecord
	ChartsVisible bool
	Gate          UnlockGate
	Notice        string
	CreatedAt     time.Time
	LastSeen      time.Time
}

// NewSession creates a session holding a single empty row
func NewSession(now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		Records:   []InvestmentRecord{NewEmptyRecord()},
		CreatedAt: now,
		LastSeen:  now,
	}
}

// Clone returns a deep copy so callers never share the record slice
func (s *Session) Clone() *Session {
	c := *s
	c.Records = make([]InvestmentRecord, len(s.Records))
	copy(c.Records, s.Records)
	return &c
}

// AddRecord appends an empty row and returns it
func (s *Session) AddRecord() InvestmentRecord {
	record := NewEmptyRecord()
	s.Records = append(s.Records, record)
	return record
}

// Record returns the row with the given ID
func (s *Session) Record(id uuid.UUID) (InvestmentRecord, error) {
	i := s.indexOf(id)
	if i < 0 {
		return InvestmentRecord{}, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return s.Records[i], nil
}

// ApplyEdit replaces the row with a copy carrying the new field value
func (s *Session) ApplyEdit(edit RecordEdit) error {
	i := s.indexOf(edit.RecordID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, edit.RecordID)
	}
	updated := s.Records[i]
	if err := updated.Set(edit.Field, edit.Value); err != nil {
		return err
	}
	s.Records[i] = updated
	return nil
}

// DeleteRecord removes a row; the last remaining row cannot be removed
func (s *Session) DeleteRecord(id uuid.UUID) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	if len(s.Records) <= 1 {
		return ErrLastRecord
	}
	s.Records = append(s.Records[:i:i], s.Records[i+1:]...)
	return nil
}

// Clear resets the table to one empty row and hides the charts
func (s *Session) Clear() {
	s.Records = []InvestmentRecord{NewEmptyRecord()}
	s.ChartsVisible = false
}

// ReplaceRecords swaps in a new row list wholesale
func (s *Session) ReplaceRecords(records []InvestmentRecord) {
	s.Records = make([]InvestmentRecord, len(records))
	copy(s.Records, records)
}

// TakeNotice returns the pending notice and clears it
func (s *Session) TakeNotice() string {
	notice := s.Notice
	s.Notice = ""
	return notice
}

func (s *Session) indexOf(id uuid.UUID) int {
	for i := range s.Records {
		if s.Records[i].ID == id {
			return i
		}
	}
	return -1
}
