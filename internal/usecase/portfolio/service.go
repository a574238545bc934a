package portfolio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/simaogato/ventureflow/internal/domain"
	"github.com/simaogato/ventureflow/internal/metrics"
	"github.com/simaogato/ventureflow/internal/usecase/cashflow"
	"github.com/simaogato/ventureflow/internal/usecase/preset"
	"github.com/simaogato/ventureflow/internal/usecase/timeline"
)

// User-facing notices
const (
	NoticeNoCompleteInvestment = "Please add at least one complete investment!"
	NoticeIncorrectPassword    = "Incorrect password"
	NoticeCashflowOutOfRange   = "The cashflow chart cannot be simulated: investment years or amounts are too large."
)

// PortfolioService handles the row table, chart generation and the preset dialog of a session
type PortfolioService struct {
	SessionRepo domain.SessionRepository
	Logger      *zap.Logger
	Now         func() time.Time
}

// NewPortfolioService creates a new PortfolioService instance
func NewPortfolioService(sessionRepo domain.SessionRepository, logger *zap.Logger) *PortfolioService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PortfolioService{
		SessionRepo: sessionRepo,
		Logger:      logger,
		Now:         time.Now,
	}
}

// DeriveCharts runs both derivers over the records
// Logic:
//   - No timeline-valid record: domain.ErrNoChartData, nothing is charted
//   - Timeline data but no cashflow-valid record: Cashflow is nil (placeholder)
//   - Ledger horizon or values out of range: Cashflow is nil and CashflowNotice is set
func DeriveCharts(records []domain.InvestmentRecord) (*domain.ChartSet, error) {
	metrics.Derivations.WithLabelValues(metrics.ChartTimeline).Inc()
	tl, err := timeline.Derive(records)
	if err != nil {
		if errors.Is(err, domain.ErrNoChartData) {
			metrics.DerivationsEmpty.WithLabelValues(metrics.ChartTimeline).Inc()
		}
		return nil, err
	}

	metrics.Derivations.WithLabelValues(metrics.ChartCashflow).Inc()
	charts := &domain.ChartSet{Timeline: tl}
	cf, err := cashflow.Derive(records)
	switch {
	case err == nil:
		charts.Cashflow = cf
	case errors.Is(err, domain.ErrNoChartData):
		metrics.DerivationsEmpty.WithLabelValues(metrics.ChartCashflow).Inc()
	case errors.Is(err, domain.ErrHorizonTooLarge), errors.Is(err, domain.ErrValueOutOfRange):
		metrics.DerivationsEmpty.WithLabelValues(metrics.ChartCashflow).Inc()
		charts.CashflowNotice = NoticeCashflowOutOfRange
	default:
		return nil, err
	}

	return charts, nil
}

// PresetRecords returns the preset rows when passphrase matches
func PresetRecords(passphrase string) ([]domain.InvestmentRecord, error) {
	if passphrase != preset.Passphrase {
		metrics.PresetUnlockAttempts.WithLabelValues(metrics.UnlockFailure).Inc()
		return nil, domain.ErrIncorrectPassphrase
	}
	metrics.PresetUnlockAttempts.WithLabelValues(metrics.UnlockSuccess).Inc()
	return preset.Records(), nil
}

// StartSession creates a session holding one empty row
func (s *PortfolioService) StartSession(ctx context.Context) (*domain.Session, error) {
	session := domain.NewSession(s.Now())
	if err := s.SessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if count, err := s.SessionRepo.Count(ctx); err == nil {
		metrics.SessionsActive.Set(float64(count))
	}
	s.Logger.Debug("session started", zap.String("session_id", session.ID.String()))

	return session, nil
}

// GetSession retrieves a session
func (s *PortfolioService) GetSession(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error) {
	return s.SessionRepo.GetByID(ctx, sessionID)
}

// AddRecord appends an empty row
func (s *PortfolioService) AddRecord(ctx context.Context, sessionID uuid.UUID) (domain.InvestmentRecord, error) {
	var added domain.InvestmentRecord
	_, err := s.SessionRepo.Update(ctx, sessionID, func(session *domain.Session) error {
		added = session.AddRecord()
		return nil
	})
	if err != nil {
		return domain.InvestmentRecord{}, err
	}
	return added, nil
}

// UpdateRecord sets several fields of one row at once
// Either every value is applied or none is.
func (s *PortfolioService) UpdateRecord(ctx context.Context, sessionID, recordID uuid.UUID, values map[domain.Field]string) (domain.InvestmentRecord, error) {
	var updated domain.InvestmentRecord
	_, err := s.SessionRepo.Update(ctx, sessionID, func(session *domain.Session) error {
		for field := range values {
			if !field.Known() {
				return fmt.Errorf("%w: unknown field %q", domain.ErrInvalidField, field)
			}
		}
		for _, field := range domain.Fields {
			value, ok := values[field]
			if !ok {
				continue
			}
			if err := session.ApplyEdit(domain.RecordEdit{RecordID: recordID, Field: field, Value: value}); err != nil {
				return err
			}
		}

		record, err := session.Record(recordID)
		if err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		return domain.InvestmentRecord{}, err
	}
	return updated, nil
}

// ApplyEdits applies a batch of form edits
// Edits for rows that no longer exist are skipped (a stale form); any other
// invalid edit rejects the whole batch.
func (s *PortfolioService) ApplyEdits(ctx context.Context, sessionID uuid.UUID, edits []domain.RecordEdit) error {
	if len(edits) == 0 {
		return nil
	}
	_, err := s.SessionRepo.Update(ctx, sessionID, func(session *domain.Session) error {
		for _, edit := range edits {
			if err := session.ApplyEdit(edit); err != nil {
				if errors.Is(err, domain.ErrRecordNotFound) {
					continue
				}
				return err
			}
		}
		return nil
	})
	return err
}

// DeleteRecord removes a row; the last row is kept
func (s *PortfolioService) DeleteRecord(ctx context.Context, sessionID, recordID uuid.UUID) error {
	_, err := s.SessionRepo.Update(ctx, sessionID, func(session *domain.Session) error {
		return session.DeleteRecord(recordID)
	})
	return err
}

// Clear resets the table to one empty row and hides the charts
func (s *PortfolioService) Clear(ctx context.Context, sessionID uuid.UUID) error {
	_, err := s.SessionRepo.Update(ctx, sessionID, func(session *domain.Session) error {
		session.Clear()
		return nil
	})
	return err
}

// GenerateCharts derives the charts and makes them visible
// With no timeline-valid row it sets the "complete investment" notice,
// hides the charts and returns domain.ErrNoChartData.
func (s *PortfolioService) GenerateCharts(ctx context.Context, sessionID uuid.UUID) (*domain.ChartSet, error) {
	var charts *domain.ChartSet
	var deriveErr error
	_, err := s.SessionRepo.Update(ctx, sessionID, func(session *domain.Session) error {
		charts, deriveErr = DeriveCharts(session.Records)
		if deriveErr != nil {
			session.ChartsVisible = false
			if errors.Is(deriveErr, domain.ErrNoChartData) {
				session.Notice = NoticeNoCompleteInvestment
			}
			return nil
		}
		session.ChartsVisible = true
		if charts.CashflowNotice != "" {
			session.Notice = charts.CashflowNotice
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if deriveErr != nil {
		return nil, deriveErr
	}
	return charts, nil
}

// Charts derives the charts for the current rows without changing the session
func (s *PortfolioService) Charts(ctx context.Context, sessionID uuid.UUID) (*domain.ChartSet, error) {
	session, err := s.SessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return DeriveCharts(session.Records)
}

// OpenPreset shows the unlock dialog
func (s *PortfolioService) OpenPreset(ctx context.Context, sessionID uuid.UUID) error {
	_, err := s.SessionRepo.Update(ctx, sessionID, func(session *domain.Session) error {
		session.Gate.Open()
		return nil
	})
	return err
}

// CancelPreset closes the unlock dialog
func (s *PortfolioService) CancelPreset(ctx context.Context, sessionID uuid.UUID) error {
	_, err := s.SessionRepo.Update(ctx, sessionID, func(session *domain.Session) error {
		session.Gate.Cancel()
		return nil
	})
	return err
}

// UnlockPreset submits the dialog input
// Logic:
//   - Match: close the dialog, replace the rows with the preset, show the charts
//   - Mismatch: clear the input, keep the dialog open and return domain.ErrIncorrectPassphrase;
//     the "Incorrect password" notice is only raised while the dialog is showing
func (s *PortfolioService) UnlockPreset(ctx context.Context, sessionID uuid.UUID, input string) ([]domain.InvestmentRecord, error) {
	var unlockErr error
	var records []domain.InvestmentRecord
	_, err := s.SessionRepo.Update(ctx, sessionID, func(session *domain.Session) error {
		prompting := session.Gate.IsOpen()
		if unlockErr = session.Gate.Submit(input, preset.Passphrase); unlockErr != nil {
			if prompting {
				session.Notice = NoticeIncorrectPassword
			}
			return nil
		}
		session.ReplaceRecords(preset.Records())
		session.ChartsVisible = true
		records = session.Records
		return nil
	})
	if err != nil {
		return nil, err
	}

	if unlockErr != nil {
		metrics.PresetUnlockAttempts.WithLabelValues(metrics.UnlockFailure).Inc()
		return nil, unlockErr
	}
	metrics.PresetUnlockAttempts.WithLabelValues(metrics.UnlockSuccess).Inc()
	s.Logger.Info("preset portfolio loaded", zap.String("session_id", sessionID.String()), zap.Int("records", len(records)))

	return records, nil
}

// TakeNotice returns the pending notice of a session and clears it
func (s *PortfolioService) TakeNotice(ctx context.Context, sessionID uuid.UUID) (string, error) {
	var notice string
	_, err := s.SessionRepo.Update(ctx, sessionID, func(session *domain.Session) error {
		notice = session.TakeNotice()
		return nil
	})
	return notice, err
}
