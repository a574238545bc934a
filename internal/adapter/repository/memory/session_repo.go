package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/ventureflow/internal/domain"
	"github.com/simaogato/ventureflow/internal/metrics"
)

// sessionRepository implements domain.SessionRepository in process memory
// Sessions idle for longer than ttl are dropped the next time they are touched
// or counted.
type sessionRepository struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*domain.Session
	ttl      time.Duration
	now      func() time.Time
}

// Option configures the session repository
type Option func(*sessionRepository)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(r *sessionRepository) {
		r.now = now
	}
}

// NewSessionRepository creates a new in-memory session repository
// A ttl of zero or less keeps sessions forever.
func NewSessionRepository(ttl time.Duration, opts ...Option) domain.SessionRepository {
	r := &sessionRepository{
		sessions: make(map[uuid.UUID]*domain.Session),
		ttl:      ttl,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create stores a copy of the session
func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("failed to create session: nil session")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.ID]; exists {
		return fmt.Errorf("failed to create session: duplicate id %s", session.ID)
	}
	stored := session.Clone()
	stored.LastSeen = r.now()
	r.sessions[session.ID] = stored
	metrics.SessionsActive.Set(float64(len(r.sessions)))
	return nil
}

// GetByID returns a copy of the session and refreshes its idle timer
func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := r.live(id)
	if err != nil {
		return nil, err
	}
	session.LastSeen = r.now()
	return session.Clone(), nil
}

// Update applies fn to a working copy and stores it only when fn succeeds
func (r *sessionRepository) Update(ctx context.Context, id uuid.UUID, fn func(*domain.Session) error) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.live(id)
	if err != nil {
		return nil, err
	}

	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	working.ID = id
	working.LastSeen = r.now()
	r.sessions[id] = working
	return working.Clone(), nil
}

// Delete removes a session; deleting an unknown session is not an error
func (r *sessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	metrics.SessionsActive.Set(float64(len(r.sessions)))
	return nil
}

// Count returns the number of live sessions
func (r *sessionRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, session := range r.sessions {
		if r.expired(session) {
			delete(r.sessions, id)
		}
	}
	metrics.SessionsActive.Set(float64(len(r.sessions)))
	return len(r.sessions), nil
}

// live must be called with mu held
func (r *sessionRepository) live(id uuid.UUID) (*domain.Session, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if r.expired(session) {
		delete(r.sessions, id)
		metrics.SessionsActive.Set(float64(len(r.sessions)))
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (r *sessionRepository) expired(session *domain.Session) bool {
	return r.ttl > 0 && r.now().Sub(session.LastSeen) > r.ttl
}
