package domain

import (
	"context"

	"github.com/google/uuid"
)

// SessionRepository defines the interface for session storage
// Implementations hand out copies; mutations go through Update.
type SessionRepository interface {
	// Create stores a new session
	Create(ctx context.Context, session *Session) error

	// GetByID retrieves a copy of a session by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)

	// Update applies fn to the stored session atomically
	// If fn returns an error the stored session is left unchanged.
	// The error from fn is returned as-is.
	Update(ctx context.Context, id uuid.UUID, fn func(*Session) error) (*Session, error)

	// Delete removes a session
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of live sessions
	Count(ctx context.Context) (int, error)
}
