package request

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for UserRequest and its Comments.
type Repository interface {
	Create(ctx context.Context, r *UserRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*UserRequest, error)
	Update(ctx context.Context, r *UserRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters ListFilters) ([]*UserRequest, int64, error)

	AddComment(ctx context.Context, c *Comment) error
	ListComments(ctx context.Context, requestID uuid.UUID) ([]*Comment, error)
}

// ListFilters narrows List by guild, status, and requester.
type ListFilters struct {
	GuildID string
	UserID  string
	Status  Status
	Page    int
	Limit   int
}

// ErrRequestNotFound is returned when a lookup finds no matching row.
var ErrRequestNotFound = newNotFoundError("user request not found")

type notFoundError struct{ message string }

func (e *notFoundError) Error() string { return e.message }

func newNotFoundError(message string) error { return &notFoundError{message: message} }
