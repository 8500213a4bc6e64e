package gallery

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for galleries.
type Repository interface {
	Create(ctx context.Context, g *Gallery) error
	GetByID(ctx context.Context, id uuid.UUID) (*Gallery, error)
	GetByGuildAndSlug(ctx context.Context, guildID, slug string) (*Gallery, error)
	ListByGuild(ctx context.Context, guildID string) ([]*Gallery, error)
	Update(ctx context.Context, g *Gallery) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GuildRepository defines data access for the Guild registry: the
// relational record of which guildIds the backend has seen (spec
// GLOSSARY's organizational tenant), distinct from the MetaStore-backed
// guild settings blob.
type GuildRepository interface {
	EnsureGuild(ctx context.Context, guildID string) (*Guild, error)
	GetByGuildID(ctx context.Context, guildID string) (*Guild, error)
}

// ErrGalleryNotFound is returned when a lookup finds no matching row.
var ErrGalleryNotFound = newNotFoundError("gallery not found")

// ErrGuildNotFound is returned when a guild lookup finds no matching row.
var ErrGuildNotFound = newNotFoundError("guild not found")

type notFoundError struct{ message string }

func (e *notFoundError) Error() string { return e.message }

func newNotFoundError(message string) error { return &notFoundError{message: message} }
