package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateGalleryRequest is the body of POST /galleries.
type CreateGalleryRequest struct {
	GuildID string `json:"guildId" validate:"required"`
	Name    string `json:"name" validate:"required,min=1,max=255"`
}

// GalleryDetail represents a Gallery in responses.
type GalleryDetail struct {
	ID        uuid.UUID `json:"id"`
	GuildID   string    `json:"guildId"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ItemCount int64     `json:"itemCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
