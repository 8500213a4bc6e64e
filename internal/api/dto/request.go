package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateRequestRequest is the body of POST /requests.
type CreateRequestRequest struct {
	GuildID     string     `json:"guildId" validate:"required"`
	Title       string     `json:"title" validate:"required,min=1,max=255"`
	Description string     `json:"description,omitempty"`
	GalleryID   *uuid.UUID `json:"galleryId,omitempty"`
}

// ChangeRequestStatusRequest is the body of POST /requests/:id/status.
type ChangeRequestStatusRequest struct {
	Action string `json:"action" validate:"required,oneof=cancel approve deny close"`
}

// AddCommentRequest is the body of POST /requests/:id/comments.
type AddCommentRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

// RequestDetail represents a UserRequest in responses.
type RequestDetail struct {
	ID          uuid.UUID  `json:"id"`
	GuildID     string     `json:"guildId"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	GalleryID   *uuid.UUID `json:"galleryId,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	ClosedAt    *time.Time `json:"closedAt,omitempty"`
	ClosedBy    *string    `json:"closedBy,omitempty"`
}

// CommentDetail represents a Comment in responses.
type CommentDetail struct {
	ID        uuid.UUID `json:"id"`
	RequestID uuid.UUID `json:"requestId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListRequestsQuery captures the querystring for GET /requests.
type ListRequestsQuery struct {
	GuildID string `query:"guildId"`
	Status  string `query:"status"`
	Page    int    `query:"page"`
	Limit   int    `query:"limit"`
}
