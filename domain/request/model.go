package request

import (
	"time"

	"github.com/google/uuid"
)

// Status is a UserRequest lifecycle state (spec §3/§4.7).
type Status string

const (
	StatusOpen      Status = "open"
	StatusApproved  Status = "approved"
	StatusDenied    Status = "denied"
	StatusCancelled Status = "cancelled"
	StatusClosed    Status = "closed"
)

// UserRequest is a user-initiated workflow item, distinct from an HTTP
// request: a guild member asks for something (e.g. a new gallery) and an
// admin/superAdmin approves, denies, or closes it.
type UserRequest struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	GuildID     string     `gorm:"type:varchar(64);not null;index"`
	UserID      string     `gorm:"type:varchar(64);not null;index"`
	Title       string     `gorm:"type:varchar(255);not null"`
	Description string     `gorm:"type:text"`
	GalleryID   *uuid.UUID `gorm:"type:uuid;index"`
	Status      Status     `gorm:"type:varchar(16);not null;default:'open';index"`
	CreatedAt   time.Time  `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time  `gorm:"default:CURRENT_TIMESTAMP"`
	ClosedAt    *time.Time
	ClosedBy    *string `gorm:"type:varchar(64)"`
}

// TableName specifies the table name for GORM.
func (UserRequest) TableName() string {
	return "user_requests"
}

// OwnerID, RequestGuildID, StatusString satisfy authz.RequestView without
// this package importing authz.
func (r *UserRequest) OwnerID() string        { return r.UserID }
func (r *UserRequest) RequestGuildID() string { return r.GuildID }
func (r *UserRequest) StatusString() string   { return string(r.Status) }

// Comment is a remark attached to a UserRequest. New comments are accepted
// only while the request is open (spec §4.7 canCommentOnRequest); existing
// comments stay readable by anyone who can view the request.
type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	RequestID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    string    `gorm:"type:varchar(64);not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for GORM.
func (Comment) TableName() string {
	return "request_comments"
}
