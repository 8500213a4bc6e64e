package gallery

import (
	"time"

	"github.com/google/uuid"
)

// Guild is an organizational tenant: a group of users sharing galleries and
// the unit of authorization scope (spec GLOSSARY).
type Guild struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	GuildID   string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name      string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for GORM.
func (Guild) TableName() string {
	return "guilds"
}

// Gallery is a named collection of stored objects within a guild
// (spec GLOSSARY). Slug is the normalized, filesystem-safe derivative of
// Name used as the first path segment of storage keys.
type Gallery struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	GuildID   string    `gorm:"type:varchar(64);not null;index"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Slug      string    `gorm:"type:varchar(255);not null;index"`
	ItemCount int64     `gorm:"default:0"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for GORM.
func (Gallery) TableName() string {
	return "galleries"
}
