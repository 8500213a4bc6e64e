package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/julianstephens/photo-gallery-sub001/domain/gallery"
)

// GuildGormRepository implements gallery.GuildRepository using GORM.
type GuildGormRepository struct {
	db *gorm.DB
}

func NewGuildGormRepository(db *gorm.DB) gallery.GuildRepository {
	return &GuildGormRepository{db: db}
}

// EnsureGuild returns the Guild row for guildID, creating a bare one on
// first sight. Known guilds otherwise come from the external OAuth
// collaborator, which this backend never queries directly.
func (r *GuildGormRepository) EnsureGuild(ctx context.Context, guildID string) (*gallery.Guild, error) {
	db := GetDBOrTx(ctx, r.db)

	var g gallery.Guild
	err := db.Where("guild_id = ?", guildID).First(&g).Error
	if err == nil {
		return &g, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to look up guild: %w", err)
	}

	g = gallery.Guild{GuildID: guildID, Name: guildID}
	if err := db.Create(&g).Error; err != nil {
		return nil, fmt.Errorf("failed to create guild: %w", err)
	}
	return &g, nil
}

func (r *GuildGormRepository) GetByGuildID(ctx context.Context, guildID string) (*gallery.Guild, error) {
	var g gallery.Guild
	if err := GetDBOrTx(ctx, r.db).Where("guild_id = ?", guildID).First(&g).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, gallery.ErrGuildNotFound
		}
		return nil, fmt.Errorf("failed to get guild: %w", err)
	}
	return &g, nil
}
