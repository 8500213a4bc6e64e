package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/julianstephens/photo-gallery-sub001/domain/gallery"
)

// GalleryGormRepository implements gallery.Repository using GORM.
type GalleryGormRepository struct {
	db *gorm.DB
}

func NewGalleryGormRepository(db *gorm.DB) gallery.Repository {
	return &GalleryGormRepository{db: db}
}

func (r *GalleryGormRepository) Create(ctx context.Context, g *gallery.Gallery) error {
	if err := GetDBOrTx(ctx, r.db).Create(g).Error; err != nil {
		return fmt.Errorf("failed to create gallery: %w", err)
	}
	return nil
}

func (r *GalleryGormRepository) GetByID(ctx context.Context, id uuid.UUID) (*gallery.Gallery, error) {
	var g gallery.Gallery
	if err := GetDBOrTx(ctx, r.db).Where("id = ?", id).First(&g).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, gallery.ErrGalleryNotFound
		}
		return nil, fmt.Errorf("failed to get gallery by ID: %w", err)
	}
	return &g, nil
}

func (r *GalleryGormRepository) GetByGuildAndSlug(ctx context.Context, guildID, slug string) (*gallery.Gallery, error) {
	var g gallery.Gallery
	if err := GetDBOrTx(ctx, r.db).
		Where("guild_id = ? AND slug = ?", guildID, slug).
		First(&g).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, gallery.ErrGalleryNotFound
		}
		return nil, fmt.Errorf("failed to get gallery by slug: %w", err)
	}
	return &g, nil
}

func (r *GalleryGormRepository) ListByGuild(ctx context.Context, guildID string) ([]*gallery.Gallery, error) {
	var galleries []*gallery.Gallery
	if err := GetDBOrTx(ctx, r.db).
		Where("guild_id = ?", guildID).
		Order("name ASC").
		Find(&galleries).Error; err != nil {
		return nil, fmt.Errorf("failed to list galleries: %w", err)
	}
	return galleries, nil
}

func (r *GalleryGormRepository) Update(ctx context.Context, g *gallery.Gallery) error {
	if err := GetDBOrTx(ctx, r.db).Save(g).Error; err != nil {
		return fmt.Errorf("failed to update gallery: %w", err)
	}
	return nil
}

func (r *GalleryGormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := GetDBOrTx(ctx, r.db).Where("id = ?", id).Delete(&gallery.Gallery{}).Error; err != nil {
		return fmt.Errorf("failed to delete gallery: %w", err)
	}
	return nil
}
