package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/julianstephens/photo-gallery-sub001/domain/gallery"
)

func setupGalleryTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&gallery.Gallery{}, &gallery.Guild{}))
	return db
}

func TestGalleryGormRepository_CreateAndGetBySlug(t *testing.T) {
	db := setupGalleryTestDB(t)
	repo := NewGalleryGormRepository(db)
	ctx := context.Background()

	g := &gallery.Gallery{ID: uuid.New(), GuildID: "g1", Name: "Summer Trip", Slug: "summer-trip"}
	require.NoError(t, repo.Create(ctx, g))

	got, err := repo.GetByGuildAndSlug(ctx, "g1", "summer-trip")
	require.NoError(t, err)
	assert.Equal(t, "Summer Trip", got.Name)
}

func TestGalleryGormRepository_GetByGuildAndSlug_NotFound(t *testing.T) {
	db := setupGalleryTestDB(t)
	repo := NewGalleryGormRepository(db)

	_, err := repo.GetByGuildAndSlug(context.Background(), "g1", "missing")
	assert.ErrorIs(t, err, gallery.ErrGalleryNotFound)
}

func TestGalleryGormRepository_ListByGuild_OrdersByName(t *testing.T) {
	db := setupGalleryTestDB(t)
	repo := NewGalleryGormRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &gallery.Gallery{ID: uuid.New(), GuildID: "g1", Name: "Zebra", Slug: "zebra"}))
	require.NoError(t, repo.Create(ctx, &gallery.Gallery{ID: uuid.New(), GuildID: "g1", Name: "Apple", Slug: "apple"}))
	require.NoError(t, repo.Create(ctx, &gallery.Gallery{ID: uuid.New(), GuildID: "g2", Name: "Other guild", Slug: "other-guild"}))

	results, err := repo.ListByGuild(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Apple", results[0].Name)
	assert.Equal(t, "Zebra", results[1].Name)
}

func TestGalleryGormRepository_Delete(t *testing.T) {
	db := setupGalleryTestDB(t)
	repo := NewGalleryGormRepository(db)
	ctx := context.Background()

	g := &gallery.Gallery{ID: uuid.New(), GuildID: "g1", Name: "Summer Trip", Slug: "summer-trip"}
	require.NoError(t, repo.Create(ctx, g))
	require.NoError(t, repo.Delete(ctx, g.ID))

	_, err := repo.GetByID(ctx, g.ID)
	assert.ErrorIs(t, err, gallery.ErrGalleryNotFound)
}

func TestGuildGormRepository_EnsureGuild_IsIdempotent(t *testing.T) {
	db := setupGalleryTestDB(t)
	repo := NewGuildGormRepository(db)
	ctx := context.Background()

	first, err := repo.EnsureGuild(ctx, "g1")
	require.NoError(t, err)
	second, err := repo.EnsureGuild(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
