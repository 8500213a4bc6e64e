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

	"github.com/julianstephens/photo-gallery-sub001/domain/request"
)

func setupRequestTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&request.UserRequest{}, &request.Comment{}))
	return db
}

func TestRequestGormRepository_CreateAndGet(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := NewRequestGormRepository(db)

	ur := &request.UserRequest{ID: uuid.New(), GuildID: "g1", UserID: "u1", Title: "New gallery", Status: request.StatusOpen}
	require.NoError(t, repo.Create(context.Background(), ur))

	got, err := repo.GetByID(context.Background(), ur.ID)
	require.NoError(t, err)
	assert.Equal(t, "New gallery", got.Title)
	assert.Equal(t, request.StatusOpen, got.Status)
}

func TestRequestGormRepository_GetByID_NotFound(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := NewRequestGormRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, request.ErrRequestNotFound)
}

func TestRequestGormRepository_List_FiltersByGuildAndStatus(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := NewRequestGormRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &request.UserRequest{ID: uuid.New(), GuildID: "g1", UserID: "u1", Title: "a", Status: request.StatusOpen}))
	require.NoError(t, repo.Create(ctx, &request.UserRequest{ID: uuid.New(), GuildID: "g1", UserID: "u2", Title: "b", Status: request.StatusApproved}))
	require.NoError(t, repo.Create(ctx, &request.UserRequest{ID: uuid.New(), GuildID: "g2", UserID: "u3", Title: "c", Status: request.StatusOpen}))

	results, total, err := repo.List(ctx, request.ListFilters{GuildID: "g1", Status: request.StatusOpen, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Title)
}

func TestRequestGormRepository_AddAndListComments(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := NewRequestGormRepository(db)
	ctx := context.Background()

	ur := &request.UserRequest{ID: uuid.New(), GuildID: "g1", UserID: "u1", Title: "a", Status: request.StatusOpen}
	require.NoError(t, repo.Create(ctx, ur))

	require.NoError(t, repo.AddComment(ctx, &request.Comment{ID: uuid.New(), RequestID: ur.ID, UserID: "u1", Content: "first"}))
	require.NoError(t, repo.AddComment(ctx, &request.Comment{ID: uuid.New(), RequestID: ur.ID, UserID: "u2", Content: "second"}))

	comments, err := repo.ListComments(ctx, ur.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)
}

func TestRequestGormRepository_Delete(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := NewRequestGormRepository(db)
	ctx := context.Background()

	ur := &request.UserRequest{ID: uuid.New(), GuildID: "g1", UserID: "u1", Title: "a", Status: request.StatusOpen}
	require.NoError(t, repo.Create(ctx, ur))
	require.NoError(t, repo.Delete(ctx, ur.ID))

	_, err := repo.GetByID(ctx, ur.ID)
	assert.ErrorIs(t, err, request.ErrRequestNotFound)
}
