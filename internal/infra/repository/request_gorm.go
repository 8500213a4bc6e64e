package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/julianstephens/photo-gallery-sub001/domain/request"
)

// RequestGormRepository implements request.Repository using GORM.
type RequestGormRepository struct {
	db *gorm.DB
}

func NewRequestGormRepository(db *gorm.DB) request.Repository {
	return &RequestGormRepository{db: db}
}

func (r *RequestGormRepository) Create(ctx context.Context, ur *request.UserRequest) error {
	if err := GetDBOrTx(ctx, r.db).Create(ur).Error; err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

func (r *RequestGormRepository) GetByID(ctx context.Context, id uuid.UUID) (*request.UserRequest, error) {
	var ur request.UserRequest
	if err := GetDBOrTx(ctx, r.db).Where("id = ?", id).First(&ur).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, request.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get request by ID: %w", err)
	}
	return &ur, nil
}

func (r *RequestGormRepository) Update(ctx context.Context, ur *request.UserRequest) error {
	if err := GetDBOrTx(ctx, r.db).Save(ur).Error; err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}
	return nil
}

func (r *RequestGormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := GetDBOrTx(ctx, r.db).Where("id = ?", id).Delete(&request.UserRequest{}).Error; err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	return nil
}

func (r *RequestGormRepository) List(ctx context.Context, filters request.ListFilters) ([]*request.UserRequest, int64, error) {
	query := GetDBOrTx(ctx, r.db).Model(&request.UserRequest{})

	if filters.GuildID != "" {
		query = query.Where("guild_id = ?", filters.GuildID)
	}
	if filters.UserID != "" {
		query = query.Where("user_id = ?", filters.UserID)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count requests: %w", err)
	}

	page, limit := filters.Page, filters.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var requests []*request.UserRequest
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, total, nil
}

func (r *RequestGormRepository) AddComment(ctx context.Context, c *request.Comment) error {
	if err := GetDBOrTx(ctx, r.db).Create(c).Error; err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	return nil
}

func (r *RequestGormRepository) ListComments(ctx context.Context, requestID uuid.UUID) ([]*request.Comment, error) {
	var comments []*request.Comment
	if err := GetDBOrTx(ctx, r.db).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
