package request

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/photo-gallery-sub001/domain/authz"
	"github.com/julianstephens/photo-gallery-sub001/domain/common"
	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/apperrors"
)

// Service implements the UserRequest/Comment workflow: CRUD plus the status
// machine and capability checks from spec §4.7.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create opens a new request in the open status, gated by
// canCreateRequest(ctx, guildId).
func (s *Service) Create(ctx context.Context, actx authz.AuthContext, guildID, title, description string, galleryID *uuid.UUID) (*UserRequest, error) {
	if err := authz.RequireCreateRequest(actx, guildID); err != nil {
		return nil, err
	}
	r := &UserRequest{
		GuildID:     guildID,
		UserID:      actx.UserID,
		Title:       title,
		Description: description,
		GalleryID:   galleryID,
		Status:      StatusOpen,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, apperrors.InternalError("failed to create request", err)
	}
	return r, nil
}

// Get fetches a single request, gated by canViewRequest.
func (s *Service) Get(ctx context.Context, actx authz.AuthContext, id uuid.UUID) (*UserRequest, error) {
	r, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireViewRequest(actx, r, id.String()); err != nil {
		return nil, err
	}
	return r, nil
}

// Cancel transitions a request to cancelled, gated by canCancelRequest.
func (s *Service) Cancel(ctx context.Context, actx authz.AuthContext, id uuid.UUID) (*UserRequest, error) {
	r, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireCancelRequest(actx, r, id.String()); err != nil {
		return nil, err
	}
	return s.transition(ctx, r, authz.ActionCancel, actx.UserID)
}

// ChangeStatus drives the status machine (approve/deny/close), gated by
// canChangeRequestStatus (superAdmin only).
func (s *Service) ChangeStatus(ctx context.Context, actx authz.AuthContext, id uuid.UUID, action authz.RequestAction) (*UserRequest, error) {
	r, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireChangeRequestStatus(actx, r, id.String()); err != nil {
		return nil, err
	}
	return s.transition(ctx, r, action, actx.UserID)
}

func (s *Service) transition(ctx context.Context, r *UserRequest, action authz.RequestAction, actorID string) (*UserRequest, error) {
	target, err := authz.ValidateTransition(authz.RequestStatus(r.Status), action)
	if err != nil {
		return nil, err
	}
	r.Status = Status(target)
	r.UpdatedAt = time.Now()
	if target == authz.RequestClosed {
		now := time.Now()
		r.ClosedAt = &now
		r.ClosedBy = &actorID
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, apperrors.InternalError("failed to update request", err)
	}
	return r, nil
}

// Delete removes a request, gated by canDeleteRequest (superAdmin only).
func (s *Service) Delete(ctx context.Context, actx authz.AuthContext, id uuid.UUID) error {
	r, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.RequireDeleteRequest(actx, r, id.String()); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.InternalError("failed to delete request", err)
	}
	return nil
}

// List returns a page of requests, gated by canListRequests (admin only).
func (s *Service) List(ctx context.Context, actx authz.AuthContext, filters ListFilters) (*common.PaginatedResult, error) {
	if err := authz.RequireListRequests(actx); err != nil {
		return nil, err
	}
	pagination := common.PaginationParams{Page: filters.Page, Limit: filters.Limit}
	pagination.Validate()
	filters.Page, filters.Limit = pagination.Page, pagination.Limit

	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.InternalError("failed to list requests", err)
	}
	return &common.PaginatedResult{Page: pagination.Page, Limit: pagination.Limit, Total: total, Data: items}, nil
}

// AddComment appends a comment, gated by canCommentOnRequest (viewer AND
// request still open).
func (s *Service) AddComment(ctx context.Context, actx authz.AuthContext, requestID uuid.UUID, content string) (*Comment, error) {
	r, err := s.fetch(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireCommentOnRequest(actx, r, requestID.String()); err != nil {
		return nil, err
	}
	c := &Comment{RequestID: requestID, UserID: actx.UserID, Content: content}
	if err := s.repo.AddComment(ctx, c); err != nil {
		return nil, apperrors.InternalError("failed to add comment", err)
	}
	return c, nil
}

// ListComments returns a request's comments, gated by canViewRequest.
func (s *Service) ListComments(ctx context.Context, actx authz.AuthContext, requestID uuid.UUID) ([]*Comment, error) {
	r, err := s.fetch(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireViewRequest(actx, r, requestID.String()); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, requestID)
}

func (s *Service) fetch(ctx context.Context, id uuid.UUID) (*UserRequest, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == ErrRequestNotFound {
			return nil, apperrors.NotFound("request not found")
		}
		return nil, apperrors.InternalError("failed to load request", err)
	}
	return r, nil
}
