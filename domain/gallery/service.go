package gallery

import (
	"context"

	"github.com/google/uuid"

	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/apperrors"
)

// Service provides gallery CRUD for the admin-facing surface (spec §6
// "gallery CRUD, item listing" border surface).
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, guildID, name string) (*Gallery, error) {
	g := &Gallery{GuildID: guildID, Name: name, Slug: DeriveSlug(name)}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, apperrors.InternalError("failed to create gallery", err)
	}
	return g, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Gallery, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == ErrGalleryNotFound {
			return nil, apperrors.NotFound("gallery not found")
		}
		return nil, apperrors.InternalError("failed to load gallery", err)
	}
	return g, nil
}

func (s *Service) ListByGuild(ctx context.Context, guildID string) ([]*Gallery, error) {
	galleries, err := s.repo.ListByGuild(ctx, guildID)
	if err != nil {
		return nil, apperrors.InternalError("failed to list galleries", err)
	}
	return galleries, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.InternalError("failed to delete gallery", err)
	}
	return nil
}
