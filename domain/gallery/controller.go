package gallery

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/apperrors"
)

// Controller resolves gallery names to storage-key slugs and looks up
// galleries by either form, per spec.md §9 open question 1: storage keys
// always use the slug; lookup from a raw name iterates known galleries and
// compares slugs.
type Controller struct {
	repo      Repository
	guildRepo GuildRepository
	resolving singleflight.Group
}

func NewController(repo Repository, guildRepo GuildRepository) *Controller {
	return &Controller{repo: repo, guildRepo: guildRepo}
}

// DeriveSlug normalizes a gallery name into its storage-key slug: lowercase,
// non-alphanumerics collapsed to "-", trimmed, or "gallery" if empty
// (spec §6 object store key layout).
func DeriveSlug(name string) string {
	lower := strings.ToLower(name)
	var b strings.Builder
	lastDash := false
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "gallery"
	}
	return slug
}

// ResolveSlug implements upload.GalleryResolver: it derives the slug for
// (guildId, galleryName) and ensures a Gallery row exists for it, creating
// one on first use. Concurrent finalize calls for a brand-new gallery name
// collapse onto a single create via singleflight, keyed by (guildId, slug),
// rather than racing each other through the check-then-create below.
func (c *Controller) ResolveSlug(ctx context.Context, guildID, galleryName string) (string, error) {
	slug := DeriveSlug(galleryName)
	key := fmt.Sprintf("%s/%s", guildID, slug)

	v, err, _ := c.resolving.Do(key, func() (interface{}, error) {
		if _, err := c.guildRepo.EnsureGuild(ctx, guildID); err != nil {
			return nil, apperrors.InternalError("failed to ensure guild", err)
		}

		existing, err := c.repo.GetByGuildAndSlug(ctx, guildID, slug)
		if err == nil {
			return existing.Slug, nil
		}
		if err != ErrGalleryNotFound {
			return nil, apperrors.InternalError("failed to resolve gallery", err)
		}

		g := &Gallery{GuildID: guildID, Name: galleryName, Slug: slug}
		if createErr := c.repo.Create(ctx, g); createErr != nil {
			return nil, apperrors.InternalError("failed to create gallery", createErr)
		}
		return g.Slug, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// ResolveBySlugOrName looks a gallery up first as an exact slug match, then
// falls back to iterating the guild's known galleries and comparing derived
// slugs, per the fixed open-question rule.
func (c *Controller) ResolveBySlugOrName(ctx context.Context, guildID, slugOrName string) (*Gallery, error) {
	g, err := c.repo.GetByGuildAndSlug(ctx, guildID, slugOrName)
	if err == nil {
		return g, nil
	}
	if err != ErrGalleryNotFound {
		return nil, apperrors.InternalError("failed to look up gallery", err)
	}

	candidate := DeriveSlug(slugOrName)
	galleries, err := c.repo.ListByGuild(ctx, guildID)
	if err != nil {
		return nil, apperrors.InternalError("failed to list galleries", err)
	}
	for _, gal := range galleries {
		if gal.Slug == candidate {
			return gal, nil
		}
	}
	return nil, apperrors.NotFound("gallery not found")
}
