package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/julianstephens/photo-gallery-sub001/domain/authz"
	"github.com/julianstephens/photo-gallery-sub001/domain/gallery"
	"github.com/julianstephens/photo-gallery-sub001/internal/api/dto"
	"github.com/julianstephens/photo-gallery-sub001/internal/api/middleware"
	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/apperrors"
)

// GalleryHandler implements the gallery CRUD / listing HTTP surface of
// spec §6.
type GalleryHandler struct {
	svc *gallery.Service
}

func NewGalleryHandler(svc *gallery.Service) *GalleryHandler {
	return &GalleryHandler{svc: svc}
}

// Create handles POST /galleries. Admins of the guild only.
func (h *GalleryHandler) Create(c *fiber.Ctx) error {
	actx := middleware.AuthContextFromFiber(c)

	var req dto.CreateGalleryRequest
	if err := c.BodyParser(&req); err != nil || req.GuildID == "" || req.Name == "" {
		return middleware.RespondError(c, apperrors.InvalidInput("guildId and name are required"))
	}
	if err := authz.RequiresGuildMembership(actx, req.GuildID); err != nil || !actx.IsAdmin {
		return middleware.RespondError(c, apperrors.AuthorizationDenied("you do not have permission to create galleries for this guild"))
	}

	g, err := h.svc.Create(c.Context(), req.GuildID, req.Name)
	if err != nil {
		return middleware.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{Success: true, Data: toGalleryDetail(g)})
}

// Get handles GET /galleries/:id.
func (h *GalleryHandler) Get(c *fiber.Ctx) error {
	actx := middleware.AuthContextFromFiber(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.RespondError(c, apperrors.InvalidInput("invalid gallery id"))
	}

	g, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return middleware.RespondError(c, err)
	}
	if err := authz.RequiresGuildMembership(actx, g.GuildID); err != nil {
		return middleware.RespondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{Success: true, Data: toGalleryDetail(g)})
}

// ListByGuild handles GET /guilds/:guildId/galleries.
func (h *GalleryHandler) ListByGuild(c *fiber.Ctx) error {
	actx := middleware.AuthContextFromFiber(c)

	guildID := c.Params("guildId")
	if err := authz.RequiresGuildMembership(actx, guildID); err != nil {
		return middleware.RespondError(c, err)
	}

	galleries, err := h.svc.ListByGuild(c.Context(), guildID)
	if err != nil {
		return middleware.RespondError(c, err)
	}

	details := make([]dto.GalleryDetail, 0, len(galleries))
	for _, g := range galleries {
		details = append(details, toGalleryDetail(g))
	}

	return c.JSON(dto.SuccessResponse{Success: true, Data: details})
}

// Delete handles DELETE /galleries/:id. Admins of the guild only.
func (h *GalleryHandler) Delete(c *fiber.Ctx) error {
	actx := middleware.AuthContextFromFiber(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.RespondError(c, apperrors.InvalidInput("invalid gallery id"))
	}

	g, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return middleware.RespondError(c, err)
	}
	if err := authz.RequiresGuildMembership(actx, g.GuildID); err != nil || !actx.IsAdmin {
		return middleware.RespondError(c, apperrors.AuthorizationDenied("you do not have permission to delete this gallery"))
	}

	if err := h.svc.Delete(c.Context(), id); err != nil {
		return middleware.RespondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{Success: true, Message: "gallery deleted"})
}

func toGalleryDetail(g *gallery.Gallery) dto.GalleryDetail {
	return dto.GalleryDetail{
		ID:        g.ID,
		GuildID:   g.GuildID,
		Name:      g.Name,
		Slug:      g.Slug,
		ItemCount: g.ItemCount,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}
