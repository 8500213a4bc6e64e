package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/photo-gallery-sub001/domain/authz"
	"github.com/julianstephens/photo-gallery-sub001/domain/gallery"
	"github.com/julianstephens/photo-gallery-sub001/internal/api/middleware"
	"github.com/julianstephens/photo-gallery-sub001/internal/infra/objectstore"
	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/apperrors"
	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/security"
)

// MediaHandler streams a stored object back to the caller given its public
// URL shape GET /{galleryName}/{yyyy-mm-dd}/{fileName}, grounded on the
// teacher's file-serving handlers but reading through ObjectStore instead of
// local disk.
type MediaHandler struct {
	objects    objectstore.ObjectStore
	galleries  *gallery.Controller
}

func NewMediaHandler(objects objectstore.ObjectStore, galleries *gallery.Controller) *MediaHandler {
	return &MediaHandler{objects: objects, galleries: galleries}
}

// Stream handles GET /:galleryName/:date/*.
func (h *MediaHandler) Stream(c *fiber.Ctx) error {
	actx := middleware.AuthContextFromFiber(c)

	galleryName := c.Params("galleryName")
	date := c.Params("date")
	fileName := c.Params("*")
	if galleryName == "" || date == "" || fileName == "" {
		return middleware.RespondError(c, apperrors.InvalidInput("gallery name, date, and file name are required"))
	}

	g, err := h.galleries.ResolveBySlugOrName(c.Context(), c.Query("guildId"), galleryName)
	if err != nil {
		return middleware.RespondError(c, err)
	}
	if err := authz.RequiresGuildMembership(actx, g.GuildID); err != nil {
		return middleware.RespondError(c, err)
	}

	storageKey := fmt.Sprintf("%s/uploads/%s/%s", g.Slug, date, fileName)

	body, contentType, size, err := h.objects.Get(c.Context(), storageKey)
	if err != nil {
		return middleware.RespondError(c, err)
	}
	defer body.Close()

	if contentType == "" {
		contentType = security.GetContentType(fileName)
	}
	c.Set(fiber.HeaderContentType, contentType)
	if size > 0 {
		c.Set(fiber.HeaderContentLength, fmt.Sprintf("%d", size))
	}
	return c.SendStream(body)
}
