package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/photo-gallery-sub001/internal/api/dto"
	"github.com/julianstephens/photo-gallery-sub001/internal/api/middleware"
)

// AuthHandler exposes the session-introspection surface, grounded on the
// teacher's AuthHandler.GetProfile.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actx := middleware.AuthContextFromFiber(c)

	guilds := make([]string, 0, len(actx.GuildIDs))
	for g := range actx.GuildIDs {
		guilds = append(guilds, g)
	}

	username, _ := c.Locals("username").(string)

	return c.JSON(dto.SuccessResponse{Success: true, Data: dto.MeResponse{
		ID:       actx.UserID,
		Username: username,
		IsAdmin:  actx.IsAdmin,
		Guilds:   guilds,
	}})
}
