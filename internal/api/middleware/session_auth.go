package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/photo-gallery-sub001/domain/authz"
	"github.com/julianstephens/photo-gallery-sub001/internal/config"
	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/apperrors"
	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/logger"
	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/util"
)

const authContextLocalsKey = "auth_context"

// SessionAuthMiddleware decodes the upstream OAuth collaborator's session
// assertion (a JWT, per spec §3) into an authz.AuthContext and stores it in
// fiber.Locals for handlers to read via AuthContextFromFiber.
func SessionAuthMiddleware(cfg *config.Config, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return RespondError(c, apperrors.Unauthorized("missing authorization header"))
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return RespondError(c, apperrors.Unauthorized("invalid authorization header format"))
		}

		claims, err := util.ValidateJWT(parts[1], cfg.JWT.Secret)
		if err != nil {
			log.Warn().Err(err).Msg("invalid session assertion")
			return RespondError(c, apperrors.Unauthorized("invalid or expired session"))
		}

		guildIDs := make(map[string]struct{}, len(claims.GuildIDs))
		for _, g := range claims.GuildIDs {
			guildIDs[g] = struct{}{}
		}

		actx := authz.AuthContext{
			UserID:       claims.UserID,
			IsAdmin:      claims.IsAdmin,
			IsSuperAdmin: claims.IsSuperAdmin,
			GuildIDs:     guildIDs,
		}
		c.Locals(authContextLocalsKey, actx)
		c.Locals("user_id", claims.UserID)
		c.Locals("username", claims.Username)

		return c.Next()
	}
}

// AuthContextFromFiber reads the AuthContext SessionAuthMiddleware stored
// for this request. Callers must run the middleware first; a missing
// context is a programming error, not a request error.
func AuthContextFromFiber(c *fiber.Ctx) authz.AuthContext {
	actx, _ := c.Locals(authContextLocalsKey).(authz.AuthContext)
	return actx
}

// RespondError renders an apperrors.HTTPError (or an authz.AuthorizationError
// converted to one) as the app's standard JSON error envelope.
func RespondError(c *fiber.Ctx, err error) error {
	var httpErr *apperrors.HTTPError
	switch e := err.(type) {
	case *apperrors.HTTPError:
		httpErr = e
	case *authz.AuthorizationError:
		httpErr = e.HTTPError()
	default:
		httpErr = apperrors.InternalError("internal error", err)
	}

	return c.Status(httpErr.StatusCode).JSON(fiber.Map{
		"success": false,
		"error": fiber.Map{
			"code":    httpErr.Code,
			"message": httpErr.Message,
			"details": httpErr.Details,
		},
	})
}
