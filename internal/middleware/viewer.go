package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"parts-service/internal/model"
	"parts-service/pkg/jwtutil"
	"parts-service/pkg/logger"
)

const viewerKey = "viewer"

// ViewerMiddleware resolves the caller into a Viewer value for pricing and
// authorization. A missing or invalid bearer token degrades to the guest
// viewer instead of failing: read paths are open to everyone. The admin
// view (unmodified wholesale prices) must be requested explicitly via the
// admin_view query parameter and only takes effect for privileged viewers.
func ViewerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		viewer := model.Guest()

		authHeader := c.Request().Header.Get("Authorization")
		if parts := strings.Split(authHeader, " "); len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			claims, err := jwtutil.ValidateToken(parts[1])
			if err != nil {
				logger.FromContext(c).Warn("invalid bearer token, treating as guest", zap.Error(err))
			} else {
				viewer = model.Viewer{
					UserID:        claims.UserID,
					Role:          model.ViewerRole(claims.Role),
					MarkupPercent: claims.MarkupPercent,
				}
				switch viewer.Role {
				case model.RoleCustomer, model.RolePrivileged:
				default:
					viewer.Role = model.RoleGuest
				}
			}
		}

		if viewer.IsPrivileged() {
			if adminView, err := strconv.ParseBool(c.QueryParam("admin_view")); err == nil {
				viewer.AdminView = adminView
			}
		}

		c.Set(viewerKey, viewer)
		return next(c)
	}
}

// RequirePrivileged rejects callers that are not privileged moderators.
func RequirePrivileged(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		viewer := ViewerFromContext(c)
		if !viewer.IsPrivileged() {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "moderator role required"})
		}
		return next(c)
	}
}

// RequireAuthenticated rejects anonymous callers.
func RequireAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		viewer := ViewerFromContext(c)
		if viewer.Role == model.RoleGuest {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}
		return next(c)
	}
}

// ViewerFromContext retrieves the viewer resolved by ViewerMiddleware,
// defaulting to guest.
func ViewerFromContext(c echo.Context) model.Viewer {
	if v, ok := c.Get(viewerKey).(model.Viewer); ok {
		return v
	}
	return model.Guest()
}
