package auth

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/openlibrarian/openlibrarian/pkg/errcodes"
	"github.com/openlibrarian/openlibrarian/pkg/models"
)

// Keys under which user data is stored on the echo context.
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
	ContextKeyUser     = "user"
)

// LoginPath is where unauthenticated callers are redirected to.
const LoginPath = "/auth/login"

// Middleware provides authentication middleware.
type Middleware struct {
	authService *Service
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(authService *Service) *Middleware {
	return &Middleware{
		authService: authService,
	}
}

// Authenticate extracts and validates the JWT from the cookie. If valid, it
// verifies the user is still active and adds user info to the context. An
// unauthenticated caller is redirected to the login page with the original
// path in the `next` query parameter, matching classic web-app behavior.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		cookie, err := c.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			return redirectToLogin(c)
		}

		claims, err := m.authService.ValidateToken(cookie.Value)
		if err != nil {
			return redirectToLogin(c)
		}

		// Verify user still exists and is active
		user, err := m.authService.GetUserByID(ctx, claims.UserID)
		if err != nil {
			return redirectToLogin(c)
		}

		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeyUsername, user.Username)
		c.Set(ContextKeyUser, user)

		return next(c)
	}
}

// AuthenticateOptional extracts user info if available but doesn't require
// authentication. If a valid token is present, it verifies the user is still
// active.
func (m *Middleware) AuthenticateOptional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		cookie, err := c.Cookie(CookieName)
		if err == nil && cookie.Value != "" {
			claims, err := m.authService.ValidateToken(cookie.Value)
			if err == nil {
				user, err := m.authService.GetUserByID(ctx, claims.UserID)
				if err == nil {
					c.Set(ContextKeyUserID, user.ID)
					c.Set(ContextKeyUsername, user.Username)
					c.Set(ContextKeyUser, user)
				}
			}
		}
		return next(c)
	}
}

// RequirePermission returns middleware that checks if the user holds the
// given capability. Must be used after Authenticate middleware. An
// authenticated user without the capability gets a 403.
func (m *Middleware) RequirePermission(resource, operation string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(ContextKeyUser).(*models.User)
			if !ok {
				return redirectToLogin(c)
			}

			if !user.HasPermission(resource, operation) {
				return errcodes.Forbidden("Performing " + resource + ":" + operation)
			}

			return next(c)
		}
	}
}

func redirectToLogin(c echo.Context) error {
	next := c.Request().URL.Path
	return c.Redirect(http.StatusFound, LoginPath+"?next="+url.QueryEscape(next))
}

// UserFromContext retrieves the authenticated user from the echo context, or
// nil when the request is anonymous.
func UserFromContext(c echo.Context) *models.User {
	user, _ := c.Get(ContextKeyUser).(*models.User)
	return user
}
