package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/authz"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web/handler/login"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web/session"
)

// Middleware is a Fiber middleware that checks for user authentication.
func Middleware(c *fiber.Ctx) error {
	var (
		isLoginPage   = IsLoginPage(c)
		isLogoutPage  = IsLogoutPage(c)
		sessDataValid bool
	)

	originalURL := strings.ToLower(c.OriginalURL())
	if strings.HasPrefix(originalURL, "/static") {
		return c.Next()
	}

	// Allow logout page without authentication
	if isLogoutPage {
		return c.Next()
	}

	// get session cookie
	loginCookie := c.Cookies("session")

	// if no session cookie, redirect to login page
	if loginCookie == "" && !isLoginPage {
		return deny(c)
	}

	// check session validity
	sessData := new(session.Data)
	if err := sessData.Read(loginCookie); err != nil {
		// If we're already on the login page, don't redirect (would cause loop)
		if isLoginPage {
			return c.Next()
		}

		return deny(c)
	}

	// valid data in session
	if sessData.User.ID > 0 {
		sessDataValid = true
		// Add the current user and session to locals for handler and template access
		c.Locals("CurrentUser", sessData.User)
		c.Locals(session.LocalsKey, sessData)
	}

	if sessDataValid && isLoginPage {
		return c.Redirect("/dashboard")
	}

	return c.Next()
}

// RequirePermission returns a middleware that allows the request only if the
// session user holds the given permission in the active organization.
// Requests without a valid session or without the permission are rejected.
func RequirePermission(svc *authz.Service, slug string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessData, ok := session.FromCtx(c)
		if !ok {
			return deny(c)
		}

		allowed, err := svc.HasPermission(c.Context(), sessData.User.ID, sessData.ActiveOrgID, slug)
		if err != nil {
			log.Error().Err(err).Uint64("user", sessData.User.ID).Msg("permission lookup failed")

			return fiber.ErrInternalServerError
		}

		if !allowed {
			return fiber.ErrForbidden
		}

		return c.Next()
	}
}

// RequireAnyPermission returns a middleware that allows the request if the
// session user holds at least one of the given permissions.
func RequireAnyPermission(svc *authz.Service, slugs ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessData, ok := session.FromCtx(c)
		if !ok {
			return deny(c)
		}

		snap, err := svc.Snapshot(c.Context(), sessData.User.ID, sessData.ActiveOrgID)
		if err != nil {
			log.Error().Err(err).Uint64("user", sessData.User.ID).Msg("permission lookup failed")

			return fiber.ErrInternalServerError
		}

		if !snap.HasAny(slugs...) {
			return fiber.ErrForbidden
		}

		return c.Next()
	}
}

// deny rejects an unauthenticated request. API calls get a plain 401,
// browser requests are redirected to the login page.
func deny(c *fiber.Ctx) error {
	if IsAPIRequest(c) {
		return fiber.ErrUnauthorized
	}

	return c.Redirect(login.Path)
}

// IsAPIRequest checks if the current request targets the JSON api.
func IsAPIRequest(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.OriginalURL()), "/api")
}

// IsLoginPage checks if the current request is for the login page.
func IsLoginPage(c *fiber.Ctx) bool {
	originalURL := strings.ToLower(c.OriginalURL())
	return strings.HasPrefix(originalURL, login.Path)
}

// IsLogoutPage checks if the current request is for the logout page.
func IsLogoutPage(c *fiber.Ctx) bool {
	originalURL := strings.ToLower(c.OriginalURL())
	return strings.HasPrefix(originalURL, "/logout")
}
