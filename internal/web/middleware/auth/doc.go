// Package auth provides authentication and authorization middleware for the
// web application.
//
// Middleware handles session validation. It reads the session cookie, loads
// the stored session data and puts the current user and the active
// organization context into fiber.Locals. Unauthenticated browser requests
// are redirected to the login page, api requests receive a 401.
//
// RequirePermission and RequireAnyPermission guard single routes. They check
// the compiled permission snapshot of the session user for the active
// organization and reject with a 403 when the permission is missing. The
// checks read compiled facts only, no role hierarchy is evaluated at
// request time.
//
// Usage:
//
//	app.Use(authmiddleware.Middleware)
//	app.Get("/api/roles", authmiddleware.RequirePermission(svc, authz.PermRolesView), listRoles)
package auth
