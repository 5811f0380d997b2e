// Package permissions provides the JSON api handler exposing the compiled
// permission snapshot of the session user.
package permissions

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/authz"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web/handler"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web/session"
)

// Path is the path of the permissions api endpoint.
const Path = handler.APIRootPath + "/permissions"

// Service is the permissions api handler service.
type Service struct {
	handler.Service
	authz *authz.Service
}

// Handler is the permissions api handler.
var Handler = Service{}

// Init initializes the permissions api handler.
func (s *Service) Init(deps *handler.Deps) error {
	if !deps.Valid() || deps.Authz == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return nil
	}

	s.authz = deps.Authz

	deps.App.Get(Path, s.Get)

	return nil
}

// Get returns the allow and deny sets of the session user in the active
// organization, as compiled. Clients use this to toggle UI affordances,
// the server side checks stay authoritative.
func (s *Service) Get(c *fiber.Ctx) error {
	sessData, ok := session.FromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	snap, err := s.authz.Snapshot(c.Context(), sessData.User.ID, sessData.ActiveOrgID)
	if err != nil {
		log.Error().Err(err).Uint64("user", sessData.User.ID).Msg("failed to load permission snapshot")

		return fiber.ErrInternalServerError
	}

	return c.JSON(fiber.Map{
		"organizationId": sessData.ActiveOrgID,
		"allow":          snap.AllowList(),
		"deny":           snap.DenyList(),
	})
}
