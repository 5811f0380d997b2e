// Package sidebar provides the JSON api handler returning the resolved
// navigation tree for the session user.
package sidebar

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/authz"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web/handler"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web/navigation"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web/session"
)

// Path is the path of the sidebar api endpoint.
const Path = handler.APIRootPath + "/sidebar"

// Service is the sidebar api handler service.
type Service struct {
	handler.Service
	authz *authz.Service
}

// Handler is the sidebar api handler.
var Handler = Service{}

// Init initializes the sidebar api handler.
func (s *Service) Init(deps *handler.Deps) error {
	if !deps.Valid() || deps.Authz == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return nil
	}

	s.authz = deps.Authz

	deps.App.Get(Path, s.Get)

	return nil
}

// Get returns the navigation tree filtered down to what the session user is
// entitled to see in the active organization. Visibility rules themselves
// are never part of the response.
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

	ent, err := s.authz.Entitlements(c.Context(), sessData.ActiveOrgID)
	if err != nil {
		log.Error().Err(err).Uint("org", sessData.ActiveOrgID).Msg("failed to load entitlements")

		return fiber.ErrInternalServerError
	}

	nav := navigation.Resolve(navigation.Default(), snap, ent, navigation.Context{
		ActiveOrgID:    sessData.ActiveOrgID,
		ActiveBranchID: sessData.ActiveBranchID,
	})

	return c.JSON(nav)
}
