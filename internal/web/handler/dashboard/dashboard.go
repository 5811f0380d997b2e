// Package dashboard provides the handler for the main application page.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/authz"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/config"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web/handler"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web/navigation"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web/session"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"
)

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg   *config.Config
	db    *gorm.DB
	authz *authz.Service
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(deps *handler.Deps) error {
	if !deps.Valid() || deps.Authz == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return nil
	}

	s.db = deps.DB
	s.cfg = deps.Cfg
	s.authz = deps.Authz

	deps.App.Get(Path, s.Get)

	return nil
}

// Get handles the dashboard page rendering. The sidebar is resolved per
// request from the compiled permission snapshot, so a recompile shows up
// on the next page load without any server restart.
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

	return c.Render(TemplateName, fiber.Map{
		"Title":   s.cfg.Title,
		"User":    sessData.User,
		"Sidebar": nav,
	}, handler.BaseLayout)
}
