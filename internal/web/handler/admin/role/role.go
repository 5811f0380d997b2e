// Package role provides the admin api for managing roles and their
// permission sets.
package role

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/authz"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/authz/compiler"
	rolectl "github.com/Kinetic639/coreframe-boilerplate-sub007/internal/db/controller/role"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web/handler"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web/middleware/auth"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web/session"
)

const (
	// Path is the base path for role management.
	Path = handler.APIRootPath + "/admin/roles"

	// RouteByID targets a single role.
	RouteByID = Path + "/:id"
	// RoutePermissions targets the permission set of a single role.
	RoutePermissions = Path + "/:id/permissions"

	// ErrMsgInvalidID is returned when the id parameter is not a positive integer.
	ErrMsgInvalidID = "invalid role id"
	// ErrMsgValidation prefixes validation error messages.
	ErrMsgValidation = "validation failed: "
)

// createRequest is the body for creating a role.
type createRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=255"`
}

// permissionsRequest is the body for replacing a role's permission set.
type permissionsRequest struct {
	Slugs []string `json:"slugs" validate:"required,dive,min=1"`
}

// Service provides the role admin api.
type Service struct {
	handler.Service
	db        *gorm.DB
	compiler  *compiler.Compiler
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(deps *handler.Deps) error {
	if !deps.Valid() || deps.Authz == nil || deps.Compiler == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return nil
	}

	s.db = deps.DB
	s.compiler = deps.Compiler
	s.validator = validator.New()

	// Routes
	deps.App.Get(Path,
		auth.RequirePermission(deps.Authz, authz.PermRolesView),
		s.List,
	)
	deps.App.Post(Path,
		auth.RequirePermission(deps.Authz, authz.PermRolesManage),
		s.Create,
	)
	deps.App.Get(RoutePermissions,
		auth.RequirePermission(deps.Authz, authz.PermRolesView),
		s.GetPermissions,
	)
	deps.App.Put(RoutePermissions,
		auth.RequirePermission(deps.Authz, authz.PermRolesManage),
		s.SetPermissions,
	)
	deps.App.Delete(RouteByID,
		auth.RequirePermission(deps.Authz, authz.PermRolesManage),
		s.Delete,
	)

	return nil
}

// List returns the roles visible in the active organization: its own custom
// roles plus the global system roles.
func (s *Service) List(c *fiber.Ctx) error {
	sessData, ok := session.FromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	roles, err := rolectl.ListForOrganization(s.db, sessData.ActiveOrgID)
	if err != nil {
		log.Error().Err(err).Uint("org", sessData.ActiveOrgID).Msg("failed to list roles")

		return fiber.ErrInternalServerError
	}

	return c.JSON(roles)
}

// Create creates a custom role owned by the active organization. The new
// role grants nothing until permissions are attached to it.
func (s *Service) Create(c *fiber.Ctx) error {
	sessData, ok := session.FromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	in := new(createRequest)
	if err := c.BodyParser(in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validator.Struct(in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, ErrMsgValidation+err.Error())
	}

	orgID := sessData.ActiveOrgID

	created, err := rolectl.Create(s.db, &orgID, in.Name, in.Description)
	if err != nil {
		log.Error().Err(err).Uint("org", orgID).Str("name", in.Name).Msg("failed to create role")

		return fiber.ErrInternalServerError
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetPermissions returns the permission slugs currently attached to the role.
func (s *Service) GetPermissions(c *fiber.Ctx) error {
	roleID, err := parseID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, ErrMsgInvalidID)
	}

	slugs, err := rolectl.PermissionSlugs(s.db, roleID)
	if err != nil {
		if errors.Is(err, rolectl.ErrRoleNotFound) {
			return fiber.ErrNotFound
		}

		log.Error().Err(err).Uint("role", roleID).Msg("failed to load role permissions")

		return fiber.ErrInternalServerError
	}

	return c.JSON(fiber.Map{"slugs": slugs})
}

// SetPermissions replaces the role's permission set and recompiles every
// user currently holding the role. Holders see the change on their next
// snapshot read, nothing is re-evaluated per request.
func (s *Service) SetPermissions(c *fiber.Ctx) error {
	roleID, err := parseID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, ErrMsgInvalidID)
	}

	in := new(permissionsRequest)
	if err := c.BodyParser(in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validator.Struct(in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, ErrMsgValidation+err.Error())
	}

	if err := rolectl.SetPermissions(s.db, roleID, in.Slugs); err != nil {
		switch {
		case errors.Is(err, rolectl.ErrRoleNotFound):
			return fiber.ErrNotFound
		case errors.Is(err, rolectl.ErrRoleIsBasic):
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		case errors.Is(err, rolectl.ErrUnknownPermission):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		log.Error().Err(err).Uint("role", roleID).Msg("failed to set role permissions")

		return fiber.ErrInternalServerError
	}

	res := s.compiler.RecompileForRole(c.Context(), roleID)
	logRecompile(roleID, res)

	return c.JSON(recompileResponse(res))
}

// Delete soft-deletes a custom role and recompiles former holders so the
// revocation takes effect.
func (s *Service) Delete(c *fiber.Ctx) error {
	roleID, err := parseID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, ErrMsgInvalidID)
	}

	if err := rolectl.Delete(s.db, roleID); err != nil {
		switch {
		case errors.Is(err, rolectl.ErrRoleNotFound):
			return fiber.ErrNotFound
		case errors.Is(err, rolectl.ErrRoleIsBasic):
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		}

		log.Error().Err(err).Uint("role", roleID).Msg("failed to delete role")

		return fiber.ErrInternalServerError
	}

	res := s.compiler.RecompileForRole(c.Context(), roleID)
	logRecompile(roleID, res)

	return c.JSON(recompileResponse(res))
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New(ErrMsgInvalidID)
	}

	return uint(id), nil
}

func logRecompile(roleID uint, res compiler.RecompileResult) {
	if len(res.Errors) == 0 {
		log.Info().Uint("role", roleID).Int("users", res.UsersUpdated).Msg("role recompiled")
		return
	}

	for _, err := range res.Errors {
		log.Error().Err(err).Uint("role", roleID).Msg("recompile failure")
	}
}

func recompileResponse(res compiler.RecompileResult) fiber.Map {
	return fiber.Map{
		"recompiled": res.UsersUpdated,
		"failed":     len(res.Errors),
	}
}
