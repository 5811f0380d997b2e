// Package assignment provides the admin api for role assignments and
// per-user permission overrides.
package assignment

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/authz"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/authz/compiler"
	assignctl "github.com/Kinetic639/coreframe-boilerplate-sub007/internal/db/controller/assignment"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/db/models"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web/handler"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web/middleware/auth"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web/session"
)

const (
	// Path is the base path for assignment management.
	Path = handler.APIRootPath + "/admin/assignments"

	// OverridesPath is the base path for permission override management.
	OverridesPath = handler.APIRootPath + "/admin/overrides"

	// RouteUserAssignments lists the assignments of a single user.
	RouteUserAssignments = handler.APIRootPath + "/admin/users/:id/assignments"

	// ErrMsgValidation prefixes validation error messages.
	ErrMsgValidation = "validation failed: "
)

// assignmentRequest is the body for granting or revoking a role.
type assignmentRequest struct {
	UserID  uint64 `json:"userId" validate:"required"`
	RoleID  uint   `json:"roleId" validate:"required"`
	Scope   string `json:"scope" validate:"required,oneof=org branch"`
	ScopeID uint   `json:"scopeId" validate:"required"`
}

// overrideRequest is the body for setting a permission override. Overrides
// always target the active organization of the acting admin.
type overrideRequest struct {
	UserID  uint64 `json:"userId" validate:"required"`
	Slug    string `json:"slug" validate:"required"`
	Granted bool   `json:"granted"`
}

// clearOverrideRequest is the body for removing a permission override.
type clearOverrideRequest struct {
	UserID uint64 `json:"userId" validate:"required"`
	Slug   string `json:"slug" validate:"required"`
}

// Service provides the assignment admin api.
type Service struct {
	handler.Service
	db        *gorm.DB
	authz     *authz.Service
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
	s.authz = deps.Authz
	s.compiler = deps.Compiler
	s.validator = validator.New()

	// Routes
	deps.App.Get(RouteUserAssignments,
		auth.RequirePermission(deps.Authz, authz.PermUsersView),
		s.ListForUser,
	)
	deps.App.Post(Path,
		auth.RequirePermission(deps.Authz, authz.PermUsersManage),
		s.Assign,
	)
	deps.App.Delete(Path,
		auth.RequirePermission(deps.Authz, authz.PermUsersManage),
		s.Revoke,
	)
	deps.App.Post(OverridesPath,
		auth.RequirePermission(deps.Authz, authz.PermUsersManage),
		s.SetOverride,
	)
	deps.App.Delete(OverridesPath,
		auth.RequirePermission(deps.Authz, authz.PermUsersManage),
		s.ClearOverride,
	)

	return nil
}

// ListForUser returns the live role assignments of a user.
func (s *Service) ListForUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || userID == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	assignments, err := assignctl.ListForUser(s.db, userID)
	if err != nil {
		log.Error().Err(err).Uint64("user", userID).Msg("failed to list assignments")

		return fiber.ErrInternalServerError
	}

	return c.JSON(assignments)
}

// Assign grants a role to a user in an org or branch scope and immediately
// recompiles the user's facts for the affected organization.
func (s *Service) Assign(c *fiber.Ctx) error {
	in, err := s.parseAssignment(c)
	if err != nil {
		return err
	}

	created, err := assignctl.Assign(s.db, in.UserID, in.RoleID, models.AssignmentScope(in.Scope), in.ScopeID)
	if err != nil {
		switch {
		case errors.Is(err, assignctl.ErrDuplicateAssignment):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		case errors.Is(err, assignctl.ErrInvalidScope):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		log.Error().Err(err).Uint64("user", in.UserID).Uint("role", in.RoleID).Msg("failed to assign role")

		return fiber.ErrInternalServerError
	}

	if err := s.recompile(c, in); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// Revoke removes a role assignment and immediately recompiles the user's
// facts so the revocation is visible on the next snapshot read.
func (s *Service) Revoke(c *fiber.Ctx) error {
	in, err := s.parseAssignment(c)
	if err != nil {
		return err
	}

	err = assignctl.Revoke(s.db, in.UserID, in.RoleID, models.AssignmentScope(in.Scope), in.ScopeID)
	if err != nil {
		if errors.Is(err, assignctl.ErrAssignmentNotFound) {
			return fiber.ErrNotFound
		}

		log.Error().Err(err).Uint64("user", in.UserID).Uint("role", in.RoleID).Msg("failed to revoke role")

		return fiber.ErrInternalServerError
	}

	if err := s.recompile(c, in); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// SetOverride grants or denies a single permission for a user in the acting
// admin's organization. Overrides layer on top of compiled facts at read
// time, so only the cached snapshot needs invalidating.
func (s *Service) SetOverride(c *fiber.Ctx) error {
	sessData, ok := session.FromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	in := new(overrideRequest)
	if err := c.BodyParser(in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validator.Struct(in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, ErrMsgValidation+err.Error())
	}

	override, err := assignctl.SetOverride(s.db, in.UserID, sessData.ActiveOrgID, in.Slug, in.Granted)
	if err != nil {
		if errors.Is(err, assignctl.ErrUnknownPermission) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		log.Error().Err(err).Uint64("user", in.UserID).Str("slug", in.Slug).Msg("failed to set override")

		return fiber.ErrInternalServerError
	}

	s.authz.InvalidateSnapshot(c.Context(), in.UserID, sessData.ActiveOrgID)

	return c.JSON(override)
}

// ClearOverride removes a permission override.
func (s *Service) ClearOverride(c *fiber.Ctx) error {
	sessData, ok := session.FromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	in := new(clearOverrideRequest)
	if err := c.BodyParser(in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validator.Struct(in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, ErrMsgValidation+err.Error())
	}

	if err := assignctl.ClearOverride(s.db, in.UserID, sessData.ActiveOrgID, in.Slug); err != nil {
		if errors.Is(err, assignctl.ErrOverrideNotFound) {
			return fiber.ErrNotFound
		}

		log.Error().Err(err).Uint64("user", in.UserID).Str("slug", in.Slug).Msg("failed to clear override")

		return fiber.ErrInternalServerError
	}

	s.authz.InvalidateSnapshot(c.Context(), in.UserID, sessData.ActiveOrgID)

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Service) parseAssignment(c *fiber.Ctx) (*assignmentRequest, error) {
	in := new(assignmentRequest)
	if err := c.BodyParser(in); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validator.Struct(in); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, ErrMsgValidation+err.Error())
	}

	return in, nil
}

// recompile rebuilds the user's facts for the organization the assignment
// lands in. Branch scopes resolve through the branch's owning organization.
func (s *Service) recompile(c *fiber.Ctx, in *assignmentRequest) error {
	orgID := in.ScopeID

	if models.AssignmentScope(in.Scope) == models.ScopeBranch {
		var branch models.Branch
		if err := s.db.First(&branch, in.ScopeID).Error; err != nil {
			log.Error().Err(err).Uint("branch", in.ScopeID).Msg("failed to resolve branch organization")

			return fiber.ErrInternalServerError
		}

		orgID = branch.OrganizationID
	}

	res := s.compiler.CompileForUser(c.Context(), in.UserID, orgID)
	if !res.Success {
		log.Error().Err(res.Err).Uint64("user", in.UserID).Uint("org", orgID).Msg("recompile failure")

		return fiber.ErrInternalServerError
	}

	return nil
}
