package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/config"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/db/models"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web/handler"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web/handler/dashboard"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = "/login"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the login handler.
var Handler = Service{}

// form carries the login form fields. The one-time code is only required
// for accounts with a confirmed second factor.
type form struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	TOTPCode string `form:"totp_code"`
}

// Init initializes the login handler.
func (s *Service) Init(deps *handler.Deps) error {
	if !deps.Valid() {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.db = deps.DB
	s.cfg = deps.Cfg

	// register routes
	deps.App.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, s.Post)
	})

	return nil
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{})
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	in := new(form)

	if err := c.BodyParser(in); err != nil {
		return s.renderError(c, ErrInvalidFormData)
	}

	// find user in db
	var dbUser models.User
	if err := s.db.Where("email = ?", in.Email).First(&dbUser).Error; err != nil {
		return s.renderError(c, ErrInvalidCredentials)
	}

	// check if user is active
	if !dbUser.Active {
		return s.renderError(c, ErrUserInactive)
	}

	// check if password matches
	if !dbUser.VerifyPassword(in.Password) {
		return s.renderError(c, ErrInvalidCredentials)
	}

	// second factor, only enforced after enrollment was confirmed
	if dbUser.TOTPConfirmed {
		if in.TOTPCode == "" {
			return s.renderError(c, ErrTOTPRequired)
		}

		if !dbUser.VerifyTOTP(in.TOTPCode) {
			return s.renderError(c, ErrTOTPInvalid)
		}
	}

	orgID, branchID, err := s.resolveActiveContext(&dbUser)
	if err != nil {
		return s.renderError(c, err)
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")

		return s.renderError(c, ErrInternalServerError)
	}

	userSession := &session.Data{
		User:           dbUser,
		ActiveOrgID:    orgID,
		ActiveBranchID: branchID,
	}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return s.renderError(c, ErrInternalServerError)
	}

	// set login cookie
	cookieSettings := &fiber.Cookie{
		Name:     "session",
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	return c.Redirect(dashboard.Path)
}

// resolveActiveContext picks the organization context the session starts in.
// The user's default organization wins if there is still an active membership
// for it, otherwise the first active membership is used.
func (s *Service) resolveActiveContext(user *models.User) (orgID, branchID uint, err error) {
	var members []models.OrganizationMember

	findErr := s.db.
		Where("user_id = ? AND status = ?", user.ID, models.MemberStatusActive).
		Order("organization_id").
		Find(&members).Error
	if findErr != nil {
		log.Error().Err(findErr).Uint64("user", user.ID).Msg("failed to load memberships")

		return 0, 0, ErrInternalServerError
	}

	if len(members) == 0 {
		return 0, 0, ErrNoOrganization
	}

	orgID = members[0].OrganizationID

	if user.DefaultOrganizationID != nil {
		for _, m := range members {
			if m.OrganizationID == *user.DefaultOrganizationID {
				orgID = m.OrganizationID

				break
			}
		}
	}

	if user.DefaultBranchID != nil {
		branchID = *user.DefaultBranchID
	}

	return orgID, branchID, nil
}

// renderError re-renders the login page with an error message.
func (s *Service) renderError(c *fiber.Ctx, err error) error {
	return c.Render("login", fiber.Map{
		"error": err.Error(),
	})
}
