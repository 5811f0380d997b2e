package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// User represents a user account in the system.
// Users authenticate with a local Argon2id password and an optional TOTP
// second factor. Permissions are never stored on the user directly; they are
// derived from role assignments and compiled into per-organization facts.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Active indicates whether the user account is active and can log in.
	Active bool
	// Email is the unique email address used for login.
	Email string `gorm:"unique;size:255;not null"`
	// Password is the Argon2id hashed password.
	Password string `gorm:"size:255"`
	// FirstName is the user's first or given name.
	FirstName string `gorm:"size:100"`
	// LastName is the user's last or family name.
	LastName string `gorm:"size:100"`
	// DefaultOrganizationID is the organization selected as active after login.
	DefaultOrganizationID *uint `gorm:"column:default_organization_id"`
	// DefaultBranchID is the branch selected as active after login.
	DefaultBranchID *uint `gorm:"column:default_branch_id"`
	// TOTPSecret is the base32 secret for the optional TOTP second factor.
	TOTPSecret string `gorm:"column:totp_secret;size:64"`
	// TOTPConfirmed indicates the user completed TOTP enrollment; only then
	// is a code required at login.
	TOTPConfirmed bool `gorm:"column:totp_confirmed;default:false"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
	// DeletedAt is the soft delete timestamp (managed by GORM).
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the database table name for the User model.
// This overrides GORM's default pluralized table naming.
func (User) TableName() string {
	return "users"
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
// This function should be used when creating or updating user passwords.
// It uses the default Argon2id parameters for secure password hashing.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
// Returns true if the password matches, false otherwise.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}

// VerifyTOTP validates a one-time code against the user's TOTP secret.
// Returns false if the user has no confirmed second factor.
func (u *User) VerifyTOTP(code string) bool {
	if !u.TOTPConfirmed || u.TOTPSecret == "" {
		return false
	}

	return totp.Validate(code, u.TOTPSecret)
}
