// Package login provides the HTTP handlers for user authentication.
//
// This file defines exported error values used throughout the login flow.
package login

import "errors"

var (
	// ErrInvalidFormData is returned when the submitted login form cannot be parsed
	// or fails validation.
	ErrInvalidFormData = errors.New("invalid form data")

	// ErrInvalidCredentials is returned when the provided email and/or password
	// are not valid.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserInactive is returned when the account exists but was deactivated.
	ErrUserInactive = errors.New("account is inactive")

	// ErrTOTPRequired is returned when the account has a confirmed second factor
	// and no code was submitted.
	ErrTOTPRequired = errors.New("one-time code required")

	// ErrTOTPInvalid is returned when the submitted one-time code does not verify.
	ErrTOTPInvalid = errors.New("invalid one-time code")

	// ErrNoOrganization is returned when the user has no active organization
	// membership to log into.
	ErrNoOrganization = errors.New("no active organization membership")

	// ErrInternalServerError is returned for unexpected failures during the login
	// process.
	ErrInternalServerError = errors.New("internal server error")
)
