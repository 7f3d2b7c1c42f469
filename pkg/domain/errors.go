package domain

import "errors"

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("rate limited")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// Data errors
var (
	ErrCompanyNotFound  = errors.New("company not found")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrNoCompany        = errors.New("no company membership")
)

// Validation errors
var (
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrLogoNotImage    = errors.New("logo must be an image file")
	ErrLogoTooLarge    = errors.New("logo exceeds the 5 MiB size limit")
	ErrInvalidHexColor = errors.New("invalid hex color")
)
