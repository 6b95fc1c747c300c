package domain

import "errors"

var (
	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("entity not found")
	// ErrForbidden indicates that the caller is not allowed to perform the action.
	ErrForbidden = errors.New("action forbidden")
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidInput indicates that the provided input data is invalid.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrConflict indicates a uniqueness or state conflict.
	ErrConflict = errors.New("conflict")
	// ErrRepository indicates a generic data persistence error.
	ErrRepository = errors.New("repository error")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrOTPInvalid         = errors.New("verification code is invalid or expired")
	ErrOTPTooManyAttempts = errors.New("too many invalid verification attempts")
	ErrOTPCooldown        = errors.New("verification code was sent recently, try again later")
)
