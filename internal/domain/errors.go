package domain

import "errors"

// Sentinel errors shared by repositories, services and controllers.
var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("authentication required")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrCapacityExceeded    = errors.New("event is full")
	ErrAlreadyJoined       = errors.New("already joined")
	ErrDuplicateInviteCode = errors.New("invite code already in use")
	ErrDuplicateUser       = errors.New("username or email already in use")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)
