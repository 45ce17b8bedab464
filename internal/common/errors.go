package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate key")
	ErrInvalidInput = errors.New("invalid input")

	// Message errors
	ErrMessageNotFound = errors.New("message not found")
	ErrRoomNotFound    = errors.New("room not found")
	ErrInvalidStatus   = errors.New("invalid message status")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")

	// Storage errors
	ErrStorageDisabled = errors.New("file storage is not configured")
)
