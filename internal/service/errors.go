package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRegistrationClosed = errors.New("registration is not supported in this build")
	ErrNoSession          = errors.New("no active session")
	ErrEmptyInput         = errors.New("task text is empty")
	ErrTaskNotFound       = errors.New("task not found")
)
