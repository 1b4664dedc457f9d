package utils

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrDatabaseError          = errors.New("database error")
	ErrTripNotFound           = errors.New("trip not found")
	ErrForbidden              = errors.New("forbidden")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrLLMNotConfigured       = errors.New("language model is not configured")
	ErrUnexpectedBehaviorOfAI = errors.New("unexpected response from language model")
)
