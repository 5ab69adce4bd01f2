package domain

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("not the resource owner")
	ErrNotFound           = errors.New("resource not found")
	ErrOAuthState         = errors.New("oauth state mismatch")
	ErrLinkBroken         = errors.New("social link expired, re-connect required")
	ErrNotLinked          = errors.New("no social account connected")
	ErrUpstream           = errors.New("upstream provider error")
	ErrInternal           = errors.New("internal server error")
)
