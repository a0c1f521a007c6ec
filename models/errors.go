package models

import "errors"

var (
	ErrDuplicateEmail     = errors.New("you've already signed up with that email, log in instead")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("you need to log in or sign up to continue")
	ErrForbidden          = errors.New("you do not have permission to do that")
	ErrInvalidToken       = errors.New("invalid or expired reset token")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateTitle     = errors.New("a post with this title already exists")
	ErrInvalidRole        = errors.New("unknown role")
	ErrConfirmation       = errors.New("confirmation phrase does not match")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
)
