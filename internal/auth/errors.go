package auth

import "errors"

var (
	ErrUsernameRequired     = errors.New("Username is required")
	ErrPasswordRequired     = errors.New("Password is required")
	ErrConfirmationRequired = errors.New("Password confirmation is required")
	ErrPasswordMismatch     = errors.New("Passwords didn't match")
	ErrUsernameTaken        = errors.New("Username already taken")
	ErrInvalidCredentials   = errors.New("Invalid username or password")
)
