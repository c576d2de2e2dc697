package users

import "errors"

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateUsername is returned when the unique username constraint fires.
	ErrDuplicateUsername = errors.New("username already exists")
)
