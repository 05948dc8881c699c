package user

import (
	stderrors "errors"

	"github.com/orris-inc/deskhub/internal/shared/errors"
)

var (
	// ErrSessionNotFound is returned by SessionRepository lookups that match nothing.
	ErrSessionNotFound = errors.NewNotFoundError("session not found")

	// ErrDuplicateSessionToken means the unique token constraint rejected an insert.
	ErrDuplicateSessionToken = errors.NewConflictError("session token already exists")

	ErrEmailTaken    = errors.NewConflictError("email is already registered")
	ErrUsernameTaken = errors.NewConflictError("username is already taken")

	// ErrInvalidSessionData guards against building sessions without an owner or token.
	ErrInvalidSessionData = stderrors.New("session requires a user id and token hash")
)
