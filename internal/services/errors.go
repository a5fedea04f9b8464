package services

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// Sentinel errors returned by the service layer. Handlers translate these to
// HTTP statuses with errors.Is; anything else becomes a generic 500.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// mapUniqueViolation converts a SQLite unique-constraint failure on the users
// table into the matching sentinel error. The constraint lives in the schema,
// not in application code, so concurrent registrations with the same email
// still produce exactly one success.
func mapUniqueViolation(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique {
		return err
	}
	if strings.Contains(err.Error(), "users.email") {
		return ErrEmailTaken
	}
	if strings.Contains(err.Error(), "users.username") {
		return ErrUsernameTaken
	}
	return err
}
