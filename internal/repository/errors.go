// Package repository holds the in-memory restaurant state (settings,
// tables and the reservation ledger) and the user stores backing the
// identity collaborator.  The sentinel values below let handlers tell
// failure scenarios apart without inspecting driver errors.
package repository

import "errors"

// ErrEmailExists is returned by user stores when registering an email
// that is already taken.  Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when a user lookup matches nothing.
var ErrUserNotFound = errors.New("user not found")
