package session

import "errors"

// ErrNoSessionWasFound is returned when a cookie references no live session:
// the id is unknown, the entry expired, or it was destroyed by logout,
// rotation, or account deletion. Callers should match it with [errors.Is].
var ErrNoSessionWasFound = errors.New("no session was found")
