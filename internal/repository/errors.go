package repository

import "errors"

// ErrDuplicateCheckIn is returned when the unique (student, training)
// constraint rejects a check-in insert. Callers treat it as "already
// checked in", not as a fault.
var ErrDuplicateCheckIn = errors.New("check-in already exists")
