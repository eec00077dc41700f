package repository

import "errors"

// ErrNotFound is returned by lookups that match no record, whichever store backs them.
var ErrNotFound = errors.New("record not found")
