package repository

import "errors"

// ErrNotFound is the single not-found sentinel shared by every repository.
var ErrNotFound = errors.New("not found")
