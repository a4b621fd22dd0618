package models

import "errors"

// ErrNotFound is the sentinel for lookups that matched no row.
// Handlers translate it into a 404 response.
var ErrNotFound = errors.New("not found")
