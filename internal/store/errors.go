package store

import "errors"

// ErrKeyNotFound indicates the requested key does not exist.
var ErrKeyNotFound = errors.New("store: key not found")
