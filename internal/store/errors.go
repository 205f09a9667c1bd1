package store

import "errors"

// ErrNotFound indicates a missing key lookup.
var ErrNotFound = errors.New("key not found")

// ErrWrongType indicates a key accessed through the wrong operation family
// (string operation on a hash key or vice versa).
var ErrWrongType = errors.New("wrong value type for key")
