package cache

import "errors"

// errTypeMismatch is returned when a collapsed fetch produced a value of a different type
// than the caller asked for, which only happens if two callers share a key for different data.
var errTypeMismatch = errors.New("cache: cached value has unexpected type")
