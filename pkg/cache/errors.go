package cache

import "errors"

// ErrClosed is returned by operations on a closed cache.
var ErrClosed = errors.New("cache closed")

// ErrUnknownBackend is returned by [Open] for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown cache backend")
