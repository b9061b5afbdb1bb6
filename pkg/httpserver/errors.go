package httpserver

import "errors"

// Sentinels joined onto the underlying cause by Run and Shutdown, so callers
// can tell a startup failure from a shutdown one with errors.Is.
var (
	ErrStart    = errors.New("httpserver: server failed to start")
	ErrShutdown = errors.New("httpserver: graceful shutdown failed")
)
