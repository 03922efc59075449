package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrUpstream   = errors.New("upstream unavailable")
	ErrRender     = errors.New("fragment render failed")
)
