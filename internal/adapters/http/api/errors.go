package api

import "errors"

// ErrBadRequest marks a request body the API cannot accept.
var ErrBadRequest = errors.New("bad request")
