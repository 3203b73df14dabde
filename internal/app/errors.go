package service

import "errors"

// Sentinel errors returned by the service. Lookup failures wrap the
// repository's not-found errors instead.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrEmptyReply   = errors.New("reply is empty")
	ErrReplyTooLong = errors.New("reply is too long")
)
