package repository

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrAgentNotFound   = errors.New("agent not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrInvalidDataset  = errors.New("invalid dataset")
	ErrLoadDataset     = errors.New("load dataset failed")
)
