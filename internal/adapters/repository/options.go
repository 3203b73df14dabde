package repository

import "github.com/okian/qaportal/pkg/logger"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithLogger sets the logger used for load and integrity messages.
func WithLogger(l logger.Logger) Option {
	return func(s *MemoryStore) {
		if l != nil {
			s.logger = l
		}
	}
}
