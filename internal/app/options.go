package service

import (
	"time"

	"github.com/okian/qaportal/internal/adapters/repository"
	"github.com/okian/qaportal/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the dataset the service reads. Without it Start loads the
// built-in seed data.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithClock overrides the time source used for deadlines and reply dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDefaultAgent selects agentID for new sessions instead of the first
// agent. Unknown ids fall back to the first agent.
func WithDefaultAgent(agentID string) Option {
	return func(s *Service) {
		s.defaultAgentID = agentID
	}
}

// WithUrgentDays sets the days-remaining threshold for urgent goals.
func WithUrgentDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.urgentDays = days
		}
	}
}

// WithSessionTTL sets how long idle sessions are kept. Zero disables expiry.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithMaxReplyLength caps the size of a submitted reply in bytes.
func WithMaxReplyLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxReplyLen = n
		}
	}
}
