package document

import "time"

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used to stamp edited versions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
