package docsystem

import (
	"time"

	"sation/internal/domain/services"
)

// Clock returns the timestamp stamped on writes.
type Clock func() time.Time

// systemClock truncates to microseconds so values survive a storage round trip.
func systemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

type options struct {
	clock     Clock
	publisher services.ChangePublisher
}

// Option configures a document service.
type Option func(*options)

// WithClock overrides the write timestamp source.
func WithClock(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithPublisher sets where change notices are sent after each mutation.
func WithPublisher(publisher services.ChangePublisher) Option {
	return func(o *options) {
		o.publisher = publisher
	}
}

func newOptions(opts []Option) options {
	o := options{clock: systemClock}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
