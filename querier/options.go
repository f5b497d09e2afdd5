package querier

import (
	"fmt"
	"log/slog"
	"net"
	"time"
)

// Option configures a Resolver at construction time, following the
// same functional-options pattern as responder/options.go's
// type Option func(*Responder) error, applied here to the resolver's
// own knobs.
type Option func(*Resolver) error

// WithTimeout sets the listenTime Query falls back to when called
// with a non-positive listenTime. It has no effect on
// GetServiceTypes, GetServices, GetIP, or GetAddress, whose listen
// windows are fixed per operation.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) error {
		r.defaultTimeout = d
		return nil
	}
}

// WithLogger overrides the default slog.Logger used for every
// non-delivery condition (missing parameters, rate limiting,
// interface-selection failures, and collector errors).
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) error {
		if l == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		r.logger = l
		return nil
	}
}

// WithInterfaces pins multicast joins to one of the given interfaces
// (the first is used; see Resolver.selectInterface) instead of the
// system default.
func WithInterfaces(ifaces []net.Interface) Option {
	return func(r *Resolver) error {
		if len(ifaces) == 0 {
			return fmt.Errorf("interface list cannot be empty")
		}
		r.explicitInterfaces = ifaces
		return nil
	}
}

// WithInterfaceFilter selects the multicast-join interface dynamically
// at call time by scanning net.Interfaces() for the first match.
// Mutually meaningful with WithInterfaces; if both are set,
// WithInterfaces wins (see Resolver.selectInterface).
func WithInterfaceFilter(filter func(net.Interface) bool) Option {
	return func(r *Resolver) error {
		if filter == nil {
			return fmt.Errorf("filter function cannot be nil")
		}
		r.interfaceFilter = filter
		return nil
	}
}

// WithRateLimit enables or disables the resolver-level call budget.
func WithRateLimit(enabled bool) Option {
	return func(r *Resolver) error {
		r.rateLimitEnabled = enabled
		return nil
	}
}

// WithRateLimitThreshold sets the maximum number of calls allowed
// within the cooldown window once rate limiting is enabled.
func WithRateLimitThreshold(threshold int) Option {
	return func(r *Resolver) error {
		if threshold <= 0 {
			return fmt.Errorf("threshold must be greater than 0")
		}
		r.rateLimitThreshold = threshold
		return nil
	}
}

// WithRateLimitCooldown sets the sliding window rate-limit calls are
// counted over.
func WithRateLimitCooldown(cooldown time.Duration) Option {
	return func(r *Resolver) error {
		if cooldown <= 0 {
			return fmt.Errorf("cooldown must be greater than 0")
		}
		r.rateLimitCooldown = cooldown
		return nil
	}
}
