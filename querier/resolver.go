// Package querier implements the five public mDNS resolution
// operations: Query, GetServiceTypes, GetServices, GetIP, and
// GetAddress. Each is a thin composition of one or more
// internal/collector cycles and internal/collate.Collate.
//
// Every operation is asynchronous: it accepts a completion callback
// invoked on its own goroutine, so a caller with a slow callback never
// blocks the Resolver. Query, GetServiceTypes, GetServices, and
// GetAddress invoke it at most once per call; GetIP invokes it once
// per A record in the matching datagram. Missing parameters
// and structurally invalid input never invoke the callback; they only
// get logged.
package querier

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	mdnserrors "github.com/toddaustin07/mdns-resolver/internal/errors"
)

// defaultListenTime is used by Query when the caller doesn't pass one
// explicitly through WithTimeout.
const defaultListenTime = 1 * time.Second

// Resolver is the entry point for mDNS resolution. It holds no
// persistent network resources: every operation's underlying collector
// cycle creates and tears down its own socket pair, so a Resolver is
// cheap to keep around and safe to share across goroutines — there is
// no shared mutable state between cycles besides the rate limiter.
type Resolver struct {
	logger *slog.Logger

	defaultTimeout     time.Duration
	explicitInterfaces []net.Interface
	interfaceFilter    func(net.Interface) bool

	rateLimitEnabled   bool
	rateLimitThreshold int
	rateLimitCooldown  time.Duration
	rateLimitMu        sync.Mutex
	rateLimitCallTimes []time.Time

	closed bool
	mu     sync.Mutex
}

// New creates a Resolver, applying opts in order; the first option to
// return an error aborts New.
func New(opts ...Option) (*Resolver, error) {
	r := &Resolver{
		logger:             slog.Default(),
		defaultTimeout:     defaultListenTime,
		rateLimitThreshold: 100,
		rateLimitCooldown:  time.Minute,
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	return r, nil
}

// Close marks the Resolver as no longer accepting new operations. A
// Resolver holds no sockets between calls (each cycle owns its own
// pair), so Close has nothing to release; it exists for API symmetry
// with callers that expect a Close/Shutdown lifecycle and to make
// "used after Close" a reportable programming error. Close is
// idempotent.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *Resolver) checkOpen() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return &mdnserrors.ValidationError{Field: "resolver", Reason: "used after Close"}
	}
	return nil
}

// selectInterface resolves the configured interface preference
// (WithInterfaces / WithInterfaceFilter) to the single interface a
// cycle's socket pair should join the multicast group on. Neither
// configured: nil, meaning the system default (INADDR_ANY).
func (r *Resolver) selectInterface() (*net.Interface, error) {
	if len(r.explicitInterfaces) > 0 {
		iface := r.explicitInterfaces[0]
		return &iface, nil
	}
	if r.interfaceFilter != nil {
		ifaces, err := net.Interfaces()
		if err != nil {
			return nil, fmt.Errorf("enumerate interfaces: %w", err)
		}
		for _, iface := range ifaces {
			if r.interfaceFilter(iface) {
				return &iface, nil
			}
		}
		return nil, fmt.Errorf("no interface matched the configured filter")
	}
	return nil, nil
}

// checkRateLimit enforces a sliding-window call budget across all
// operations on this Resolver when rate limiting is enabled
// (WithRateLimit). It is a resolver-level guard against a caller
// accidentally flooding the local network with mDNS traffic, which is
// a shared multicast group every other host on the segment also uses.
func (r *Resolver) checkRateLimit() error {
	if !r.rateLimitEnabled {
		return nil
	}

	r.rateLimitMu.Lock()
	defer r.rateLimitMu.Unlock()

	now := time.Now()
	cutoff := now.Add(-r.rateLimitCooldown)

	live := r.rateLimitCallTimes[:0]
	for _, t := range r.rateLimitCallTimes {
		if t.After(cutoff) {
			live = append(live, t)
		}
	}
	r.rateLimitCallTimes = live

	if len(r.rateLimitCallTimes) >= r.rateLimitThreshold {
		return &mdnserrors.ValidationError{Field: "rate limit",
			Reason: fmt.Sprintf("more than %d calls within %s", r.rateLimitThreshold, r.rateLimitCooldown)}
	}

	r.rateLimitCallTimes = append(r.rateLimitCallTimes, now)
	return nil
}

// callContext derives the correlation id and background context an
// operation's collector cycle(s) run under.
func (r *Resolver) callContext() (context.Context, string) {
	return context.Background(), uuid.NewString()
}
