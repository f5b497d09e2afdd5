package querier

import (
	"context"
	"time"

	"github.com/toddaustin07/mdns-resolver/internal/collate"
	"github.com/toddaustin07/mdns-resolver/internal/collector"
)

// Query sends one mDNS query for name/rrtype, collects every response
// for listenTime (plus a fixed jitter margin to absorb responder
// delay), and invokes cb once with the collated result when the cycle
// completes. cb is never invoked if name is empty, the Resolver is
// closed or rate-limited, or interface selection, socket setup, or the
// send fails; the failure is logged instead. A non-positive listenTime
// falls back to the Resolver's WithTimeout default.
func (r *Resolver) Query(ctx context.Context, name string, rrtype RecordType, listenTime time.Duration, cb func(Result)) {
	if err := r.checkOpen(); err != nil {
		r.logger.Error("mdns: Query rejected", "error", err)
		return
	}
	if name == "" {
		r.logger.Error("mdns: Query missing required parameter", "field", "name")
		return
	}
	if err := r.checkRateLimit(); err != nil {
		r.logger.Warn("mdns: Query rate-limited", "name", name, "error", err)
		return
	}
	if listenTime <= 0 {
		listenTime = r.defaultTimeout
	}

	iface, err := r.selectInterface()
	if err != nil {
		r.logger.Error("mdns: Query interface selection failed", "error", err)
		return
	}

	go func() {
		callCtx, correlationID := r.callContext()
		if ctx != nil {
			callCtx = ctx
		}
		log := r.logger.With("call_id", correlationID, "op", "Query", "name", name, "rrtype", rrtype)

		batches, err := collector.Cycle(callCtx, log, collector.Options{
			Name:           name,
			RRType:         rrtype,
			ListenTime:     listenTime,
			EarlyTerminate: false,
			Interface:      iface,
		})
		if err != nil {
			log.Error("mdns: Query cycle failed", "error", err)
			return
		}

		cb(collate.Collate(batches))
	}()
}
