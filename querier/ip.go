package querier

import (
	"context"
	"time"

	"github.com/toddaustin07/mdns-resolver/internal/collector"
	"github.com/toddaustin07/mdns-resolver/internal/records"
)

// ipListenTime is the listen window for a single A-record lookup.
const ipListenTime = 1 * time.Second

// GetIP resolves name to its IPv4 address by A-querying name with
// early termination on the first matching answer, then invoking cb
// once per A record carrying an IP in the matching datagram. A single
// datagram can carry more than one A record for the same name, so cb
// may fire more than once per call; a caller wanting "first answer
// only" must stop consuming after its first invocation itself.
func (r *Resolver) GetIP(ctx context.Context, name string, cb func(ip string)) {
	if err := r.checkOpen(); err != nil {
		r.logger.Error("mdns: GetIP rejected", "error", err)
		return
	}
	if name == "" {
		r.logger.Error("mdns: GetIP missing required parameter", "field", "name")
		return
	}
	if err := r.checkRateLimit(); err != nil {
		r.logger.Warn("mdns: GetIP rate-limited", "name", name, "error", err)
		return
	}

	iface, err := r.selectInterface()
	if err != nil {
		r.logger.Error("mdns: GetIP interface selection failed", "error", err)
		return
	}

	go func() {
		callCtx, correlationID := r.callContext()
		if ctx != nil {
			callCtx = ctx
		}
		log := r.logger.With("call_id", correlationID, "op", "GetIP", "name", name)

		batches, err := collector.Cycle(callCtx, log, collector.Options{
			Name:           name,
			RRType:         RecordTypeA,
			ListenTime:     ipListenTime,
			EarlyTerminate: true,
			Interface:      iface,
		})
		if err != nil {
			log.Error("mdns: GetIP cycle failed", "error", err)
			return
		}

		for _, batch := range batches {
			for _, rr := range batch {
				if a, ok := rr.Decoded.(records.A); ok {
					cb(a.String())
				}
			}
		}
	}()
}
