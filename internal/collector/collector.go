// Package collector drives one query+listen cycle: send the query,
// wait out a bounded observation window across both sockets in the
// pair, and return every response received, or a single response for
// latency-sensitive callers that opt into early termination.
package collector

import (
	"context"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/toddaustin07/mdns-resolver/internal/message"
	"github.com/toddaustin07/mdns-resolver/internal/protocol"
	"github.com/toddaustin07/mdns-resolver/internal/records"
	"github.com/toddaustin07/mdns-resolver/internal/transport"
)

// postSendDrain is the fixed pause after sending, giving the host
// stack time to deliver this resolver's own multicast echo before the
// listen loop starts counting responses.
const postSendDrain = 100 * time.Millisecond

// jitterMargin is added to every cycle's deadline: a deliberate
// network-jitter margin, not a retransmission interval.
const jitterMargin = 500 * time.Millisecond

// Batch is the ordered list of records decoded from a single response
// datagram; the collator only ever looks at the records themselves,
// not which datagram or source address they arrived in.
type Batch = []records.ResourceRecord

// Options parameterizes one cycle.
type Options struct {
	// EarlyMatchName overrides the name checked for early termination.
	// Empty means "use Name".
	EarlyMatchName string
	Name           string
	RRType         protocol.RecordType
	ListenTime     time.Duration
	EarlyTerminate bool

	// Interface pins the socket pair's multicast join to a specific
	// interface (nil selects the system default, INADDR_ANY).
	Interface *net.Interface
}

// Cycle runs one query+listen cycle and returns every decoded batch
// received. With Options.EarlyTerminate set, it returns as soon as any
// record's name (RFC 6762 sense: no ".local" suffix distinction)
// matches the target, and the returned slice holds exactly that one
// batch. A nil error with an empty result means no response arrived
// within the listen window; a non-nil error means setup or send
// failed and the caller must not invoke its callback.
func Cycle(ctx context.Context, log *slog.Logger, opts Options) ([]Batch, error) {
	pair, err := transport.New(opts.Interface)
	if err != nil {
		log.Error("mdns: socket pair setup failed", "name", opts.Name, "error", err)
		return nil, err
	}
	defer func() { _ = pair.Close() }()

	query := message.EncodeQuery(opts.Name, opts.RRType)
	if err := pair.Send(ctx, query); err != nil {
		log.Error("mdns: send failed", "name", opts.Name, "error", err)
		return nil, err
	}

	select {
	case <-time.After(postSendDrain):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	deadline := time.Now().Add(opts.ListenTime + jitterMargin)
	listenCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	target := opts.EarlyMatchName
	if target == "" {
		target = opts.Name
	}
	target = stripLocalSuffix(target)

	var accumulator []Batch

	for datagram := range pair.Listen(listenCtx) {
		msg, err := message.Decode(datagram.Data)
		if err != nil {
			log.Debug("mdns: dropping malformed datagram", "from", datagram.Src, "error", err)
			continue
		}
		if len(msg.Records) == 0 {
			continue
		}

		if opts.EarlyTerminate && matchesTarget(msg.Records, target) {
			return []Batch{msg.Records}, nil
		}

		accumulator = append(accumulator, msg.Records)
	}

	return accumulator, nil
}

func matchesTarget(recs []records.ResourceRecord, target string) bool {
	for _, r := range recs {
		if stripLocalSuffix(r.Name) == target {
			return true
		}
	}
	return false
}

func stripLocalSuffix(name string) string {
	return strings.TrimSuffix(name, ".local")
}
