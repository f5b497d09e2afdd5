// Package collate folds many per-response record batches into one
// name-keyed aggregate.
package collate

import (
	"github.com/toddaustin07/mdns-resolver/internal/collector"
	"github.com/toddaustin07/mdns-resolver/internal/records"
)

// serviceEnumerationName is the well-known DNS-SD meta-query name
// (RFC 6763 §9). A PTR record whose *own* Name equals this is a
// service-type announcement; any other PTR is a service instance.
const serviceEnumerationName = "_services._dns-sd._udp.local"

// Entry is one name's aggregated view. All fields are optional and
// populated only when a matching record was seen; HasIP/HasPort
// distinguish "never seen" from a zero value, since GetAddress needs
// to tell the two apart.
type Entry struct {
	Name         string
	IP           string
	Info         map[string]string
	Instances    []string
	ServiceTypes []string
	Hostnames    []string
	Port         uint16
	HasIP        bool
	HasPort      bool
}

// entryBuilder carries the dedup membership sets alongside the slices
// they back, discarded once Collate returns. Deduplication is by
// exact string equality.
type entryBuilder struct {
	entry           *Entry
	instanceSeen    map[string]struct{}
	serviceTypeSeen map[string]struct{}
	hostnameSeen    map[string]struct{}
}

// Collate folds batches, in arrival order, into a name-keyed map.
// Running Collate twice on the same input yields an identical map:
// the algorithm is a pure fold with no external state.
func Collate(batches []collector.Batch) map[string]*Entry {
	builders := make(map[string]*entryBuilder)

	for _, batch := range batches {
		for _, rr := range batch {
			b, ok := builders[rr.Name]
			if !ok {
				b = &entryBuilder{
					entry:           &Entry{Name: rr.Name},
					instanceSeen:    map[string]struct{}{},
					serviceTypeSeen: map[string]struct{}{},
					hostnameSeen:    map[string]struct{}{},
				}
				builders[rr.Name] = b
			}
			applyRecord(b, rr)
		}
	}

	out := make(map[string]*Entry, len(builders))
	for name, b := range builders {
		out[name] = b.entry
	}
	return out
}

func applyRecord(b *entryBuilder, rr records.ResourceRecord) {
	switch decoded := rr.Decoded.(type) {
	case records.A:
		b.entry.IP = decoded.String()
		b.entry.HasIP = true

	case records.SRV:
		b.entry.Port = decoded.Port
		b.entry.HasPort = true
		appendDeduped(&b.entry.Hostnames, b.hostnameSeen, decoded.Target)

	case records.PTR:
		if rr.Name == serviceEnumerationName {
			appendDeduped(&b.entry.ServiceTypes, b.serviceTypeSeen, decoded.Target)
		} else {
			appendDeduped(&b.entry.Instances, b.instanceSeen, decoded.Target)
		}

	case records.TXT:
		b.entry.Info = decoded.Pairs

	default:
		// Recognised-but-opaque or unknown type: the entry is created
		// (keyed by Name) but nothing more is folded in.
	}
}

func appendDeduped(slice *[]string, seen map[string]struct{}, value string) {
	if _, dup := seen[value]; dup {
		return
	}
	seen[value] = struct{}{}
	*slice = append(*slice, value)
}
