// Package records defines the parsed resource-record data model: the
// raw wire fields every record carries, plus a tagged variant of the
// per-type decoded payload.
//
// Decoded is a closed interface implemented by exactly four concrete
// types, and the collator (internal/collate) dispatches on which one
// it got instead of asserting a naked interface{}.
package records

import (
	"fmt"
	"net"

	"github.com/toddaustin07/mdns-resolver/internal/protocol"
)

// Decoded is the type-specific payload of a ResourceRecord. It is
// implemented by A, PTR, SRV, and TXT. Records of a recognised-but-
// opaque type (NS, CNAME, SOA, MX, AAAA, NAPTR, OPT, NSEC, IXFR, AXFR)
// or an unknown type decode with Decoded == nil; RData still carries
// their raw bytes.
type Decoded interface {
	isDecoded()
}

// A is the decoded payload of an A record: an IPv4 address.
type A struct {
	IP [4]byte
}

func (A) isDecoded() {}

// String renders the dotted-quad form.
func (a A) String() string {
	return net.IPv4(a.IP[0], a.IP[1], a.IP[2], a.IP[3]).String()
}

// PTR is the decoded payload of a PTR record: the target domain name,
// already resolved against the enclosing message's compression table.
type PTR struct {
	Target string
}

func (PTR) isDecoded() {}

// SRV is the decoded payload of an SRV record (RFC 2782). Priority
// and Weight are retained for callers that need them, but the
// collator itself ignores both.
type SRV struct {
	Target   string
	Priority uint16
	Weight   uint16
	Port     uint16
}

func (SRV) isDecoded() {}

// TXT is the decoded payload of a TXT record: its key=value pairs
// (RFC 6763 §6.4), held in a map, so the items' wire order is not
// kept. An item with no '=' maps to an empty-string value; empty rdata
// yields a non-nil, empty map.
type TXT struct {
	Pairs map[string]string
}

func (TXT) isDecoded() {}

// ResourceRecord is one parsed resource record: the shared wire
// fields plus its Decoded payload, if any.
type ResourceRecord struct {
	Decoded Decoded
	Name    string
	RData   []byte
	Type    protocol.RecordType
	Class   uint16
	TTL     uint32
}

// String is for diagnostics only (log lines, CLI output); it is not
// part of the wire format.
func (r ResourceRecord) String() string {
	return fmt.Sprintf("%s %s ttl=%d", r.Name, r.Type, r.TTL)
}
