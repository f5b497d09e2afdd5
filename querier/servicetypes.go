package querier

import (
	"context"
	"time"
)

// ServiceEnumerationName is the well-known DNS-SD meta-query name
// (RFC 6763 §9) GetServiceTypes queries.
const ServiceEnumerationName = "_services._dns-sd._udp.local"

// serviceTypesListenTime is the listen window for the enumeration
// query: long enough to collect replies from every responder on a
// typical LAN segment without the caller waiting indefinitely.
const serviceTypesListenTime = 2 * time.Second

// GetServiceTypes enumerates every service type advertised on the
// local network by querying ServiceEnumerationName with rrtype ANY
// and collating the responses. The caller reads
// result[ServiceEnumerationName].ServiceTypes.
//
// Querying ANY instead of PTR is unusual for this meta-query — RFC
// 6763 §9 specifies PTR — but responders answer it the same way in
// practice, so it is kept as-is rather than narrowed to PTR.
func (r *Resolver) GetServiceTypes(ctx context.Context, cb func(Result)) {
	r.Query(ctx, ServiceEnumerationName, RecordTypeANY, serviceTypesListenTime, cb)
}
