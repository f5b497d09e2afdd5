package querier

import (
	"context"
	"time"
)

// servicesListenTime is the listen window for a service-instance
// enumeration query.
const servicesListenTime = 2 * time.Second

// GetServices enumerates every instance of serviceType on the local
// network by PTR-querying serviceType and collating the responses.
// The caller reads result[serviceType].Instances.
func (r *Resolver) GetServices(ctx context.Context, serviceType string, cb func(Result)) {
	r.Query(ctx, serviceType, RecordTypePTR, servicesListenTime, cb)
}
