package querier

import (
	"context"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/toddaustin07/mdns-resolver/internal/collate"
	"github.com/toddaustin07/mdns-resolver/internal/collector"
	mdnserrors "github.com/toddaustin07/mdns-resolver/internal/errors"
)

const (
	addressPTRListenTime = 1500 * time.Millisecond
	addressSRVListenTime = 1 * time.Second
	addressAListenTime   = 1 * time.Second
	addressFallbackDrain = 100 * time.Millisecond
)

// GetAddress resolves a service instance's FQDN
// ("<instance>.<service_type>", e.g. "Printer._http._tcp.local") to
// an IP and port by running PTR, SRV, and A lookups in sequence and
// stopping as soon as both are known. fqdn's first label must be
// non-empty and must not start with "_"; violating either logs a
// ValidationError and never invokes cb.
//
// port is nil when discovery could not determine it; ip is "" in the
// same case. Either or both may be unresolved: the callback always
// fires with whatever was learnt.
func (r *Resolver) GetAddress(ctx context.Context, fqdn string, cb func(ip string, port *uint16)) {
	if err := r.checkOpen(); err != nil {
		r.logger.Error("mdns: GetAddress rejected", "error", err)
		return
	}

	instance, serviceType, err := splitInstanceFQDN(fqdn)
	if err != nil {
		r.logger.Error("mdns: GetAddress rejected malformed fqdn", "fqdn", fqdn, "error", err)
		return
	}

	if err := r.checkRateLimit(); err != nil {
		r.logger.Warn("mdns: GetAddress rate-limited", "fqdn", fqdn, "error", err)
		return
	}

	iface, err := r.selectInterface()
	if err != nil {
		r.logger.Error("mdns: GetAddress interface selection failed", "error", err)
		return
	}

	go func() {
		callCtx, correlationID := r.callContext()
		if ctx != nil {
			callCtx = ctx
		}
		log := r.logger.With("call_id", correlationID, "op", "GetAddress", "fqdn", fqdn)

		ip, port := resolveAddress(callCtx, log, fqdn, instance, serviceType, iface)
		cb(ip, port)
	}()
}

// splitInstanceFQDN splits "<instance>.<service_type>" on the first
// dot, per the DNS-SD service instance name grammar (RFC 6763 §4.1).
func splitInstanceFQDN(fqdn string) (instance, serviceType string, err error) {
	dot := strings.IndexByte(fqdn, '.')
	if dot < 0 {
		return "", "", &mdnserrors.ValidationError{Field: "fqdn", Reason: "missing service type (no '.')"}
	}

	instance = fqdn[:dot]
	serviceType = fqdn[dot+1:]

	if instance == "" {
		return "", "", &mdnserrors.ValidationError{Field: "fqdn", Reason: "instance label is empty"}
	}
	if strings.HasPrefix(instance, "_") {
		return "", "", &mdnserrors.ValidationError{Field: "fqdn", Reason: "instance label starts with '_'"}
	}

	return instance, serviceType, nil
}

// resolveAddress runs the address-discovery fallback sequence step by
// step, stopping at the first step that yields both ip and port.
func resolveAddress(ctx context.Context, log *slog.Logger, fqdn, instance, serviceType string, iface *net.Interface) (string, *uint16) {
	// Step 1: PTR on the service type, early-terminating on the full
	// instance FQDN. A responder frequently answers with the PTR, SRV,
	// and A records combined in one datagram (RFC 6763 §12.1); matching
	// against the full FQDN, not the bare instance label, is what lets
	// that combined answer resolve in a single round trip (see
	// DESIGN.md for this open-question resolution).
	if batches, err := collector.Cycle(ctx, log, collector.Options{
		Name:           serviceType,
		RRType:         RecordTypePTR,
		ListenTime:     addressPTRListenTime,
		EarlyTerminate: true,
		EarlyMatchName: fqdn,
		Interface:      iface,
	}); err == nil {
		if ip, port, ok := scanForIPAndPort(batches, fqdn); ok {
			return ip, &port
		}
	} else {
		log.Debug("mdns: GetAddress step 1 (PTR) failed", "error", err)
	}

	// Step 2: SRV on the instance FQDN directly.
	var hostname string
	var srvPort *uint16
	if batches, err := collector.Cycle(ctx, log, collector.Options{
		Name:           fqdn,
		RRType:         RecordTypeSRV,
		ListenTime:     addressSRVListenTime,
		EarlyTerminate: true,
		Interface:      iface,
	}); err == nil {
		hostname, srvPort = scanForSRV(batches, fqdn)
	} else {
		log.Debug("mdns: GetAddress step 2 (SRV) failed", "error", err)
	}

	time.Sleep(addressFallbackDrain)

	// Step 4: A on "<instance>.local".
	var ip string
	if batches, err := collector.Cycle(ctx, log, collector.Options{
		Name:           instance + ".local",
		RRType:         RecordTypeA,
		ListenTime:     addressAListenTime,
		EarlyTerminate: true,
		Interface:      iface,
	}); err == nil {
		ip = scanForIP(batches, instance+".local")
	} else {
		log.Debug("mdns: GetAddress step 4 (A on instance.local) failed", "error", err)
	}

	if ip != "" && srvPort != nil {
		return ip, srvPort
	}

	// Step 5: A on the SRV-learnt hostname, if one was found and IP is
	// still unknown.
	if ip == "" && hostname != "" {
		if batches, err := collector.Cycle(ctx, log, collector.Options{
			Name:           hostname,
			RRType:         RecordTypeA,
			ListenTime:     addressAListenTime,
			EarlyTerminate: true,
			Interface:      iface,
		}); err == nil {
			ip = scanForIP(batches, hostname)
		} else {
			log.Debug("mdns: GetAddress step 5 (A on SRV hostname) failed", "error", err)
		}
	}

	return ip, srvPort
}

func scanForIPAndPort(batches []collector.Batch, name string) (string, uint16, bool) {
	entries := collate.Collate(batches)
	entry, ok := entries[name]
	if !ok {
		return "", 0, false
	}

	ip := entry.IP
	if !entry.HasIP {
		for _, hostname := range entry.Hostnames {
			if other, ok := entries[hostname]; ok && other.HasIP {
				ip = other.IP
				break
			}
		}
	}

	if ip == "" || !entry.HasPort {
		return "", 0, false
	}
	return ip, entry.Port, true
}

func scanForSRV(batches []collector.Batch, name string) (hostname string, port *uint16) {
	entries := collate.Collate(batches)
	entry, ok := entries[name]
	if !ok || !entry.HasPort {
		return "", nil
	}
	p := entry.Port
	if len(entry.Hostnames) > 0 {
		hostname = entry.Hostnames[0]
	}
	return hostname, &p
}

func scanForIP(batches []collector.Batch, name string) string {
	entries := collate.Collate(batches)
	if entry, ok := entries[name]; ok && entry.HasIP {
		return entry.IP
	}
	return ""
}
