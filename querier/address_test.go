package querier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toddaustin07/mdns-resolver/internal/collector"
	"github.com/toddaustin07/mdns-resolver/internal/protocol"
	"github.com/toddaustin07/mdns-resolver/internal/records"
)

func TestSplitInstanceFQDN(t *testing.T) {
	instance, serviceType, err := splitInstanceFQDN("Printer._http._tcp.local")
	require.NoError(t, err)
	assert.Equal(t, "Printer", instance)
	assert.Equal(t, "_http._tcp.local", serviceType)
}

func TestSplitInstanceFQDN_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		fqdn   string
		errMsg string
	}{
		{"no dot at all", "Printer", "missing service type"},
		{"empty instance label", "._http._tcp.local", "instance label is empty"},
		{"instance starts with underscore", "_Printer._http._tcp.local", "starts with '_'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := splitInstanceFQDN(tt.fqdn)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func rrFor(name string, decoded records.Decoded, rrtype protocol.RecordType) records.ResourceRecord {
	return records.ResourceRecord{Name: name, Type: rrtype, Decoded: decoded}
}

// TestScanForIPAndPort_CombinedResponse exercises a single datagram
// carrying PTR, SRV, and A together, which must resolve the full
// instance name to both ip and port.
func TestScanForIPAndPort_CombinedResponse(t *testing.T) {
	fqdn := "Printer._http._tcp.local"
	batches := []collector.Batch{
		{
			rrFor("_http._tcp.local", records.PTR{Target: fqdn}, protocol.RecordTypePTR),
			rrFor(fqdn, records.SRV{Target: "host1.local", Port: 80}, protocol.RecordTypeSRV),
			rrFor("host1.local", records.A{IP: [4]byte{192, 168, 1, 7}}, protocol.RecordTypeA),
		},
	}

	ip, port, ok := scanForIPAndPort(batches, fqdn)
	require.True(t, ok)
	assert.Equal(t, "192.168.1.7", ip)
	assert.Equal(t, uint16(80), port)
}

func TestScanForIPAndPort_MissingIPFailsClosed(t *testing.T) {
	fqdn := "Printer._http._tcp.local"
	batches := []collector.Batch{
		{rrFor(fqdn, records.SRV{Target: "host1.local", Port: 80}, protocol.RecordTypeSRV)},
	}

	_, _, ok := scanForIPAndPort(batches, fqdn)
	assert.False(t, ok)
}

func TestScanForSRV_RecordsHostnameAndPort(t *testing.T) {
	fqdn := "Printer._http._tcp.local"
	batches := []collector.Batch{
		{rrFor(fqdn, records.SRV{Target: "host1.local", Port: 80}, protocol.RecordTypeSRV)},
	}

	hostname, port := scanForSRV(batches, fqdn)
	assert.Equal(t, "host1.local", hostname)
	require.NotNil(t, port)
	assert.Equal(t, uint16(80), *port)
}

func TestScanForSRV_NoMatchReturnsNil(t *testing.T) {
	hostname, port := scanForSRV(nil, "Printer._http._tcp.local")
	assert.Empty(t, hostname)
	assert.Nil(t, port)
}

func TestScanForIP_MatchesExactName(t *testing.T) {
	batches := []collector.Batch{
		{rrFor("Printer.local", records.A{IP: [4]byte{10, 0, 0, 5}}, protocol.RecordTypeA)},
	}

	assert.Equal(t, "10.0.0.5", scanForIP(batches, "Printer.local"))
	assert.Equal(t, "", scanForIP(batches, "other.local"))
}
