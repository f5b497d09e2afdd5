package collate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toddaustin07/mdns-resolver/internal/collector"
	"github.com/toddaustin07/mdns-resolver/internal/protocol"
	"github.com/toddaustin07/mdns-resolver/internal/records"
)

func rr(name string, decoded records.Decoded) records.ResourceRecord {
	rt := protocol.RecordTypeA
	switch decoded.(type) {
	case records.PTR:
		rt = protocol.RecordTypePTR
	case records.SRV:
		rt = protocol.RecordTypeSRV
	case records.TXT:
		rt = protocol.RecordTypeTXT
	}
	return records.ResourceRecord{Name: name, Type: rt, Decoded: decoded}
}

func TestCollate_ARecordSetsIP(t *testing.T) {
	batches := []collector.Batch{
		{rr("host1.local", records.A{IP: [4]byte{192, 168, 1, 7}})},
	}

	entries := Collate(batches)
	entry, ok := entries["host1.local"]
	require.True(t, ok)
	assert.True(t, entry.HasIP)
	assert.Equal(t, "192.168.1.7", entry.IP)
}

func TestCollate_SRVSetsPortAndHostname(t *testing.T) {
	batches := []collector.Batch{
		{rr("Printer._http._tcp.local", records.SRV{Target: "host1.local", Port: 80})},
	}

	entries := Collate(batches)
	entry := entries["Printer._http._tcp.local"]
	require.NotNil(t, entry)
	assert.True(t, entry.HasPort)
	assert.Equal(t, uint16(80), entry.Port)
	assert.Equal(t, []string{"host1.local"}, entry.Hostnames)
}

func TestCollate_PTRToServiceEnumerationNameGoesToServiceTypes(t *testing.T) {
	batches := []collector.Batch{
		{rr(serviceEnumerationName, records.PTR{Target: "_http._tcp.local"})},
	}

	entries := Collate(batches)
	entry := entries[serviceEnumerationName]
	require.NotNil(t, entry)
	assert.Equal(t, []string{"_http._tcp.local"}, entry.ServiceTypes)
	assert.Empty(t, entry.Instances)
}

func TestCollate_PTRToOtherNameGoesToInstances(t *testing.T) {
	batches := []collector.Batch{
		{rr("_http._tcp.local", records.PTR{Target: "Printer._http._tcp.local"})},
	}

	entries := Collate(batches)
	entry := entries["_http._tcp.local"]
	require.NotNil(t, entry)
	assert.Equal(t, []string{"Printer._http._tcp.local"}, entry.Instances)
}

func TestCollate_TXTSetsInfo(t *testing.T) {
	batches := []collector.Batch{
		{rr("Printer._http._tcp.local", records.TXT{Pairs: map[string]string{"path": "/index.html"}})},
	}

	entries := Collate(batches)
	entry := entries["Printer._http._tcp.local"]
	require.NotNil(t, entry)
	assert.Equal(t, "/index.html", entry.Info["path"])
}

func TestCollate_DeduplicatesRepeatedInstancesAcrossBatches(t *testing.T) {
	batches := []collector.Batch{
		{rr("_http._tcp.local", records.PTR{Target: "Printer._http._tcp.local"})},
		{rr("_http._tcp.local", records.PTR{Target: "Printer._http._tcp.local"})},
		{rr("_http._tcp.local", records.PTR{Target: "Scanner._http._tcp.local"})},
	}

	entries := Collate(batches)
	entry := entries["_http._tcp.local"]
	require.NotNil(t, entry)
	assert.ElementsMatch(t, []string{"Printer._http._tcp.local", "Scanner._http._tcp.local"}, entry.Instances)
}

func TestCollate_IsIdempotent(t *testing.T) {
	batches := []collector.Batch{
		{
			rr("host1.local", records.A{IP: [4]byte{10, 0, 0, 1}}),
			rr("_http._tcp.local", records.PTR{Target: "Printer._http._tcp.local"}),
		},
	}

	first := Collate(batches)
	second := Collate(batches)
	assert.Equal(t, first, second)
}

func TestCollate_UnrecognisedDecodedTypeStillCreatesEntry(t *testing.T) {
	batches := []collector.Batch{
		{records.ResourceRecord{Name: "host1.local", Type: protocol.RecordTypeAAAA, Decoded: nil}},
	}

	entries := Collate(batches)
	entry, ok := entries["host1.local"]
	require.True(t, ok)
	assert.False(t, entry.HasIP)
	assert.False(t, entry.HasPort)
}

func TestCollate_EmptyBatchesYieldsEmptyMap(t *testing.T) {
	entries := Collate(nil)
	assert.Empty(t, entries)
}
