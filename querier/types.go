package querier

import (
	"github.com/toddaustin07/mdns-resolver/internal/collate"
	"github.com/toddaustin07/mdns-resolver/internal/protocol"
)

// RecordType is the resource-record type a caller queries for, a
// thin public alias over the internal wire-level enum.
type RecordType = protocol.RecordType

// Record types a caller may request.
const (
	RecordTypeA   = protocol.RecordTypeA
	RecordTypePTR = protocol.RecordTypePTR
	RecordTypeSRV = protocol.RecordTypeSRV
	RecordTypeTXT = protocol.RecordTypeTXT
	RecordTypeANY = protocol.RecordTypeANY
)

// Entry is one name's collated view: IP, Port, TXT Info, and the
// deduplicated Instances/ServiceTypes/Hostnames lists, each populated
// only when a matching record was seen.
type Entry = collate.Entry

// Result is the map every callback receives: every record owner name
// seen in the collected responses, mapped to its collated Entry. The
// queried name is a key only if some response carried a record for it.
type Result = map[string]*Entry
