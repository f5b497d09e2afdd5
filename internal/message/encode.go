package message

import (
	"encoding/binary"
	"strings"

	"github.com/toddaustin07/mdns-resolver/internal/protocol"
)

// EncodeQuery builds a one-question mDNS query datagram (RFC 6762
// §5.1): transaction id 0, flags 0, QDCOUNT 1, ANCOUNT/NSCOUNT/ARCOUNT
// 0, a single question with no name compression and the
// unicast-response-preferred bit set on the question class.
func EncodeQuery(name string, rrtype protocol.RecordType) []byte {
	buf := make([]byte, protocol.HeaderSize)
	binary.BigEndian.PutUint16(buf[4:6], 1) // QDCOUNT

	buf = append(buf, encodeName(name)...)

	qtype := make([]byte, 4)
	binary.BigEndian.PutUint16(qtype[0:2], uint16(rrtype))
	binary.BigEndian.PutUint16(qtype[2:4], protocol.ClassIN|protocol.ClassUnicastResponseBit)
	buf = append(buf, qtype...)

	return buf
}

// encodeName serialises name as length-prefixed labels terminated by a
// zero byte. Outgoing queries never use compression. Empty segments
// produced by splitting on "." (leading/trailing/doubled dots) are
// skipped rather than encoded as zero-length labels.
func encodeName(name string) []byte {
	var buf []byte
	for _, label := range strings.Split(name, ".") {
		if label == "" {
			continue
		}
		buf = append(buf, byte(len(label)))
		buf = append(buf, label...)
	}
	buf = append(buf, 0x00)
	return buf
}
