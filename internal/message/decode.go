package message

import (
	"encoding/binary"
	"fmt"

	mdnserrors "github.com/toddaustin07/mdns-resolver/internal/errors"
	"github.com/toddaustin07/mdns-resolver/internal/protocol"
	"github.com/toddaustin07/mdns-resolver/internal/records"
)

// Header mirrors the fixed 12-byte DNS message header (RFC 1035 §4.1.1).
type Header struct {
	TransactionID uint16
	Flags         uint16
	QDCount       uint16
	ANCount       uint16
	NSCount       uint16
	ARCount       uint16
}

// IsResponse reports whether the QR bit is set.
func (h Header) IsResponse() bool { return h.Flags&protocol.FlagQR != 0 }

// IsAuthoritative reports whether the AA bit is set.
func (h Header) IsAuthoritative() bool { return h.Flags&protocol.FlagAA != 0 }

// Message is the decoded form of one mDNS response datagram. Only the
// resource records (answer + authority + additional, in wire order)
// are retained; questions are parsed to advance the cursor and then
// discarded.
type Message struct {
	Header  Header
	Records []records.ResourceRecord
}

// Decode parses one mDNS response datagram. It returns a DecodeError
// (never a bare error) for every structural failure, so callers can
// use errors.As to distinguish "reject this datagram" from a programming
// error, and it never returns a partially populated Message on error:
// a structurally malformed record (bad name, truncated record header,
// rdata overrunning the datagram) aborts the whole batch. A record
// whose rdata fails its type's parser is dropped and the rest kept.
func Decode(msg []byte) (*Message, error) {
	if len(msg) < protocol.HeaderSize {
		return nil, &mdnserrors.DecodeError{Stage: "header", Err: fmt.Errorf("message too short: %d bytes", len(msg))}
	}

	hdr := Header{
		TransactionID: binary.BigEndian.Uint16(msg[0:2]),
		Flags:         binary.BigEndian.Uint16(msg[2:4]),
		QDCount:       binary.BigEndian.Uint16(msg[4:6]),
		ANCount:       binary.BigEndian.Uint16(msg[6:8]),
		NSCount:       binary.BigEndian.Uint16(msg[8:10]),
		ARCount:       binary.BigEndian.Uint16(msg[10:12]),
	}

	if hdr.TransactionID != 0 {
		return nil, &mdnserrors.DecodeError{Stage: "header", Err: fmt.Errorf("non-zero transaction id %d", hdr.TransactionID)}
	}
	if !hdr.IsResponse() || !hdr.IsAuthoritative() {
		return nil, &mdnserrors.DecodeError{Stage: "header", Err: fmt.Errorf("missing QR/AA flags (got 0x%04x)", hdr.Flags)}
	}

	offset := protocol.HeaderSize

	for i := 0; i < int(hdr.QDCount); i++ {
		var err error
		_, offset, err = ParseName(msg, offset)
		if err != nil {
			return nil, &mdnserrors.DecodeError{Stage: "question name", Err: err}
		}
		if offset+4 > len(msg) {
			return nil, &mdnserrors.DecodeError{Stage: "question", Err: fmt.Errorf("truncated question at offset %d", offset)}
		}
		offset += 4 // QTYPE + QCLASS
	}

	total := int(hdr.ANCount) + int(hdr.NSCount) + int(hdr.ARCount)
	out := make([]records.ResourceRecord, 0, total)

	for i := 0; i < total; i++ {
		rr, next, err := decodeRecord(msg, offset)
		if err != nil {
			return nil, &mdnserrors.DecodeError{Stage: "record", Err: err}
		}
		offset = next
		if rr != nil {
			out = append(out, *rr)
		}
	}

	return &Message{Header: hdr, Records: out}, nil
}

func decodeRecord(msg []byte, offset int) (*records.ResourceRecord, int, error) {
	name, offset, err := ParseName(msg, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("name: %w", err)
	}

	if offset+10 > len(msg) {
		return nil, 0, fmt.Errorf("truncated record header at offset %d", offset)
	}

	rrtype := binary.BigEndian.Uint16(msg[offset : offset+2])
	class := binary.BigEndian.Uint16(msg[offset+2 : offset+4])
	ttl := binary.BigEndian.Uint32(msg[offset+4 : offset+8])
	rdlength := binary.BigEndian.Uint16(msg[offset+8 : offset+10])
	offset += 10

	if offset+int(rdlength) > len(msg) {
		return nil, 0, fmt.Errorf("rdata for %q overruns message (rdlength %d at offset %d)", name, rdlength, offset)
	}
	rdata := msg[offset : offset+int(rdlength)]
	next := offset + int(rdlength)

	decoded, err := decodeRData(msg, protocol.RecordType(rrtype), rdata, offset)
	if err != nil {
		// A single record failing to decode drops that record but does
		// not abort the whole batch, unless it's a structural overrun
		// (checked above). Malformed rdata (e.g. wrong-length A record)
		// is reported by returning a nil record, not an error.
		return nil, next, nil
	}

	rr := &records.ResourceRecord{
		Name:    name,
		Type:    protocol.RecordType(rrtype),
		Class:   class,
		TTL:     ttl,
		RData:   rdata,
		Decoded: decoded,
	}
	return rr, next, nil
}

// decodeRData dispatches to a per-type parser. rdataOffset is rdata's
// absolute offset in msg, needed because PTR/SRV targets may use
// compression pointers back into the full datagram.
func decodeRData(msg []byte, rrtype protocol.RecordType, rdata []byte, rdataOffset int) (records.Decoded, error) {
	switch rrtype {
	case protocol.RecordTypeA:
		if len(rdata) != 4 {
			return nil, fmt.Errorf("A record rdlength %d != 4", len(rdata))
		}
		return records.A{IP: [4]byte{rdata[0], rdata[1], rdata[2], rdata[3]}}, nil

	case protocol.RecordTypePTR:
		target, _, err := ParseName(msg, rdataOffset)
		if err != nil {
			return nil, fmt.Errorf("PTR target: %w", err)
		}
		return records.PTR{Target: target}, nil

	case protocol.RecordTypeSRV:
		if len(rdata) < 6 {
			return nil, fmt.Errorf("SRV rdlength %d < 6", len(rdata))
		}
		target, _, err := ParseName(msg, rdataOffset+6)
		if err != nil {
			return nil, fmt.Errorf("SRV target: %w", err)
		}
		return records.SRV{
			Priority: binary.BigEndian.Uint16(rdata[0:2]),
			Weight:   binary.BigEndian.Uint16(rdata[2:4]),
			Port:     binary.BigEndian.Uint16(rdata[4:6]),
			Target:   target,
		}, nil

	case protocol.RecordTypeTXT:
		return records.TXT{Pairs: parseTXT(rdata)}, nil

	default:
		return nil, nil
	}
}

// parseTXT walks length-prefixed key[=value] items per RFC 6763 §6.4.
// An item with no '=' yields key=whole-item, value="". Empty rdata
// yields an empty (non-nil) map.
func parseTXT(rdata []byte) map[string]string {
	pairs := map[string]string{}
	pos := 0
	for pos < len(rdata) {
		itemLen := int(rdata[pos])
		pos++
		if pos+itemLen > len(rdata) {
			break // truncated item: stop, keep what was parsed so far
		}
		item := string(rdata[pos : pos+itemLen])
		pos += itemLen

		if item == "" {
			continue
		}
		if eq := indexByte(item, '='); eq >= 0 {
			pairs[item[:eq]] = item[eq+1:]
		} else {
			pairs[item] = ""
		}
	}
	return pairs
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
