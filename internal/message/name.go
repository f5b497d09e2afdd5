// Package message implements the mDNS wire codec: encoding outgoing
// queries and decoding incoming responses, including RFC 1035 §4.1.4
// name compression.
package message

import (
	"fmt"

	"github.com/toddaustin07/mdns-resolver/internal/protocol"
)

// ParseName decodes a domain name starting at offset in msg, following
// compression pointers against the full message per RFC 1035 §4.1.4.
//
// It returns the decoded name (dot-joined labels, no trailing dot) and
// the offset immediately after the name *as it appears in the current
// record* — once a pointer is followed, the return offset accounts for
// only the two bytes of that pointer, regardless of how long the name
// it points to turns out to be.
//
// ParseName enforces protocol.MaxPointerHops to guarantee termination
// on cyclic or adversarial pointer chains, and protocol.MaxLabelLength
// per RFC 1035 §3.1.
func ParseName(msg []byte, offset int) (string, int, error) {
	var labels []string
	pos := offset
	consumed := -1 // offset to return; set once a pointer is taken
	hops := 0

	for {
		if pos < 0 || pos >= len(msg) {
			return "", 0, fmt.Errorf("name offset %d out of range (len %d)", pos, len(msg))
		}

		length := msg[pos]

		switch {
		case length == 0:
			// Root label: name terminates here.
			if consumed == -1 {
				consumed = pos + 1
			}
			return joinLabels(labels), consumed, nil

		case length&0xC0 == 0xC0:
			if pos+1 >= len(msg) {
				return "", 0, fmt.Errorf("invalid compression pointer: truncated at offset %d", pos)
			}
			hops++
			if hops > protocol.MaxPointerHops {
				return "", 0, fmt.Errorf("invalid compression pointer: exceeded %d hops", protocol.MaxPointerHops)
			}

			target := int(length&0x3F)<<8 | int(msg[pos+1])
			if consumed == -1 {
				consumed = pos + 2
			}
			if target >= pos {
				return "", 0, fmt.Errorf("invalid compression pointer: offset %d does not point backward (from %d)", target, pos)
			}
			pos = target

		default:
			labelLen := int(length)
			if labelLen > protocol.MaxLabelLength {
				return "", 0, fmt.Errorf("label length %d exceeds maximum %d bytes per RFC 1035 §3.1", labelLen, protocol.MaxLabelLength)
			}
			start := pos + 1
			end := start + labelLen
			if end > len(msg) {
				return "", 0, fmt.Errorf("label at offset %d overruns message (len %d)", pos, len(msg))
			}
			labels = append(labels, string(msg[start:end]))
			pos = end
		}
	}
}

func joinLabels(labels []string) string {
	out := ""
	for i, l := range labels {
		if i > 0 {
			out += "."
		}
		out += l
	}
	return out
}
