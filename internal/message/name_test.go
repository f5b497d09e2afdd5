package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toddaustin07/mdns-resolver/internal/protocol"
)

func TestParseName_Uncompressed(t *testing.T) {
	data := []byte{
		0x04, 't', 'e', 's', 't',
		0x05, 'l', 'o', 'c', 'a', 'l',
		0x00,
	}

	name, off, err := ParseName(data, 0)
	require.NoError(t, err)
	assert.Equal(t, "test.local", name)
	assert.Equal(t, 12, off)
}

func TestParseName_Root(t *testing.T) {
	name, off, err := ParseName([]byte{0x00}, 0)
	require.NoError(t, err)
	assert.Equal(t, "", name)
	assert.Equal(t, 1, off)
}

func TestParseName_CompressionPointer(t *testing.T) {
	data := []byte{
		// offset 0: "example.local\x00"
		0x07, 'e', 'x', 'a', 'm', 'p', 'l', 'e',
		0x05, 'l', 'o', 'c', 'a', 'l',
		0x00,
		// offset 15: "test" + pointer to offset 8 ("local")
		0x04, 't', 'e', 's', 't',
		0xC0, 0x08,
	}

	name, off, err := ParseName(data, 15)
	require.NoError(t, err)
	assert.Equal(t, "test.local", name)
	// consumed offset accounts only for the label plus the two-byte
	// pointer, not the length of the name it points to.
	assert.Equal(t, 22, off)
}

func TestParseName_CompressionPointerMustPointBackward(t *testing.T) {
	// Pointer to itself: target (0) is not < pos (0).
	_, _, err := ParseName([]byte{0xC0, 0x00}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not point backward")
}

func TestParseName_TruncatedPointer(t *testing.T) {
	_, _, err := ParseName([]byte{0xC0}, 0)
	require.Error(t, err)
}

func TestParseName_TruncatedLabel(t *testing.T) {
	_, _, err := ParseName([]byte{0x05, 't', 'e'}, 0)
	require.Error(t, err)
}

func TestParseName_OffsetOutOfRange(t *testing.T) {
	_, _, err := ParseName([]byte{0x04, 't', 'e', 's', 't', 0x00}, 100)
	require.Error(t, err)
}

func TestParseName_LabelExceedsMaxLength(t *testing.T) {
	data := append([]byte{protocol.MaxLabelLength + 1}, make([]byte, protocol.MaxLabelLength+1)...)
	_, _, err := ParseName(data, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestParseName_PointerHopLimitExceeded(t *testing.T) {
	// Build N two-byte pointers, each at offset 1+2k pointing to the
	// previous pointer (offset 1+2(k-1)), with the first pointing at
	// the root byte at offset 0. Parsing the last pointer must follow
	// N backward hops before reaching root, exceeding
	// protocol.MaxPointerHops.
	const n = protocol.MaxPointerHops + 5

	data := make([]byte, 1+2*n)
	data[0] = 0x00 // root
	for k := 0; k < n; k++ {
		target := 0
		if k > 0 {
			target = 1 + 2*(k-1)
		}
		off := 1 + 2*k
		data[off] = 0xC0 | byte(target>>8)
		data[off+1] = byte(target)
	}

	_, _, err := ParseName(data, 1+2*(n-1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hops")
}
