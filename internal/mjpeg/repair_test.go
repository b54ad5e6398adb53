package mjpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildFrame assembles a minimal, DHT-free MJPEG frame: SOI, APP0,
// SOF0 (1 grayscale component, no subsampling), SOS, a few entropy
// bytes, EOI. Good enough to exercise segment walking without a real
// sensor.
func buildFrame(entropy []byte) []byte {
	var b []byte
	b = append(b, 0xFF, 0xD8)
	b = append(b, 0xFF, 0xE0, 0x00, 0x10)
	b = append(b, 'J', 'F', 'I', 'F', 0x00, 0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00)
	b = append(b, 0xFF, 0xC0, 0x00, 0x0B, 0x08, 0x00, 0x02, 0x00, 0x02, 0x01, 0x01, 0x11, 0x00)
	b = append(b, 0xFF, 0xDA, 0x00, 0x08, 0x01, 0x01, 0x00, 0x00, 0x3F, 0x00)
	b = append(b, entropy...)
	b = append(b, 0xFF, 0xD9)
	return b
}

func TestRepairWellFormed(t *testing.T) {
	frame := buildFrame([]byte{0x55, 0xAA, 0x12, 0x34})
	out, err := Repair(frame)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(out), 4)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF, 0xE0}, out[:4])
	assert.Equal(t, []byte{0xFF, 0xD9}, out[len(out)-2:])
}

func TestRepairIdempotent(t *testing.T) {
	frame := buildFrame([]byte{0x01, 0x02, 0xFF, 0x00, 0x03})
	once, err := Repair(frame)
	require.NoError(t, err)

	twice, err := Repair(once)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestRepairRejectsTooShort(t *testing.T) {
	_, err := Repair([]byte{0xFF, 0xD8, 0xFF, 0xE0})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestRepairRejectsBadHeader(t *testing.T) {
	frame := buildFrame([]byte{0x01, 0x02, 0x03, 0x04})
	frame[3] = 0xE1 // not APP0
	_, err := Repair(frame)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestRepairDestuffsLiteralFF(t *testing.T) {
	// A literal 0xFF inside entropy data must be byte-stuffed (FF 00)
	// on input and remain stuffed on output.
	frame := buildFrame([]byte{0xFF, 0x00, 0x10})
	out, err := Repair(frame)
	require.NoError(t, err)

	found := false
	for i := 0; i+1 < len(out); i++ {
		if out[i] == 0xFF && out[i+1] == 0x00 {
			found = true
			break
		}
	}
	assert.True(t, found, "expected a stuffed 0xFF 0x00 pair to survive repair")
}

func TestDefaultTablesCoverAllFourSlots(t *testing.T) {
	tables := defaultTables()
	for _, k := range []byte{0x00, 0x01, 0x10, 0x11} {
		_, ok := tables[k]
		assert.True(t, ok, "missing default table for slot %#x", k)
	}
}
