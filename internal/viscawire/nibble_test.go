package viscawire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNibbleRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 2047, -2047, 123, -999} {
		ns := intToNibble(v, 4)
		assert.Equal(t, v, nibbleToInt(ns), "value %d", v)
	}
}

func TestArcSecNibbleRoundTripApprox(t *testing.T) {
	// The VISCA unit conversion is lossy (2359/36000 truncates), so a
	// round trip should land within one VISCA unit of the original.
	arcSec := int64(18000) // 5 degrees
	ns := arcSecToNibble(arcSec, 5)
	got := nibbleToArcSec(ns)
	delta := got - arcSec
	if delta < 0 {
		delta = -delta
	}
	assert.LessOrEqual(t, delta, int64(36000/2359+1))
}

func TestIntToNibbleMSBFirst(t *testing.T) {
	assert.Equal(t, []byte{0x0, 0x0, 0x1, 0x2}, intToNibble(0x12, 4))
}
