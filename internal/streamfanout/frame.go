package streamfanout

import (
	"encoding/binary"
	"math"
)

// colorMatrix is the BT.709 partial-range YCbCr→RGB matrix (row-major,
// 4x4, as spec.md §4.6 requires it on the wire) — the only matrix this
// gateway ever emits, since the repaired MJPEG frames are always
// partial-range BT.709 from consumer UVC sensors.
var colorMatrix = [16]float32{
	1, 0, 1.5748, 0,
	1, -0.1873, -0.4681, 0,
	1, 1.8556, 0, 0,
	0, 0, 0, 1,
}

var (
	colorRangeMin = [3]float32{0, 0, 0}
	colorRangeMax = [3]float32{1, 1, 1}
)

// buildFrame serializes one JPEG payload into the wire format spec.md
// §4.6 specifies: a 4-byte "JPEG" tag, a little-endian nanosecond
// timestamp, payload size, the fixed color matrix/range, then the
// payload itself.
func buildFrame(timestampNS uint64, jpeg []byte) []byte {
	out := make([]byte, 0, 4+8+4+16*4+3*4+3*4+len(jpeg))
	out = append(out, 'J', 'P', 'E', 'G')
	out = appendUint64LE(out, timestampNS)
	out = appendInt32LE(out, int32(len(jpeg)))
	for _, f := range colorMatrix {
		out = appendFloat32LE(out, f)
	}
	for _, f := range colorRangeMin {
		out = appendFloat32LE(out, f)
	}
	for _, f := range colorRangeMax {
		out = appendFloat32LE(out, f)
	}
	out = append(out, jpeg...)
	return out
}

func appendUint64LE(b []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(b, tmp[:]...)
}

func appendInt32LE(b []byte, v int32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	return append(b, tmp[:]...)
}

func appendFloat32LE(b []byte, v float32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(v))
	return append(b, tmp[:]...)
}
