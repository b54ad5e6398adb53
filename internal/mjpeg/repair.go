/*Package mjpeg repairs motion JPEG frames captured from UVC webcams
that are missing their DHT (Huffman table) segments — the frame is
otherwise valid but no standard JPEG decoder will open it without the
tables it implicitly relies on (spec.md §4.4). Repair walks every
segment, installing any DHT tables the frame does carry over a
default bank from the JPEG standard's Annex K, and re-emits the frame
with the huffman-coded scan data trimmed to its real length — capture
hardware sometimes pads a trailing 0xFF that isn't part of the
entropy-coded stream, which corrupts the segment boundary if left in
place. Repair does not add DHT segments to a frame that has none.
*/
package mjpeg

import "errors"

// ErrMalformed is returned for input that cannot possibly be a JPEG
// frame: too short, or missing the SOI+APP0 header this package
// requires as its precondition (spec.md §4.4, "first 4 bytes FF D8
// FF E0").
var ErrMalformed = errors.New("mjpeg: malformed frame")

const minFrameLen = 32

type jpegComponent struct {
	id             byte
	huffDC, huffAC byte
	repeat         byte
}

// Repair validates and rewrites data, walking restart-delimited scans
// with the default Huffman tables (or the frame's own DHT tables, where
// it carries them) and trimming any spurious trailing bytes found there.
// The output carries only the DHT segments present in the input; the
// default tables are not written into it. The input is never mutated.
func Repair(data []byte) ([]byte, error) {
	if len(data) < minFrameLen {
		return nil, ErrMalformed
	}
	if data[0] != 0xFF || data[1] != 0xD8 || data[2] != 0xFF || data[3] != 0xE0 {
		return nil, ErrMalformed
	}

	var restartInterval uint16
	var components []jpegComponent
	tables := defaultTables()

	datalen := len(data)
	res := make([]byte, 0, datalen+8)
	pi := 0

	for {
		if pi+1 >= datalen {
			return nil, ErrMalformed
		}
		if data[pi+1] == 0xD9 {
			break
		}

		blk := []byte{data[pi]}
		pi++
		for {
			if pi+2 > datalen {
				return nil, ErrMalformed
			}
			el := data[pi]
			if el != 0xFF {
				blk = append(blk, el)
				pi++
				continue
			}
			if data[pi+1] == 0x00 {
				blk = append(blk, 0xFF)
				pi += 2
				continue
			}
			break
		}

		blk = processSegment(blk, &restartInterval, &components, tables)

		res = append(res, 0xFF)
		for _, el := range blk[1:] {
			if el == 0xFF {
				res = append(res, 0xFF, 0x00)
			} else {
				res = append(res, el)
			}
		}
	}

	res = append(res, 0xFF, 0xD9)
	return res, nil
}

// processSegment interprets one already-destuffed segment (blk[0] is
// the leading 0xFF, blk[1] the marker type), updating parser state and
// returning the segment with any spurious restart-scan trailer
// trimmed off.
func processSegment(blk []byte, restartInterval *uint16, components *[]jpegComponent, tables map[byte]*huffmanTable) []byte {
	switch blk[1] {
	case 0xC0: // SOF0
		if len(blk) < 10 {
			return blk
		}
		ncomponents := int(blk[9])
		if len(blk) < 10+ncomponents*3 {
			return blk
		}
		cs := make([]jpegComponent, 0, ncomponents)
		for c := 0; c < ncomponents; c++ {
			sampling := blk[11+c*3]
			h, v := sampling>>4, sampling&0x0F
			cs = append(cs, jpegComponent{id: blk[10+c*3], repeat: h * v})
		}
		*components = cs

	case 0xC4: // DHT
		if len(blk) < 30 {
			return blk
		}
		tables[blk[4]] = newHuffmanTable(blk[5:21], blk[21:])

	case 0xDD: // DRI
		if len(blk) >= 6 {
			*restartInterval = uint16(blk[4])<<8 | uint16(blk[5])
		}

	case 0xDA: // SOS
		prev := int(blk[2])<<8 | int(blk[3])
		ncomponents := int(blk[4])
		for i := 0; i < ncomponents && 6+i*2 <= len(blk); i++ {
			id := blk[5+i*2]
			ids := blk[6+i*2]
			for ci := range *components {
				if (*components)[ci].id == id {
					(*components)[ci].huffDC = ids >> 4
					(*components)[ci].huffAC = ids & 0x0F
				}
			}
		}
		if *restartInterval > 0 && len(blk) > 2+prev && blk[len(blk)-1] == 0xFF {
			blk = trimScanTrailer(blk, blk[2+prev:], *restartInterval, *components, tables)
		}

	case 0xD0, 0xD1, 0xD2, 0xD3, 0xD4, 0xD5, 0xD6, 0xD7: // RSTn
		if len(blk) > 2 && blk[len(blk)-1] == 0xFF {
			blk = trimScanTrailer(blk, blk[2:], *restartInterval, *components, tables)
		}
	}
	return blk
}

// trimScanTrailer walks restartInterval MCUs of entropy-coded data
// through the Huffman tables to find where the real data ends, then
// drops whatever whole bytes of blk fall after that point — a
// trailing 0xFF that survived destuffing because it was immediately
// followed by the next marker, not by a literal 0x00.
func trimScanTrailer(blk, scanData []byte, restartInterval uint16, components []jpegComponent, tables map[byte]*huffmanTable) []byte {
	s := newBitStream(scanData)
	for n := uint16(0); n < restartInterval; n++ {
		for _, c := range components {
			for r := byte(0); r < c.repeat; r++ {
				decodeBlock(tables, s, c.huffDC, c.huffAC)
			}
		}
	}
	extra := s.extraBytes()
	if extra <= 0 || extra > len(blk) {
		return blk
	}
	return blk[:len(blk)-extra]
}

// decodeBlock walks one 8x8 block's worth of entropy-coded
// coefficients (one DC symbol, then AC symbols until end-of-block),
// discarding the values — only the bit position after the block
// matters to the caller.
func decodeBlock(tables map[byte]*huffmanTable, s *bitStream, dcID, acID byte) {
	dc, ok := tables[dcID]
	if !ok {
		return
	}
	size := dc.decode(s)
	s.bits(size)

	ac, ok := tables[0x10|acID]
	if !ok {
		return
	}
	coeffs := 1
	for coeffs < 64 {
		code := ac.decode(s)
		if code == 0 {
			return
		}
		if code > 15 {
			coeffs += int(code >> 4)
			code &= 0x0F
		}
		s.bits(code)
		if coeffs < 64 {
			coeffs++
		}
	}
}
