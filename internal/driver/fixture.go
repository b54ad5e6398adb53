package driver

// syntheticMJPEGFrame builds a minimal single-component JPEG frame in
// the shape real UVC MJPEG endpoints emit: SOI+JFIF, SOF0, SOS, a
// restart-free entropy segment (including a stuffed 0xFF 0x00 byte),
// EOI — and deliberately no DHT segment, so internal/mjpeg has
// something to repair on every captured frame.
func syntheticMJPEGFrame(seq int) []byte {
	var b []byte
	b = append(b, 0xFF, 0xD8) // SOI
	b = append(b, 0xFF, 0xE0, 0x00, 0x10) // APP0, length 16
	b = append(b, 'J', 'F', 'I', 'F', 0x00, 0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00)

	// SOF0: length 11, precision 8, height 2, width 2, 1 component
	b = append(b, 0xFF, 0xC0, 0x00, 0x0B, 0x08, 0x00, 0x02, 0x00, 0x02, 0x01, 0x01, 0x11, 0x00)

	// SOS: length 8, 1 component, component id 1 -> DC/AC table 0,
	// spectral selection 0 63 0
	b = append(b, 0xFF, 0xDA, 0x00, 0x08, 0x01, 0x01, 0x00, 0x00, 0x3F, 0x00)

	// Entropy-coded bytes: vary with seq so frames differ, include a
	// stuffed 0xFF.
	b = append(b, byte(seq), 0xFF, 0x00, byte(seq*7+1), 0x55, 0xAA)

	b = append(b, 0xFF, 0xD9) // EOI
	return b
}
