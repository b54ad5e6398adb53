package viscawire

import "github.com/viscagw/viscagw/internal/camera"

// replyPrefix is the body prefix for a successful inquiry reply
// (spec.md §4.2); the frame itself is reply-address 0x91 followed by
// this prefix, the payload, and the 0xFF terminator appended by the
// caller.
const replyPrefix = 0x50

// inquiryReply answers one inquiry body (already known to start with
// 0x09) by querying the bound Camera Actor synchronously over cmds.
// Anything not in spec.md §4.2's inquiry table returns the
// unsupported-error frame.
func inquiryReply(b []byte, cmds chan<- camera.Command) []byte {
	switch {
	case matches(b, 0x09, 0x00, 0x02):
		return frame(replyPrefix, 0x09, 0x99, 0x00, 0x01, 0x00, 0x01, 0x02)

	case matches(b, 0x09, 0x06, 0x12):
		pt := queryPanTilt(cmds)
		payload := append([]byte{replyPrefix}, arcSecToNibble(pt.Pan, 5)...)
		payload = append(payload, arcSecToNibble(pt.Tilt, 4)...)
		return frameBytes(payload)

	case matches(b, 0x09, 0x04, 0x38):
		if queryFocusAuto(cmds) {
			return frame(replyPrefix, 0x02)
		}
		return frame(replyPrefix, 0x03)

	case matches(b, 0x09, 0x04, 0x35):
		return frame(replyPrefix, byte(queryWBMode(cmds)))

	case matches(b, 0x09, 0x7E, 0x7E, 0x00):
		return lensBlockReply(cmds)

	case matches(b, 0x09, 0x7E, 0x7E, 0x01), matches(b, 0x09, 0x7E, 0x7E, 0x03):
		return errUnsupported
	}

	return errUnsupported
}

func frame(prefix byte, payload ...byte) []byte {
	out := make([]byte, 0, len(payload)+3)
	out = append(out, 0x91, prefix)
	out = append(out, payload...)
	out = append(out, 0xFF)
	return out
}

func frameBytes(payload []byte) []byte {
	out := make([]byte, 0, len(payload)+2)
	out = append(out, 0x91)
	out = append(out, payload...)
	out = append(out, 0xFF)
	return out
}

// lensBlockReply builds the 16-byte lens block payload; only the bit
// spec.md §4.2 documents (byte 11 bit 0 = focus auto) is populated.
func lensBlockReply(cmds chan<- camera.Command) []byte {
	body := make([]byte, 16)
	if queryFocusAuto(cmds) {
		body[11] |= 0x01
	}
	return frameBytes(append([]byte{replyPrefix}, body...))
}

func queryPanTilt(cmds chan<- camera.Command) camera.PanTilt {
	reply := make(chan camera.PanTilt, 1)
	cmds <- camera.QueryPanTilt{Reply: reply}
	return <-reply
}

func queryFocusAuto(cmds chan<- camera.Command) bool {
	reply := make(chan bool, 1)
	cmds <- camera.QueryFocusMode{Reply: reply}
	return <-reply
}

func queryWBMode(cmds chan<- camera.Command) int {
	reply := make(chan int, 1)
	cmds <- camera.QueryWhiteBalanceMode{Reply: reply}
	return <-reply
}
