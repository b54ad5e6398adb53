package viscawire

import (
	"net"

	"go.uber.org/zap"

	"github.com/viscagw/viscagw/internal/camera"
)

// dispatch handles one frame body (the bytes between the sender
// address and the terminator, address byte already stripped).
// Commands are pushed to cmds and get ack+completion; inquiries reply
// with a single datagram or the unsupported-error frame; unrecognized
// commands are logged and acked/completed as if successful, per
// spec.md §4.2.
func dispatch(body []byte, cmds chan<- camera.Command, conn net.Conn, log *zap.Logger) {
	if len(body) == 0 {
		return
	}

	if body[0] == 0x09 {
		reply := inquiryReply(body, cmds)
		writeFrame(conn, log, reply)
		return
	}

	cmd, recognized := decodeCommand(body)
	if !recognized {
		log.Info("visca connection: unrecognized command, acking anyway", zap.Binary("body", body))
	} else if cmd != nil {
		cmds <- cmd
	}
	writeFrame(conn, log, ackFrame)
	writeFrame(conn, log, completionFrame)
}

func writeFrame(conn net.Conn, log *zap.Logger, frame []byte) {
	if _, err := conn.Write(frame); err != nil {
		log.Debug("visca connection: write failed", zap.Error(err))
	}
}

// decodeCommand maps a command frame body onto a camera.Command per
// the dispatch table in spec.md §4.2. recognized is false for headers
// not in the table (still acked/completed by the caller); a nil,
// true result is a recognized no-op (IF_Clear and the *Trigger
// commands).
func decodeCommand(b []byte) (cmd camera.Command, recognized bool) {
	switch {
	case matches(b, 0x01, 0x00, 0x01):
		return nil, true // IF_Clear

	case matches(b, 0x01, 0x06, 0x04):
		return camera.Home{}, true

	case len(b) == 5 && b[0] == 0x01 && b[1] == 0x04 && b[2] == 0x3F:
		pp := int(b[4])
		switch b[3] {
		case 0x00:
			return camera.ResetPreset{Slot: pp}, true
		case 0x01:
			return camera.RecordPreset{Slot: pp}, true
		case 0x02:
			return camera.RecoverPreset{Slot: pp}, true
		}
		return nil, false

	case len(b) == 7 && b[0] == 0x01 && b[1] == 0x06 && b[2] == 0x01:
		return decodePanTiltDrive(b[3], b[4], b[5], b[6]), true

	case len(b) == 13 && b[0] == 0x01 && b[1] == 0x06 && b[2] == 0x03:
		return decodeRelative(b), true

	case len(b) == 13 && b[0] == 0x01 && b[1] == 0x06 && b[2] == 0x02:
		return decodeAbsolute(b), true

	case len(b) == 4 && b[0] == 0x01 && b[1] == 0x04 && b[2] == 0x07:
		return camera.ZoomContinuous{F: decodeZoomSpeedByte(b[3])}, true

	case len(b) == 7 && b[0] == 0x01 && b[1] == 0x04 && b[2] == 0x47:
		v := nibbleToInt(b[3:7])
		return camera.ZoomDirect{F: float64(v) / 0x4000}, true

	case len(b) == 4 && b[0] == 0x01 && b[1] == 0x04 && b[2] == 0x38:
		switch b[3] {
		case 0x02:
			return camera.AutoFocus{On: true}, true
		case 0x03:
			return camera.AutoFocus{On: false}, true
		case 0x10:
			return camera.AutoFocusToggle{}, true
		}
		return nil, false

	case len(b) == 4 && b[0] == 0x01 && b[1] == 0x04 && b[2] == 0x08:
		return camera.FocusContinuous{F: decodeZoomSpeedByte(b[3])}, true

	case len(b) == 7 && b[0] == 0x01 && b[1] == 0x04 && b[2] == 0x48:
		v := nibbleToInt(b[3:7]) & 0xFFFF // unsigned: 0xF000 is full scale
		return camera.FocusDirect{F: float64(v) / 0xF000}, true

	case len(b) == 4 && b[0] == 0x01 && b[1] == 0x04 && b[2] == 0x18 && b[3] == 0x01:
		return nil, true // FocusOnePushTrigger, no-op

	case len(b) == 4 && b[0] == 0x01 && b[1] == 0x04 && b[2] == 0x18 && b[3] == 0x02:
		return camera.FocusDirect{F: 0.0}, true

	case len(b) == 4 && b[0] == 0x01 && b[1] == 0x04 && b[2] == 0x10 && b[3] == 0x05:
		return nil, true // WhiteBalanceTrigger, no-op

	case len(b) == 4 && b[0] == 0x01 && b[1] == 0x04 && b[2] == 0x35:
		return camera.WhiteBalanceMode{Mode: int(b[3])}, true
	}

	return nil, false
}

func matches(b []byte, want ...byte) bool {
	if len(b) != len(want) {
		return false
	}
	for i, w := range want {
		if b[i] != w {
			return false
		}
	}
	return true
}

// decodePanTiltDrive implements the vv/ww/xx/yy mapping from spec.md
// §4.2's continuous pan/tilt row.
func decodePanTiltDrive(vv, ww, xx, yy byte) camera.MoveContinuous {
	panMag := int64(vv%0x19) * 3600
	if vv > 0x08 {
		panMag *= 2
	}
	if vv > 0x12 {
		panMag *= 2
	}
	var panSpeed int64
	switch xx {
	case 1:
		panSpeed = -panMag
	case 2:
		panSpeed = panMag
	}

	tiltMag := int64(ww%0x15) * 3600
	var tiltSpeed int64
	switch yy {
	case 1:
		tiltSpeed = tiltMag
	case 2:
		tiltSpeed = -tiltMag
	}

	return camera.MoveContinuous{PanSpeed: panSpeed, TiltSpeed: tiltSpeed}
}

// decodeRelative/decodeAbsolute: header is 3 bytes, 2 filler bytes,
// then 4 pan nibbles and 4 tilt nibbles (spec.md §4.2).
func decodeRelative(b []byte) camera.MoveRelative {
	dpan := nibbleToArcSec(b[5:9])
	dtilt := nibbleToArcSec(b[9:13])
	return camera.MoveRelative{DPan: dpan, DTilt: dtilt}
}

func decodeAbsolute(b []byte) camera.MoveAbsolute {
	pan := nibbleToArcSec(b[5:9])
	tilt := nibbleToArcSec(b[9:13])
	return camera.MoveAbsolute{Pan: pan, Tilt: tilt}
}

// decodeZoomSpeedByte maps a zoom/focus continuous speed byte to an f
// in [-1,1] per spec.md §4.2's zoom-continuous row (focus continuous
// uses the same shape).
func decodeZoomSpeedByte(vv byte) float64 {
	switch {
	case vv == 0x02:
		return 1.0
	case vv == 0x03:
		return -1.0
	case vv >= 0x20 && vv <= 0x27:
		return float64(1+int(vv&7)) / 8
	case vv >= 0x30 && vv <= 0x37:
		return -float64(1+int(vv&7)) / 8
	default:
		return 0
	}
}
