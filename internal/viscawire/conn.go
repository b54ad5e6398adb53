/*Package viscawire implements the VISCA Connection: a byte-framed,
stateful command translator that reads 0xFF-terminated VISCA frames off
a TCP socket, maps commands onto Camera Actor messages (spec.md §4.1),
and formats command acks/completions and inquiry replies back onto the
wire (spec.md §4.2).
*/
package viscawire

import (
	"bufio"
	"net"

	"go.uber.org/zap"

	"github.com/viscagw/viscagw/internal/camera"
)

// maxFrameBytes is the accumulator overflow limit: if no 0xFF
// terminator shows up within this many bytes, the connection is
// considered wedged and closed (spec.md §4.2 framing rules).
const maxFrameBytes = 200

// ack/completion/error frames, reply address byte fixed at 0x91 per
// spec.md §4.2 (the first camera's reply address on the VISCA bus).
var (
	ackFrame        = []byte{0x91, 0x41, 0xFF}
	completionFrame = []byte{0x91, 0x51, 0xFF}
	errUnsupported  = []byte{0x91, 0x60, 0x02, 0xFF}
)

// Serve runs one VISCA Connection to completion: it owns conn until a
// read error, an overflowing frame, or cmds being a dead end closes it.
// cmds is the bound Camera Actor's inbound queue. Serve never returns
// an error; connection failures are logged and only this connection's
// socket is closed. The Listener's kill broadcast is not triggered by
// a failing connection, and other connections keep running.
func Serve(conn net.Conn, cmds chan<- camera.Command, log *zap.Logger) {
	defer conn.Close()

	r := bufio.NewReader(conn)
	var acc []byte

	for {
		b, err := r.ReadByte()
		if err != nil {
			log.Debug("visca connection: read ended", zap.Error(err))
			return
		}

		if b != 0xFF {
			acc = append(acc, b)
			if len(acc) > maxFrameBytes {
				log.Warn("visca connection: frame overflow, closing")
				return
			}
			continue
		}

		frame := acc
		acc = nil

		if len(frame) == 0 {
			continue
		}
		if frame[0] != 0x81 {
			log.Debug("visca connection: dropping frame with bad sender address", zap.Uint8("addr", frame[0]))
			continue
		}

		dispatch(frame[1:], cmds, conn, log)
	}
}
