/*Package viscalistener implements the VISCA Listener: one TCP acceptor
per camera that spawns a viscawire Connection per accepted socket,
reports connect/disconnect events upward, and tears every live
connection down on a broadcast kill signal (spec.md §4.3).
*/
package viscalistener

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/viscagw/viscagw/internal/camera"
	"github.com/viscagw/viscagw/internal/viscawire"
)

// ErrNoPort is returned when every port in [base, ceiling] is in use.
var ErrNoPort = errors.New("viscalistener: no free port in range")

// Events reports connect/disconnect activity upward to the
// Supervisor, which uses it for its client reference count (spec.md
// §4.7's NewViscaConnection/LostViscaConnection).
type Events interface {
	Connected(ncam int, addr string)
	Disconnected(ncam int, addr string)
}

// Listener owns one camera's TCP accept loop.
type Listener struct {
	ncam int
	ln   net.Listener
	port int
	log  *zap.Logger

	kill chan struct{}
	once sync.Once
}

// Listen opens the first free port at or after base+ncam, up to
// ceiling, on 127.0.0.1 (spec.md §4.3, "default port is 5678 +
// camera_id"; the search continues past base+ncam, rather than
// failing outright, if that port is already taken).
func Listen(ncam, base, ceiling int, log *zap.Logger) (*Listener, error) {
	start := base + ncam
	if start < base {
		start = base
	}
	for port := start; port <= ceiling; port++ {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		ln, err := net.Listen("tcp", addr)
		if err == nil {
			return &Listener{ncam: ncam, ln: ln, port: port, log: log, kill: make(chan struct{})}, nil
		}
	}
	return nil, ErrNoPort
}

// Port reports the bound listening port.
func (l *Listener) Port() int { return l.port }

// Kill broadcasts shutdown to the accept loop and every live
// connection descends from it; connections observe it by having their
// socket closed out from under them. Idempotent.
func (l *Listener) Kill() {
	l.once.Do(func() { close(l.kill) })
}

// Serve runs the accept loop until Kill is called or the listener
// socket errors. cmds is the bound Camera Actor's inbound queue;
// events reports connect/disconnect upward.
func (l *Listener) Serve(cmds chan<- camera.Command, events Events) {
	go func() {
		<-l.kill
		l.ln.Close()
	}()

	for {
		conn, err := l.ln.Accept()
		if err != nil {
			select {
			case <-l.kill:
			default:
				l.log.Warn("visca listener: accept failed, stopping", zap.Int("ncam", l.ncam), zap.Error(err))
			}
			return
		}

		addr := conn.RemoteAddr().String()
		events.Connected(l.ncam, addr)
		go func() {
			defer events.Disconnected(l.ncam, addr)
			done := make(chan struct{})
			go func() {
				viscawire.Serve(conn, cmds, l.log)
				close(done)
			}()
			select {
			case <-done:
			case <-l.kill:
				conn.Close()
				<-done
			}
		}()
	}
}
