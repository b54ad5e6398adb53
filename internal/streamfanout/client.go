package streamfanout

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// queueDepth is the bounded per-client frame queue capacity (spec.md
// §4.6, "capacity 800").
const queueDepth = 800

// watchdogInterval is how often a latched buffer_full client is
// checked before its session is terminated.
const watchdogInterval = 200 * time.Millisecond

// client is one connected streaming session: a bounded outbound frame
// queue drained by a dedicated writer goroutine, with a latched
// "buffer full" flag a watchdog uses to evict sessions that can't keep
// up (spec.md §4.6).
type client struct {
	id   uuid.UUID
	conn net.Conn
	log  *zap.Logger

	frames     chan []byte
	bufferFull atomic.Bool
	done       chan struct{}
}

func newClient(conn net.Conn, log *zap.Logger) *client {
	return &client{
		id:     uuid.New(),
		conn:   conn,
		log:    log,
		frames: make(chan []byte, queueDepth),
		done:   make(chan struct{}),
	}
}

// offer enqueues a frame without blocking. If the queue is full, the
// frame is dropped and bufferFull is latched; it is cleared on the
// next successful offer, matching spec.md §4.6's "latched ... if still
// set after one watchdog tick" (a client that catches back up before
// the next tick survives).
func (c *client) offer(frame []byte) {
	select {
	case c.frames <- frame:
		c.bufferFull.Store(false)
	default:
		c.bufferFull.Store(true)
	}
}

// writeLoop drains frames to the socket until done closes or a write
// fails.
func (c *client) writeLoop() {
	defer close(c.done)
	for frame := range c.frames {
		if _, err := c.conn.Write(frame); err != nil {
			c.log.Debug("streamfanout: client write failed, closing", zap.String("client", c.id.String()), zap.Error(err))
			return
		}
	}
}

// watch runs the slow-client eviction policy: every watchdogInterval,
// if bufferFull is still set, the session is terminated.
func (c *client) watch(stop <-chan struct{}) {
	ticker := time.NewTicker(watchdogInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-c.done:
			return
		case <-ticker.C:
			if c.bufferFull.Load() {
				c.log.Info("streamfanout: evicting slow client", zap.String("client", c.id.String()))
				c.conn.Close()
				return
			}
		}
	}
}

// close tears down the client's queue and socket.
func (c *client) close() {
	close(c.frames)
	c.conn.Close()
}
