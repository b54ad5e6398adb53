/*Package streamfanout implements the Streaming Fan-Out: per camera, a
UDP multicast discovery advertiser plus a TCP listener that serializes
repaired MJPEG frames to every connected client over a bounded,
watchdog-protected queue (spec.md §4.6).
*/
package streamfanout

import (
	"net"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/viscagw/viscagw/internal/driver"
	"github.com/viscagw/viscagw/internal/mjpeg"
)

// Config carries the discovery address and host name, sourced from
// internal/config. The announce interval, per-client queue depth and
// watchdog interval are package constants, not part of Config.
type Config struct {
	MulticastAddr string
	Hostname      string
}

// FanOut owns one camera's streaming clients and capture worker
// lifecycle: the worker runs only while at least one client is
// connected (spec.md §4.6 "capture lifecycle").
type FanOut struct {
	ncam int
	drv  driver.Driver
	cfg  Config
	log  *zap.Logger

	ln   net.Listener
	stop chan struct{}

	mu          sync.Mutex
	clients     map[*client]struct{}
	captureStop chan struct{}
	start       time.Time
}

// Start binds an ephemeral TCP port, begins the discovery announcer,
// and returns the FanOut with its accept loop already running in the
// background. Callers should arrange to call Stop on camera teardown.
func Start(ncam int, drv driver.Driver, cfg Config, log *zap.Logger) (*FanOut, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	f := &FanOut{
		ncam:    ncam,
		drv:     drv,
		cfg:     cfg,
		log:     log,
		ln:      ln,
		stop:    make(chan struct{}),
		clients: make(map[*client]struct{}),
		start:   time.Now(),
	}

	port := ln.Addr().(*net.TCPAddr).Port
	name := cfg.Hostname + " #" + strconv.Itoa(ncam)
	go announce(cfg.MulticastAddr, name, port, f.stop, log)
	go f.acceptLoop()
	return f, nil
}

// Port reports the bound streaming TCP port.
func (f *FanOut) Port() int { return f.ln.Addr().(*net.TCPAddr).Port }

// Stop tears down the accept loop, announcer, and every connected
// client.
func (f *FanOut) Stop() {
	close(f.stop)
	f.ln.Close()

	f.mu.Lock()
	clients := make([]*client, 0, len(f.clients))
	for c := range f.clients {
		clients = append(clients, c)
	}
	f.clients = nil
	f.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

func (f *FanOut) acceptLoop() {
	for {
		conn, err := f.ln.Accept()
		if err != nil {
			select {
			case <-f.stop:
			default:
				f.log.Warn("streamfanout: accept failed, stopping", zap.Int("ncam", f.ncam), zap.Error(err))
			}
			return
		}
		f.addClient(conn)
	}
}

func (f *FanOut) addClient(conn net.Conn) {
	c := newClient(conn, f.log)

	f.mu.Lock()
	if f.clients == nil {
		f.mu.Unlock()
		conn.Close()
		return
	}
	firstClient := len(f.clients) == 0
	f.clients[c] = struct{}{}
	if firstClient {
		f.captureStop = make(chan struct{})
		go f.captureLoop(f.captureStop)
	}
	f.mu.Unlock()

	go c.writeLoop()
	go c.watch(f.stop)
	go f.waitAndRemove(c)
}

// waitAndRemove blocks until the client's writer exits (socket closed
// by the client, a write error, or watchdog eviction) and removes it
// from the set, stopping the capture worker on the last disconnect.
func (f *FanOut) waitAndRemove(c *client) {
	// A client connection never sends meaningful data; reads only
	// detect close, per spec.md §6.
	go drainUntilClosed(c.conn)
	<-c.done

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clients == nil {
		return
	}
	delete(f.clients, c)
	if len(f.clients) == 0 && f.captureStop != nil {
		close(f.captureStop)
		f.captureStop = nil
	}
}

func drainUntilClosed(conn net.Conn) {
	buf := make([]byte, 256)
	for {
		if _, err := conn.Read(buf); err != nil {
			conn.Close()
			return
		}
	}
}

// captureLoop pulls frames from the driver, repairs them, and
// broadcasts to every connected client, for as long as at least one
// client remains (spec.md §4.6).
func (f *FanOut) captureLoop(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-f.stop:
			return
		default:
		}

		raw, err := f.drv.CaptureNext()
		if err != nil {
			f.log.Warn("streamfanout: capture failed, dropping frame", zap.Int("ncam", f.ncam), zap.Error(err))
			continue
		}

		fixed, err := mjpeg.Repair(raw)
		if err != nil {
			f.log.Warn("streamfanout: bad jpeg, dropping frame", zap.Int("ncam", f.ncam), zap.Error(err))
			continue
		}

		frame := buildFrame(uint64(time.Since(f.start).Nanoseconds()), fixed)

		f.mu.Lock()
		for c := range f.clients {
			c.offer(frame)
		}
		f.mu.Unlock()
	}
}
