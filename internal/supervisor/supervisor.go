/*Package supervisor implements the cold-plug/hot-plug loop: it scans
device indices for cameras, builds the Camera Actor/VISCA
Listener/Fan-Out trio for each one found, and is the sole owner of the
device→actor map (spec.md §4.4). It also answers the Supervisor↔
Streaming messages of spec.md §4.7 by tracking a per-camera client
count fed by connect/disconnect events.
*/
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/viscagw/viscagw/internal/camera"
	"github.com/viscagw/viscagw/internal/config"
	"github.com/viscagw/viscagw/internal/driver"
	"github.com/viscagw/viscagw/internal/logging"
	"github.com/viscagw/viscagw/internal/preset"
	"github.com/viscagw/viscagw/internal/statusui"
	"github.com/viscagw/viscagw/internal/streamfanout"
	"github.com/viscagw/viscagw/internal/viscalistener"
)

// Record is the supervisor's public view of one live camera (spec.md
// §4.4, "{ncam, listening_port, bus, client_count}").
type Record struct {
	Ncam        int
	ListenPort  int
	StreamPort  int
	Bus         string
	ClientCount int
}

type camEntry struct {
	actor    *camera.Actor
	listener *viscalistener.Listener
	fanout   *streamfanout.FanOut
	bus      string
	clients  int
}

// Supervisor is the single writer of the device→actor map. The map is
// mutated by scan (on the Run goroutine), by shutdownAll, and by
// camDead, which runs on the goroutine that ran the dead camera's
// Actor; camsMu guards it (and each entry's client count) across all of
// these and the connect/disconnect callbacks, which run on the VISCA
// Listener's own goroutines.
type Supervisor struct {
	cfg   config.Config
	store preset.Store
	log   *zap.Logger
	sink  statusui.Sink

	camsMu sync.Mutex
	cams   map[int]*camEntry

	wake chan struct{}
}

// New constructs a Supervisor. Call Run in its own goroutine. sink
// receives an UpdateScreen event (spec.md §6) whenever a camera comes
// online/goes away or its client count changes; pass statusui.Discard
// if nothing is attached.
func New(cfg config.Config, store preset.Store, log *zap.Logger, sink statusui.Sink) *Supervisor {
	return &Supervisor{
		cfg:   cfg,
		store: store,
		log:   log,
		sink:  sink,
		cams:  make(map[int]*camEntry),
		wake:  make(chan struct{}, 1),
	}
}

// Run executes the outer scan loop until ctx is cancelled (spec.md
// §4.4): scan unowned device indices, sleep ScanIntervalSeconds (3s by
// default) interrupted by cancellation-safe wake notifications from
// connect/disconnect/death.
func (s *Supervisor) Run(ctx context.Context) {
	for {
		s.scan()

		select {
		case <-ctx.Done():
			s.shutdownAll()
			return
		case <-s.wake:
		case <-time.After(time.Duration(s.cfg.ScanIntervalSeconds) * time.Second):
		}
	}
}

func (s *Supervisor) nudge() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// scan attempts to open every device index not already owned. Silent
// skips on CameraNotFound (spec.md §7); any other error is logged and
// skipped too since the supervisor must never die from one bad slot.
func (s *Supervisor) scan() {
	for ncam := s.cfg.ScanMin; ncam <= s.cfg.ScanMax; ncam++ {
		s.camsMu.Lock()
		_, owned := s.cams[ncam]
		s.camsMu.Unlock()
		if owned {
			continue
		}
		if err := s.openCamera(ncam); err != nil {
			if !errors.Is(err, driver.ErrCameraNotFound) {
				s.log.Debug("supervisor: open failed, skipping", zap.Int("ncam", ncam), zap.Error(err))
			}
			continue
		}
	}
}

func (s *Supervisor) openCamera(ncam int) error {
	drv, err := driver.Open(driver.KindMock, ncam)
	if err != nil {
		return err
	}

	camLog := logging.ForCamera(s.log, ncam)
	a, err := camera.New(ncam, drv, s.store, camLog, time.Duration(s.cfg.TickIntervalMS)*time.Millisecond)
	if err != nil {
		drv.Close()
		return err
	}

	ln, err := viscalistener.Listen(ncam, s.cfg.VISCAPortBase, s.cfg.VISCAPortCeiling, camLog)
	if err != nil {
		drv.Close()
		return err
	}

	fo, err := streamfanout.Start(ncam, drv, streamfanout.Config{
		MulticastAddr: s.cfg.MulticastAddr,
		Hostname:      s.cfg.Hostname,
	}, camLog)
	if err != nil {
		ln.Kill()
		drv.Close()
		return err
	}

	entry := &camEntry{
		actor:    a,
		listener: ln,
		fanout:   fo,
		bus:      drv.BusID(),
	}

	s.camsMu.Lock()
	s.cams[ncam] = entry
	s.camsMu.Unlock()

	go func() {
		a.Run()
		s.camDead(ncam)
	}()
	go ln.Serve(a.Commands(), &events{ncam: ncam, s: s})

	s.log.Info("supervisor: camera online", zap.Int("ncam", ncam), zap.Int("visca_port", ln.Port()), zap.Int("stream_port", fo.Port()))
	s.pushStatus()
	return nil
}

// camDead removes a camera whose Actor has exited (a fatal command
// error or its queue being closed) and wakes the scan loop so the
// slot can be reclaimed on the next pass (spec.md §4.4, "death removes
// the record and releases the port").
func (s *Supervisor) camDead(ncam int) {
	s.camsMu.Lock()
	if e, ok := s.cams[ncam]; ok {
		e.listener.Kill()
		e.fanout.Stop()
		delete(s.cams, ncam)
	}
	s.camsMu.Unlock()
	s.pushStatus()
	s.nudge()
}

// Records returns a snapshot of every live camera, safe to call from
// any goroutine.
func (s *Supervisor) Records() []Record {
	s.camsMu.Lock()
	defer s.camsMu.Unlock()
	out := make([]Record, 0, len(s.cams))
	for ncam, e := range s.cams {
		out = append(out, Record{
			Ncam:        ncam,
			ListenPort:  e.listener.Port(),
			StreamPort:  e.fanout.Port(),
			Bus:         e.bus,
			ClientCount: e.clients,
		})
	}
	return out
}

// pushStatus renders the current camera registry as an UpdateScreen
// event for the external status display (spec.md §6).
func (s *Supervisor) pushStatus() {
	records := s.Records()
	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, fmt.Sprintf("cam %d: visca=%d stream=%d bus=%s clients=%d",
			r.Ncam, r.ListenPort, r.StreamPort, r.Bus, r.ClientCount))
	}
	s.sink.UpdateScreen(statusui.Update{Lines: lines})
}

func (s *Supervisor) shutdownAll() {
	s.camsMu.Lock()
	defer s.camsMu.Unlock()
	for ncam, e := range s.cams {
		e.listener.Kill()
		e.fanout.Stop()
		close(e.actor.Commands())
		delete(s.cams, ncam)
	}
}

// events adapts viscalistener.Events to the supervisor's client-count
// bookkeeping (spec.md §4.7's NewViscaConnection/LostViscaConnection).
type events struct {
	ncam int
	s    *Supervisor
}

func (ev *events) Connected(ncam int, addr string) {
	ev.s.log.Debug("supervisor: visca client connected", zap.Int("ncam", ncam), zap.String("addr", addr))
	ev.s.camsMu.Lock()
	if e, ok := ev.s.cams[ncam]; ok {
		e.clients++
	}
	ev.s.camsMu.Unlock()
	ev.s.pushStatus()
	ev.s.nudge()
}

func (ev *events) Disconnected(ncam int, addr string) {
	ev.s.log.Debug("supervisor: visca client disconnected", zap.Int("ncam", ncam), zap.String("addr", addr))
	ev.s.camsMu.Lock()
	if e, ok := ev.s.cams[ncam]; ok {
		e.clients--
	}
	ev.s.camsMu.Unlock()
	ev.s.pushStatus()
	ev.s.nudge()
}
