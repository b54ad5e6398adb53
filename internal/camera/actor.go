/*Package camera implements the Camera Actor: the sole owner and
mutator of one camera's controls and motion integrators. It serializes
all command handling and tick-driven motion through a single goroutine
selecting over an inbound command queue and a 50ms ticker, per
spec.md §4.1/§5 ("no hidden suspensions" — continuous motion is a
state machine evaluated on each tick, not a coroutine).
*/
package camera

import (
	"time"

	"go.uber.org/zap"

	"github.com/viscagw/viscagw/internal/control"
	"github.com/viscagw/viscagw/internal/driver"
	"github.com/viscagw/viscagw/internal/preset"
)

// lagLimitPanTilt is LAG_LIMIT for pan/tilt: 2 degrees in arc-seconds.
const lagLimitPanTilt = 2 * 3600

// Actor owns exactly one camera. Construct with New, run with Run in
// its own goroutine, send commands on Commands().
type Actor struct {
	ncam    int
	drv     driver.Driver
	store   preset.Store
	log     *zap.Logger
	tick    time.Duration
	queue   *unboundedQueue
	boundID int

	pan, tilt           control.Descriptor
	panSpeed, tiltSpeed int64 // arc-sec/sec

	zoom      control.Descriptor
	zoomSpeed int64 // device units/tick

	focusAuto  control.Descriptor
	focus      control.Descriptor
	focusSpeed int64 // device units/tick

	wbAuto control.Descriptor
	wbTemp control.Descriptor
}

// New constructs an Actor bound to an already-open driver. Descriptor
// ranges come from the driver's Describe calls at open time, per
// spec.md §3 ("created at camera open from device-reported
// descriptor").
func New(ncam int, drv driver.Driver, store preset.Store, log *zap.Logger, tickInterval time.Duration) (*Actor, error) {
	a := &Actor{
		ncam:  ncam,
		drv:   drv,
		store: store,
		log:   log,
		tick:  tickInterval,
		queue: newUnboundedQueue(),
	}

	var err error
	if a.pan, err = drv.Describe(driver.ControlPan); err != nil {
		return nil, err
	}
	if a.tilt, err = drv.Describe(driver.ControlTilt); err != nil {
		return nil, err
	}
	if a.zoom, err = drv.Describe(driver.ControlZoom); err != nil {
		return nil, err
	}
	if a.focusAuto, err = drv.Describe(driver.ControlFocusAuto); err != nil {
		return nil, err
	}
	if a.focus, err = drv.Describe(driver.ControlFocus); err != nil {
		return nil, err
	}
	if a.wbAuto, err = drv.Describe(driver.ControlWBAuto); err != nil {
		return nil, err
	}
	if a.wbTemp, err = drv.Describe(driver.ControlWBTemp); err != nil {
		return nil, err
	}
	a.boundID = ncam
	return a, nil
}

// Commands returns the inbound queue. Closing it is the actor's
// cancellation path per spec.md §5.
func (a *Actor) Commands() chan<- Command { return a.queue.in }

// Run is the actor's single goroutine: select over the tick and the
// command queue, mutually exclusive per spec.md §5. Returns when the
// queue is closed (clean shutdown) or a command handler hits a fatal
// driver error (the Supervisor goroutine that runs it observes the
// return and removes the camera).
func (a *Actor) Run() {
	ticker := time.NewTicker(a.tick)
	defer ticker.Stop()

	for {
		select {
		case cmd, ok := <-a.queue.out:
			if !ok {
				a.log.Info("camera actor stopping: command queue closed")
				return
			}
			if err := a.handle(cmd); err != nil {
				a.log.Error("camera actor: fatal command error, exiting", zap.Error(err))
				return
			}
		case <-ticker.C:
			a.doTick()
		}
	}
}

// push* are used from command handlers (handle.go). A driver error
// here is fatal to the actor per spec.md §4.1 ("Command errors are
// fatal to the actor and cause it to exit") — the caller propagates
// it out of handle() and Run returns. tick.go also calls them, but
// passes their error to warnTick, which logs and swallows it per
// spec.md §7.
func (a *Actor) pushPan() error  { return a.drv.Set(driver.ControlPan, a.pan.Value()) }
func (a *Actor) pushTilt() error { return a.drv.Set(driver.ControlTilt, a.tilt.Value()) }
func (a *Actor) pushZoom() error { return a.drv.Set(driver.ControlZoom, a.zoom.Value()) }
func (a *Actor) pushFocus() error {
	return a.drv.Set(driver.ControlFocus, a.focus.Value())
}
func (a *Actor) pushFocusAuto() error {
	return a.drv.Set(driver.ControlFocusAuto, a.focusAuto.Value())
}
func (a *Actor) pushWBAuto() error {
	return a.drv.Set(driver.ControlWBAuto, a.wbAuto.Value())
}
func (a *Actor) pushWBTemp() error {
	return a.drv.Set(driver.ControlWBTemp, a.wbTemp.Value())
}

// warnTick logs a tick-time driver error and swallows it per
// spec.md §7 ("IoError — log and swallow inside the tick").
func (a *Actor) warnTick(err error, what string) {
	if err != nil {
		a.log.Warn("camera actor: tick driver error, skipping", zap.String("op", what), zap.Error(err))
	}
}
