/*Package driver defines the Camera Driver boundary and a reference
in-process implementation for development and tests.

The real per-OS bindings (V4L2 on Linux, DirectShow/MediaFoundation on
Windows) are out of scope per spec.md §1 and §6 — this package is the
abstract collaborator contract plus a Mock that behaves enough like a
real webcam's control surface to drive the Camera Actor and VISCA front
end end to end without hardware.

A minimal consumer looks like:

	drv, _ := driver.Open(driver.KindMock, 0)
	defer drv.Close()
	zoom, _ := drv.Describe(driver.ControlZoom)
	drv.Set(driver.ControlZoom, zoom.Min)
*/
package driver

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/viscagw/viscagw/internal/control"
)

// Sentinel errors, named after the original implementation's
// uvierror.rs enum so the mapping to spec.md §7 stays obvious.
var (
	ErrCameraNotFound     = errors.New("driver: camera not found")
	ErrCamControlNotFound = errors.New("driver: control not found on this camera")
	ErrIO                 = errors.New("driver: device i/o error")
)

// ControlKind names one of the controls spec.md §3 assigns meaning
// to. A given physical camera may not expose all of them; Describe
// returns ErrCamControlNotFound for ones it lacks.
type ControlKind int

const (
	ControlPan ControlKind = iota
	ControlTilt
	ControlPanSpeed
	ControlTiltSpeed
	ControlZoom
	ControlZoomSpeed
	ControlFocusAuto
	ControlFocus
	ControlFocusSpeed
	ControlWBAuto
	ControlWBTemp
)

// Kind tags which concrete driver backend to construct. Modeled as a
// tagged variant per spec.md §9 ("not inheritance") rather than an
// interface hierarchy — Open is the only factory.
type Kind int

const (
	KindMock Kind = iota
)

// Driver is the Camera Driver boundary consumed by the Camera Actor
// and the Fan-Out capture worker. All methods may block; callers run
// them on a dedicated goroutine/thread per spec.md §5.
type Driver interface {
	// CardName is the device-reported human name, used in Supervisor
	// bookkeeping and log fields.
	CardName() string
	// BusID is the device-reported bus/path identifier.
	BusID() string
	// Describe returns the control's current device-reported range.
	// ErrCamControlNotFound if this camera lacks the control.
	Describe(c ControlKind) (control.Descriptor, error)
	// Get reads the physical current value of a control.
	Get(c ControlKind) (int64, error)
	// Set pushes a value to a control. The driver does not clamp;
	// callers (the Camera Actor) are the only clampers per spec.md §3.
	Set(c ControlKind, v int64) error
	// CaptureNext blocks until the next MJPEG frame is available.
	CaptureNext() ([]byte, error)
	// Close releases the device.
	Close() error
}

// Open opens a camera by device index, or ErrCameraNotFound.
// Supervisor treats "not a capture device"/"permission" failures as
// silent skips per spec.md §4.4; this reference driver reports
// ErrCameraNotFound for any index it doesn't simulate.
func Open(kind Kind, ncam int) (Driver, error) {
	switch kind {
	case KindMock:
		return NewMock(ncam)
	default:
		return nil, fmt.Errorf("driver: unknown kind %d", kind)
	}
}

// Mock simulates a UVC-class PTZ webcam: absolute pan/tilt in
// arc-seconds, zoom/focus in device units, with an actuator that lags
// the commanded value so LAG_LIMIT suppression (spec.md §4.1) is
// actually exercisable in tests.
type Mock struct {
	mu   sync.Mutex
	ncam int

	descriptors map[ControlKind]control.Descriptor
	physical    map[ControlKind]int64 // physical (actuator) value, trails Val

	// LagFraction governs how far the physical value catches up to
	// the commanded value per Get call: 1.0 is instantaneous.
	LagFraction float64

	frameSeq int
	closed   bool
}

func NewMock(ncam int) (*Mock, error) {
	if ncam < 0 {
		return nil, ErrCameraNotFound
	}
	d := &Mock{
		ncam:        ncam,
		LagFraction: 1.0,
		descriptors: map[ControlKind]control.Descriptor{
			ControlPan:       control.New(control.Integer, -612000, 612000, 10, 0),
			ControlTilt:      control.New(control.Integer, -324000, 324000, 10, 0),
			ControlPanSpeed:  control.New(control.Integer, -2592000, 2592000, 1, 0),
			ControlTiltSpeed: control.New(control.Integer, -1080000, 1080000, 1, 0),
			ControlZoom:      control.New(control.Integer, 0, 16384, 1, 0),
			ControlZoomSpeed: control.New(control.Integer, -4096, 4096, 1, 0),
			ControlFocusAuto: control.New(control.Boolean, 0, 1, 1, 1),
			ControlFocus:     control.New(control.Integer, 0, 4096, 1, 2048),
			ControlFocusSpeed: control.New(control.Integer, -4096, 4096, 1, 0),
			ControlWBAuto:    control.New(control.Boolean, 0, 1, 1, 1),
			ControlWBTemp:    control.New(control.Integer, 2800, 8000, 1, 6500),
		},
		physical: make(map[ControlKind]int64),
	}
	for k, desc := range d.descriptors {
		d.physical[k] = desc.Value()
	}
	return d, nil
}

func (d *Mock) CardName() string { return fmt.Sprintf("Mock UVC PTZ Camera %d", d.ncam) }
func (d *Mock) BusID() string    { return fmt.Sprintf("mock:%d", d.ncam) }

func (d *Mock) Describe(c ControlKind) (control.Descriptor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	desc, ok := d.descriptors[c]
	if !ok {
		return control.Descriptor{}, ErrCamControlNotFound
	}
	return desc, nil
}

func (d *Mock) Get(c ControlKind) (int64, error) {
	op := func() (int64, error) {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.closed {
			return 0, ErrIO
		}
		phys, ok := d.physical[c]
		if !ok {
			return 0, ErrCamControlNotFound
		}
		d.advanceTowardCommanded(c)
		return phys, nil
	}
	return retryRead(op)
}

func (d *Mock) Set(c ControlKind, v int64) error {
	op := func() error {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.closed {
			return ErrIO
		}
		desc, ok := d.descriptors[c]
		if !ok {
			return ErrCamControlNotFound
		}
		desc.Val = v
		d.descriptors[c] = desc
		return nil
	}
	return retryWrite(op)
}

// advanceTowardCommanded moves the physical value a LagFraction share
// of the remaining distance to the commanded value. Call sites hold
// d.mu.
func (d *Mock) advanceTowardCommanded(c ControlKind) {
	desc := d.descriptors[c]
	phys := d.physical[c]
	delta := desc.Val - phys
	if delta == 0 || d.LagFraction == 0 {
		return
	}
	step := int64(float64(delta) * d.LagFraction)
	if step == 0 {
		if delta > 0 {
			step = 1
		} else {
			step = -1
		}
	}
	d.physical[c] = phys + step
}

// CaptureNext returns a synthetic MJPEG frame with a DHT-free header
// to exercise internal/mjpeg without a real sensor.
func (d *Mock) CaptureNext() ([]byte, error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, ErrIO
	}
	d.frameSeq++
	seq := d.frameSeq
	d.mu.Unlock()
	time.Sleep(10 * time.Millisecond)
	return syntheticMJPEGFrame(seq), nil
}

func (d *Mock) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// SetLagFraction adjusts how quickly the physical value catches up to
// the commanded one per Get call; 0 freezes the actuator in place, the
// shape needed to exercise LAG_LIMIT suppression (spec.md §8 scenario 1).
func (d *Mock) SetLagFraction(f float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.LagFraction = f
}

// PokePhysical forces the physical (actuator) value for a control
// without touching the commanded value, a test-only hook for setting
// up a desynced starting state.
func (d *Mock) PokePhysical(c ControlKind, v int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.physical[c] = v
}

// retryRead/retryWrite wrap device operations in a short, constant
// backoff so a momentary simulated fault doesn't propagate as a fatal
// error, mirroring comm.comm's backoff.Retry usage around flaky
// hardware links. Three attempts, 2ms apart, then give up and surface
// the error (the tick loop logs and swallows it per spec.md §7).
func retryRead(op func() (int64, error)) (int64, error) {
	var result int64
	var lastErr error
	attempts := 0
	wrapped := func() error {
		attempts++
		v, err := op()
		if err != nil {
			lastErr = err
			if attempts >= 3 {
				return backoff.Permanent(err)
			}
			return err
		}
		result = v
		return nil
	}
	b := backoff.NewConstantBackOff(2 * time.Millisecond)
	if err := backoff.Retry(wrapped, b); err != nil {
		return 0, lastErr
	}
	return result, nil
}

func retryWrite(op func() error) error {
	var lastErr error
	attempts := 0
	wrapped := func() error {
		attempts++
		err := op()
		if err != nil {
			lastErr = err
			if attempts >= 3 {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}
	b := backoff.NewConstantBackOff(2 * time.Millisecond)
	if err := backoff.Retry(wrapped, b); err != nil {
		return lastErr
	}
	return nil
}
