package camera

import (
	"math"

	"go.uber.org/zap"

	"github.com/viscagw/viscagw/internal/preset"
)

// handle dispatches one command. A non-nil return is fatal: Run logs
// it and exits the actor. Preset Store errors are the one exception
// per spec.md §7 ("surface to the Actor as command failure; the Actor
// continues running") — they are logged here and never returned.
func (a *Actor) handle(cmd Command) error {
	switch c := cmd.(type) {
	case SetPresetCam:
		a.boundID = c.ID
		return nil

	case ResetPreset:
		if err := a.store.Clear(a.boundID, c.Slot); err != nil {
			a.log.Warn("camera actor: preset store clear failed", zap.Error(err))
		}
		return nil

	case RecordPreset:
		p := preset.Preset{
			Pan:         a.pan.Value(),
			Tilt:        a.tilt.Value(),
			Zoom:        a.zoom.Value(),
			FocusAuto:   a.focusAuto.Bool(),
			Focus:       a.focus.Value(),
			WBAuto:      a.wbAuto.Bool(),
			Temperature: a.wbTemp.Value(),
		}
		if err := a.store.Record(a.boundID, c.Slot, p); err != nil {
			a.log.Warn("camera actor: preset store record failed", zap.Error(err))
		}
		return nil

	case RecoverPreset:
		return a.recoverPreset(c.Slot)

	case Home:
		return a.home()

	case MoveContinuous:
		a.panSpeed = c.PanSpeed
		a.tiltSpeed = c.TiltSpeed
		a.tickPanTilt()
		return nil

	case MoveRelative:
		return a.moveRelative(c.DPan, c.DTilt)

	case MoveAbsolute:
		return a.moveAbsolute(c.Pan, c.Tilt)

	case ZoomContinuous:
		a.zoomSpeed = zoomOrFocusSpeed(a.zoom, c.F)
		return nil

	case ZoomDirect:
		return a.zoomDirect(c.F)

	case AutoFocus:
		return a.setAutoFocus(c.On)

	case AutoFocusToggle:
		return a.setAutoFocus(!a.focusAuto.Bool())

	case FocusContinuous:
		if err := a.setAutoFocusRaw(false); err != nil {
			return err
		}
		a.focusSpeed = zoomOrFocusSpeed(a.focus, c.F)
		return nil

	case FocusDirect:
		return a.focusDirect(c.F)

	case WhiteBalanceMode:
		return a.whiteBalanceMode(c.Mode)

	case QueryPanTilt:
		c.Reply <- PanTilt{Pan: a.pan.Value(), Tilt: a.tilt.Value()}
		return nil

	case QueryFocusMode:
		c.Reply <- a.focusAuto.Bool()
		return nil

	case QueryWhiteBalanceMode:
		c.Reply <- a.deriveWBMode()
		return nil
	}
	return nil
}

// zoomOrFocusSpeed implements the speed/20-per-tick mapping shared by
// ZoomContinuous and FocusContinuous: speed = floor(range*f/20).
func zoomOrFocusSpeed(d interface{ Range() int64 }, f float64) int64 {
	return int64(math.Floor(float64(d.Range()) * f / 20))
}

func (a *Actor) moveRelative(dpan, dtilt int64) error {
	_, panLimit := a.pan.Add(dpan)
	_, tiltLimit := a.tilt.Add(dtilt)
	if panLimit {
		a.panSpeed = 0
	}
	if tiltLimit {
		a.tiltSpeed = 0
	}
	if err := a.pushPan(); err != nil {
		return err
	}
	return a.pushTilt()
}

func (a *Actor) moveAbsolute(pan, tilt int64) error {
	a.panSpeed = 0
	a.tiltSpeed = 0
	a.pan.Set(pan)
	a.tilt.Set(tilt)
	if err := a.pushPan(); err != nil {
		return err
	}
	return a.pushTilt()
}

func (a *Actor) zoomDirect(f float64) error {
	a.zoomSpeed = 0
	target := a.zoom.Min + int64(f*float64(a.zoom.Range()))
	a.zoom.Set(target)
	return a.pushZoom()
}

func (a *Actor) setAutoFocus(on bool) error {
	if err := a.setAutoFocusRaw(on); err != nil {
		return err
	}
	if !on {
		return a.pushFocus()
	}
	return nil
}

func (a *Actor) setAutoFocusRaw(on bool) error {
	a.focusAuto.SetBool(on)
	return a.pushFocusAuto()
}

func (a *Actor) focusDirect(f float64) error {
	a.focusSpeed = 0
	if err := a.setAutoFocusRaw(true); err != nil {
		return err
	}
	target := a.focus.Min + int64(f*float64(a.focus.Range()))
	a.focus.Set(target)
	return a.pushFocus()
}

func (a *Actor) whiteBalanceMode(mode int) error {
	switch mode {
	case 0:
		a.wbAuto.SetBool(true)
		a.wbTemp.Set(6500)
	case 1:
		a.wbAuto.SetBool(false)
		a.wbTemp.Set(3200)
	case 2:
		a.wbAuto.SetBool(false)
		a.wbTemp.Set(5800)
	default:
		return nil
	}
	if err := a.pushWBAuto(); err != nil {
		return err
	}
	return a.pushWBTemp()
}

// deriveWBMode reconstructs the 0/1/2 mode from current state: there
// is no separate "mode" control on the wire, only auto flag + Kelvin
// value (spec.md §3), so recovering a preset that set an arbitrary
// temperature reports the nearest of the three named modes.
func (a *Actor) deriveWBMode() int {
	if a.wbAuto.Bool() {
		return 0
	}
	if a.wbTemp.Value() <= (3200+5800)/2 {
		return 1
	}
	return 2
}

func (a *Actor) home() error {
	a.panSpeed = 0
	a.tiltSpeed = 0
	a.zoomSpeed = 0
	a.pan.Set(0)
	a.tilt.Set(0)
	a.zoom.Set(a.zoom.Min)
	if err := a.pushPan(); err != nil {
		return err
	}
	if err := a.pushTilt(); err != nil {
		return err
	}
	if err := a.pushZoom(); err != nil {
		return err
	}
	return a.setAutoFocusRaw(true)
}

func (a *Actor) recoverPreset(slot int) error {
	p, ok, err := a.store.Recover(a.boundID, slot)
	if err != nil {
		a.log.Warn("camera actor: preset store recover failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	a.panSpeed = 0
	a.tiltSpeed = 0
	a.zoomSpeed = 0
	a.focusSpeed = 0

	a.pan.Set(p.Pan)
	a.tilt.Set(p.Tilt)
	if err := a.pushPan(); err != nil {
		return err
	}
	if err := a.pushTilt(); err != nil {
		return err
	}

	a.zoom.Set(p.Zoom)
	if err := a.pushZoom(); err != nil {
		return err
	}

	a.focusAuto.SetBool(p.FocusAuto)
	if err := a.pushFocusAuto(); err != nil {
		return err
	}
	a.focus.Set(p.Focus)
	if err := a.pushFocus(); err != nil {
		return err
	}

	a.wbAuto.SetBool(p.WBAuto)
	if err := a.pushWBAuto(); err != nil {
		return err
	}
	a.wbTemp.Set(p.Temperature)
	return a.pushWBTemp()
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
