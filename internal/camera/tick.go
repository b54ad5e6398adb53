package camera

import "github.com/viscagw/viscagw/internal/driver"

// doTick runs the 50ms periodic reconciliation described in spec.md
// §4.1: closed-loop pan/tilt/zoom/focus motion driven by comparing
// the commanded value against what the driver reports as physical,
// so the software target can't outrun a lagging actuator.
func (a *Actor) doTick() {
	a.tickPanTilt()
	a.tickZoom()
	a.tickFocus()
}

// tickPanTilt is also invoked synchronously by MoveContinuous, which
// applies one tick immediately per spec.md §4.1's command table.
func (a *Actor) tickPanTilt() {
	if a.panSpeed == 0 && a.tiltSpeed == 0 {
		return
	}

	panMove := a.panSpeed / 20
	tiltMove := a.tiltSpeed / 20

	if a.panSpeed != 0 {
		phys, err := a.drv.Get(driver.ControlPan)
		if err != nil {
			a.warnTick(err, "get pan")
			panMove = 0
		} else if abs64(phys-a.pan.Value()) > lagLimitPanTilt {
			panMove = 0
		}
	} else {
		panMove = 0
	}

	if a.tiltSpeed != 0 {
		phys, err := a.drv.Get(driver.ControlTilt)
		if err != nil {
			a.warnTick(err, "get tilt")
			tiltMove = 0
		} else if abs64(phys-a.tilt.Value()) > lagLimitPanTilt {
			tiltMove = 0
		}
	} else {
		tiltMove = 0
	}

	if _, atLimit := a.pan.Add(panMove); atLimit {
		a.panSpeed = 0
	}
	if _, atLimit := a.tilt.Add(tiltMove); atLimit {
		a.tiltSpeed = 0
	}

	a.warnTick(a.pushPan(), "push pan")
	a.warnTick(a.pushTilt(), "push tilt")
}

// tickZoom advances commanded zoom by one zoomSpeed step only while
// the physical actuator has caught up to within 10% of range, per
// spec.md §4.1 step 2.
func (a *Actor) tickZoom() {
	if a.zoomSpeed == 0 {
		return
	}
	lagLimit := a.zoom.Range() / 10
	phys, err := a.drv.Get(driver.ControlZoom)
	if err != nil {
		a.warnTick(err, "get zoom")
		return
	}
	if abs64(phys-a.zoom.Value()) >= lagLimit {
		return
	}
	if _, atLimit := a.zoom.Add(a.zoomSpeed); atLimit {
		a.zoomSpeed = 0
	}
	a.warnTick(a.pushZoom(), "push zoom")
}

// tickFocus mirrors tickZoom for the focus axis per spec.md §4.1 step 3.
func (a *Actor) tickFocus() {
	if a.focusSpeed == 0 {
		return
	}
	lagLimit := a.focus.Range() / 10
	phys, err := a.drv.Get(driver.ControlFocus)
	if err != nil {
		a.warnTick(err, "get focus")
		return
	}
	if abs64(phys-a.focus.Value()) >= lagLimit {
		return
	}
	if _, atLimit := a.focus.Add(a.focusSpeed); atLimit {
		a.focusSpeed = 0
	}
	a.warnTick(a.pushFocus(), "push focus")
}
