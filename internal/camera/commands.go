package camera

// Command is anything that can be sent on an Actor's inbound queue.
// All commands are fire-and-forget except the Query* types, which
// carry a one-shot reply channel per spec.md §4.1.
type Command interface{ isCommand() }

type SetPresetCam struct{ ID int }
type ResetPreset struct{ Slot int }
type RecordPreset struct{ Slot int }
type RecoverPreset struct{ Slot int }
type Home struct{}

// MoveContinuous sets pan/tilt speeds in arc-seconds/second and
// applies one tick immediately.
type MoveContinuous struct{ PanSpeed, TiltSpeed int64 }

// MoveRelative adds to the commanded pan/tilt value, clamps, and
// pushes to the device.
type MoveRelative struct{ DPan, DTilt int64 }

// MoveAbsolute zeroes pan/tilt speed, clamps, and pushes.
type MoveAbsolute struct{ Pan, Tilt int64 }

// ZoomContinuous sets zoom speed from f in [-1,1].
type ZoomContinuous struct{ F float64 }

// ZoomDirect sets an absolute zoom from f in [0,1].
type ZoomDirect struct{ F float64 }

// AutoFocus sets the focus_auto flag explicitly.
type AutoFocus struct{ On bool }

// AutoFocusToggle flips the current focus_auto flag.
type AutoFocusToggle struct{}

// FocusContinuous turns auto off and sets focus speed from f in
// [-1,1].
type FocusContinuous struct{ F float64 }

// FocusDirect turns auto on and sets an absolute focus from f in
// [0,1].
type FocusDirect struct{ F float64 }

// WhiteBalanceMode sets the white balance preset: 0 auto 6500K, 1
// manual 3200K, 2 manual 5800K, anything else is a no-op.
type WhiteBalanceMode struct{ Mode int }

func (SetPresetCam) isCommand()     {}
func (ResetPreset) isCommand()      {}
func (RecordPreset) isCommand()     {}
func (RecoverPreset) isCommand()    {}
func (Home) isCommand()             {}
func (MoveContinuous) isCommand()   {}
func (MoveRelative) isCommand()     {}
func (MoveAbsolute) isCommand()     {}
func (ZoomContinuous) isCommand()   {}
func (ZoomDirect) isCommand()       {}
func (AutoFocus) isCommand()        {}
func (AutoFocusToggle) isCommand()  {}
func (FocusContinuous) isCommand()  {}
func (FocusDirect) isCommand()      {}
func (WhiteBalanceMode) isCommand() {}

// PanTilt is the commanded (not physical) pan/tilt pair, in
// arc-seconds, reported by QueryPanTilt.
type PanTilt struct{ Pan, Tilt int64 }

// QueryPanTilt replies with the commanded pan/tilt pair.
type QueryPanTilt struct{ Reply chan PanTilt }

// QueryFocusMode replies true if focus_auto is set.
type QueryFocusMode struct{ Reply chan bool }

// QueryWhiteBalanceMode replies with the derived mode: 0 auto, 1
// manual-3200-ish, 2 manual-5800-ish.
type QueryWhiteBalanceMode struct{ Reply chan int }

func (QueryPanTilt) isCommand()          {}
func (QueryFocusMode) isCommand()        {}
func (QueryWhiteBalanceMode) isCommand() {}
