// Package control implements the Control Descriptor: the abstract
// representation of one numeric camera control (min/max/step/value).
package control

// Kind distinguishes the two control shapes the Camera Driver can
// report. Boolean controls store {0,1} but are otherwise ordinary
// Descriptors.
type Kind int

const (
	Integer Kind = iota
	Boolean
)

// Descriptor is one camera control: min/max/step/value, clamped on
// every mutation. value tracks the commanded target, not necessarily
// the physical value the device currently reports.
type Descriptor struct {
	Kind Kind
	Min  int64
	Max  int64
	Step uint64
	Val  int64
}

// New builds a Descriptor from a device-reported range, clamping the
// initial value into range.
func New(kind Kind, min, max int64, step uint64, value int64) Descriptor {
	d := Descriptor{Kind: kind, Min: min, Max: max, Step: step}
	d.Val = clamp(value, min, max)
	return d
}

// Value returns the commanded target.
func (d Descriptor) Value() int64 { return d.Val }

// Range reports the descriptor's span, used by speed-to-step
// conversions (zoom/focus continuous motion, LAG_LIMIT thresholds).
func (d Descriptor) Range() int64 { return d.Max - d.Min }

// Set clamps v into [Min,Max] and returns whether the clamped value
// differs from the previous one and whether the new value sits at
// either limit (used by callers to decide whether to zero a speed).
func (d *Descriptor) Set(v int64) (changed, atLimit bool) {
	clamped := clamp(v, d.Min, d.Max)
	changed = clamped != d.Val
	d.Val = clamped
	atLimit = clamped == d.Min || clamped == d.Max
	return changed, atLimit
}

// Add applies a relative delta and clamps, same semantics as Set.
func (d *Descriptor) Add(delta int64) (changed, atLimit bool) {
	return d.Set(d.Val + delta)
}

// Bool reports the descriptor's value as a boolean; only meaningful
// when Kind == Boolean.
func (d Descriptor) Bool() bool { return d.Val != 0 }

// SetBool stores a boolean as {0,1}.
func (d *Descriptor) SetBool(v bool) {
	if v {
		d.Val = 1
	} else {
		d.Val = 0
	}
}

func clamp(v, min, max int64) int64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
