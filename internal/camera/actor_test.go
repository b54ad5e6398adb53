package camera

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/viscagw/viscagw/internal/driver"
	"github.com/viscagw/viscagw/internal/preset"
)

func newTestActor(t *testing.T) (*Actor, *driver.Mock) {
	t.Helper()
	mock, err := driver.NewMock(0)
	require.NoError(t, err)
	a, err := New(0, mock, preset.NewMemStore(), zap.NewNop(), 50*time.Millisecond)
	require.NoError(t, err)
	return a, mock
}

// Scenario 1 (spec.md §8): continuous pan, lag-induced suppression.
// Once the physical actuator trails the commanded pan by more than
// LAG_LIMIT (2 degrees), a tick must not advance the commanded value,
// even though panSpeed itself stays non-zero.
func TestContinuousPanLagSuppression(t *testing.T) {
	a, mock := newTestActor(t)

	require.NoError(t, a.handle(MoveContinuous{PanSpeed: -8 * 3600, TiltSpeed: 0}))
	commandedBefore := a.pan.Value()
	assert.NotZero(t, a.panSpeed)

	mock.PokePhysical(driver.ControlPan, commandedBefore-3*3600)

	a.tickPanTilt()

	assert.Equal(t, commandedBefore, a.pan.Value(), "commanded pan must not advance while lag exceeds LAG_LIMIT")
	assert.NotZero(t, a.panSpeed, "panspeed is not zeroed by lag suppression")
}

// Once the lag falls back within LAG_LIMIT, the tick resumes advancing
// the commanded value.
func TestContinuousPanResumesWithinLagLimit(t *testing.T) {
	a, mock := newTestActor(t)

	require.NoError(t, a.handle(MoveContinuous{PanSpeed: -8 * 3600, TiltSpeed: 0}))
	commandedBefore := a.pan.Value()

	mock.PokePhysical(driver.ControlPan, commandedBefore-3*3600)
	a.tickPanTilt()
	require.Equal(t, commandedBefore, a.pan.Value())

	mock.PokePhysical(driver.ControlPan, commandedBefore-3600)
	a.tickPanTilt()

	assert.NotEqual(t, commandedBefore, a.pan.Value(), "commanded pan resumes once lag is back within LAG_LIMIT")
}

// Scenario 2 (spec.md §8): preset save/recover round-trip.
func TestPresetSaveAndRecover(t *testing.T) {
	a, _ := newTestActor(t)

	require.NoError(t, a.handle(SetPresetCam{ID: 0}))
	require.NoError(t, a.handle(MoveAbsolute{Pan: 5 * 3600, Tilt: -3 * 3600}))
	require.NoError(t, a.handle(RecordPreset{Slot: 1}))
	require.NoError(t, a.handle(Home{}))
	assert.Zero(t, a.pan.Value())
	assert.Zero(t, a.tilt.Value())

	require.NoError(t, a.handle(RecoverPreset{Slot: 1}))

	assert.Equal(t, int64(18000), a.pan.Value())
	assert.Equal(t, int64(-10800), a.tilt.Value())
}

// RecoverPreset on an empty slot is a no-op, not an error.
func TestRecoverEmptyPresetIsNoop(t *testing.T) {
	a, _ := newTestActor(t)
	require.NoError(t, a.handle(MoveAbsolute{Pan: 100, Tilt: 200}))
	require.NoError(t, a.handle(RecoverPreset{Slot: 7}))
	assert.Equal(t, int64(100), a.pan.Value())
	assert.Equal(t, int64(200), a.tilt.Value())
}

// Universal invariant: Clamp — MoveRelative cannot push pan/tilt past
// the descriptor's range.
func TestClampInvariant(t *testing.T) {
	a, _ := newTestActor(t)
	require.NoError(t, a.handle(MoveAbsolute{Pan: a.pan.Max, Tilt: 0}))
	require.NoError(t, a.handle(MoveRelative{DPan: 1000, DTilt: 0}))
	assert.Equal(t, a.pan.Max, a.pan.Value())
}

// Universal invariant: Absolute commands zero any in-flight speed.
func TestAbsoluteZeroesSpeed(t *testing.T) {
	a, _ := newTestActor(t)
	require.NoError(t, a.handle(MoveContinuous{PanSpeed: 7200, TiltSpeed: 7200}))
	require.NoError(t, a.handle(MoveAbsolute{Pan: 0, Tilt: 0}))
	assert.Zero(t, a.panSpeed)
	assert.Zero(t, a.tiltSpeed)
}

// Universal invariant: Limit-braking — reaching a limit zeroes speed
// rather than continuing to press against it.
func TestLimitBraking(t *testing.T) {
	a, mock := newTestActor(t)
	require.NoError(t, a.handle(MoveAbsolute{Pan: a.pan.Max - 10, Tilt: 0}))
	require.NoError(t, a.handle(MoveContinuous{PanSpeed: 8 * 3600, TiltSpeed: 0}))

	mock.PokePhysical(driver.ControlPan, a.pan.Value())
	for i := 0; i < 50 && a.panSpeed != 0; i++ {
		mock.PokePhysical(driver.ControlPan, a.pan.Value())
		a.tickPanTilt()
	}

	assert.Equal(t, a.pan.Max, a.pan.Value())
	assert.Zero(t, a.panSpeed)
}

// White balance mode round-trips through the derived-mode mapping.
func TestWhiteBalanceModeRoundTrip(t *testing.T) {
	a, _ := newTestActor(t)
	require.NoError(t, a.handle(WhiteBalanceMode{Mode: 1}))
	assert.Equal(t, 1, a.deriveWBMode())
	require.NoError(t, a.handle(WhiteBalanceMode{Mode: 0}))
	assert.Equal(t, 0, a.deriveWBMode())
}

// Query commands reply on their channel rather than returning an error.
func TestQueryPanTilt(t *testing.T) {
	a, _ := newTestActor(t)
	require.NoError(t, a.handle(MoveAbsolute{Pan: 42, Tilt: -7}))

	reply := make(chan PanTilt, 1)
	require.NoError(t, a.handle(QueryPanTilt{Reply: reply}))
	got := <-reply
	assert.Equal(t, PanTilt{Pan: 42, Tilt: -7}, got)
}
