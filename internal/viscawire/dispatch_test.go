package viscawire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viscagw/viscagw/internal/camera"
)

func TestDecodeHome(t *testing.T) {
	cmd, ok := decodeCommand([]byte{0x01, 0x06, 0x04})
	require.True(t, ok)
	assert.Equal(t, camera.Home{}, cmd)
}

func TestDecodeIFClearIsNoopButRecognized(t *testing.T) {
	cmd, ok := decodeCommand([]byte{0x01, 0x00, 0x01})
	require.True(t, ok)
	assert.Nil(t, cmd)
}

func TestDecodeRecordPreset(t *testing.T) {
	cmd, ok := decodeCommand([]byte{0x01, 0x04, 0x3F, 0x01, 0x05})
	require.True(t, ok)
	assert.Equal(t, camera.RecordPreset{Slot: 5}, cmd)
}

func TestDecodeUnrecognizedCommand(t *testing.T) {
	_, ok := decodeCommand([]byte{0x01, 0xAB, 0xCD})
	assert.False(t, ok)
}

func TestDecodePanTiltDriveSignsAndSpeed(t *testing.T) {
	cmd, ok := decodeCommand([]byte{0x01, 0x06, 0x01, 0x08, 0x01, 0x01, 0x02})
	require.True(t, ok)
	mc := cmd.(camera.MoveContinuous)
	assert.Equal(t, int64(-8*3600), mc.PanSpeed)
	assert.Equal(t, int64(-1*3600), mc.TiltSpeed)
}

func TestDecodePanTiltDriveDoublesAboveThreshold(t *testing.T) {
	cmd, ok := decodeCommand([]byte{0x01, 0x06, 0x01, 0x13, 0x01, 0x02, 0x00})
	require.True(t, ok)
	mc := cmd.(camera.MoveContinuous)
	// 0x13 % 0x19 = 19; >0x08 doubles, >0x12 doubles again => *4
	assert.Equal(t, int64(19*3600*4), mc.PanSpeed)
}

func TestDecodeZoomContinuous(t *testing.T) {
	cmd, ok := decodeCommand([]byte{0x01, 0x04, 0x07, 0x02})
	require.True(t, ok)
	assert.Equal(t, camera.ZoomContinuous{F: 1.0}, cmd)
}

func TestDecodeWhiteBalanceMode(t *testing.T) {
	cmd, ok := decodeCommand([]byte{0x01, 0x04, 0x35, 0x01})
	require.True(t, ok)
	assert.Equal(t, camera.WhiteBalanceMode{Mode: 1}, cmd)
}

func TestDecodeZoomDirect(t *testing.T) {
	// 3-byte header + 4 nibbles (b[3:7]) = 7 bytes; 0x4000/0x4000 == 1.0.
	cmd, ok := decodeCommand([]byte{0x01, 0x04, 0x47, 0x04, 0x00, 0x00, 0x00})
	require.True(t, ok)
	assert.Equal(t, camera.ZoomDirect{F: 1.0}, cmd)
}

func TestDecodeFocusDirect(t *testing.T) {
	// 0xF000/0xF000 == 1.0.
	cmd, ok := decodeCommand([]byte{0x01, 0x04, 0x48, 0x0F, 0x00, 0x00, 0x00})
	require.True(t, ok)
	assert.Equal(t, camera.FocusDirect{F: 1.0}, cmd)
}
