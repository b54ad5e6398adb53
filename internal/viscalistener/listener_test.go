package viscalistener

import (
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/viscagw/viscagw/internal/camera"
)

type recordingEvents struct {
	connected    chan string
	disconnected chan string
}

func newRecordingEvents() *recordingEvents {
	return &recordingEvents{
		connected:    make(chan string, 4),
		disconnected: make(chan string, 4),
	}
}

func (e *recordingEvents) Connected(ncam int, addr string)    { e.connected <- addr }
func (e *recordingEvents) Disconnected(ncam int, addr string) { e.disconnected <- addr }

func TestListenBindsFirstFreePortInRange(t *testing.T) {
	l, err := Listen(0, 15900, 15920, zap.NewNop())
	require.NoError(t, err)
	defer l.Kill()

	assert.GreaterOrEqual(t, l.Port(), 15900)
	assert.LessOrEqual(t, l.Port(), 15920)
}

func TestListenStartsAtBasePlusNcam(t *testing.T) {
	l, err := Listen(3, 15900, 15920, zap.NewNop())
	require.NoError(t, err)
	defer l.Kill()

	assert.Equal(t, 15903, l.Port())
}

func TestListenFallsThroughWhenPreferredPortIsTaken(t *testing.T) {
	blocker, err := net.Listen("tcp", "127.0.0.1:15933")
	require.NoError(t, err)
	defer blocker.Close()

	l, err := Listen(3, 15930, 15940, zap.NewNop())
	require.NoError(t, err)
	defer l.Kill()

	assert.Equal(t, 15934, l.Port())
}

func TestListenReturnsErrNoPortWhenRangeExhausted(t *testing.T) {
	blocker, err := net.Listen("tcp", "127.0.0.1:15950")
	require.NoError(t, err)
	defer blocker.Close()

	_, err = Listen(0, 15950, 15950, zap.NewNop())
	assert.ErrorIs(t, err, ErrNoPort)
}

func TestServeReportsConnectAndDisconnect(t *testing.T) {
	l, err := Listen(0, 15960, 15980, zap.NewNop())
	require.NoError(t, err)
	defer l.Kill()

	cmds := make(chan camera.Command, 8)
	events := newRecordingEvents()
	go l.Serve(cmds, events)

	conn, err := net.Dial("tcp", "127.0.0.1:"+strconv.Itoa(l.Port()))
	require.NoError(t, err)

	select {
	case <-events.connected:
	case <-time.After(time.Second):
		t.Fatal("expected a Connected event")
	}

	conn.Close()

	select {
	case <-events.disconnected:
	case <-time.After(time.Second):
		t.Fatal("expected a Disconnected event")
	}
}

func TestKillClosesLiveConnections(t *testing.T) {
	l, err := Listen(0, 15990, 16010, zap.NewNop())
	require.NoError(t, err)

	cmds := make(chan camera.Command, 8)
	events := newRecordingEvents()
	go l.Serve(cmds, events)

	conn, err := net.Dial("tcp", "127.0.0.1:"+strconv.Itoa(l.Port()))
	require.NoError(t, err)
	defer conn.Close()

	<-events.connected

	l.Kill()
	// Kill is idempotent.
	l.Kill()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 1)
	_, err = conn.Read(buf)
	assert.Error(t, err, "expected Kill to close the accepted connection")
}

