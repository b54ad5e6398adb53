package viscawire

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/viscagw/viscagw/internal/camera"
)

func TestServeCommandGetsAckAndCompletion(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	cmds := make(chan camera.Command, 4)
	go Serve(server, cmds, zap.NewNop())

	go func() {
		_, _ = client.Write([]byte{0x81, 0x01, 0x06, 0x04, 0xFF}) // Home
	}()

	buf := make([]byte, 6)
	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := io.ReadFull(client, buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x91, 0x41, 0xFF, 0x91, 0x51, 0xFF}, buf[:n])

	select {
	case cmd := <-cmds:
		assert.Equal(t, camera.Home{}, cmd)
	case <-time.After(time.Second):
		t.Fatal("expected Home command to reach the queue")
	}
}

func TestServeDropsFrameWithBadSenderAddress(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	cmds := make(chan camera.Command, 4)
	go Serve(server, cmds, zap.NewNop())

	go func() {
		_, _ = client.Write([]byte{0x82, 0x01, 0x06, 0x04, 0xFF})
	}()

	select {
	case cmd := <-cmds:
		t.Fatalf("expected no command, got %#v", cmd)
	case <-time.After(100 * time.Millisecond):
	}
}
