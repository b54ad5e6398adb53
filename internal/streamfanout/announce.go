package streamfanout

import (
	"encoding/json"
	"net"
	"time"

	"go.uber.org/zap"
)

// announceInterval is the discovery announce period (spec.md §4.6).
const announceInterval = time.Second

// announcement is the JSON body sent on the discovery multicast group.
type announcement struct {
	Name          string
	Port          int
	AudioAndVideo bool
	Version       string
}

// announce sends the discovery datagram every announceInterval until
// stop closes.
func announce(multicastAddr, name string, port int, stop <-chan struct{}, log *zap.Logger) {
	raddr, err := net.ResolveUDPAddr("udp4", multicastAddr)
	if err != nil {
		log.Error("streamfanout: resolve multicast addr failed", zap.Error(err))
		return
	}
	conn, err := net.DialUDP("udp4", nil, raddr)
	if err != nil {
		log.Error("streamfanout: dial multicast failed", zap.Error(err))
		return
	}
	defer conn.Close()

	body, err := json.Marshal(announcement{
		Name:          name,
		Port:          port,
		AudioAndVideo: false,
		Version:       "0.6.6",
	})
	if err != nil {
		log.Error("streamfanout: marshal announce failed", zap.Error(err))
		return
	}

	ticker := time.NewTicker(announceInterval)
	defer ticker.Stop()
	for {
		if _, err := conn.Write(body); err != nil {
			log.Debug("streamfanout: announce write failed", zap.Error(err))
		}
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}
