/*Package config loads viscagw's configuration the way the corpus's
HTTP instrument servers do (cmd/andorhttp3, cmd/multiserver): seed a
koanf instance with defaults via structs.Provider, then overlay an
optional YAML file via file.Provider, tolerating a missing file as
"use defaults".
*/
package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
)

// Config is the full set of gateway-wide tunables. Per-camera state
// lives in internal/camera, not here.
type Config struct {
	// ScanMin/ScanMax bound the device indices the Supervisor probes
	// per spec.md §4.4 ("0..N device indices").
	ScanMin int `yaml:"ScanMin"`
	ScanMax int `yaml:"ScanMax"`

	// VISCAPortBase/VISCAPortCeiling bound the per-camera TCP listen
	// port search per spec.md §4.3.
	VISCAPortBase    int `yaml:"VISCAPortBase"`
	VISCAPortCeiling int `yaml:"VISCAPortCeiling"`

	// TickIntervalMS is the Camera Actor's periodic tick, spec.md §4.1
	// (50ms).
	TickIntervalMS int `yaml:"TickIntervalMS"`

	// ScanIntervalSeconds is the Supervisor's outer loop sleep,
	// spec.md §4.4 (3s).
	ScanIntervalSeconds int `yaml:"ScanIntervalSeconds"`

	// MulticastAddr is the streaming discovery announce destination,
	// spec.md §4.6/§6 (239.255.255.250:9999).
	MulticastAddr string `yaml:"MulticastAddr"`
	// AnnounceIntervalMS is the announce repeat period (1s). Not read
	// by internal/streamfanout, which announces on its own fixed 1s
	// announceInterval.
	AnnounceIntervalMS int `yaml:"AnnounceIntervalMS"`

	// FanOutQueueDepth is each Client Session's bounded send queue
	// capacity, spec.md §3 (800). Not read by internal/streamfanout,
	// which uses its own fixed queueDepth of 800.
	FanOutQueueDepth int `yaml:"FanOutQueueDepth"`
	// FanOutWatchdogMS is the slow-client detection tick, spec.md §4.6
	// (~200ms). Not read by internal/streamfanout, which uses its own
	// fixed 200ms watchdogInterval.
	FanOutWatchdogMS int `yaml:"FanOutWatchdogMS"`

	// Hostname is used in the streaming announce's Name field
	// ("<host> #<ncam>"); defaulted to os.Hostname() by Load if empty.
	Hostname string `yaml:"Hostname"`

	// Debug lowers the log level to Debug.
	Debug bool `yaml:"Debug"`
}

// Defaults mirrors the values spec.md calls out explicitly.
func Defaults() Config {
	return Config{
		ScanMin:             0,
		ScanMax:             8,
		VISCAPortBase:       5678,
		VISCAPortCeiling:    5700,
		TickIntervalMS:      50,
		ScanIntervalSeconds: 3,
		MulticastAddr:       "239.255.255.250:9999",
		AnnounceIntervalMS:  1000,
		FanOutQueueDepth:    800,
		FanOutWatchdogMS:    200,
	}
}

// Load seeds defaults, then overlays path if it exists. A missing
// file is not an error (matches cmd/andorhttp3's
// strings.Contains(err, "no such") tolerance).
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "yaml"), nil); err != nil {
		return Config{}, err
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !strings.Contains(err.Error(), "no such") {
				return Config{}, err
			}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, err
	}

	if cfg.Hostname == "" {
		if h, err := os.Hostname(); err == nil {
			cfg.Hostname = h
		}
	}

	return cfg, nil
}
