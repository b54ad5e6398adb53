package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/viscagw/viscagw/internal/config"
	"github.com/viscagw/viscagw/internal/logging"
	"github.com/viscagw/viscagw/internal/preset"
	"github.com/viscagw/viscagw/internal/statusui"
	"github.com/viscagw/viscagw/internal/supervisor"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults are used for anything it omits)")
	debug := flag.Bool("debug", false, "enable debug-level logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("viscagw: failed to load config: %v", err)
	}
	if *debug {
		cfg.Debug = true
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		log.Fatalf("viscagw: failed to build logger: %v", err)
	}
	defer logger.Sync()

	store := preset.NewMemStore()

	// No GUI/TUI is built here (out of scope per spec.md §1/§6); log
	// each UpdateScreen at debug level so the status stream is at least
	// observable without one attached.
	sink := statusui.Func(func(u statusui.Update) {
		logger.Debug("status update", zap.Strings("lines", u.Lines))
	})
	sup := supervisor.New(cfg, store, logger, sink)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("viscagw starting",
		zap.Int("scan_min", cfg.ScanMin),
		zap.Int("scan_max", cfg.ScanMax),
		zap.Int("visca_port_base", cfg.VISCAPortBase),
		zap.Int("visca_port_ceiling", cfg.VISCAPortCeiling),
		zap.String("multicast_addr", cfg.MulticastAddr),
	)

	sup.Run(ctx)

	logger.Info("viscagw stopped")
}
