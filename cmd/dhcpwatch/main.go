// dhcpwatch — passive DHCPv4 network observer.
package main

import (
	"context"
	"flag"
	"fmt"
	nethttp "net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/dhcpwatch/dhcpwatch/internal/config"
	"github.com/dhcpwatch/dhcpwatch/internal/logging"
	"github.com/dhcpwatch/dhcpwatch/internal/metrics"
	"github.com/dhcpwatch/dhcpwatch/internal/monitor"
	"github.com/dhcpwatch/dhcpwatch/internal/observe"
	"github.com/dhcpwatch/dhcpwatch/internal/sightings"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	debugPort := flag.String("debug-port", "", "enable pprof debug server on this port (e.g. 6060)")
	flag.Parse()

	// Start pprof debug server if requested
	if *debugPort != "" {
		runtime.SetMutexProfileFraction(5)
		runtime.SetBlockProfileRate(1)
		go func() {
			addr := "0.0.0.0:" + *debugPort
			fmt.Fprintf(os.Stderr, "pprof debug server on http://%s/debug/pprof/\n", addr)
			if err := nethttp.ListenAndServe(addr, nil); err != nil {
				fmt.Fprintf(os.Stderr, "pprof server failed: %v\n", err)
			}
		}()
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Logs go to stderr so packet summaries on stdout stay readable.
	logger := logging.Setup(cfg.Monitor.LogLevel, cfg.Monitor.LogFormat, os.Stderr)
	logger.Info("dhcpwatch starting",
		"config", *configPath,
		"bind", cfg.Monitor.BindAddress,
		"interface", cfg.Monitor.Interface,
		"db", cfg.Monitor.DB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := bolt.Open(cfg.Monitor.DB, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		logger.Error("failed to open observation database", "error", err, "path", cfg.Monitor.DB)
		os.Exit(1)
	}
	defer db.Close()

	devices, err := observe.NewStore(db, logger)
	if err != nil {
		logger.Error("failed to initialize device store", "error", err)
		os.Exit(1)
	}
	logger.Info("observation database opened",
		"path", cfg.Monitor.DB,
		"device_count", devices.Count())

	servers, err := sightings.NewTracker(db, cfg.ExpectedServerIPs(), logger)
	if err != nil {
		logger.Error("failed to initialize server tracker", "error", err)
		os.Exit(1)
	}

	if cfg.Metrics.Enabled {
		go func() {
			logger.Info("metrics server started", "listen", cfg.Metrics.Listen)
			mux := nethttp.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := nethttp.ListenAndServe(cfg.Metrics.Listen, mux); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}
	metrics.StartTime.SetToCurrentTime()
	metrics.DevicesKnown.Set(float64(devices.Count()))
	metrics.ServersKnown.Set(float64(servers.Count()))

	mon := monitor.New(monitor.Options{
		BindAddress: cfg.Monitor.BindAddress,
		Interface:   cfg.Monitor.Interface,
		LogOptions:  cfg.Monitor.LogOptions,
	}, devices, servers, logger)

	if err := mon.Start(ctx); err != nil {
		logger.Error("failed to start monitor", "error", err)
		os.Exit(1)
	}

	logger.Info("dhcpwatch ready",
		"expected_servers", len(cfg.Monitor.ExpectedServers),
		"metrics", cfg.Metrics.Enabled)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("received shutdown signal", "signal", sig.String())

	cancel()
	mon.Stop()
	db.Close()
}
