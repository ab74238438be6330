// Command rcposc bridges a Yamaha console's RCP connection to OSC.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jdginn/rcposc/bridge"
	"github.com/jdginn/rcposc/config"
	"github.com/jdginn/rcposc/devices/yamaha"
	"github.com/jdginn/rcposc/logging"
	"github.com/jdginn/rcposc/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "rcposc:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := cfg.ApplyLogging(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.Metrics.Addr != "" {
		if m, err = metrics.New(prometheus.DefaultRegisterer); err != nil {
			return err
		}
		srv := serveMetrics(cfg.Metrics.Addr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	conns, err := bridge.Dial(ctx, cfg)
	if err != nil {
		return err
	}
	return bridge.FromConns(conns, cfg.OSC.MetaControl, m).Run(ctx)
}

// parseConfig layers command line flags over the config file named by
// -config, or over the defaults when there is none.
func parseConfig(args []string, out io.Writer) (config.Config, error) {
	fs := flag.NewFlagSet("rcposc", flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", "", "YAML config file; flags override its values")
	consoleIP := fs.String("console-ip", "", "The remote console IP")
	rcpPort := fs.Int("rcp-port", yamaha.DefaultPort, "The remote RCP port")
	oscOutPort := fs.Int("udp-osc-out-port", 3999, "The remote OSC port")
	oscOutAddr := fs.String("udp-osc-out-addr", "127.0.0.1", "The remote OSC address")
	oscInPort := fs.Int("udp-osc-in-port", 4000, "The local OSC port")
	oscInAddr := fs.String("udp-osc-in-addr", "0.0.0.0", "The local OSC address")
	metaControl := fs.Bool("meta-control", true,
		"Handle OSC messages under /meta/ locally (e.g. /meta/logging/<category>/level). "+
			"They are consumed and not forwarded to the console; set false to forward them")
	metricsAddr := fs.String("metrics-addr", "", "Serve Prometheus metrics on this address")
	logLevel := fs.String("log-level", "", "Log level for every category (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return config.Config{}, err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "console-ip":
			cfg.Console.Host = *consoleIP
		case "rcp-port":
			cfg.Console.Port = *rcpPort
		case "udp-osc-out-port":
			cfg.OSC.OutPort = *oscOutPort
		case "udp-osc-out-addr":
			cfg.OSC.OutHost = *oscOutAddr
		case "udp-osc-in-port":
			cfg.OSC.InPort = *oscInPort
		case "udp-osc-in-addr":
			cfg.OSC.InHost = *oscInAddr
		case "meta-control":
			cfg.OSC.MetaControl = *metaControl
		case "metrics-addr":
			cfg.Metrics.Addr = *metricsAddr
		case "log-level":
			cfg.Logging.Level = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func serveMetrics(addr string) *http.Server {
	log := logging.Get(logging.META)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server failed", "error", err)
		}
	}()
	return srv
}
