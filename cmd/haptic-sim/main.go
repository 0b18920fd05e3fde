// Command haptic-sim runs simulated haptic devices behind a server and
// drives them with a client over an in-memory connection.
//
// Usage:
//
//	haptic-sim [flags]
//
// Flags:
//
//	-config string        Configuration file path (YAML)
//	-log-level string     Log level: debug, info, warn, error
//	-protocol-log string  Capture protocol events to this file
//	-interactive          Start the interactive shell instead of the demo
//
// Examples:
//
//	# Run the scripted demo against a simulated Je Joue
//	haptic-sim
//
//	# Drive devices from a config file by hand, capturing the session
//	haptic-sim -config devices.yaml -interactive -protocol-log session.hlog
//
//	# Inspect the capture afterwards
//	haptic-log view session.hlog
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/haptic-protocol/haptic-go/cmd/haptic-sim/interactive"
	"github.com/haptic-protocol/haptic-go/pkg/log"
)

var (
	configFile      string
	logLevel        string
	protocolLog     string
	interactiveMode bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "Configuration file path")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	flag.StringVar(&protocolLog, "protocol-log", "", "Capture protocol events to this file (overrides config)")
	flag.BoolVar(&interactiveMode, "interactive", false, "Start the interactive shell")
}

func main() {
	flag.Parse()

	cfg := DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = LoadConfig(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if protocolLog != "" {
		cfg.ProtocolLog = protocolLog
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *Config) error {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	recorder := log.NewRecorder(interactive.RecorderLimit)
	loggers := []log.Logger{recorder}
	if level <= slog.LevelDebug {
		loggers = append(loggers, log.NewSlogAdapter(logger.With("component", "protocol")))
	}
	if cfg.ProtocolLog != "" {
		fileLogger, err := log.NewFileLogger(cfg.ProtocolLog)
		if err != nil {
			return err
		}
		defer fileLogger.Close()
		loggers = append(loggers, fileLogger)
		logger.Info("capturing protocol events", "path", cfg.ProtocolLog)
	}

	sim, err := NewSimulator(cfg, logger, log.NewMultiLogger(loggers...))
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := sim.Start(ctx); err != nil {
		_ = sim.Close()
		return err
	}
	defer sim.Close()

	if !interactiveMode {
		return runDemo(ctx, sim.Client(), os.Stdout)
	}

	shell, err := interactive.New(sim, recorder)
	if err != nil {
		return err
	}
	shell.Run(ctx, cancel)
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
