package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"

	"github.com/itohio/envirosense/pkg/config"
	"github.com/itohio/envirosense/pkg/console"
	"github.com/itohio/envirosense/pkg/session"
)

func main() {
	cfg, err := loadConfig(config.DefaultFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	s, err := session.New(
		session.WithLogger(logger),
		session.WithDefaultSensor(cfg.Sensor.Default),
		session.WithPlotMarker(cfg.MarkerRune()),
	)
	if err != nil {
		closeLog()
		log.Fatalf("Failed to start session: %v", err)
	}

	err = console.Stdio(s).Run()
	closeLog()

	if errors.Is(err, console.ErrInputClosed) {
		fmt.Println("\nInput error. Exiting.")
		os.Exit(1)
	}
	if err != nil {
		fmt.Printf("\nError: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration and writes the defaults to filename
// when it does not exist yet.
func loadConfig(filename string) (*config.Config, error) {
	_, statErr := os.Stat(filename)

	cfg, err := config.Load(filename)
	if err != nil {
		return nil, err
	}

	if os.IsNotExist(statErr) {
		if err := cfg.Save(filename); err != nil {
			log.Printf("Failed to write default configuration: %v", err)
		}
	}

	return cfg, nil
}

// newLogger builds the diagnostic logger. Diagnostics never go to stdout,
// which carries the operator menus.
func newLogger(cfg config.LogConfig) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}

	handler := tint.NewHandler(w, &tint.Options{
		Level:   level,
		NoColor: cfg.File != "",
	})
	return slog.New(handler), closeFn, nil
}
