package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/gps_datalogger/internal/app"
	"github.com/relabs-tech/gps_datalogger/internal/config"
	"github.com/relabs-tech/gps_datalogger/internal/logging"
)

func main() {
	configPath := flag.String("config", "datalogger_config.txt", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to load config from %s: %v\n", *configPath, err)
		os.Exit(1)
	}

	log := logging.New(cfg, "gps-probe")
	log.Info("starting GPS probe (NMEA → decoder state)", "port", cfg.GPSSerialPort, "baud", cfg.GPSBaudRate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunGPSProbe(ctx, cfg, os.Stdout, log); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}
