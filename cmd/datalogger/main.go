// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
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

	log := logging.New(cfg, "gps-datalogger")
	slog.SetDefault(log)
	log.Info("starting GPS data logger",
		"debug", cfg.Debug,
		"enlog", cfg.EnableLog,
		"gps_port", cfg.GPSSerialPort,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunDataLogger(ctx, cfg, log); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}
