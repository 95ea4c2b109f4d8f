package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/roman-kulish/flight-logbook/cmd/trackgen/app"
)

func main() {
	var logLevel slog.LevelVar
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: &logLevel}))

	var (
		configPath string
		list       bool
		flightID   int64
		outputFile string
	)
	flag.StringVar(&configPath, "c", "", "Path to the configuration file")
	flag.BoolVar(&list, "list", false, "List the flights stored in the logbook")
	flag.Int64Var(&flightID, "gpx", 0, "Export a stored flight by ID as GPX")
	flag.StringVar(&outputFile, "o", "", "Path to the GPX output file")
	flag.Parse()

	if configPath == "" {
		logger.Error("no configuration file provided")
		flag.Usage()
		os.Exit(1)
	}

	config, err := app.LoadConfig(configPath)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to load configuration file: %s", err.Error()), slog.String("path", configPath))
		os.Exit(1)
	}

	logLevel.Set(config.Settings.LogLevel)

	fileLogger, logFile, err := app.NewLogger(&config.Settings, &logLevel)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to open log file: %s", err.Error()), slog.String("path", config.Settings.LogFile))
		os.Exit(1)
	}
	defer logFile.Close()
	logger = fileLogger

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch {
	case list:
		err = app.List(ctx, config, logger)
	case flightID > 0:
		err = app.ExportFlight(ctx, config, flightID, outputFile, logger)
	default:
		err = app.Run(ctx, config, logger)
	}

	if err != nil {
		logger.Error(err.Error())

		cancel()
		_ = logFile.Close()
		os.Exit(1)
	}
}
