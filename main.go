package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"price-chart/api"
	"price-chart/config"
	"price-chart/logging"
	"price-chart/series"
	"price-chart/web"
	"price-chart/websocket"

	"github.com/sirupsen/logrus"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatal(err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		logrus.Fatalf("Failed to set up logging: %v", err)
	}

	formatter, err := series.FormatterForLocale(cfg.Series.Locale)
	if err != nil {
		logger.Fatalf("Invalid series.locale: %v", err)
	}

	gen := series.NewGenerator(series.WithFormatter(formatter))
	resolver := series.NewResolver(cfg.Series.DefaultDays, cfg.Series.MaxDays)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Websocket hub for pushed series
	wsServer := websocket.NewSeriesServer(gen, resolver, cfg.WebSocket.RefreshInterval, logger)
	wsServer.Start(ctx)

	h := api.NewHandler(gen, resolver, version, logger)
	srv := api.NewServer(cfg.Server, cfg.Addr(), h, wsServer.HandleWebSocket, web.Index(), logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Server error: %v", err)
			os.Exit(1)
		}
	}()

	logger.WithFields(logrus.Fields{
		"addr":    cfg.Addr(),
		"locale":  cfg.Series.Locale,
		"version": version,
	}).Info("Server started")

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Shutdown error: %v", err)
	}
	logger.Info("Shutdown complete")
}
