package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/open-teleop/headtrack/domain/telemetry"
	"github.com/open-teleop/headtrack/pkg/api"
	"github.com/open-teleop/headtrack/pkg/config"
	"github.com/open-teleop/headtrack/pkg/extent"
	customlog "github.com/open-teleop/headtrack/pkg/log"
	"github.com/open-teleop/headtrack/pkg/pipeline"
	"github.com/open-teleop/headtrack/pkg/pose"
	"github.com/open-teleop/headtrack/pkg/processing"
	"github.com/open-teleop/headtrack/pkg/source"
	"github.com/open-teleop/headtrack/pkg/transport"
	"github.com/open-teleop/headtrack/pkg/zeromq"
	"github.com/open-teleop/headtrack/services"
)

const shutdownTimeout = 5 * time.Second

func main() {
	defaultConfigDir := os.Getenv("HEADTRACK_CONFIG_DIR")
	if defaultConfigDir == "" {
		defaultConfigDir = "config"
	}
	configDir := flag.String("config", defaultConfigDir, "directory containing "+config.BootstrapFileName)
	flag.Parse()

	cfg, err := config.LoadBootstrapConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load bootstrap config: %v", err)
	}

	logger, err := customlog.NewLogrusLogger(cfg.Logging.Level, cfg.Logging.LogPath)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	logger.Infof("Loaded bootstrap config from %s (source=%s)", *configDir, cfg.Source.Type)

	sender, err := transport.NewUDPSender(transport.UDPSenderConfig{
		Host:             cfg.UDP.Host,
		Port:             cfg.UDP.Port,
		ErrorLogInterval: cfg.UDP.ErrorLogInterval(),
	}, logger.WithField("component", "udp"))
	if err != nil {
		logger.Fatalf("Failed to create UDP sender: %v", err)
	}

	tracker := extent.NewWithSeed(cfg.Seed())
	encoder := pose.NewEncoder(pose.DefaultParams())
	pipe := pipeline.New(tracker, encoder, sender, logger.WithField("component", "pipeline"))
	logger.Infof("Pipeline session %s sending to %s", pipe.SessionID(), sender.Address())

	tuningService, err := services.NewTuningService(cfg.Data.TuningPath(), logger.WithField("component", "tuning"))
	if err != nil {
		logger.Fatalf("Failed to create tuning service: %v", err)
	}
	if err := tuningService.Load(); err != nil {
		logger.Fatalf("Failed to load tuning: %v", err)
	}
	tuningService.AddApplier(pipe)

	var zmqService *zeromq.ZeroMQService
	if cfg.ZeroMQ.Enabled {
		zmqService, err = zeromq.NewZeroMQService(cfg.ZeroMQ, logger.WithField("component", "zeromq"))
		if err != nil {
			logger.Fatalf("Failed to create ZeroMQ service: %v", err)
		}
		tuningService.SetPublisher(zeromq.RegisterTuningHandlers(zmqService, tuningService, logger))
		pipe.SetPublisher(zeromq.NewPosePublisher(zmqService, logger))
		if err := zmqService.Start(); err != nil {
			logger.Fatalf("Failed to start ZeroMQ service: %v", err)
		}
	}

	queue := processing.NewFrameQueue("pose", cfg.Source.QueueSize, pipe.Process, logger.WithField("component", "queue"))
	queue.SetResultHandler(processing.NewLoggingResultHandler(logger).CreateHandlerFunc())
	queue.Start()

	telemetryService := telemetry.NewTelemetryService(pipe, cfg.Source.Type)
	telemetryService.SetQueue(queue)
	telemetryService.SetSender(sender)

	app := api.NewApp("Headtrack")
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "online",
			"service": "headtrack",
			"session": pipe.SessionID(),
		})
	})
	app.Get("/api/v1/telemetry", telemetryService.GetTelemetryHandler)
	api.RegisterTuningRoutes(app, tuningService, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sourceDone := make(chan struct{})
	switch cfg.Source.Type {
	case config.SourceWebSocket:
		api.RegisterPoseRoutes(app, queue, logger.WithField("component", "ws"))
		close(sourceDone)
	case config.SourceSynthetic:
		go func() {
			defer close(sourceDone)
			synthetic := source.NewSyntheticSource(source.DefaultSyntheticConfig())
			stats, err := source.Run(ctx, synthetic, cfg.Source.Interval(), queue.Enqueue)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("Synthetic source stopped: %v", err)
			}
			logger.Infof("Synthetic source finished: delivered=%d rejected=%d skipped=%d",
				stats.Delivered, stats.Rejected, stats.Skipped)
		}()
	}

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
		logger.Infof("Server starting on %s", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Infof("Received %v, shutting down...", sig)

	cancel()
	<-sourceDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	queue.Stop()
	if zmqService != nil {
		zmqService.Stop()
	}
	if err := sender.Close(); err != nil {
		logger.Warnf("Failed to close UDP sender: %v", err)
	}

	m := pipe.Metrics()
	logger.Infof("Server exited properly (processed=%d, skipped=%d)", m.Processed, m.Skipped)
}
