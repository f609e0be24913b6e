package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apiserver "github.com/deepencoding/video-processing-service/internal/api_server"
	"github.com/deepencoding/video-processing-service/internal/config"
	"github.com/deepencoding/video-processing-service/internal/storage"
	"github.com/deepencoding/video-processing-service/internal/store"
	"github.com/deepencoding/video-processing-service/pkg/log"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the video processing api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}

		logger := log.InitLog(log.Level(cfg.Service.LogLevel))
		defer func() { _ = logger.Sync() }()

		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Info("Starting video processing service")
		defer zap.S().Info("Video processing service stopped")

		scratch := storage.NewScratch(cfg.Service.Scratch.RawDir, cfg.Service.Scratch.ProcessedDir)
		if err := scratch.Setup(); err != nil {
			zap.S().Fatalw("setting up scratch space", "error", err)
		}

		zap.S().Info("Initializing data store")
		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalw("initializing data store", "error", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		if err := s.InitialMigration(); err != nil {
			zap.S().Fatalw("running initial migration", "error", err)
		}

		transfer, err := storage.NewMinioTransfer(scratch,
			storage.WithEndpoint(cfg.Service.S3.Endpoint),
			storage.WithAccessKey(cfg.Service.S3.AccessKey),
			storage.WithSecretKey(cfg.Service.S3.SecretKey),
			storage.WithRawBucket(cfg.Service.S3.RawBucket),
			storage.WithProcessedBucket(cfg.Service.S3.ProcessedBucket),
			storage.WithSSL(cfg.Service.S3.UseSSL),
		)
		if err != nil {
			zap.S().Fatalw("creating object storage client", "error", err)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.Address)
			if err != nil {
				zap.S().Fatalw("creating listener", "error", err)
			}

			server := apiserver.New(cfg, s, transfer, scratch, listener)
			if err := server.Run(ctx); err != nil {
				zap.S().Fatalw("running api server", "error", err)
			}
		}()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.MetricsAddress)
			if err != nil {
				zap.S().Fatalw("creating metrics listener", "error", err)
			}

			metricsServer := apiserver.NewMetricServer(cfg.Service.MetricsAddress, listener)
			if err := metricsServer.Run(ctx); err != nil {
				zap.S().Fatalw("running metrics server", "error", err)
			}
		}()

		<-ctx.Done()
		return nil
	},
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
