package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/deepencoding/video-processing-service/internal/config"
	"github.com/deepencoding/video-processing-service/internal/handlers"
	"github.com/deepencoding/video-processing-service/internal/service"
	"github.com/deepencoding/video-processing-service/internal/storage"
	"github.com/deepencoding/video-processing-service/internal/store"
	"github.com/deepencoding/video-processing-service/internal/transcoder"
	"github.com/deepencoding/video-processing-service/pkg/metrics"
	"github.com/deepencoding/video-processing-service/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	transfer storage.Transfer
	scratch  storage.Scratch
	listener net.Listener
}

// New returns a new instance of the video-processing server.
func New(
	cfg *config.Config,
	store store.Store,
	transfer storage.Transfer,
	scratch storage.Scratch,
	listener net.Listener,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		transfer: transfer,
		scratch:  scratch,
		listener: listener,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	pipelineService := service.NewPipelineService(
		s.store,
		s.transfer,
		s.scratch,
		transcoder.NewFfmpeg(s.cfg.Service.Transcode.FfmpegBinary),
		service.PipelineOptions{
			TransferTimeout:   s.cfg.Service.Transcode.TransferTimeout,
			ConversionTimeout: s.cfg.Service.Transcode.ConversionTimeout,
			TargetHeight:      s.cfg.Service.Transcode.TargetHeight,
		},
	)

	h := handlers.NewServiceHandler(pipelineService, service.NewVideoService(s.store))

	router.Post("/process-video", h.ProcessVideo)
	router.Get("/health", h.Health)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/videos", h.ListVideos)
		r.Get("/videos/{id}", h.GetVideo)
	})

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}
