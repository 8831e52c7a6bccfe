package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahmadluay9/movie-recommendation-chatbot/api"
	"github.com/ahmadluay9/movie-recommendation-chatbot/handlers"
	"github.com/ahmadluay9/movie-recommendation-chatbot/internal/logging"
	"github.com/ahmadluay9/movie-recommendation-chatbot/utils"
)

const shutdownTimeout = 15 * time.Second

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.With("server")
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	var limiter *api.IPRateLimiter
	if cfg.Server.RecommendPerMinute > 0 {
		burst := cfg.Server.RecommendBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = api.NewIPRateLimiter(api.PerMinute(cfg.Server.RecommendPerMinute), burst)
		go limiter.Run(ctx)
	}
	if n, err := app.conversations.Count(ctx); err == nil {
		log.Info().Int("sessions", n).Msg("conversation store ready")
	}
	go app.conversations.Run(ctx)

	router := utils.NewRouter(cfg.Server.AllowedOrigins)
	handlers.Register(router, handlers.Routes{
		Catalog:          handlers.NewCatalogHandler(app.recommend),
		Recommend:        handlers.NewRecommendHandler(app.recommend),
		Posters:          handlers.NewPosterHandler(cfg.Catalog.ImageBaseURL, nil),
		Sessions:         handlers.NewSessionsHandler(app.conversations),
		Version:          handlers.NewVersionHandler(),
		RecommendLimiter: limiter,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", handlers.BuildVersion()).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
