package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-job-matcher/api"
	"github.com/gcbaptista/go-job-matcher/internal/matcher"
	"github.com/gcbaptista/go-job-matcher/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(v *viper.Viper, load func() (*runtime, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the matching HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := load()
			if err != nil {
				return err
			}
			defer rt.logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, rt)
		},
	}

	cmd.Flags().StringP("port", "p", "", "port to listen on (default 8080)")
	_ = v.BindPFlag("port", cmd.Flags().Lookup("port"))
	return cmd
}

func serve(ctx context.Context, rt *runtime) error {
	pipeline, err := matcher.NewPipeline(rt.cfg.Matcher, matcher.WithLogger(rt.logger))
	if err != nil {
		return err
	}

	if !rt.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(pipeline, store.NewFileSource(rt.cfg.CandidatesPath), api.RouterOptions{
		MaxUploadBytes: rt.cfg.MaxUploadBytes,
		Logger:         rt.logger,
	})

	server := &http.Server{
		Addr:              ":" + rt.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		rt.logger.Info("starting server",
			zap.String("addr", server.Addr),
			zap.String("candidates", rt.cfg.CandidatesPath),
			zap.String("strategy", rt.cfg.Matcher.Strategy),
			zap.String("version", version))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	rt.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
