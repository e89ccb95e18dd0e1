package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shschool-data/internal/cache"
	"shschool-data/internal/middlewares"
	"shschool-data/internal/selectable"
)

func newServeCmd() *cobra.Command {
	var origins []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the select methods over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			return a.serve(cmd.Context(), origins)
		},
	}
	cmd.Flags().StringSliceVar(&origins, "allow-origin", []string{"http://localhost:3000"}, "CORS allowed origins")
	return cmd
}

func (a *app) serve(ctx context.Context, origins []string) error {
	if a.cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required to serve")
	}

	if a.cfg.MappingRefreshCron != "" {
		c := cron.New()
		if _, err := cache.Schedule(c, a.cfg.MappingRefreshCron, a.log, a.invalidators()...); err != nil {
			return err
		}
		c.Start()
		defer c.Stop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	selectable.RegisterRoutes(r, a.registry, middlewares.AuthMiddleware(a.cfg.JWTSecret))

	srv := &http.Server{Addr: "0.0.0.0:" + a.cfg.Port, Handler: r}
	errc := make(chan error, 1)
	go func() {
		a.log.Info("starting server", zap.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.log.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}
