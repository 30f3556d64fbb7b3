package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/adanyl0v/go-task-manager/internal/config"
	"github.com/adanyl0v/go-task-manager/internal/delivery/http/v1"
	"github.com/adanyl0v/go-task-manager/internal/repository"
	"github.com/adanyl0v/go-task-manager/internal/services"
)

const healthCheckTimeout = 3 * time.Second

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router, err := newRouter(cfg, globalLogger, globalStore)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to set up router")
		panic(err)
	}

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// kill -9 can't be caught, so it is not listed
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err = server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func newRouter(cfg *config.Config, logger zerolog.Logger, store repository.Store) (*gin.Engine, error) {
	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	if cfg.Tracing.Enabled {
		router.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}

	router.GET("/health", handleHealth(logger, store))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler := v1.New(
		logger,
		services.NewTaskService(logger, store, location),
		services.NewTagService(logger, store),
		cfg.AppName,
		location,
		cfg.JWT.Issuer,
		[]byte(cfg.JWT.SigningKey),
	)
	v1.RegisterRoutes(router.Group("/api"), handler)

	return router, nil
}

func handleHealth(logger zerolog.Logger, store repository.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, healthCheckTimeout)
		defer cancel()

		err := store.Ping(ctx)
		if err != nil {
			logger.Error().
				Err(err).
				Msg("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	}
}
