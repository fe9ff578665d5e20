package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/rides/internal/config"
	"github.com/smallbiznis/rides/internal/observability"
	obsmiddleware "github.com/smallbiznis/rides/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/rides/internal/observability/metrics"
	obstracing "github.com/smallbiznis/rides/internal/observability/tracing"
	"github.com/smallbiznis/rides/internal/ride"
	ridedomain "github.com/smallbiznis/rides/internal/ride/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	ride.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, log *zap.Logger) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORS())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Logger:          log.Named("http"),
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
		QuietRoutes:     []string{"/health", "/metrics"},
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, log *zap.Logger) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics, log)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening",
				zap.String("addr", srv.Addr),
				zap.String("environment", cfg.Environment),
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	rideSvc    ridedomain.Service
	obsMetrics *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	RideSvc    ridedomain.Service
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		log:        p.Log.Named("http"),
		rideSvc:    p.RideSvc,
		obsMetrics: p.ObsMetrics,
	}

	svc.registerRideRoutes()
	svc.registerFallback()
	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRideRoutes() {
	s.engine.POST("/rides", s.CreateRide)
	s.engine.GET("/active", s.ListActiveRides)
	s.engine.GET("/health", s.Health)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
