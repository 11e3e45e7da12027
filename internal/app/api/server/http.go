package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/greenplate/mealsub/docs"
	"github.com/greenplate/mealsub/internal/app/api/handlers"
	mw "github.com/greenplate/mealsub/internal/app/api/middleware"
	"github.com/greenplate/mealsub/internal/app/service/catalog"
	"github.com/greenplate/mealsub/internal/app/service/demand"
	"github.com/greenplate/mealsub/internal/app/service/lifecycle"
	"github.com/greenplate/mealsub/internal/app/service/statistics"
	"github.com/greenplate/mealsub/internal/app/service/sweep"
	cfgpkg "github.com/greenplate/mealsub/pkg/config"
	metrics "github.com/greenplate/mealsub/pkg/metrics"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Request tracing only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

func registerRoutes(
	r *gin.Engine,
	log *zap.SugaredLogger,
	cfg *cfgpkg.Config,
	lc *lifecycle.Service,
	sw *sweep.Service,
	dm *demand.Service,
	cat *catalog.Service,
	stats *statistics.Service,
) {
	// Prometheus metrics
	if cfg != nil && cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: log,
		})
		p.SetListenAddress(cfg.MetricsAddr)
		p.Use(r)

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Demand surface: read-only dashboard/prep-sheet APIs, no auth
	apiDemand := r.Group("/api/v1/demand")
	apiDemand.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterDemandRoutes(apiDemand, dm)

	// Admin back office, behind token auth
	apiAdmin := r.Group("/api/v1/admin")
	apiAdmin.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(), mw.AdminAuthMiddleware(cfg.Admin.JWTSecret))
	handlers.RegisterAdminRoutes(apiAdmin, lc, sw, stats)
	handlers.RegisterCatalogRoutes(apiAdmin, cat)

	// Payment gateway callbacks
	apiWebhooks := r.Group("/api/v1/webhooks")
	apiWebhooks.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterWebhookRoutes(apiWebhooks, lc, log)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
