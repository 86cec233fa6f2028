package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/invoicemaker/internal/config"
	"github.com/smallbiznis/invoicemaker/internal/editor"
	"github.com/smallbiznis/invoicemaker/internal/export"
	"github.com/smallbiznis/invoicemaker/internal/invoice/render"
	"github.com/smallbiznis/invoicemaker/internal/observability"
	obsmiddleware "github.com/smallbiznis/invoicemaker/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/invoicemaker/internal/observability/metrics"
	obstracing "github.com/smallbiznis/invoicemaker/internal/observability/tracing"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(obsCfg, httpMetrics)
}

// run starts listening after the editor has loaded the draft; fx runs
// OnStart hooks in dependency order.
func run(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log = log.Named("http")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
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
	engine   *gin.Engine
	editor   *editor.Controller
	exports  *export.Service
	renderer render.Renderer
	settings *config.ExportConfigHolder
}

type ServerParams struct {
	fx.In

	Gin      *gin.Engine
	Editor   *editor.Controller
	Exports  *export.Service
	Renderer render.Renderer
	Settings *config.ExportConfigHolder
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:   p.Gin,
		editor:   p.Editor,
		exports:  p.Exports,
		renderer: p.Renderer,
		settings: p.Settings,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	inv := api.Group("/invoice")
	inv.GET("", s.GetInvoice)
	inv.PATCH("", s.UpdateInvoiceField)
	inv.GET("/validate", s.ValidateInvoice)
	inv.POST("/items", s.AddItem)
	inv.PUT("/items/order", s.ReorderItems)
	inv.PATCH("/items/:id", s.UpdateItem)
	inv.DELETE("/items/:id", s.RemoveItem)
	inv.POST("/reset", s.ResetInvoice)
	inv.GET("/preview", s.PreviewInvoice)
	inv.POST("/export", s.ExportInvoice)

	api.GET("/export/status", s.ExportStatus)
	api.DELETE("/export/notice", s.DismissExportNotice)

	api.GET("/locale", s.GetLocale)
	api.GET("/catalog", s.GetCatalog)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
