package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/hengly4433/hotel-system/internal/audit/domain"
	availabilitydomain "github.com/hengly4433/hotel-system/internal/availability/domain"
	"github.com/hengly4433/hotel-system/internal/config"
	foliodomain "github.com/hengly4433/hotel-system/internal/folio/domain"
	"github.com/hengly4433/hotel-system/internal/observability"
	obsmiddleware "github.com/hengly4433/hotel-system/internal/observability/logger"
	obsmetrics "github.com/hengly4433/hotel-system/internal/observability/metrics"
	obstracing "github.com/hengly4433/hotel-system/internal/observability/tracing"
	reservationdomain "github.com/hengly4433/hotel-system/internal/reservation/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ActorContext())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	log = log.Named("http.server")
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
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
	engine          *gin.Engine
	reservationSvc  reservationdomain.Service
	availabilitySvc availabilitydomain.Calculator
	folioSvc        foliodomain.Service
	auditSvc        auditdomain.Service
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	ReservationSvc  reservationdomain.Service
	AvailabilitySvc availabilitydomain.Calculator
	FolioSvc        foliodomain.Service
	AuditSvc        auditdomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:          p.Gin,
		reservationSvc:  p.ReservationSvc,
		availabilitySvc: p.AvailabilitySvc,
		folioSvc:        p.FolioSvc,
		auditSvc:        p.AuditSvc,
	}
	s.RegisterRoutes()
	return s
}

func (s *Server) RegisterRoutes() {
	api := s.engine.Group("/api")

	reservations := api.Group("/reservations")
	reservations.POST("", s.CreateReservation)
	reservations.GET("", s.ListReservations)
	reservations.GET("/:id", s.GetReservation)
	reservations.PATCH("/:id", s.UpdateReservation)
	reservations.POST("/:id/confirm", s.ConfirmReservation)
	reservations.POST("/:id/check-in", s.CheckInReservation)
	reservations.POST("/:id/check-out", s.CheckOutReservation)
	reservations.POST("/:id/cancel", s.CancelReservation)
	reservations.POST("/:id/no-show", s.MarkNoShow)
	reservations.GET("/:id/folio", s.GetFolioByReservation)

	api.GET("/guests/:id/reservations", s.ListReservationsByGuest)
	api.GET("/rooms/:id/availability", s.CheckRoomAvailability)
	api.GET("/properties/:id/availability", s.CheckRoomTypeAvailability)

	folios := api.Group("/folios")
	folios.GET("", s.ListFolios)
	folios.GET("/:id", s.GetFolio)
	folios.POST("/:id/items", s.AddFolioItem)
	folios.POST("/:id/payments", s.AddPayment)
	folios.POST("/:id/close", s.CloseFolio)
	folios.GET("/:id/statement.pdf", s.FolioStatement)

	api.GET("/audit-logs", s.ListAuditLogs)
}
