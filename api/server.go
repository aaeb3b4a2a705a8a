package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/OldStager01/predictive-maintenance/api/handlers"
	"github.com/OldStager01/predictive-maintenance/api/middleware"
	"github.com/OldStager01/predictive-maintenance/api/websocket"
	_ "github.com/OldStager01/predictive-maintenance/docs"
	"github.com/OldStager01/predictive-maintenance/internal/analyzer"
	"github.com/OldStager01/predictive-maintenance/internal/classifier"
	"github.com/OldStager01/predictive-maintenance/internal/events"
	"github.com/OldStager01/predictive-maintenance/internal/ingest"
	"github.com/OldStager01/predictive-maintenance/internal/metrics"
	"github.com/OldStager01/predictive-maintenance/internal/predictor"
	"github.com/OldStager01/predictive-maintenance/internal/store"
	"github.com/OldStager01/predictive-maintenance/pkg/config"
	"github.com/OldStager01/predictive-maintenance/pkg/database"
)

const maxRequestBytes = 4 << 20

// Dependencies are the process-wide resources shared by every request.
// DB and Bus may be nil.
type Dependencies struct {
	Store     store.Store
	Model     classifier.Model
	Predictor *predictor.Service
	Analyzer  *analyzer.Analyzer
	Ingester  *ingest.Ingester
	Bus       *events.EventBus
	DB        *database.DB
}

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     *config.Config
	deps       Dependencies
	wsHub      *websocket.Hub
	wsBridge   *websocket.EventBridge
}

func NewServer(cfg *config.Config, deps Dependencies) *Server {
	if cfg.App.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
	}

	if deps.Analyzer == nil {
		deps.Analyzer = analyzer.New(analyzer.Config{Workers: cfg.Analyzer.Workers})
	}
	if deps.Predictor == nil {
		deps.Predictor = predictor.NewService(predictor.Config{
			HistorySize: cfg.Features.HistorySize,
			WindowSize:  cfg.Features.WindowSize,
		})
	}
	publisher := events.NewPublisher(deps.Bus)
	if deps.Ingester == nil {
		deps.Ingester = ingest.NewIngester(deps.Store, publisher, ingest.Config{
			MaxBatchSize: cfg.API.MaxBatchSize,
		})
	}

	wsHub := websocket.NewHub(&cfg.WebSocket)

	s := &Server{
		router: gin.New(),
		config: cfg,
		deps:   deps,
		wsHub:  wsHub,
	}

	s.setupMiddleware()
	s.setupRoutes(publisher)

	go wsHub.Run()

	if deps.Bus != nil {
		s.wsBridge = websocket.NewEventBridge(wsHub, deps.Bus.SubscribeAll())
		s.wsBridge.Start()
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins:     s.config.API.CORS.AllowedOrigins,
		AllowMethods:     s.config.API.CORS.AllowedMethods,
		AllowHeaders:     s.config.API.CORS.AllowedHeaders,
		ExposeHeaders:    s.config.API.CORS.ExposedHeaders,
		AllowCredentials: s.config.API.CORS.AllowCredentials,
	}))
	s.router.Use(middleware.TraceID())
	s.router.Use(middleware.RequestLogger())
	s.router.Use(middleware.RequestSizeLimit(maxRequestBytes))

	rateLimiter := middleware.NewRateLimiter(s.config.API.RateLimit, time.Minute)
	s.router.Use(middleware.RateLimit(rateLimiter))
}

func (s *Server) setupRoutes(publisher *events.Publisher) {
	d := s.deps

	healthHandler := handlers.NewHealthHandler(d.Store, d.Model, d.DB)
	machineHandler := handlers.NewMachineHandler(d.Store, d.Analyzer, handlers.MachineHandlerConfig{
		DefaultHistoryHours: s.config.API.DefaultHistoryHours,
		MaxHistoryHours:     s.config.API.MaxHistoryHours,
	})
	predictHandler := handlers.NewPredictHandler(d.Store, d.Predictor, d.Model, publisher)
	fleetHandler := handlers.NewFleetHandler(d.Store, d.Analyzer)
	roiHandler := handlers.NewROIHandler()
	readingsHandler := handlers.NewReadingsHandler(ingest.NewParser(nil), d.Ingester)
	exportHandler := handlers.NewExportHandler(fleetHandler, machineHandler)

	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/health/ready", healthHandler.Ready)
	s.router.GET("/health/live", healthHandler.Live)

	if s.config.Prometheus.Enabled {
		path := s.config.Prometheus.Path
		if path == "" {
			path = "/metrics"
		}
		s.router.GET(path, gin.WrapH(metrics.Handler()))
	}

	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.router.GET("/ws", websocket.ServeWebSocket(s.wsHub))

	endpointLimits := middleware.NewEndpointRateLimiter()
	endpointLimits.AddEndpoint("/api/predict/:id", s.config.API.PredictRateLimit, time.Minute)

	api := s.router.Group("/api")
	api.Use(endpointLimits.Middleware())
	{
		api.GET("/machines", machineHandler.List)
		api.GET("/machines/:id", machineHandler.Get)
		api.GET("/machines/:id/history", machineHandler.History)
		api.GET("/machines/:id/status", machineHandler.Status)
		api.GET("/machines/:id/predictions", machineHandler.Predictions)

		api.GET("/predict/:id", predictHandler.Predict)

		api.GET("/fleet/stats", fleetHandler.Stats)

		api.POST("/roi/calculate", roiHandler.Calculate)

		api.POST("/readings", readingsHandler.Ingest)

		api.GET("/export/fleet.xlsx", exportHandler.FleetXLSX)
		api.POST("/export/roi.pdf", exportHandler.ROIPDF)
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.API.Port)

	idle := s.config.API.IdleTimeout
	if idle <= 0 {
		idle = 60 * time.Second
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.API.ReadTimeout,
		WriteTimeout: s.config.API.WriteTimeout,
		IdleTimeout:  idle,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.wsBridge != nil {
		s.wsBridge.Stop()
	}
	s.wsHub.Stop()

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}
