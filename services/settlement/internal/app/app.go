package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"consultly/pkg/cache"
	"consultly/pkg/config"
	"consultly/pkg/database"
	"consultly/pkg/jwt"
	"consultly/pkg/logger"
	"consultly/pkg/middleware"
	"consultly/pkg/queue"
	"consultly/pkg/s3"
	settlementHTTP "consultly/services/settlement/internal/controller/http"
	"consultly/services/settlement/internal/repo/persistent"
	"consultly/services/settlement/internal/repo/realtime"
	"consultly/services/settlement/internal/timer"
	"consultly/services/settlement/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	s3Client    *s3.Client
	jwtService  *jwt.Service
	queueClient *queue.Client
	timerCtrl   *timer.Controller
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		return nil, err
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v (continuing without receipt archive)", err)
		s3Client = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without reconciliation queue)", err)
		queueClient = nil
	}

	jwtService := jwt.NewService(cfg.JWTSecret)

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		s3Client:    s3Client,
		jwtService:  jwtService,
		queueClient: queueClient,
	}, nil
}

func (a *App) Run() error {
	// Initialize repositories
	sessionRepo := persistent.NewSessionRepository(a.db)
	creatorRepo := persistent.NewCreatorRepository(a.db)
	walletRepo := persistent.NewWalletRepository(a.db)
	transactionRepo := persistent.NewTransactionRepository(a.db)
	statusStore := realtime.NewSessionStore(a.redisClient)

	// Initialize use cases
	settlementUseCase := usecase.NewSettlementUseCase(
		sessionRepo,
		creatorRepo,
		walletRepo,
		transactionRepo,
		statusStore,
		a.queueClient,
		a.s3Client,
		a.log,
		a.cfg.CommissionRate,
	)
	walletUseCase := usecase.NewWalletUseCase(walletRepo, a.log)

	// Reconciliation: queued tasks replay the missing wallet leg immediately;
	// the periodic sweep catches pending records whose task never arrived.
	reconciliationUseCase := usecase.NewReconciliationUseCase(sessionRepo, walletRepo, transactionRepo, a.log)
	if a.queueClient != nil {
		if err := a.queueClient.ConsumeReconciliationTasks(reconciliationUseCase.Reconcile); err != nil {
			a.log.Error("Failed to start reconciliation consumer: %v", err)
		}
	}
	go a.runReconciliationSweep(reconciliationUseCase)

	a.timerCtrl = timer.NewController(
		settlementUseCase,
		statusStore,
		a.log,
		time.Duration(a.cfg.LowTimeThresholdSecs)*time.Second,
	)

	sessionUseCase := usecase.NewSessionUseCase(
		sessionRepo,
		creatorRepo,
		settlementUseCase,
		statusStore,
		a.timerCtrl,
		a.log,
	)

	// Initialize HTTP handlers
	sessionHandler := settlementHTTP.NewSessionHandler(sessionUseCase, a.log)
	walletHandler := settlementHTTP.NewWalletHandler(walletUseCase, a.log)
	transactionHandler := settlementHTTP.NewTransactionHandler(transactionRepo, a.log)
	creatorHandler := settlementHTTP.NewCreatorHandler(creatorRepo, a.log)

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(a.jwtService))
	api.Use(middleware.RateLimitMiddleware(a.redisClient, 100, time.Minute))

	{
		api.POST("/session/start", sessionHandler.StartSession)
		api.POST("/session/:session_id/activate", sessionHandler.ActivateSession)
		api.POST("/session/:session_id/end", sessionHandler.EndSession)
		api.GET("/session/:session_id", sessionHandler.GetSession)

		api.GET("/transaction/get", transactionHandler.GetTransaction)
		api.POST("/transaction/create", transactionHandler.CreateTransaction)

		api.GET("/wallet", walletHandler.GetWallet)
		api.GET("/wallet/entries", walletHandler.GetEntries)
		api.POST("/wallet/payout", walletHandler.Payout)
		api.POST("/wallet/addMoney", walletHandler.AddMoney)

		api.POST("/creator/getUserById", creatorHandler.GetUserByID)
	}

	// Create HTTP server
	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	go func() {
		a.log.Info("Settlement service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

const (
	reconcileSweepInterval = 5 * time.Minute
	reconcileSweepBatch    = 100
)

func (a *App) runReconciliationSweep(reconciliation usecase.ReconciliationUseCase) {
	ticker := time.NewTicker(reconcileSweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		if a.queueClient != nil {
			if depth, err := a.queueClient.GetQueueLength(); err == nil && depth > 0 {
				a.log.Warn("Reconciliation queue depth: %d", depth)
			}
		}
		if _, err := reconciliation.SweepPending(reconcileSweepBatch); err != nil {
			a.log.Error("Reconciliation sweep failed: %v", err)
		}
	}
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down settlement service...")
}

func (a *App) Shutdown() error {
	// The context is used to inform the server it has 5 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Close database connection
	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	// Close Redis connection
	if err := a.redisClient.Close(); err != nil {
		a.log.Error("Error closing Redis: %v", err)
	}

	if a.queueClient != nil {
		a.queueClient.Close()
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	a.log.Info("Settlement service exited")
	return nil
}
