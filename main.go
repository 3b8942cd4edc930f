package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"choreify/config"
	"choreify/database"
	catalogRepo "choreify/database/repository/catalog"
	"choreify/handlers"
	"choreify/middleware"
	"choreify/routes"
	"choreify/services/backend"
	"choreify/services/booking"
	"choreify/services/identity"
	"choreify/services/realtime"
	"choreify/services/session"
	"choreify/services/storage"
	"choreify/utils"
	"choreify/views"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// sessionGrace keeps an expired session around long enough to be refreshed.
const sessionGrace = 24 * time.Hour

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	utils.InitRedis()
	checks := map[string]utils.HealthCheck{
		"redisCache":   utils.RedisCheck(utils.GetCacheClient()),
		"redisSession": utils.RedisCheck(utils.GetSessionClient()),
	}

	seed, err := catalogRepo.LoadCatalogFile(config.AppConfig.CatalogFile)
	if err != nil {
		logger.Fatal("main: failed to load catalog file", zap.Error(err))
	}
	var catalog catalogRepo.CatalogRepository
	if config.AppConfig.DatabaseURL != "" {
		db, err := database.InitDB(logger)
		if err != nil {
			logger.Fatal("main: failed to initialize MongoDB", zap.Error(err))
		}
		mongoCatalog := catalogRepo.NewMongoCatalogRepo(db, logger)
		if err := mongoCatalog.Seed(context.Background(), seed); err != nil {
			logger.Fatal("main: failed to seed catalog", zap.Error(err))
		}
		catalog = mongoCatalog
		checks["mongo"] = utils.MongoCheck(database.MongoClient)
	} else {
		logger.Info("main: DATABASE_URL not set, serving catalog from file", zap.String("file", config.AppConfig.CatalogFile))
		catalog = catalogRepo.NewMemoryCatalogRepo(seed)
	}

	provider, err := newIdentityProvider(logger)
	if err != nil {
		logger.Fatal("main: failed to initialize identity provider", zap.Error(err))
	}

	// Session manager: the single writer of stored sessions.
	managerCtx, stopManager := context.WithCancel(context.Background())
	sessions := session.NewManager(session.NewRedisRepository(utils.GetSessionClient()), sessionGrace, logger)
	go sessions.Run(managerCtx)
	detach := sessions.Attach(provider)

	hub := realtime.NewHub(logger)
	unsubscribe := sessions.Subscribe(hub.Publish)

	backendClient := backend.NewClient(config.AppConfig.BackendURL, config.AppConfig.BackendTimeout, logger)

	fileStore, closeStore, err := newFileStore(logger)
	if err != nil {
		logger.Fatal("main: failed to initialize document storage", zap.Error(err))
	}
	documents := storage.NewDocumentService(fileStore, backendClient, config.AppConfig.DocumentsFolder, logger)

	bookingService := booking.NewService(catalog, booking.NewRedisStore(utils.GetCacheClient()), backendClient, logger)

	templates, err := views.Load()
	if err != nil {
		logger.Fatal("main: failed to parse templates", zap.Error(err))
	}

	router := gin.New()
	router.SetHTMLTemplate(templates)
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))
	router.Use(middleware.LoadSession(sessions, provider))
	router.Use(middleware.CartCookie())

	handlerBundle := &handlers.HandlerBundle{
		Auth:     handlers.NewAuthHandler(provider, sessions, backendClient),
		Catalog:  handlers.NewCatalogHandler(catalog),
		Booking:  handlers.NewBookingHandler(bookingService),
		Profile:  handlers.NewProfileHandler(backendClient, sessions),
		Worker:   handlers.NewWorkerHandler(backendClient, documents),
		Pages:    handlers.NewPageHandler(catalog, bookingService, backendClient),
		Realtime: handlers.NewRealtimeHandler(hub),
		Checks:   checks,
	}

	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Websockets are hijacked connections that Shutdown does not track.
	if err := hub.Close(); err != nil {
		logger.Warn("main: failed to close realtime hub", zap.Error(err))
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	unsubscribe()
	detach()
	stopManager()
	if closeStore != nil {
		if err := closeStore(); err != nil {
			logger.Warn("main: failed to close document storage", zap.Error(err))
		}
	}
	if err := database.Close(ctx); err != nil {
		logger.Warn("main: failed to disconnect MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

func newIdentityProvider(logger *zap.Logger) (identity.Provider, error) {
	cfg := config.AppConfig
	if cfg.AuthProvider == "firebase" {
		return identity.NewFirebaseProvider(context.Background(), identity.FirebaseConfig{
			APIKey:          cfg.FirebaseAPIKey,
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsFile: cfg.FirebaseCredentialFile,
		}, logger)
	}
	if config.IsProduction() {
		logger.Warn("main: local identity provider in production; accounts are lost on restart")
	}
	return identity.NewLocalProvider(identity.LocalConfig{
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.SessionTTL,
	}, logger)
}

// newFileStore returns the configured document store and its closer, if any.
func newFileStore(logger *zap.Logger) (storage.FileStore, func() error, error) {
	cfg := config.AppConfig
	if cfg.StorageProvider == "firebase" {
		store, err := storage.NewFirebaseStore(context.Background(), cfg.FirebaseCredentialFile, cfg.FirebaseStorageBucket, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	store, err := storage.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, logger)
	if err != nil {
		return nil, nil, err
	}
	return store, nil, nil
}
