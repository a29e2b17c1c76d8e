package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dias221467/Solace_Notifications/internal/config"
	"github.com/Dias221467/Solace_Notifications/internal/database"
	"github.com/Dias221467/Solace_Notifications/internal/handlers"
	"github.com/Dias221467/Solace_Notifications/internal/platform"
	"github.com/Dias221467/Solace_Notifications/internal/repository"
	cron "github.com/Dias221467/Solace_Notifications/internal/scheduler"
	"github.com/Dias221467/Solace_Notifications/internal/services"
	"github.com/Dias221467/Solace_Notifications/pkg/logger"
	"github.com/Dias221467/Solace_Notifications/pkg/middleware"
	"github.com/Dias221467/Solace_Notifications/pkg/notifier/ws"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.InitLogger(cfg.LogLevel)
	logger.Log.Info("Logger initialized")

	// --- Storage ---
	var (
		store      repository.KeyValueStore
		moods      repository.MoodHistorySource
		deliveries *repository.DeliveryRepository
	)
	switch cfg.StoreBackend {
	case config.BackendRedis:
		client, err := database.ConnectRedis(cfg)
		if err != nil {
			log.Fatalf("Redis connection error: %v", err)
		}
		defer client.Close()
		store = repository.NewRedisKVStore(client)
	case config.BackendMemory:
		logger.Log.Warn("Using in-memory storage, preferences will not survive a restart")
		store = repository.NewMemoryKVStore()
	default:
		db, err := database.ConnectDB(cfg)
		if err != nil {
			log.Fatalf("Database connection error: %v", err)
		}
		defer db.Client().Disconnect(context.Background())
		store = repository.NewMongoKVStore(db)
		moods = repository.NewMoodRepository(db)
		deliveries = repository.NewDeliveryRepository(db)
	}
	if moods == nil {
		moods = &repository.StaticMoodSource{}
	}

	// --- Delivery ---
	hub := ws.NewHub(cfg.OwnerUserID)
	dispatchers := platform.MultiDispatcher{platform.LogDispatcher{}, hub}
	if cfg.NotifyEmail != "" {
		dispatchers = append(dispatchers, platform.NewEmailDispatcher(cfg.NotifyEmail))
	}
	if deliveries != nil {
		dispatchers = append(dispatchers, deliveries)
	}
	notifications := platform.NewLocalNotificationService(dispatchers, time.Local)
	notifications.Start()
	defer notifications.Stop()

	// --- Repositories ---
	prefRepo := repository.NewPreferenceRepository(store)
	interactionRepo := repository.NewInteractionRepository(store)

	// --- Services ---
	prefService := services.NewPreferenceService(prefRepo, cfg.StrictPersistence)
	scheduler := services.NewScheduler(notifications, prefService, moods)
	notificationService := services.NewNotificationService(
		notifications,
		platform.StaticDevice(cfg.PhysicalDevice),
		services.NewChannelRegistry(notifications),
		prefService,
		scheduler,
		services.NewInteractionService(interactionRepo),
		services.NewAnalyticsService(interactionRepo),
	)

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	result := notificationService.Initialize(initCtx)
	cancelInit()
	logger.Log.WithField("ready", result.Ready).Info("Notification engine started")

	var (
		pruner  cron.HistoryPruner
		history handlers.DeliveryHistory
	)
	if deliveries != nil {
		pruner, history = deliveries, deliveries
	}
	cronRunner, err := cron.StartNotificationCronJobs(notificationService, pruner)
	if err != nil {
		log.Fatalf("Failed to start cron jobs: %v", err)
	}
	defer cronRunner.Stop()

	// --- Handlers ---
	notificationHandler := handlers.NewNotificationHandler(notificationService, history)
	deliveryHandler := handlers.NewDeliveryHandler(hub, cfg.JWTSecret, cfg.OwnerUserID)

	router := mux.NewRouter()

	protectedRoutes := router.PathPrefix("/notifications").Subrouter()
	protectedRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret, cfg.OwnerUserID))
	protectedRoutes.HandleFunc("/initialize", notificationHandler.InitializeHandler).Methods("POST")
	protectedRoutes.HandleFunc("/preferences", notificationHandler.GetPreferencesHandler).Methods("GET")
	protectedRoutes.HandleFunc("/preferences", notificationHandler.UpdatePreferencesHandler).Methods("PATCH")
	protectedRoutes.HandleFunc("/therapy-sessions", notificationHandler.ScheduleTherapySessionHandler).Methods("POST")
	protectedRoutes.HandleFunc("/crisis-checkins", notificationHandler.ScheduleCrisisCheckInHandler).Methods("POST")
	protectedRoutes.HandleFunc("/celebrations", notificationHandler.ScheduleCelebrationHandler).Methods("POST")
	protectedRoutes.HandleFunc("/interactions", notificationHandler.InteractionHandler).Methods("POST")
	protectedRoutes.HandleFunc("/analytics", notificationHandler.AnalyticsHandler).Methods("GET")
	protectedRoutes.HandleFunc("/scheduled", notificationHandler.ScheduledHandler).Methods("GET")
	protectedRoutes.HandleFunc("/history", notificationHandler.HistoryHandler).Methods("GET")

	router.HandleFunc("/ws", deliveryHandler.DeliveryWebSocketHandler)

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.WithField("port", cfg.Port).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("Server shutdown failed")
	}
	logger.Log.Info("Server stopped")
}
