package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"moneyQuestAPI/handlers"
	"moneyQuestAPI/internal/notification"
	"moneyQuestAPI/middleware"
	"moneyQuestAPI/services"

	_ "net/http/pprof"
)

var (
	dbPool             *pgxpool.Pool
	challengeService   *services.ChallengeService
	progressService    *services.ProgressService
	scoreService       *services.ScoreService
	weeklyResetService *services.WeeklyResetService
	notifService       *services.NotificationService
	fcmService         *notification.FCMService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	clerkSecretKey := os.Getenv("CLERK_SECRET_KEY")
	if clerkSecretKey == "" {
		log.Fatal("CLERK_SECRET_KEY environment variable is not set")
	}
	clerk.SetKey(clerkSecretKey)

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to database")

	// The ledger services share one pool; each public operation opens
	// exactly one transaction on it.
	notifService = services.NewNotificationService(dbPool)
	challengeService = services.NewChallengeService(dbPool)
	scoreService = services.NewScoreService(dbPool)
	progressService = services.NewProgressService(dbPool, scoreService, notifService)
	weeklyResetService = services.NewWeeklyResetService(dbPool)

	fcmService, err = notification.NewFCMService("./serviceAccountKey.json")
	if err != nil {
		log.Printf("Warning: Could not initialize FCM: %v", err)
	} else {
		notifService.SetPushProvider(fcmService)
		log.Println("FCM Push Provider initialized successfully")
	}

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	challengeHandler := handlers.NewChallengeHandler(challengeService, progressService)
	scoreHandler := handlers.NewScoreHandler(scoreService, weeklyResetService, notifService)

	// Cron side of the ledger: expiry sweep and Monday weekly reset. The
	// services never schedule themselves.
	ledgerScheduler := weeklyResetService.StartLedgerScheduler()

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(http.DefaultServeMux))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "moneyQuest-api"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware)

	protected.HandleFunc("/challenges/templates", challengeHandler.GetChallengeTemplates).Methods("GET")
	protected.HandleFunc("/challenges", challengeHandler.CreateChallenge).Methods("POST")
	protected.HandleFunc("/challenges/active", challengeHandler.GetActiveChallenges).Methods("GET")
	protected.HandleFunc("/challenges/{challengeID}/history", challengeHandler.GetChallengeHistory).Methods("GET")
	protected.HandleFunc("/challenges/progress/sync", challengeHandler.SyncProgress).Methods("POST")

	protected.HandleFunc("/score", scoreHandler.GetScore).Methods("GET")
	protected.HandleFunc("/score/weekly-reset", scoreHandler.PerformWeeklyReset).Methods("POST")
	protected.HandleFunc("/badges", scoreHandler.GetBadges).Methods("GET")
	protected.HandleFunc("/notifications", scoreHandler.GetNotifications).Methods("GET")

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorillaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	// Stop the cron before the deferred pool close so no job fires
	// against a closed store.
	if ledgerScheduler != nil {
		if err := ledgerScheduler.Shutdown(); err != nil {
			log.Printf("Scheduler shutdown error: %v", err)
		}
	}

	log.Println("Server shutdown complete")
}
