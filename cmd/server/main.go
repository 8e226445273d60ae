package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/config"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/events"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/handler"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/repository"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/service"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/storage"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/pkg/response"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Apply schema migrations
	if err := storage.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize event publisher
	publisher := initPublisher(cfg)
	defer publisher.Close()

	// Initialize repositories
	txm := repository.NewTxManager(db)
	studentRepo := repository.NewStudentRepository(db)
	yearRepo := repository.NewAcademicYearRepository(db)
	tuitionRepo := repository.NewTuitionRepository(db)
	savingsRepo := repository.NewSavingsRepository(db)
	scholarshipRepo := repository.NewScholarshipRepository(db)
	counterRepo := repository.NewCounterRepository(db)

	// Initialize services
	billingService := service.NewBillingService(studentRepo, yearRepo, tuitionRepo, counterRepo, txm, publisher, cfg)
	savingsService := service.NewSavingsService(studentRepo, savingsRepo, counterRepo, txm, redisClient, publisher, cfg)
	scholarshipService := service.NewScholarshipService(scholarshipRepo, studentRepo)
	yearService := service.NewAcademicYearService(yearRepo, txm)

	// Initialize handlers
	billingHandler := handler.NewBillingHandler(billingService)
	savingsHandler := handler.NewSavingsHandler(savingsService)
	scholarshipHandler := handler.NewScholarshipHandler(scholarshipService)
	yearHandler := handler.NewAcademicYearHandler(yearService)
	studentHandler := handler.NewStudentHandler(studentRepo, billingService, savingsService, scholarshipService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	// Setup routes
	router := setupRoutes(billingHandler, savingsHandler, scholarshipHandler, yearHandler, studentHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.AMQP.Enabled {
		return events.NopPublisher{}
	}

	publisher, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
	if err != nil {
		log.Fatalf("Failed to initialize AMQP publisher: %v", err)
	}
	return publisher
}

func setupRoutes(
	billingHandler *handler.BillingHandler,
	savingsHandler *handler.SavingsHandler,
	scholarshipHandler *handler.ScholarshipHandler,
	yearHandler *handler.AcademicYearHandler,
	studentHandler *handler.StudentHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/academic-years", yearHandler.Create).Methods("POST")
	api.HandleFunc("/academic-years", yearHandler.List).Methods("GET")
	api.HandleFunc("/academic-years/active", yearHandler.GetActive).Methods("GET")
	api.HandleFunc("/academic-years/{yearId}/activate", yearHandler.Activate).Methods("POST")
	api.HandleFunc("/academic-years/{yearId}/deactivate", yearHandler.Deactivate).Methods("POST")
	api.HandleFunc("/academic-years/{yearId}", yearHandler.Delete).Methods("DELETE")

	api.HandleFunc("/spp/settings", billingHandler.CreateSetting).Methods("POST")
	api.HandleFunc("/spp/settings", billingHandler.ListSettings).Methods("GET")
	api.HandleFunc("/spp/payments", billingHandler.RecordPayment).Methods("POST")
	api.HandleFunc("/spp/payments/{paymentId}", billingHandler.GetPayment).Methods("GET")
	api.HandleFunc("/spp/payments/{paymentId}", billingHandler.UpdatePayment).Methods("PUT")
	api.HandleFunc("/spp/payments/{paymentId}", billingHandler.DeletePayment).Methods("DELETE")

	api.HandleFunc("/savings/transactions", savingsHandler.RecordTransaction).Methods("POST")
	api.HandleFunc("/savings/transactions/{transactionId}", savingsHandler.UpdateTransaction).Methods("PUT")
	api.HandleFunc("/savings/transactions/{transactionId}", savingsHandler.DeleteTransaction).Methods("DELETE")

	api.HandleFunc("/scholarships", scholarshipHandler.Create).Methods("POST")
	api.HandleFunc("/scholarships/{scholarshipId}", scholarshipHandler.Get).Methods("GET")
	api.HandleFunc("/scholarships/{scholarshipId}", scholarshipHandler.Update).Methods("PUT")
	api.HandleFunc("/scholarships/{scholarshipId}", scholarshipHandler.Delete).Methods("DELETE")

	api.HandleFunc("/students/{studentId}/spp/unpaid-months", billingHandler.UnpaidMonths).Methods("GET")
	api.HandleFunc("/students/{studentId}/spp/payments", billingHandler.ListPayments).Methods("GET")
	api.HandleFunc("/students/{studentId}/savings/balance", savingsHandler.GetBalance).Methods("GET")
	api.HandleFunc("/students/{studentId}/savings/transactions", savingsHandler.GetHistory).Methods("GET")
	api.HandleFunc("/students/{studentId}/scholarships", scholarshipHandler.ListByStudent).Methods("GET")
	api.HandleFunc("/students/{studentId}/summary", studentHandler.GetSummary).Methods("GET")

	return router
}
