package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/config"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/repository"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/service"
)

func main() {
	log.Println("Starting finance scheduler...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	scholarshipRepo := repository.NewScholarshipRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	scholarshipService := service.NewScholarshipService(scholarshipRepo, studentRepo)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// Schedule tasks
	setupCronJobs(c, scholarshipService, location)

	// Start the scheduler
	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, scholarshipService *service.ScholarshipService, location *time.Location) {
	// Daily job to refresh scholarship statuses (runs at midnight local time)
	_, err := c.AddFunc("0 0 0 * * *", func() {
		log.Println("Running daily scholarship status refresh job...")
		refreshScholarshipStatuses(scholarshipService, location)
	})
	if err != nil {
		log.Printf("Error scheduling scholarship status refresh job: %v", err)
	}

	log.Println("Cron jobs scheduled successfully")
}

func refreshScholarshipStatuses(scholarshipService *service.ScholarshipService, location *time.Location) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	updated, err := scholarshipService.RefreshStatuses(ctx, time.Now().In(location))
	if err != nil {
		log.Printf("Scholarship status refresh failed: %v", err)
		return
	}
	log.Printf("Scholarship status refresh completed, %d rows updated", updated)
}
