package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cryptocreeper94-sudo/paintpros-scheduler/config"
	"github.com/cryptocreeper94-sudo/paintpros-scheduler/database"
	"github.com/cryptocreeper94-sudo/paintpros-scheduler/handlers"
	"github.com/cryptocreeper94-sudo/paintpros-scheduler/middleware"
	"github.com/cryptocreeper94-sudo/paintpros-scheduler/models"
	"github.com/cryptocreeper94-sudo/paintpros-scheduler/publishers"
	"github.com/cryptocreeper94-sudo/paintpros-scheduler/services"
	"github.com/cryptocreeper94-sudo/paintpros-scheduler/utils"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Could not load configuration: %v", err)
	}
	utils.InitLogger(cfg.LogLevel, cfg.Environment)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logrus.Fatalf("Invalid posting timezone %q: %v", cfg.Timezone, err)
	}

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	scheduler := services.NewScheduler(services.SchedulerOptions{
		Clock:       services.NewSlotClock(cfg.PostingHours, loc),
		Rotation:    services.NewTenantRotation(cfg.TenantRotation),
		Contents:    db,
		Credentials: db,
		Publishers: map[models.Platform]publishers.PlatformPublisher{
			models.Facebook:  publishers.NewFacebookPublisher(cfg.GraphBaseURL, nil),
			models.Instagram: publishers.NewInstagramPublisher(cfg.GraphBaseURL, nil, cfg.SettleDelay),
		},
		AccountID:    cfg.UmbrellaAccountID,
		TickInterval: cfg.TickInterval,
		SlotDelay:    cfg.SlotDelay,
		Location:     loc,
	})
	if err := scheduler.Start(); err != nil {
		logrus.Fatalf("Could not start posting scheduler: %v", err)
	}

	generator := services.NewTemplateGenerator()
	if cfg.GeneratorURL != "" {
		generator = services.NewHTTPGenerator(cfg.GeneratorURL, nil)
	}

	blogScheduler := services.NewBlogScheduler(services.BlogSchedulerOptions{
		Store:       db,
		Generator:   generator,
		Interval:    cfg.BlogInterval,
		TenantDelay: cfg.TenantDelay,
		Lookback:    cfg.BlogLookback,
		Location:    loc,
	})
	if err := blogScheduler.Start(); err != nil {
		logrus.Fatalf("Could not start blog scheduler: %v", err)
	}

	handler := handlers.NewHandler(scheduler, blogScheduler)
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: setupRoutes(handler),
	}

	go func() {
		logrus.Infof("Ops server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Ops server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down...")
	scheduler.Stop()
	blogScheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Ops server shutdown: %v", err)
	}
	logrus.Info("Shut down cleanly")
}

func setupRoutes(h *handlers.Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger())

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/api/scheduler/status", h.SchedulerStatus).Methods("GET")
	r.HandleFunc("/api/blog/generate", h.GenerateBlogPosts).Methods("POST")

	return r
}
