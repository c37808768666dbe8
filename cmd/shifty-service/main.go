package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shifty/shifty-backend/internal/auth/jwt"
	"github.com/shifty/shifty-backend/internal/shiftplan/consumers"
	"github.com/shifty/shifty-backend/internal/shiftplan/events"
	"github.com/shifty/shifty-backend/internal/shiftplan/handler"
	"github.com/shifty/shifty-backend/internal/shiftplan/reporting"
	"github.com/shifty/shifty-backend/internal/shiftplan/repository"
	"github.com/shifty/shifty-backend/internal/shiftplan/scheduler"
	"github.com/shifty/shifty-backend/internal/shiftplan/service"
	"github.com/shifty/shifty-backend/pkg/calendar"
	"github.com/shifty/shifty-backend/pkg/config"
	"github.com/shifty/shifty-backend/pkg/database"
	"github.com/shifty/shifty-backend/pkg/httputil"
	"github.com/shifty/shifty-backend/pkg/logger"
	"github.com/shifty/shifty-backend/pkg/messaging"
	"github.com/shifty/shifty-backend/pkg/permissions"
)

const serviceName = "shifty-service"

func main() {
	// Load configuration
	cfg, err := config.LoadWithValidation(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(serviceName, cfg.Server.Environment, cfg.Server.LogLevel)
	log.Info().Msg("starting Shifty Service")

	workday, firstPeriodStart, err := reportingSettings(&cfg.Reporting)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid reporting configuration")
	}

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ. Without a URL events are dropped and carryover
	// recalculations run in the request.
	var rmq *messaging.RabbitMQ
	publisher := events.New(nil, log)
	if cfg.RabbitMQ.URL != "" {
		rmq, err = messaging.New(&cfg.RabbitMQ, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rmq.Close()

		publisher, err = events.NewShiftplanEventPublisher(rmq, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
	} else {
		log.Warn().Msg("RabbitMQ not configured, events disabled")
	}

	// Initialize repositories
	salesPersonRepo := repository.NewSalesPersonRepository(db)
	workingHoursRepo := repository.NewWorkingHoursRepository(db)
	shiftplanRepo := repository.NewShiftplanRepository(db)
	extraHoursRepo := repository.NewExtraHoursRepository(db)
	specialDayRepo := repository.NewSpecialDayRepository(db)
	carryoverRepo := repository.NewCarryoverRepository(db)
	billingPeriodRepo := repository.NewBillingPeriodRepository(db)

	// Initialize services
	perms := permissions.NewChecker()
	clock := service.SystemClock{}
	ids := service.UUIDGenerator{}
	engine := reporting.NewEngine(workday)

	reportingService := service.NewReportingService(
		salesPersonRepo, workingHoursRepo, shiftplanRepo, extraHoursRepo,
		specialDayRepo, carryoverRepo, engine, perms, log.WithComponent("reporting"),
	)
	carryoverService := service.NewCarryoverService(carryoverRepo, reportingService, perms, publisher, clock, ids, log.WithComponent("carryover"))
	billingPeriodService := service.NewBillingPeriodService(
		billingPeriodRepo, reportingService, db, perms, publisher, clock, ids, firstPeriodStart, log.WithComponent("billing-period"),
	)
	extraHoursService := service.NewExtraHoursService(extraHoursRepo, perms, publisher, clock, ids, log.WithComponent("extra-hours"))
	workingHoursService := service.NewWorkingHoursService(workingHoursRepo, perms, clock, ids, log.WithComponent("working-hours"))
	specialDayService := service.NewSpecialDayService(specialDayRepo, workday, perms, clock, ids, log.WithComponent("special-day"))

	// Initialize handlers
	handlers := handler.Handlers{
		Reports:        handler.NewReportHandler(reportingService, log),
		BillingPeriods: handler.NewBillingPeriodHandler(billingPeriodService, log),
		Carryovers:     handler.NewCarryoverHandler(carryoverService, log),
		ExtraHours:     handler.NewExtraHoursHandler(extraHoursService, log),
		WorkingHours:   handler.NewWorkingHoursHandler(workingHoursService, log),
		SpecialDays:    handler.NewSpecialDayHandler(specialDayService, log),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start carryover command consumer
	if rmq != nil {
		carryoverConsumer, err := consumers.NewCarryoverConsumer(rmq, carryoverService, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create carryover consumer")
		}
		if err := carryoverConsumer.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to start carryover consumer")
		}
	}

	// Schedule the yearly carryover job
	var carryoverJob *scheduler.CarryoverJob
	if cfg.Scheduler.Enabled {
		var lock scheduler.Locker = scheduler.NoopLocker{}
		if cfg.Redis.Addr != "" {
			redisClient, err := scheduler.NewRedisClient(ctx, &cfg.Redis)
			if err != nil {
				log.Fatal().Err(err).Msg("failed to connect to redis")
			}
			defer redisClient.Close()
			lock = scheduler.NewRedisLocker(redisClient)
		}

		carryoverJob = scheduler.NewCarryoverJob(carryoverService, lock, clock, cfg.Scheduler.LockTTL, cfg.Scheduler.RunTimeout, log)
		if err := carryoverJob.Start(cfg.Scheduler.CarryoverCron); err != nil {
			log.Fatal().Err(err).Msg("failed to schedule carryover job")
		}
	}

	rateLimit, err := httputil.RateLimit(cfg.RateLimit.Rate)
	if err != nil {
		log.Fatal().Err(err).Str("rate", cfg.RateLimit.Rate).Msg("invalid rate limit")
	}

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]interface{}{
			"status":   "healthy",
			"service":  serviceName,
			"database": db.Health(r.Context()),
		}
		if rmq != nil {
			status["rabbitmq"] = rmq.Health()
		}
		httputil.JSON(w, http.StatusOK, status)
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimit)
		r.Use(middleware.Timeout(cfg.Reporting.ReportTimeout))
		r.Use(jwt.Authenticate(jwt.NewManager(&cfg.JWT), log))
		handlers.Register(r)
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Cancel context to stop consumers
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if carryoverJob != nil {
		carryoverJob.Stop(shutdownCtx)
	}

	log.Info().Msg("server stopped")
}

func reportingSettings(cfg *config.ReportingConfig) (reporting.Workday, time.Time, error) {
	start, err := calendar.ParseTimeOfDay(cfg.WorkdayStart)
	if err != nil {
		return reporting.Workday{}, time.Time{}, fmt.Errorf("workday_start: %w", err)
	}
	end, err := calendar.ParseTimeOfDay(cfg.WorkdayEnd)
	if err != nil {
		return reporting.Workday{}, time.Time{}, fmt.Errorf("workday_end: %w", err)
	}
	if !start.Before(end) {
		return reporting.Workday{}, time.Time{}, fmt.Errorf("workday_start %s must be before workday_end %s", start, end)
	}

	var firstPeriodStart time.Time
	if cfg.FirstPeriodStart != "" {
		firstPeriodStart, err = calendar.ParseDate(cfg.FirstPeriodStart)
		if err != nil {
			return reporting.Workday{}, time.Time{}, fmt.Errorf("first_period_start: %w", err)
		}
	}

	return reporting.Workday{Start: start, End: end}, firstPeriodStart, nil
}
