package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ultramanx88/internship-system-sub007/internal/app"
	"github.com/ultramanx88/internship-system-sub007/internal/config"
	"github.com/ultramanx88/internship-system-sub007/internal/database"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/committee"
	apphttp "github.com/ultramanx88/internship-system-sub007/internal/http"
	"github.com/ultramanx88/internship-system-sub007/internal/http/handlers"
	"github.com/ultramanx88/internship-system-sub007/internal/http/metrics"
	httpmw "github.com/ultramanx88/internship-system-sub007/internal/http/middleware"
	"github.com/ultramanx88/internship-system-sub007/internal/observability"
	"github.com/ultramanx88/internship-system-sub007/internal/repository/postgres"
	"github.com/ultramanx88/internship-system-sub007/internal/security"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger()
	db := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	defer db.Close()

	applicationRepo := postgres.NewApplicationRepository(db)
	voteRepo := postgres.NewVoteRepository(db)
	sequenceRepo := postgres.NewSequenceRepository(db)
	printRecordRepo := postgres.NewPrintRecordRepository(db)
	assignmentRepo := postgres.NewAssignmentRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	weeklyReportRepo := postgres.NewWeeklyReportRepository(db)
	offerRepo := postgres.NewOfferRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret)
	notifier := app.NewNotifier(notificationRepo, logger)

	policy := committee.Policy{
		RequiredApprovals:  cfg.CommitteeRequiredApprovals,
		RequiredRejections: cfg.CommitteeRequiredRejections,
	}
	numbering := app.NumberingConfig{
		Prefix: cfg.DocumentNumberPrefix,
		Suffix: cfg.DocumentNumberSuffix,
		Digits: cfg.DocumentNumberDigits,
	}

	applicationService := app.NewApplicationService(applicationRepo, offerRepo, weeklyReportRepo, notifier)
	instructorService := app.NewInstructorService(applicationRepo, notifier)
	committeeService := app.NewCommitteeService(applicationRepo, voteRepo, policy, notifier)
	documentService := app.NewDocumentService(sequenceRepo)
	staffService := app.NewStaffService(applicationRepo, documentService, printRecordRepo, numbering, notifier)
	supervisorService := app.NewSupervisorService(applicationRepo, assignmentRepo, appointmentRepo, weeklyReportRepo, notifier)
	offerService := app.NewOfferService(offerRepo)

	var limiter httpmw.Limiter = httpmw.NewRateLimiter()
	if redisLimiter := httpmw.NewRedisLimiterFromURL(cfg.RedisURL); redisLimiter != nil {
		limiter = redisLimiter
	}

	collector := metrics.NewCollector()

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		ApplicationHandler:  handlers.NewApplicationHandler(applicationService, limiter),
		InstructorHandler:   handlers.NewInstructorHandler(instructorService),
		CommitteeHandler:    handlers.NewCommitteeHandler(committeeService),
		StaffHandler:        handlers.NewStaffHandler(staffService),
		SupervisorHandler:   handlers.NewSupervisorHandler(supervisorService),
		OfferHandler:        handlers.NewOfferHandler(offerService),
		NotificationHandler: handlers.NewNotificationHandler(notifier),
		AuthMiddleware:      httpmw.NewAuthMiddleware(jwtProvider),
		Limiter:             limiter,
		Metrics:             collector,
		Logger:              logger,
		RequestTimeout:      cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
