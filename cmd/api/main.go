package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/medtrack/patient-api/internal/config"
	"github.com/medtrack/patient-api/internal/handler"
	appointmentHandler "github.com/medtrack/patient-api/internal/handler/appointment"
	authHandler "github.com/medtrack/patient-api/internal/handler/auth"
	medicalHandler "github.com/medtrack/patient-api/internal/handler/medical"
	"github.com/medtrack/patient-api/internal/middleware"
	"github.com/medtrack/patient-api/internal/repository/postgres"
	"github.com/medtrack/patient-api/internal/router"
	authService "github.com/medtrack/patient-api/internal/service/auth"
	medicalService "github.com/medtrack/patient-api/internal/service/medical"
	schedulingService "github.com/medtrack/patient-api/internal/service/scheduling"
	"github.com/medtrack/patient-api/pkg/auth"
	"github.com/medtrack/patient-api/pkg/metrics"
	"github.com/medtrack/patient-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	hospitalRepo := postgres.NewHospitalRepository(db)
	timeslotRepo := postgres.NewTimeslotRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	medicalRepo := postgres.NewMedicalRepository(db)

	// Services
	m := metrics.New("patient_api")
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authSvc := authService.NewService(userRepo, security.NewBcryptHasher(bcrypt.DefaultCost), jwtSvc)
	schedulingSvc := schedulingService.NewService(appointmentRepo, timeslotRepo, hospitalRepo, m)
	medicalSvc := medicalService.NewService(medicalRepo)

	// Handlers
	h := handler.NewHandler(db)
	authH := authHandler.NewHandler(authSvc)
	appointmentH := appointmentHandler.NewHandler(schedulingSvc)
	medicalH := medicalHandler.NewHandler(medicalSvc)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	r := router.NewRouter(
		authMiddleware,
		authH,
		appointmentH,
		medicalH,
		h,
		router.RouterConfig{
			RateLimit:     rate.Limit(cfg.RateLimit.RPS),
			RateBurst:     cfg.RateLimit.Burst,
			Timeout:       time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "patient_api_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
