package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/clinicore/clinic-scheduler/internal/api/http"
	"github.com/clinicore/clinic-scheduler/internal/api/http/handlers"
	"github.com/clinicore/clinic-scheduler/internal/auth"
	"github.com/clinicore/clinic-scheduler/internal/config"
	"github.com/clinicore/clinic-scheduler/internal/domain"
	"github.com/clinicore/clinic-scheduler/internal/events"
	"github.com/clinicore/clinic-scheduler/internal/observability"
	"github.com/clinicore/clinic-scheduler/internal/persistence"
	"github.com/clinicore/clinic-scheduler/internal/repository"
	"github.com/clinicore/clinic-scheduler/internal/service"
	"github.com/clinicore/clinic-scheduler/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	appointmentRepo := repository.NewAppointmentRepository(pool)
	doctorRepo := repository.NewDoctorRepository(pool)
	patientRepo := repository.NewPatientRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		DoctorRepo:  doctorRepo,
		PatientRepo: patientRepo,
	})
	dashboardService := service.NewDashboardService(appointmentRepo, doctorRepo, patientRepo, redis.Client, logger)
	appointmentService := service.NewAppointmentService(service.AppointmentDependencies{
		AppointmentRepo: appointmentRepo,
		DoctorRepo:      doctorRepo,
		PatientRepo:     patientRepo,
		Dispatcher:      dispatcher,
		Dashboards:      dashboardService,
	})
	profileService := service.NewProfileService(doctorRepo, patientRepo, cfg.Auth.BcryptCost)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	tokens := authService.TokenManager()
	adminGate := auth.NewAdminGate(tokens, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, logger)
	doctorGate := auth.NewRoleGate(tokens, domain.RoleDoctor, logger)
	patientGate := auth.NewRoleGate(tokens, domain.RolePatient, logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:        handlers.NewAuthHandler(authService),
		Doctor:      handlers.NewDoctorHandler(appointmentService, dashboardService, profileService),
		Patient:     handlers.NewPatientHandler(appointmentService, profileService),
		Admin:       handlers.NewAdminHandler(appointmentService, dashboardService, profileService),
		AdminGate:   adminGate,
		DoctorGate:  doctorGate,
		PatientGate: patientGate,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
