package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/loongallday/pdeservice-spb-sub004/internal/api/http"
	"github.com/loongallday/pdeservice-spb-sub004/internal/api/http/handlers"
	"github.com/loongallday/pdeservice-spb-sub004/internal/auth"
	"github.com/loongallday/pdeservice-spb-sub004/internal/config"
	"github.com/loongallday/pdeservice-spb-sub004/internal/events"
	"github.com/loongallday/pdeservice-spb-sub004/internal/observability"
	"github.com/loongallday/pdeservice-spb-sub004/internal/persistence"
	"github.com/loongallday/pdeservice-spb-sub004/internal/repository"
	"github.com/loongallday/pdeservice-spb-sub004/internal/service"
	"github.com/loongallday/pdeservice-spb-sub004/internal/worker"
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

	rds := persistence.NewRedis(cfg.Redis, logger)
	defer rds.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)
	companyRepo := repository.NewCompanyRepository(pool)
	siteRepo := repository.NewSiteRepository(pool)
	contactRepo := repository.NewContactRepository(pool)
	employeeRepo := repository.NewEmployeeRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	confirmationRepo := repository.NewConfirmationRepository(pool)
	merchandiseRepo := repository.NewMerchandiseRepository(pool)
	workGiverRepo := repository.NewWorkGiverRepository(pool)
	referenceRepo := repository.NewReferenceRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	watcherRepo := repository.NewWatcherRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	locationRepo := repository.NewLocationRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)

	auditService := service.NewAuditService(auditRepo, logger)
	locationService := service.NewLocationService(locationRepo)
	conflictService := service.NewConflictService(appointmentRepo)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:      ticketRepo,
		AppointmentRepo: appointmentRepo,
		CompanyRepo:     companyRepo,
		SiteRepo:        siteRepo,
		ContactRepo:     contactRepo,
		EmployeeRepo:    employeeRepo,
		AssignmentRepo:  assignmentRepo,
		MerchandiseRepo: merchandiseRepo,
		WorkGiverRepo:   workGiverRepo,
		ReferenceRepo:   referenceRepo,
		Audit:           auditService,
		Locations:       locationService,
		Dispatcher:      dispatcher,
		Logger:          logger,
	})

	confirmationService := service.NewConfirmationService(service.ConfirmationDependencies{
		TicketRepo:       ticketRepo,
		AppointmentRepo:  appointmentRepo,
		ConfirmationRepo: confirmationRepo,
		SiteRepo:         siteRepo,
		Audit:            auditService,
		Dispatcher:       dispatcher,
		Logger:           logger,
	})

	watcherService := service.NewWatcherService(service.WatcherDependencies{
		WatcherRepo:  watcherRepo,
		EmployeeRepo: employeeRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})

	notificationService := service.NewNotificationService(service.NotificationDependencies{
		NotificationRepo: notificationRepo,
		WatcherRepo:      watcherRepo,
		CommentRepo:      commentRepo,
		ConfirmationRepo: confirmationRepo,
		EmployeeRepo:     employeeRepo,
		Audit:            auditService,
		Dispatcher:       dispatcher,
		Redis:            rds.Client,
		Logger:           logger,
		Config:           cfg.Notification,
	})

	worker.StartNotificationWorker(notificationService, watcherService)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(employeeRepo, tokenManager, logger)
	authMiddleware := auth.NewAuthMiddleware(tokenManager, employeeRepo)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, rds),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, auditService),
		Confirmations:  handlers.NewConfirmationsHandler(confirmationService, conflictService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Watchers:       handlers.NewWatchersHandler(watcherService),
		AuthMiddleware: authMiddleware,
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
