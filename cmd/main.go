package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"

	cancelReservationHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/create_reservation"
	exportReservationsHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/export_reservations"
	getAvailabilityHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/get_availability"
	getReservationHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/get_reservation"
	getResourceHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/get_resource"
	getResourceScheduleHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/get_resource_schedule"
	listReservationsHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/list_reservations"
	listResourcesHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/list_resources"
	updateResourceScheduleHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/update_resource_schedule"
	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBookingService/internal/catalog"
	"github.com/m04kA/SMC-CourtBookingService/internal/config"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/lock"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/migrations"
	reservationRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/reservation"
	resourceRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-CourtBookingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-CourtBookingService/internal/report"
	reservationsService "github.com/m04kA/SMC-CourtBookingService/internal/service/reservations"
	resourcesService "github.com/m04kA/SMC-CourtBookingService/internal/service/resources"
	createReservationUC "github.com/m04kA/SMC-CourtBookingService/internal/usecase/create_reservation"
	getAvailabilityUC "github.com/m04kA/SMC-CourtBookingService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-CourtBookingService/pkg/dberrors"
	"github.com/m04kA/SMC-CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/metrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/sqlbuilder"
	"github.com/m04kA/SMC-CourtBookingService/pkg/txmanager"
)

func main() {
	configPath := flag.String("config", "", "путь к config.toml (по умолчанию $CONFIG_PATH или config.toml)")
	flag.Parse()
	if *configPath == "" {
		*configPath = os.Getenv("CONFIG_PATH")
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-CourtBookingService...")

	// Метрики (nil, если выключены: все методы безопасны для nil)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (driver=%s)", cfg.Database.Driver)

	// Миграции
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Minute)
	defer cancelStartup()

	if err := migrations.NewMigrator(db, cfg.Database.Driver).Run(startupCtx); err != nil {
		log.Fatal("Failed to run migrations: %v", err)
	}

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	qb := sqlbuilder.MustNew(cfg.Database.Driver)
	location := cfg.Booking.Location()

	// Transaction manager: сериализационные конфликты повторяются
	txMgr := txmanager.NewTransactionManager(
		wrappedDB,
		txmanager.WithMaxRetries(cfg.Booking.TxRetries),
		txmanager.WithRetryClassifier(dberrors.IsSerializationFailure),
		txmanager.WithRetryHook(metricsCollector.IncTxRetry),
	)

	// Репозитории
	resourceRepository := resourceRepo.NewRepository(wrappedDB, qb)
	reservationRepository := reservationRepo.NewRepository(wrappedDB, qb, location)

	// Синхронизация каталога площадок
	if cfg.Catalog.Path != "" {
		syncer := catalog.NewSyncer(resourceRepository, txMgr, log)
		if err := syncer.SyncFile(startupCtx, cfg.Catalog.Path); err != nil {
			log.Fatal("Failed to sync catalog: %v", err)
		}
	}

	// Блокировка (ресурс, дата)
	var locker createReservationUC.Locker
	switch cfg.Booking.LockBackend {
	case config.LockBackendRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(startupCtx).Err(); err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		locker = lock.NewRedisLocker(redisClient, cfg.Booking.LockTTL(), log)
		log.Info("Using redis lock backend (addr=%s)", cfg.Redis.Addr)
	default:
		locker = lock.NewLocalLocker()
		log.Info("Using in-process lock backend")
	}

	// Уведомления
	var (
		dispatcher    *notifier.Dispatcher
		notifications createReservationUC.Notifier
	)
	if cfg.Notifications.Enabled {
		var senders []notifier.Sender
		if tw := cfg.Notifications.Twilio; tw.Enabled {
			senders = append(senders, notifier.NewTwilioSender(notifier.TwilioConfig{
				AccountSID: tw.AccountSID,
				AuthToken:  tw.AuthToken,
				FromNumber: tw.From,
				Channel:    tw.Channel,
			}))
		}
		if sg := cfg.Notifications.SendGrid; sg.Enabled {
			senders = append(senders, notifier.NewSendGridSender(notifier.SendGridConfig{
				APIKey:    sg.APIKey,
				FromEmail: sg.FromEmail,
				FromName:  sg.FromName,
			}))
		}

		dispatcher = notifier.NewDispatcher(notifier.DispatcherConfig{
			Workers:       cfg.Notifications.Workers,
			QueueSize:     cfg.Notifications.QueueSize,
			RatePerSecond: cfg.Notifications.RatePerSecond,
			Timeout:       cfg.Notifications.Timeout(),
		}, senders, metricsCollector, log)
		notifications = dispatcher
		log.Info("Notifications enabled (senders=%d, workers=%d)", len(senders), cfg.Notifications.Workers)
	}

	// Сервисы
	reservationSvc := reservationsService.NewService(reservationRepository, metricsCollector, log)
	resourceSvc := resourcesService.NewService(resourceRepository, txMgr, log)
	exporter := report.NewExporter(resourceRepository, reservationRepository, log)

	// Use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		resourceRepository,
		reservationRepository,
		txMgr,
		locker,
		notifications,
		metricsCollector,
		location,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		resourceRepository,
		reservationRepository,
		getAvailabilityUC.Options{
			Location:     location,
			HorizonDays:  cfg.Booking.HorizonDays,
			MaxRangeDays: cfg.Booking.MaxRangeDays,
		},
		log,
	)

	// Handlers
	listResources := listResourcesHandler.NewHandler(resourceSvc, log)
	getResource := getResourceHandler.NewHandler(resourceSvc, log)
	getResourceSchedule := getResourceScheduleHandler.NewHandler(resourceSvc, log)
	updateResourceSchedule := updateResourceScheduleHandler.NewHandler(resourceSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	exportReservations := exportReservationsHandler.NewHandler(exporter, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	listReservations := listReservationsHandler.NewHandler(reservationSvc, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)

	// Роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	// --- Площадки ---
	api.HandleFunc("/resources", listResources.Handle).Methods(http.MethodGet)
	api.HandleFunc("/resources/{resourceId}", getResource.Handle).Methods(http.MethodGet)
	api.HandleFunc("/resources/{resourceId}/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/resources/{resourceId}/schedule", getResourceSchedule.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	api.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	api.HandleFunc("/reservations", listReservations.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations/code/{code}", getReservation.HandleByCode).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// ============================================================
	// OWNER ROUTES (Bearer JWT с ролью admin)
	// ============================================================

	owner := api.PathPrefix("").Subrouter()
	owner.Use(middleware.OwnerAuth(cfg.Auth.JWTSecret))

	owner.HandleFunc("/resources/{resourceId}/schedule", updateResourceSchedule.Handle).Methods(http.MethodPut)
	owner.HandleFunc("/resources/{resourceId}/reservations/export", exportReservations.Handle).Methods(http.MethodGet)

	// CORS, восстановление после паники и access log
	handler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(cfg.Server.AllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions}),
		gorillaHandlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Disposition"}),
	)(r)
	handler = gorillaHandlers.RecoveryHandler(
		gorillaHandlers.RecoveryLogger(recoveryLogger{log}),
		gorillaHandlers.PrintRecoveryStack(true),
	)(handler)
	handler = gorillaHandlers.CombinedLoggingHandler(log, handler)

	// HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся отправки уведомлений из очереди
	if dispatcher != nil {
		if err := dispatcher.Close(shutdownCtx); err != nil {
			log.Warn("Notification queue not drained: %v", err)
		}
	}

	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

// recoveryLogger пишет панику обработчика в логгер сервиса
type recoveryLogger struct {
	log *logger.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.log.Error("Recovered from panic: %s", fmt.Sprint(v...))
}
