package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/evtikhov/BMA-SchedulingService/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/evtikhov/BMA-SchedulingService/internal/api/handlers/confirm_booking"
	createPortalBookingHandler "github.com/evtikhov/BMA-SchedulingService/internal/api/handlers/create_portal_booking"
	createPublicBookingHandler "github.com/evtikhov/BMA-SchedulingService/internal/api/handlers/create_public_booking"
	getAvailableSlotsHandler "github.com/evtikhov/BMA-SchedulingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/evtikhov/BMA-SchedulingService/internal/api/handlers/get_booking"
	getOrganizationBookingsHandler "github.com/evtikhov/BMA-SchedulingService/internal/api/handlers/get_organization_bookings"
	getScheduleHandler "github.com/evtikhov/BMA-SchedulingService/internal/api/handlers/get_schedule"
	updateScheduleHandler "github.com/evtikhov/BMA-SchedulingService/internal/api/handlers/update_schedule"
	"github.com/evtikhov/BMA-SchedulingService/internal/api/middleware"
	"github.com/evtikhov/BMA-SchedulingService/internal/config"
	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
	"github.com/evtikhov/BMA-SchedulingService/internal/events"
	availabilityRepo "github.com/evtikhov/BMA-SchedulingService/internal/infra/storage/availability"
	bookingRepo "github.com/evtikhov/BMA-SchedulingService/internal/infra/storage/booking"
	settingsRepo "github.com/evtikhov/BMA-SchedulingService/internal/infra/storage/settings"
	clientServiceClient "github.com/evtikhov/BMA-SchedulingService/internal/integrations/clientservice"
	directoryClient "github.com/evtikhov/BMA-SchedulingService/internal/integrations/directory"
	bookingsService "github.com/evtikhov/BMA-SchedulingService/internal/service/bookings"
	scheduleService "github.com/evtikhov/BMA-SchedulingService/internal/service/schedule"
	createBookingUC "github.com/evtikhov/BMA-SchedulingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/evtikhov/BMA-SchedulingService/internal/usecase/get_available_slots"
	"github.com/evtikhov/BMA-SchedulingService/pkg/dbmetrics"
	"github.com/evtikhov/BMA-SchedulingService/pkg/logger"
	"github.com/evtikhov/BMA-SchedulingService/pkg/metrics"
	"github.com/evtikhov/BMA-SchedulingService/pkg/mq"
	"github.com/evtikhov/BMA-SchedulingService/pkg/simpletxmanager"
	"github.com/evtikhov/BMA-SchedulingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting BMA-SchedulingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	directory := directoryClient.NewClient(
		cfg.Directory.URL,
		time.Duration(cfg.Directory.Timeout)*time.Second,
		log,
	)
	clientSvc := clientServiceClient.NewClient(
		cfg.ClientService.URL,
		time.Duration(cfg.ClientService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (Directory=%s timeout=%ds, ClientService=%s timeout=%ds)",
		cfg.Directory.URL, cfg.Directory.Timeout, cfg.ClientService.URL, cfg.ClientService.Timeout)

	// Инициализируем публикацию событий (если включена)
	type eventPublisher interface {
		BookingCreated(ctx context.Context, booking *domain.Booking)
		BookingCancelled(ctx context.Context, booking *domain.Booking, reason string)
		SendConfirmation(ctx context.Context, msg *events.ConfirmationMessage)
	}
	var eventsPub eventPublisher = events.NoopPublisher{}

	if cfg.Events.Enabled {
		mqPub, err := mq.NewPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer mqPub.Close()

		eventsPub = events.NewPublisher(mqPub, log)
		log.Info("Event publisher connected (exchange=%s)", cfg.Events.Exchange)
	} else {
		log.Info("Event publishing disabled, using noop publisher")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository      *bookingRepo.Repository
		availabilityRepository *availabilityRepo.Repository
		settingsRepository     *settingsRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		availabilityRepository = availabilityRepo.NewRepository(wrappedDB)
		settingsRepository = settingsRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		availabilityRepository = availabilityRepo.NewRepository(db)
		settingsRepository = settingsRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		eventsPub,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		availabilityRepository,
		settingsRepository,
		directory,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		settingsRepository,
		directory,
		clientSvc,
		eventsPub,
		txMgr,
		time.Duration(cfg.Booking.CommitTimeout)*time.Second,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		settingsRepository,
		directory,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createPublicBooking := createPublicBookingHandler.NewHandler(createBookingUseCase, log)
	createPortalBooking := createPortalBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	getOrganizationBookings := getOrganizationBookingsHandler.NewHandler(bookingSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты на дату
	api.HandleFunc("/organizations/{orgId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Публичная форма бронирования (гостевые поля + honeypot)
	api.HandleFunc("/organizations/{orgId}/bookings",
		createPublicBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// ORGANIZATION ROUTES (внутренний контур, за API-гейтвеем)
	// ============================================================

	// Календарь бронирований организации
	api.HandleFunc("/organizations/{orgId}/bookings",
		getOrganizationBookings.Handle).Methods(http.MethodGet)

	// Расписание: правила доступности и настройки
	api.HandleFunc("/organizations/{orgId}/schedule", getSchedule.Handle).Methods(http.MethodGet)
	api.HandleFunc("/organizations/{orgId}/schedule", updateSchedule.Handle).Methods(http.MethodPut)

	// Подтверждение ожидающего бронирования
	api.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)

	// ============================================================
	// PORTAL ROUTES (требуют X-Client-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Бронирование из личного кабинета
	protected.HandleFunc("/portal/bookings", createPortalBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
