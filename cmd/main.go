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

	cancelBookingHandler "github.com/capozzinicolas-stack/vivelo-sub000/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/capozzinicolas-stack/vivelo-sub000/internal/api/handlers/check_availability"
	createBookingHandler "github.com/capozzinicolas-stack/vivelo-sub000/internal/api/handlers/create_booking"
	createCalendarBlockHandler "github.com/capozzinicolas-stack/vivelo-sub000/internal/api/handlers/create_calendar_block"
	deleteCalendarBlockHandler "github.com/capozzinicolas-stack/vivelo-sub000/internal/api/handlers/delete_calendar_block"
	getBookingHandler "github.com/capozzinicolas-stack/vivelo-sub000/internal/api/handlers/get_booking"
	getCalendarBlocksHandler "github.com/capozzinicolas-stack/vivelo-sub000/internal/api/handlers/get_calendar_blocks"
	getClientBookingsHandler "github.com/capozzinicolas-stack/vivelo-sub000/internal/api/handlers/get_client_bookings"
	getProviderBookingsHandler "github.com/capozzinicolas-stack/vivelo-sub000/internal/api/handlers/get_provider_bookings"
	previewRefundHandler "github.com/capozzinicolas-stack/vivelo-sub000/internal/api/handlers/preview_refund"
	updateBookingStatusHandler "github.com/capozzinicolas-stack/vivelo-sub000/internal/api/handlers/update_booking_status"
	"github.com/capozzinicolas-stack/vivelo-sub000/internal/api/middleware"
	"github.com/capozzinicolas-stack/vivelo-sub000/internal/config"
	bookingRepo "github.com/capozzinicolas-stack/vivelo-sub000/internal/infra/storage/booking"
	blockRepo "github.com/capozzinicolas-stack/vivelo-sub000/internal/infra/storage/calendarblock"
	calendarSyncClient "github.com/capozzinicolas-stack/vivelo-sub000/internal/integrations/calendarsync"
	catalogServiceClient "github.com/capozzinicolas-stack/vivelo-sub000/internal/integrations/catalogservice"
	paymentServiceClient "github.com/capozzinicolas-stack/vivelo-sub000/internal/integrations/paymentservice"
	bookingsService "github.com/capozzinicolas-stack/vivelo-sub000/internal/service/bookings"
	calendarBlocksService "github.com/capozzinicolas-stack/vivelo-sub000/internal/service/calendarblocks"
	calendarSyncWorker "github.com/capozzinicolas-stack/vivelo-sub000/internal/sync"
	cancelBookingUC "github.com/capozzinicolas-stack/vivelo-sub000/internal/usecase/cancel_booking"
	checkAvailabilityUC "github.com/capozzinicolas-stack/vivelo-sub000/internal/usecase/check_availability"
	createBookingUC "github.com/capozzinicolas-stack/vivelo-sub000/internal/usecase/create_booking"
	"github.com/capozzinicolas-stack/vivelo-sub000/pkg/dbmetrics"
	"github.com/capozzinicolas-stack/vivelo-sub000/pkg/logger"
	"github.com/capozzinicolas-stack/vivelo-sub000/pkg/metrics"
	"github.com/capozzinicolas-stack/vivelo-sub000/pkg/simpletxmanager"
	"github.com/capozzinicolas-stack/vivelo-sub000/pkg/txmanager"
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

	log.Info("Starting Vivelo-BookingService...")
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
	catalogClient := catalogServiceClient.NewClient(
		cfg.Catalog.URL,
		time.Duration(cfg.Catalog.Timeout)*time.Second,
		log,
	)
	paymentClient := paymentServiceClient.NewClient(
		cfg.Payment.URL,
		time.Duration(cfg.Payment.Timeout)*time.Second,
		log,
	)
	calendarClient := calendarSyncClient.NewClient(
		cfg.CalendarSync.URL,
		time.Duration(cfg.CalendarSync.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (Catalog=%s, Payment=%s, CalendarSync=%s)",
		cfg.Catalog.URL, cfg.Payment.URL, cfg.CalendarSync.URL)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		blockRepository   *blockRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и воркере)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		blockRepository = blockRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		blockRepository = blockRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		calendarClient,
		log,
	)
	blockSvc := calendarBlocksService.NewService(
		blockRepository,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		blockRepository,
		catalogClient,
		paymentClient,
		txMgr,
		cfg.Commission.PlatformRate,
		log,
	)
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(
		bookingRepository,
		blockRepository,
		catalogClient,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		paymentClient,
		calendarClient,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingSvc, log)
	getProviderBookings := getProviderBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	previewRefund := previewRefundHandler.NewHandler(bookingSvc, log)
	createCalendarBlock := createCalendarBlockHandler.NewHandler(blockSvc, log)
	getCalendarBlocks := getCalendarBlocksHandler.NewHandler(blockSvc, log)
	deleteCalendarBlock := deleteCalendarBlockHandler.NewHandler(blockSvc, log)

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

	// Проверка доступности слота услуги
	api.HandleFunc("/services/{serviceId}/availability",
		checkAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Перевод бронирования в новый статус
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// Отмена бронирования с расчётом возврата
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Прогноз возврата при отмене сейчас
	protected.HandleFunc("/bookings/{bookingId}/refund-preview", previewRefund.Handle).Methods(http.MethodGet)

	// История бронирований клиента
	protected.HandleFunc("/clients/{clientId}/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// --- Кабинет провайдера ---
	// Расписание бронирований провайдера
	protected.HandleFunc("/providers/{providerId}/bookings", getProviderBookings.Handle).Methods(http.MethodGet)

	// Блокировки календаря
	protected.HandleFunc("/providers/{providerId}/calendar-blocks", createCalendarBlock.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/providers/{providerId}/calendar-blocks", getCalendarBlocks.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{providerId}/calendar-blocks/{blockId}", deleteCalendarBlock.Handle).Methods(http.MethodDelete)

	// Запускаем фоновую сверку внешних календарей
	syncWorker := calendarSyncWorker.NewWorker(
		bookingRepository,
		blockRepository,
		calendarClient,
		txMgr,
		time.Duration(cfg.CalendarSync.SyncIntervalMinutes)*time.Minute,
		log,
	)
	syncWorker.Start()

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

	// Останавливаем фоновую сверку календарей
	syncWorker.Stop()
	log.Info("Calendar sync worker stopped")

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
