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

	cancelReservationHandler "github.com/storekit/STF-ReservationService/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/storekit/STF-ReservationService/internal/api/handlers/create_reservation"
	getAvailableFacilitiesHandler "github.com/storekit/STF-ReservationService/internal/api/handlers/get_available_facilities"
	getAvailableSlotsHandler "github.com/storekit/STF-ReservationService/internal/api/handlers/get_available_slots"
	getPolicyConfigHandler "github.com/storekit/STF-ReservationService/internal/api/handlers/get_policy_config"
	getReservationHandler "github.com/storekit/STF-ReservationService/internal/api/handlers/get_reservation"
	getStoreReservationsHandler "github.com/storekit/STF-ReservationService/internal/api/handlers/get_store_reservations"
	getUserReservationsHandler "github.com/storekit/STF-ReservationService/internal/api/handlers/get_user_reservations"
	rescheduleReservationHandler "github.com/storekit/STF-ReservationService/internal/api/handlers/reschedule_reservation"
	updatePolicyConfigHandler "github.com/storekit/STF-ReservationService/internal/api/handlers/update_policy_config"
	updateReservationStatusHandler "github.com/storekit/STF-ReservationService/internal/api/handlers/update_reservation_status"
	"github.com/storekit/STF-ReservationService/internal/api/middleware"
	"github.com/storekit/STF-ReservationService/internal/config"
	policyRepo "github.com/storekit/STF-ReservationService/internal/infra/storage/policy"
	reservationRepo "github.com/storekit/STF-ReservationService/internal/infra/storage/reservation"
	storeServiceClient "github.com/storekit/STF-ReservationService/internal/integrations/storeservice"
	configService "github.com/storekit/STF-ReservationService/internal/service/config"
	reservationsService "github.com/storekit/STF-ReservationService/internal/service/reservations"
	cancelReservationUC "github.com/storekit/STF-ReservationService/internal/usecase/cancel_reservation"
	createReservationUC "github.com/storekit/STF-ReservationService/internal/usecase/create_reservation"
	getAvailableFacilitiesUC "github.com/storekit/STF-ReservationService/internal/usecase/get_available_facilities"
	getAvailableSlotsUC "github.com/storekit/STF-ReservationService/internal/usecase/get_available_slots"
	rescheduleReservationUC "github.com/storekit/STF-ReservationService/internal/usecase/reschedule_reservation"
	"github.com/storekit/STF-ReservationService/pkg/dbmetrics"
	"github.com/storekit/STF-ReservationService/pkg/logger"
	"github.com/storekit/STF-ReservationService/pkg/metrics"
	"github.com/storekit/STF-ReservationService/pkg/simpletxmanager"
	"github.com/storekit/STF-ReservationService/pkg/txmanager"
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

	log.Info("Starting STF-ReservationService...")
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

	// Инициализируем клиент StoreService
	storeClient := storeServiceClient.NewClient(
		cfg.StoreService.URL,
		time.Duration(cfg.StoreService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration client initialized (StoreService=%s timeout=%ds)",
		cfg.StoreService.URL, cfg.StoreService.Timeout)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		policyRepository      *policyRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		policyRepository = policyRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		policyRepository = policyRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		storeClient,
		log,
	)
	configSvc := configService.NewService(
		policyRepository,
		storeClient,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		reservationRepository,
		policyRepository,
		storeClient,
		log,
	)
	getAvailableFacilitiesUseCase := getAvailableFacilitiesUC.NewUseCase(
		reservationRepository,
		policyRepository,
		storeClient,
		log,
	)
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		policyRepository,
		storeClient,
		txMgr,
		log,
	)
	cancelReservationUseCase := cancelReservationUC.NewUseCase(
		reservationRepository,
		policyRepository,
		storeClient,
		log,
	)
	rescheduleReservationUseCase := rescheduleReservationUC.NewUseCase(
		reservationRepository,
		policyRepository,
		storeClient,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAvailableFacilities := getAvailableFacilitiesHandler.NewHandler(getAvailableFacilitiesUseCase, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(cancelReservationUseCase, log)
	rescheduleReservation := rescheduleReservationHandler.NewHandler(rescheduleReservationUseCase, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationSvc, log)
	getStoreReservations := getStoreReservationsHandler.NewHandler(reservationSvc, log)
	updateReservationStatus := updateReservationStatusHandler.NewHandler(reservationSvc, log)
	getPolicyConfig := getPolicyConfigHandler.NewHandler(configSvc, log)
	updatePolicyConfig := updatePolicyConfigHandler.NewHandler(configSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
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

	// Сетка доступных слотов магазина
	api.HandleFunc("/stores/{storeId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Места, доступные в конкретный момент
	api.HandleFunc("/stores/{storeId}/available-facilities",
		getAvailableFacilities.Handle).Methods(http.MethodGet)

	// Политика бронирования магазина
	api.HandleFunc("/stores/{storeId}/policy",
		getPolicyConfig.Handle).Methods(http.MethodGet)

	// Создание бронирования: публичный маршрут, анонимные бронирования
	// разрешены при наличии контакта
	api.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Получение бронирования по ID
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// Перенос бронирования на новое время
	protected.HandleFunc("/reservations/{reservationId}/reschedule", rescheduleReservation.Handle).Methods(http.MethodPatch)

	// Смена статуса бронирования (для менеджеров: check-in, завершение, неявка)
	protected.HandleFunc("/reservations/{reservationId}/status", updateReservationStatus.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// --- Управление магазином (для менеджеров) ---
	// Список бронирований магазина
	protected.HandleFunc("/stores/{storeId}/reservations", getStoreReservations.Handle).Methods(http.MethodGet)

	// Обновление политики бронирования
	protected.HandleFunc("/stores/{storeId}/policy", updatePolicyConfig.Handle).Methods(http.MethodPut)

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
