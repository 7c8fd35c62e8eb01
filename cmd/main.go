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

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	cancelBookingHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/complete_booking"
	completeExpiredHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/complete_expired"
	confirmBookingHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_booking"
	getCourtBookingsHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_court_bookings"
	getCourtScheduleHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_court_schedule"
	getUserBookingStatsHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_user_booking_stats"
	getUserBookingsHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_user_bookings"
	rescheduleBookingHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/reschedule_booking"
	"github.com/m04kA/SMC-CourtBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBooking/internal/config"
	"github.com/m04kA/SMC-CourtBooking/internal/infra/counters"
	bookingRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/booking"
	courtRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/court"
	userServiceClient "github.com/m04kA/SMC-CourtBooking/internal/integrations/userservice"
	"github.com/m04kA/SMC-CourtBooking/internal/overlapguard"
	bookingsService "github.com/m04kA/SMC-CourtBooking/internal/service/bookings"
	courtsService "github.com/m04kA/SMC-CourtBooking/internal/service/courts"
	createBookingUC "github.com/m04kA/SMC-CourtBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-CourtBooking/internal/usecase/get_available_slots"
	rescheduleBookingUC "github.com/m04kA/SMC-CourtBooking/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-CourtBooking/internal/worker/sweeper"
	"github.com/m04kA/SMC-CourtBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBooking/pkg/logger"
	"github.com/m04kA/SMC-CourtBooking/pkg/metrics"
	"github.com/m04kA/SMC-CourtBooking/pkg/txmanager"
)

const configPath = "config.toml"

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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
	log = log.With("service", cfg.Metrics.ServiceName)

	log.Info("Starting SMC-CourtBooking...")

	// Метрики: nil коллектор означает, что метрики выключены
	var metricsCollector *metrics.Metrics
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

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без коллектора обёртка работает как прозрачный прокси
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Счётчик подтверждённых бронирований в Redis
	var counter bookingsService.BookingCounter = counters.NoopCounter{}
	if cfg.Redis.Enabled {
		redisClient, err := counters.Connect(context.Background(), counters.Options{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: time.Duration(cfg.Redis.DialTimeout) * time.Second,
		})
		if err != nil {
			log.Warn("Redis unavailable, booking counter disabled: %v", err)
		} else {
			defer redisClient.Close()
			counter = counters.NewUserBookingCounter(redisClient, cfg.Redis.KeyPrefix)
			log.Info("Booking counter enabled (redis=%s, prefix=%s)", cfg.Redis.Addr, cfg.Redis.KeyPrefix)
		}
	}

	// Клиент UserService опционален
	var userClient createBookingUC.UserServiceClient
	if cfg.UserService.Enabled {
		userClient = userServiceClient.NewClient(
			cfg.UserService.URL,
			time.Duration(cfg.UserService.Timeout)*time.Second,
			log,
		)
		log.Info("UserService client initialized (url=%s, timeout=%ds)", cfg.UserService.URL, cfg.UserService.Timeout)
	}

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	courtRepository := courtRepo.NewRepository(wrappedDB)
	guard := overlapguard.New(bookingRepository)

	// Сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, courtRepository, counter, metricsCollector, log)
	courtSvc := courtsService.NewService(courtRepository, log)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		courtRepository,
		guard,
		userClient,
		counter,
		metricsCollector,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(bookingRepository, courtRepository, log)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		courtRepository,
		guard,
		metricsCollector,
		txMgr,
		log,
	)

	// Handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	completeExpired := completeExpiredHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getUserBookingStats := getUserBookingStatsHandler.NewHandler(bookingSvc, log)
	getCourtBookings := getCourtBookingsHandler.NewHandler(bookingSvc, log)
	getCourtSchedule := getCourtScheduleHandler.NewHandler(courtSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			log.Error("Health: database ping failed: %v", err)
			handlers.RespondErrorWithCode(w, http.StatusServiceUnavailable, "database unavailable", "unavailable")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Свободные слоты корта на дату
	api.HandleFunc("/courts/{courtId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Расписание корта
	api.HandleFunc("/courts/{courtId}/schedule", getCourtSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	// Регистрируется до /bookings/{bookingId}
	protected.HandleFunc("/bookings/complete-expired", completeExpired.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)

	// --- Корты ---
	protected.HandleFunc("/courts/{courtId}/bookings", getCourtBookings.Handle).Methods(http.MethodGet)

	// --- Пользователи ---
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/bookings/stats", getUserBookingStats.Handle).Methods(http.MethodGet)

	// Фоновое завершение прошедших бронирований
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	if interval := cfg.Lifecycle.SweepInterval(); interval > 0 {
		go sweeper.New(bookingSvc, interval, log).Run(workerCtx)
		log.Info("Booking sweeper started (interval=%s)", interval)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

	stopWorker()
	close(stopMetricsCh)

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
