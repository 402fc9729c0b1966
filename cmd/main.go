package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_appointment"
	cancelHoldHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_hold"
	checkEligibilityHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/check_eligibility"
	checkScheduleChangeHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/check_schedule_change"
	checkTimeSlotChangeHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/check_time_slot_change"
	confirmAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/confirm_appointment"
	getSlotAvailabilityHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_slot_availability"
	placeHoldHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/place_hold"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/events"
	"github.com/m04kA/SMC-AppointmentService/internal/service/eligibility"
	"github.com/m04kA/SMC-AppointmentService/internal/service/holdscheduler"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slotcapacity"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slotlock"
	cancelAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/cancel_appointment"
	checkEligibilityUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_eligibility"
	checkScheduleChangeUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_schedule_change"
	checkTimeSlotChangeUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_time_slot_change"
	confirmAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_appointment"
	placeHoldUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/place_hold"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
)

func main() {
	configPath := "config.toml"
	if v := os.Getenv("APPOINTMENT_CONFIG"); v != "" {
		configPath = v
	}

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

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	repos, err := openStorage(cfg, log, metricsCollector, stopMetricsCh)
	if err != nil {
		log.Fatal("Failed to open storage (driver=%s): %v", cfg.Database.Driver, err)
	}
	defer repos.close()

	// Публикация событий
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.Enabled {
		publisher = events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Queue, log)
		log.Info("Appointment events are published to queue %s", cfg.Events.Queue)
	}

	// Менеджер мест: блокировки слотов, планировщик удержаний
	locks := slotlock.NewRegistry(metricsCollector)
	scheduler := holdscheduler.New(log)
	holdTimeout := time.Duration(cfg.Holds.TimeoutSeconds) * time.Second

	manager := slotcapacity.NewManager(
		repos.slots,
		repos.appointments,
		locks,
		scheduler,
		metricsCollector,
		slotcapacity.Options{
			LockWait:    time.Duration(cfg.Holds.LockWaitMillis) * time.Millisecond,
			HoldTimeout: holdTimeout,
		},
		log,
	)

	engine := eligibility.NewEngine(repos.rules, repos.appointments, metricsCollector, log)

	// Инициализируем use cases
	placeHoldUseCase := placeHoldUC.NewUseCase(repos.slots, repos.rules, manager, holdTimeout, log)
	confirmAppointmentUseCase := confirmAppointmentUC.NewUseCase(
		repos.slots,
		repos.appointments,
		engine,
		manager,
		publisher,
		log,
	)
	cancelAppointmentUseCase := cancelAppointmentUC.NewUseCase(repos.appointments, manager, publisher, log)
	checkEligibilityUseCase := checkEligibilityUC.NewUseCase(repos.slots, engine, manager, log)
	checkScheduleChangeUseCase := checkScheduleChangeUC.NewUseCase(repos.rules, repos.appointments, log)
	checkTimeSlotChangeUseCase := checkTimeSlotChangeUC.NewUseCase(repos.slots, repos.appointments, log)

	// Инициализируем handlers
	placeHold := placeHoldHandler.NewHandler(placeHoldUseCase, log)
	cancelHold := cancelHoldHandler.NewHandler(manager, log)
	getSlotAvailability := getSlotAvailabilityHandler.NewHandler(manager, log)
	confirmAppointment := confirmAppointmentHandler.NewHandler(confirmAppointmentUseCase, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(cancelAppointmentUseCase, log)
	checkEligibility := checkEligibilityHandler.NewHandler(checkEligibilityUseCase, log)
	checkScheduleChange := checkScheduleChangeHandler.NewHandler(checkScheduleChangeUseCase, log)
	checkTimeSlotChange := checkTimeSlotChangeHandler.NewHandler(checkTimeSlotChangeUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/slots/{slotId}/availability", getSlotAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/forms/{formId}/eligibility", checkEligibility.Handle).Methods(http.MethodPost)

	// Отмена записи по ID или по коду записи
	api.HandleFunc("/appointments/{appointmentId:[0-9]+}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/reference/{reference}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Анализ изменений расписания (для администраторов форм)
	api.HandleFunc("/forms/{formId}/schedule/impact", checkScheduleChange.Handle).Methods(http.MethodPost)
	api.HandleFunc("/forms/{formId}/time-slots/impact", checkTimeSlotChange.Handle).Methods(http.MethodPost)

	// ============================================================
	// SESSION ROUTES (требуют X-Session-ID header)
	// ============================================================

	session := api.PathPrefix("").Subrouter()
	session.Use(middleware.Session)

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			cfg.RateLimit.RequestsPerSecond,
			cfg.RateLimit.Burst,
			time.Duration(cfg.RateLimit.IdleTTLSeconds)*time.Second,
		)
		limiter.StartJanitor(janitorCtx, time.Minute)
		session.Use(limiter.Middleware)
		log.Info("Rate limit enabled: rps=%.1f, burst=%d per session", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	session.HandleFunc("/slots/{slotId}/holds", placeHold.Handle).Methods(http.MethodPost)
	session.HandleFunc("/holds/{holdId}", cancelHold.Handle).Methods(http.MethodDelete)
	session.HandleFunc("/appointments", confirmAppointment.Handle).Methods(http.MethodPost)

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

	// 1. Перестаём принимать запросы
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// 2. Дожидаемся удержаний, которые истекают в пределах grace периода, остальные освобождаем
	holdsCtx, cancelHolds := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Holds.ShutdownGraceSeconds)*time.Second,
	)
	defer cancelHolds()
	manager.Shutdown(holdsCtx)

	// 3. Закрываем соединение с брокером
	if err := publisher.Close(); err != nil {
		log.Error("Failed to close event publisher: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
