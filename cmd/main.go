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
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	cancelAppointmentHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/cancel_appointment"
	commitBookingHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/commit_booking"
	getAppointmentHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_available_slots"
	getCustomerAppointmentsHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_customer_appointments"
	getShopAppointmentsHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_shop_appointments"
	getShopScheduleHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_shop_schedule"
	"github.com/m04kA/SMC-BarberBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBooking/internal/config"
	scheduleCache "github.com/m04kA/SMC-BarberBooking/internal/infra/cache/schedule"
	appointmentRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/appointment"
	shopRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/shop"
	"github.com/m04kA/SMC-BarberBooking/internal/integrations/identity"
	appointmentsService "github.com/m04kA/SMC-BarberBooking/internal/service/appointments"
	scheduleService "github.com/m04kA/SMC-BarberBooking/internal/service/schedule"
	commitBookingUC "github.com/m04kA/SMC-BarberBooking/internal/usecase/commit_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-BarberBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-BarberBooking/migrations"
	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
	"github.com/m04kA/SMC-BarberBooking/pkg/metrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

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

	log.Info("Starting SMC-BarberBooking...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Booking.LoadLocation()
	if err != nil {
		log.Fatal("Failed to load location %q: %v", cfg.Booking.Location, err)
	}

	// Инициализируем метрики (если включены)
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

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.AutoMigrate {
		if err := migrations.Run(context.Background(), db, log); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}

	// Без метрик обёртка работает как прозрачный прокси
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)

	// Кэш расписаний
	var cache scheduleService.Cache = scheduleCache.NoopCache{}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			// Без кэша сервис работает, просто медленнее
			log.Warn("Redis is unavailable at %s, schedule cache will miss until it recovers: %v", cfg.Redis.Addr, err)
		} else {
			log.Info("Connected to Redis at %s (ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTLSeconds)
		}
		cancel()

		cache = scheduleCache.NewRedisCache(rdb, cfg.Redis.TTL())
	}

	// Провайдер идентификации
	var resolver middleware.IdentityResolver
	if cfg.Identity.JWTSecret != "" {
		resolver = identity.NewVerifier(cfg.Identity.JWTSecret)
		log.Info("Identity: verifying tokens locally (HS256)")
	} else {
		resolver = identity.NewClient(
			cfg.Identity.URL,
			cfg.Identity.APIKey,
			time.Duration(cfg.Identity.Timeout)*time.Second,
			log,
		)
		log.Info("Identity: resolving tokens via %s (timeout=%ds)", cfg.Identity.URL, cfg.Identity.Timeout)
	}

	// Инициализируем репозитории
	shopRepository := shopRepo.NewRepository(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB, txmanager.WithMaxRetries(cfg.Booking.SerializationRetries))

	// Инициализируем сервисы
	scheduleSvc := scheduleService.NewService(
		shopRepository,
		appointmentRepository,
		cache,
		metricsCollector,
		cfg.Booking.ScheduleWindowDays,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		shopRepository,
		scheduleSvc,
		txMgr,
		log,
	)

	// Инициализируем use cases
	commitBookingUseCase := commitBookingUC.NewUseCase(
		shopRepository,
		appointmentRepository,
		txMgr,
		scheduleSvc,
		metricsCollector,
		commitBookingUC.Options{
			RequireRegisteredCustomer: cfg.Booking.RequireRegisteredCustomer,
			CommitTimeout:             cfg.Booking.CommitTimeout(),
			Location:                  location,
		},
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		scheduleSvc,
		getAvailableSlotsUC.Options{
			SlotDurationMinutes: cfg.Booking.SlotDurationMinutes,
			WindowDays:          cfg.Booking.ScheduleWindowDays,
			Location:            location,
		},
		log,
	)

	// Инициализируем handlers
	commitBooking := commitBookingHandler.NewHandler(commitBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, location, log)
	getShopSchedule := getShopScheduleHandler.NewHandler(scheduleSvc, location, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	getCustomerAppointments := getCustomerAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getShopAppointments := getShopAppointmentsHandler.NewHandler(appointmentsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Liveness + доступность БД
	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := wrappedDB.PingContext(ctx); err != nil {
			handlers.RespondServiceUnavailable(w, "database is unavailable")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Identity(resolver, log))

	// ============================================================
	// PUBLIC ROUTES (анонимный клиент допустим)
	// ============================================================

	// Расписание салона: часы работы, кресла, занятые интервалы
	api.HandleFunc("/shops/{shopId}/schedule", getShopSchedule.Handle).Methods(http.MethodGet)

	// Свободные слоты по креслам на дату
	api.HandleFunc("/shops/{shopId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Фиксация записи (ограничение частоты на клиента)
	var commit http.Handler = http.HandlerFunc(commitBooking.Handle)
	if cfg.Booking.CommitRatePerMinute > 0 {
		proxies, err := cfg.Booking.TrustedProxyPrefixes()
		if err != nil {
			log.Fatal("Invalid booking.trusted_proxies: %v", err)
		}
		limiter := middleware.NewRateLimiter(cfg.Booking.CommitRatePerMinute, cfg.Booking.CommitBurst, proxies)
		commit = limiter.Middleware(log)(commit)
		log.Info("Commit rate limit: %d/min, burst %d, trusted proxies %v",
			cfg.Booking.CommitRatePerMinute, cfg.Booking.CommitBurst, cfg.Booking.TrustedProxies)
	}
	api.Handle("/shops/{shopId}/appointments", commit).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют Authorization: Bearer)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.RequireUser)

	// Записи клиента
	protected.HandleFunc("/me/appointments", getCustomerAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Записи салона (только владелец)
	protected.HandleFunc("/shops/{shopId}/appointments", getShopAppointments.Handle).Methods(http.MethodGet)

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
