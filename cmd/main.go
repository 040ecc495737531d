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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/cancel_appointment"
	confirmAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/confirm_appointment"
	createBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_booking"
	createExpenseHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_expense"
	deleteClientHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/delete_client"
	deleteExpenseHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/delete_expense"
	getAnamnesisHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_anamnesis"
	getAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_available_slots"
	getBusinessHoursHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_business_hours"
	getClientHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_client"
	getClientAppointmentsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_client_appointments"
	getFinanceSummaryHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_finance_summary"
	listAppointmentsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/list_appointments"
	listClientsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/list_clients"
	listExpensesHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/list_expenses"
	listServicesHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/list_services"
	updateClientHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_client"
	upsertAnamnesisHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/upsert_anamnesis"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/config"
	anamnesisRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/anamnesis"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	clientRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/client"
	expenseRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/expense"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/storage/migrations"
	serviceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/service"
	appointmentsService "github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
	catalogService "github.com/m04kA/SMC-SalonBooking/internal/service/catalog"
	clientsService "github.com/m04kA/SMC-SalonBooking/internal/service/clients"
	financeService "github.com/m04kA/SMC-SalonBooking/internal/service/finance"
	createBookingUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonBooking/internal/worker/holdexpiry"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config")
	flag.Parse()

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

	log.Info("Starting SMC-SalonBooking...")
	log.Info("Configuration loaded from %s", *configPath)

	// Правила салона. Config.Load уже провалидировал профиль и часовой пояс
	profile := cfg.BusinessHours.Profile()
	location, err := cfg.BusinessHours.Location()
	if err != nil {
		log.Fatal("Invalid business hours timezone: %v", err)
	}
	policy, err := cfg.Booking.Policy()
	if err != nil {
		log.Fatal("Invalid booking policy: %v", err)
	}
	log.Info("Business hours: %02d:00-%02d:00, lunch %.2f-%.2f, step %dm, tz=%s, collision=%s, hold=%s",
		profile.OpenHour, profile.CloseHour, profile.LunchStart, profile.LunchEnd,
		profile.SlotGranularityMinutes, location, policy.Collision, policy.HoldExpiry)

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

	// Применяем миграции
	if cfg.Database.RunMigrations {
		migrator, err := migrations.NewMigrator(db, log)
		if err != nil {
			log.Fatal("Failed to create migrator: %v", err)
		}
		if err := migrator.Run(context.Background()); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}

	// Обёртка замеряет запросы, если метрики включены, иначе работает как прокси
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)

	// Репозитории и менеджер транзакций
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	clientRepository := clientRepo.NewRepository(wrappedDB)
	serviceRepository := serviceRepo.NewRepository(wrappedDB)
	anamnesisRepository := anamnesisRepo.NewRepository(wrappedDB)
	expenseRepository := expenseRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Движок доступности
	engine := availability.NewEngine(policy)

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		clientRepository,
		engine,
		txMgr,
		location,
		policy.HoldExpiry,
		log,
	)
	catalogSvc := catalogService.NewService(
		serviceRepository,
		profile,
		location,
		log,
	)
	clientsSvc := clientsService.NewService(
		clientRepository,
		anamnesisRepository,
		log,
	)
	financeSvc := financeService.NewService(
		expenseRepository,
		appointmentRepository,
		location,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		serviceRepository,
		engine,
		getAvailableSlotsUC.Settings{
			Profile:        profile,
			Location:       location,
			MinAdvanceDays: cfg.Booking.MinAdvanceDays,
			MaxAdvanceDays: cfg.Booking.MaxAdvanceDays,
		},
		metricsCollector,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		appointmentRepository,
		clientRepository,
		serviceRepository,
		engine,
		txMgr,
		createBookingUC.Settings{
			Profile:        profile,
			Location:       location,
			HoldExpiry:     policy.HoldExpiry,
			MinAdvanceDays: cfg.Booking.MinAdvanceDays,
			MaxAdvanceDays: cfg.Booking.MaxAdvanceDays,
			WhatsAppPhone:  cfg.Booking.WhatsAppPhone,
		},
		metricsCollector,
		log,
	)

	// Фоновая отмена просроченных удержаний
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	var holdWorker *holdexpiry.Worker
	if cfg.HoldExpiry.Enabled {
		holdWorker = holdexpiry.NewWorker(
			appointmentRepository,
			policy.HoldExpiry,
			cfg.HoldExpiry.Interval(),
			metricsCollector,
			log,
		)
		holdWorker.Start(workerCtx)
	}

	// Инициализируем handlers
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	getBusinessHours := getBusinessHoursHandler.NewHandler(catalogSvc)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, location, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	confirmAppointment := confirmAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	getClientAppointments := getClientAppointmentsHandler.NewHandler(appointmentsSvc, log)
	listClients := listClientsHandler.NewHandler(clientsSvc, log)
	getClient := getClientHandler.NewHandler(clientsSvc, log)
	updateClient := updateClientHandler.NewHandler(clientsSvc, log)
	deleteClient := deleteClientHandler.NewHandler(clientsSvc, log)
	getAnamnesis := getAnamnesisHandler.NewHandler(clientsSvc, log)
	upsertAnamnesis := upsertAnamnesisHandler.NewHandler(clientsSvc, log)
	listExpenses := listExpensesHandler.NewHandler(financeSvc, log)
	createExpense := createExpenseHandler.NewHandler(financeSvc, log)
	deleteExpense := deleteExpenseHandler.NewHandler(financeSvc, log)
	getFinanceSummary := getFinanceSummaryHandler.NewHandler(financeSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (клиентская запись)
	// ============================================================

	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/business-hours", getBusinessHours.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	var createBookingHTTP http.Handler = http.HandlerFunc(createBooking.Handle)
	if cfg.RateLimit.Enabled {
		limiter, err := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			Burst:             cfg.RateLimit.Burst,
			TrustedProxies:    cfg.RateLimit.TrustedProxies,
			IdleTimeout:       time.Duration(cfg.RateLimit.IdleTimeoutMinutes) * time.Minute,
		}, log)
		if err != nil {
			log.Fatal("Failed to create rate limiter: %v", err)
		}
		createBookingHTTP = limiter.Middleware(createBookingHTTP)
		log.Info("Rate limit for bookings: %d/min, burst %d", cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}
	api.Handle("/bookings", createBookingHTTP).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (доступ ограничивается на уровне прокси)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()

	admin.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{appointmentId}/confirm", confirmAppointment.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/clients", listClients.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/clients/{clientId}", getClient.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/clients/{clientId}", updateClient.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/clients/{clientId}", deleteClient.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/clients/{clientId}/appointments", getClientAppointments.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/clients/{clientId}/anamnesis", getAnamnesis.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/clients/{clientId}/anamnesis", upsertAnamnesis.Handle).Methods(http.MethodPut)

	admin.HandleFunc("/expenses", listExpenses.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/expenses", createExpense.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/expenses/{expenseId}", deleteExpense.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/finance/summary", getFinanceSummary.Handle).Methods(http.MethodGet)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if holdWorker != nil {
		holdWorker.Stop()
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
