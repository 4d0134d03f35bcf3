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
	"github.com/spf13/pflag"

	createBookingHandler "github.com/m04kA/SMC-PGBookingService/internal/api/handlers/create_booking"
	getBookingHandler "github.com/m04kA/SMC-PGBookingService/internal/api/handlers/get_booking"
	getInventoryHandler "github.com/m04kA/SMC-PGBookingService/internal/api/handlers/get_inventory"
	getOwnerBookingsHandler "github.com/m04kA/SMC-PGBookingService/internal/api/handlers/get_owner_bookings"
	getStayHistoryHandler "github.com/m04kA/SMC-PGBookingService/internal/api/handlers/get_stay_history"
	getUserBookingsHandler "github.com/m04kA/SMC-PGBookingService/internal/api/handlers/get_user_bookings"
	listNotificationsHandler "github.com/m04kA/SMC-PGBookingService/internal/api/handlers/list_notifications"
	markNotificationReadHandler "github.com/m04kA/SMC-PGBookingService/internal/api/handlers/mark_notification_read"
	submitReviewHandler "github.com/m04kA/SMC-PGBookingService/internal/api/handlers/submit_review"
	transitionBookingHandler "github.com/m04kA/SMC-PGBookingService/internal/api/handlers/transition_booking"
	"github.com/m04kA/SMC-PGBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-PGBookingService/internal/config"
	"github.com/m04kA/SMC-PGBookingService/internal/integrations/eventbus"
	bookingsService "github.com/m04kA/SMC-PGBookingService/internal/service/bookings"
	inventoryService "github.com/m04kA/SMC-PGBookingService/internal/service/inventory"
	"github.com/m04kA/SMC-PGBookingService/internal/service/notifications"
	"github.com/m04kA/SMC-PGBookingService/internal/service/notifier"
	createBookingUC "github.com/m04kA/SMC-PGBookingService/internal/usecase/create_booking"
	submitReviewUC "github.com/m04kA/SMC-PGBookingService/internal/usecase/submit_review"
	transitionBookingUC "github.com/m04kA/SMC-PGBookingService/internal/usecase/transition_booking"
	"github.com/m04kA/SMC-PGBookingService/pkg/logger"
	"github.com/m04kA/SMC-PGBookingService/pkg/metrics"
)

func main() {
	configPath := pflag.StringP("config", "c", "config.toml", "path to TOML config")
	pflag.Parse()

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

	log.Info("Starting SMC-PGBookingService...")
	log.Info("Configuration loaded from %s (storage=%s)", *configPath, cfg.Storage.Backend)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище: postgres или memory
	store, err := openStorage(cfg, metricsCollector, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to open storage: %v", err)
	}
	defer store.close()

	// Получатели событий
	var sinks []notifier.Sink
	if cfg.Notifications.Store {
		sinks = append(sinks, store.notifications)
	}
	var publisher *eventbus.Publisher
	if cfg.Notifications.Kafka.Enabled {
		publisher = eventbus.NewPublisher(
			eventbus.NewKafkaWriter(cfg.Notifications.Kafka.Brokers, cfg.Notifications.Kafka.Topic),
			eventbus.BreakerSettings{
				MaxFailures: cfg.Notifications.Kafka.BreakerMaxFailures,
				OpenTimeout: time.Duration(cfg.Notifications.Kafka.BreakerOpenTimeout) * time.Second,
			},
			time.Duration(cfg.Notifications.Kafka.WriteTimeoutMs)*time.Millisecond,
			log,
		)
		sinks = append(sinks, publisher)
		log.Info("Kafka publisher enabled (brokers=%v, topic=%s)",
			cfg.Notifications.Kafka.Brokers, cfg.Notifications.Kafka.Topic)
	}

	dispatcher := notifier.NewDispatcher(cfg.Notifications.QueueSize, sinks, metricsCollector, log)
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	dispatcherDone := make(chan struct{})
	go func() {
		dispatcher.Run(dispatcherCtx)
		close(dispatcherDone)
	}()

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(store.bookings, store.stayHistory, log)
	inventorySvc := inventoryService.NewService(store.properties, log)
	notificationSvc := notifications.NewService(store.notifications, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		store.properties,
		store.bookings,
		store.txManager,
		metricsCollector,
		log,
	)
	transitionBookingUseCase := transitionBookingUC.NewUseCase(
		store.bookings,
		store.properties,
		store.stayHistory,
		store.txManager,
		metricsCollector,
		log,
	)
	submitReviewUseCase := submitReviewUC.NewUseCase(store.bookings, store.txManager, log)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, dispatcher, log)
	transitionBooking := transitionBookingHandler.NewHandler(transitionBookingUseCase, dispatcher, log)
	submitReview := submitReviewHandler.NewHandler(submitReviewUseCase, dispatcher, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getOwnerBookings := getOwnerBookingsHandler.NewHandler(bookingSvc, log)
	getStayHistory := getStayHistoryHandler.NewHandler(bookingSvc, log)
	getInventory := getInventoryHandler.NewHandler(inventorySvc, log)
	listNotifications := listNotificationsHandler.NewHandler(notificationSvc, log)
	markNotificationRead := markNotificationReadHandler.NewHandler(notificationSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступность мест объекта
	api.HandleFunc("/properties/{propertyId}/inventory", getInventory.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Жизненный цикл
	protected.HandleFunc("/bookings/{bookingId}/accept", transitionBooking.Accept).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/reject", transitionBooking.Reject).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", transitionBooking.Cancel).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/complete", transitionBooking.Complete).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/review", submitReview.Handle).Methods(http.MethodPost)

	// --- Пользователь ---
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/stay-history", getStayHistory.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/notifications", listNotifications.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{notificationId}/read", markNotificationRead.Handle).Methods(http.MethodPatch)

	// --- Владелец ---
	protected.HandleFunc("/owners/{ownerId}/bookings", getOwnerBookings.Handle).Methods(http.MethodGet)

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

	// Доставляем события, принятые до остановки сервера
	stopDispatcher()
	<-dispatcherDone
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close kafka publisher: %v", err)
		}
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
