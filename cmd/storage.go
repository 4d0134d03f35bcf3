package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-PGBookingService/internal/config"
	"github.com/m04kA/SMC-PGBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-PGBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-PGBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-PGBookingService/internal/infra/storage/migrations"
	notificationRepo "github.com/m04kA/SMC-PGBookingService/internal/infra/storage/notification"
	propertyRepo "github.com/m04kA/SMC-PGBookingService/internal/infra/storage/property"
	stayHistoryRepo "github.com/m04kA/SMC-PGBookingService/internal/infra/storage/stayhistory"
	"github.com/m04kA/SMC-PGBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-PGBookingService/pkg/logger"
	"github.com/m04kA/SMC-PGBookingService/pkg/metrics"
	"github.com/m04kA/SMC-PGBookingService/pkg/txmanager"
)

type propertyStore interface {
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	UpdateInventory(ctx context.Context, p *domain.Property) error
}

type bookingStore interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	HasActive(ctx context.Context, userID, propertyID string) (bool, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
}

type stayHistoryStore interface {
	Append(ctx context.Context, entry *domain.StayHistoryEntry) error
	ListByUser(ctx context.Context, userID string) ([]*domain.StayHistoryEntry, error)
}

type notificationStore interface {
	Name() string
	Deliver(ctx context.Context, event domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id string, readAt time.Time) error
}

type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// storage репозитории и менеджер транзакций выбранного хранилища
type storage struct {
	properties    propertyStore
	bookings      bookingStore
	stayHistory   stayHistoryStore
	notifications notificationStore
	txManager     txManager
	close         func() error
}

func openStorage(cfg *config.Config, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		log.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &storage{
			properties:    store.Properties(),
			bookings:      store.Bookings(),
			stayHistory:   store.StayHistory(),
			notifications: store.Notifications(),
			txManager:     store.TxManager(),
			close:         func() error { return nil },
		}, nil
	default:
		return openPostgres(cfg, m, stopCh, log)
	}
}

func openPostgres(cfg *config.Config, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(db, cfg.Database.MigrationsPath, log); err != nil {
			db.Close()
			return nil, err
		}
	}

	// Метрики nil-safe: без них обертка только пробрасывает вызовы
	wrappedDB := dbmetrics.WrapWithDefault(db, m, stopCh)

	retry := txmanager.RetryConfig{
		MaxRetries:     cfg.Transactions.MaxRetries,
		InitialBackoff: time.Duration(cfg.Transactions.InitialBackoffMs) * time.Millisecond,
		MaxBackoff:     time.Duration(cfg.Transactions.MaxBackoffMs) * time.Millisecond,
	}

	return &storage{
		properties:    propertyRepo.NewRepository(wrappedDB),
		bookings:      bookingRepo.NewRepository(wrappedDB),
		stayHistory:   stayHistoryRepo.NewRepository(wrappedDB),
		notifications: notificationRepo.NewRepository(wrappedDB),
		txManager:     txmanager.NewTransactionManager(wrappedDB, retry, m),
		close:         db.Close,
	}, nil
}
