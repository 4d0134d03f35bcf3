package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-PGBookingService/pkg/dbmetrics"
)

var (
	// ErrTxConflict возвращается, когда сериализуемая транзакция не прошла за отведённое число попыток
	ErrTxConflict = errors.New("txmanager: transaction conflict, retry budget exhausted")

	// ErrTransaction возвращается при ошибках начала/фиксации транзакции
	ErrTransaction = errors.New("txmanager: transaction error")
)

// SQLSTATE, при которых транзакцию имеет смысл повторить
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

// Beginner источник транзакций (*dbmetrics.DB)
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// RetryRecorder получает уведомление о каждом повторе транзакции
type RetryRecorder interface {
	RecordTxRetry()
}

// RetryConfig настройки повторов при конфликте сериализации
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig значения по умолчанию
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     5,
		InitialBackoff: 10 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

// TransactionManager выполняет функции внутри транзакции, передавая её через context
type TransactionManager struct {
	db       Beginner
	retry    RetryConfig
	recorder RetryRecorder
}

// NewTransactionManager создает менеджер транзакций. recorder может быть nil
func NewTransactionManager(db Beginner, retry RetryConfig, recorder RetryRecorder) *TransactionManager {
	if retry.MaxRetries < 0 {
		retry.MaxRetries = 0
	}
	return &TransactionManager{
		db:       db,
		retry:    retry,
		recorder: recorder,
	}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию (READ COMMITTED)
// Пути, блокирующие строки через FOR UPDATE, идут сюда: ожидающий читает свежую версию строки
// При дедлоке (40P01) транзакция повторяется целиком
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, nil, fn)
}

// DoSerializable выполняет fn в SERIALIZABLE транзакции
// При конфликте сериализации (40001) или дедлоке (40P01) транзакция повторяется целиком
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	// Вложенный вызов присоединяется к внешней транзакции
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	for attempt := 0; ; attempt++ {
		err := m.runOnce(ctx, opts, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}

		if attempt >= m.retry.MaxRetries {
			return fmt.Errorf("%w: %d attempts: %w", ErrTxConflict, attempt+1, err)
		}

		if m.recorder != nil {
			m.recorder.RecordTxRetry()
		}

		select {
		case <-time.After(m.backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (m *TransactionManager) runOnce(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrTransaction, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrTransaction, err)
	}

	return nil
}

// backoff экспоненциальная пауза со случайной половиной, чтобы проигравшие не повторяли в такт
func (m *TransactionManager) backoff(attempt int) time.Duration {
	d := m.retry.InitialBackoff << attempt
	if d <= 0 || (m.retry.MaxBackoff > 0 && d > m.retry.MaxBackoff) {
		d = m.retry.MaxBackoff
	}
	if d <= 1 {
		return d
	}
	half := d / 2
	return half + rand.N(d-half)
}

// IsRetryable сообщает, что ошибка вызвана конфликтом конкурентных транзакций
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == sqlStateSerializationFailure || pqErr.Code == sqlStateDeadlockDetected
}
