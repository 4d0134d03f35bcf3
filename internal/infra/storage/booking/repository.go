package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
	"github.com/m04kA/SMC-PGBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-PGBookingService/pkg/psqlbuilder"
)

const (
	sqlStateUniqueViolation = "23505"
	activeBookingConstraint = "uq_bookings_active_user_property"
)

var columns = []string{
	"id",
	"user_id",
	"owner_id",
	"property_id",
	"property_name",
	"user_name",
	"occupants",
	"rent_amount",
	"security_deposit",
	"total_amount",
	"check_in",
	"check_out",
	"due_date",
	"status",
	"review_text",
	"review_rating",
	"reviewed_at",
	"created_at",
	"updated_at",
	"confirmed_at",
	"rejected_at",
	"cancelled_at",
	"completed_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Вызывается внутри транзакции резервирования мест; переданная через context транзакция используется автоматически
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"user_id",
			"owner_id",
			"property_id",
			"property_name",
			"user_name",
			"occupants",
			"rent_amount",
			"security_deposit",
			"total_amount",
			"check_in",
			"due_date",
			"status",
			"created_at",
			"updated_at",
		).
		Values(
			booking.ID,
			booking.UserID,
			booking.OwnerID,
			booking.PropertyID,
			booking.PropertyName,
			booking.UserName,
			booking.Occupants,
			booking.RentAmount,
			booking.SecurityDeposit,
			booking.TotalAmount,
			booking.CheckIn,
			booking.DueDate,
			booking.Status,
			booking.CreatedAt,
			booking.UpdatedAt,
		).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if isActiveBookingViolation(err) {
			return nil, ErrActiveBookingExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE) до её завершения
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// HasActive проверяет наличие pending/confirmed бронирования пользователя на объект
func (r *Repository) HasActive(ctx context.Context, userID, propertyID string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{
			"user_id":     userID,
			"property_id": propertyID,
			"status":      statusStrings(domain.ActiveStatuses),
		}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: HasActive - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasActive - execute query: %w", ErrExecQuery, err)
	}

	return true, nil
}

// List получает бронирования пользователя или владельца, новые первыми
// Опционально фильтрует по статусу
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("bookings").
		OrderBy("created_at DESC", "id DESC")

	if filter.UserID != "" {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.OwnerID != "" {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"owner_id": filter.OwnerID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Update сохраняет изменяемые поля: статус, время переходов, выезд и отзыв
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var (
		reviewText   sql.NullString
		reviewRating sql.NullInt32
		reviewedAt   sql.NullTime
	)
	if booking.Review != nil {
		reviewText = sql.NullString{String: booking.Review.Text, Valid: true}
		reviewRating = sql.NullInt32{Int32: int32(booking.Review.Rating), Valid: true}
		reviewedAt = sql.NullTime{Time: booking.Review.CreatedAt, Valid: true}
	}

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", booking.Status).
		Set("check_out", booking.CheckOut).
		Set("review_text", reviewText).
		Set("review_rating", reviewRating).
		Set("reviewed_at", reviewedAt).
		Set("updated_at", booking.UpdatedAt).
		Set("confirmed_at", booking.ConfirmedAt).
		Set("rejected_at", booking.RejectedAt).
		Set("cancelled_at", booking.CancelledAt).
		Set("completed_at", booking.CompletedAt).
		Where(squirrel.Eq{"id": booking.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking              domain.Booking
		reviewText           sql.NullString
		reviewRating         sql.NullInt32
		reviewedAt           sql.NullTime
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.OwnerID,
		&booking.PropertyID,
		&booking.PropertyName,
		&booking.UserName,
		&booking.Occupants,
		&booking.RentAmount,
		&booking.SecurityDeposit,
		&booking.TotalAmount,
		&booking.CheckIn,
		&booking.CheckOut,
		&booking.DueDate,
		&booking.Status,
		&reviewText,
		&reviewRating,
		&reviewedAt,
		&createdAt,
		&updatedAt,
		&booking.ConfirmedAt,
		&booking.RejectedAt,
		&booking.CancelledAt,
		&booking.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	if reviewText.Valid {
		booking.Review = &domain.Review{
			UserID:    booking.UserID,
			Text:      reviewText.String,
			Rating:    int(reviewRating.Int32),
			CreatedAt: reviewedAt.Time,
		}
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func isActiveBookingViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == sqlStateUniqueViolation && pqErr.Constraint == activeBookingConstraint
}
