package stayhistory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
	"github.com/m04kA/SMC-PGBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-PGBookingService/pkg/psqlbuilder"
)

// Repository история проживаний пользователя
type Repository struct {
	db dbmetrics.DBExecutor
}

func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет запись о завершенном проживании; вызывается в транзакции Complete
func (r *Repository) Append(ctx context.Context, entry *domain.StayHistoryEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("stay_history").
		Columns("id", "user_id", "booking_id", "property_id", "property_name", "check_in", "check_out", "created_at").
		Values(
			entry.ID,
			entry.UserID,
			entry.BookingID,
			entry.PropertyID,
			entry.PropertyName,
			entry.CheckIn,
			entry.CheckOut,
			entry.CreatedAt,
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Append - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// ListByUser история пользователя, новые первыми
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*domain.StayHistoryEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "user_id", "booking_id", "property_id", "property_name", "check_in", "check_out", "created_at",
	).
		From("stay_history").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.StayHistoryEntry, 0)
	for rows.Next() {
		var (
			e         domain.StayHistoryEntry
			createdAt sql.NullTime
		)
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.BookingID,
			&e.PropertyID,
			&e.PropertyName,
			&e.CheckIn,
			&e.CheckOut,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListByUser - scan row: %v", ErrScanRow, err)
		}
		e.CreatedAt = createdAt.Time
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByUser - rows error: %w", ErrScanRow, err)
	}

	return entries, nil
}
