package property

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

// Repository слотовый инвентарь объектов
// Строки properties создает сервис листингов; здесь меняются только поля слотов
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет объект вместе с начальным инвентарем
func (r *Repository) Create(ctx context.Context, p *domain.Property) error {
	if err := p.CheckInvariants(); err != nil {
		return fmt.Errorf("%w: Create - %w", ErrInventoryInvariant, err)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("properties").
		Columns(
			"id",
			"owner_id",
			"name",
			"total_rooms",
			"room_capacity",
			"total_slots",
			"available_slots",
			"occupied_slots",
			"available_rooms",
			"occupied_rooms",
			"blocked_users",
		).
		Values(
			p.ID,
			p.OwnerID,
			p.Name,
			p.TotalRooms,
			p.RoomCapacity,
			p.TotalSlots,
			p.AvailableSlots,
			p.OccupiedSlots,
			p.AvailableRooms,
			p.OccupiedRooms,
			pq.Array(p.BlockedUsers),
		).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	p.UpdatedAt = updatedAt.Time

	return nil
}

// GetByID получает объект по ID
// Внутри транзакции строка блокируется (FOR UPDATE), конкурентные резервирования выстраиваются в очередь
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"owner_id",
		"name",
		"total_rooms",
		"room_capacity",
		"total_slots",
		"available_slots",
		"occupied_slots",
		"available_rooms",
		"occupied_rooms",
		"blocked_users",
		"updated_at",
	).
		From("properties").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		p         domain.Property
		blocked   pq.StringArray
		updatedAt sql.NullTime
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.TotalRooms,
		&p.RoomCapacity,
		&p.TotalSlots,
		&p.AvailableSlots,
		&p.OccupiedSlots,
		&p.AvailableRooms,
		&p.OccupiedRooms,
		&blocked,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan property: %w", ErrScanRow, err)
	}

	p.BlockedUsers = []string(blocked)
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}

// UpdateInventory записывает только слоты и производные поля комнат
// Несогласованный инвентарь не сохраняется
func (r *Repository) UpdateInventory(ctx context.Context, p *domain.Property) error {
	if err := p.CheckInvariants(); err != nil {
		return fmt.Errorf("%w: UpdateInventory - %w", ErrInventoryInvariant, err)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("properties").
		Set("available_slots", p.AvailableSlots).
		Set("occupied_slots", p.OccupiedSlots).
		Set("available_rooms", p.AvailableRooms).
		Set("occupied_rooms", p.OccupiedRooms).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateInventory - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateInventory - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateInventory - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrPropertyNotFound
	}

	return nil
}
