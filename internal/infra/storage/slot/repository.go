package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

var slotColumns = []string{
	"id",
	"form_id",
	"starting_at",
	"ending_at",
	"max_capacity",
	"confirmed_seats",
	"is_open",
	"is_specific",
}

// Repository репозиторий слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create материализует слот
func (r *Repository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slots").
		Columns("form_id", "starting_at", "ending_at", "max_capacity", "confirmed_seats", "is_open", "is_specific").
		Values(slot.FormID, slot.StartingAt, slot.EndingAt, slot.MaxCapacity, slot.ConfirmedSeats, slot.IsOpen, slot.IsSpecific).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&slot.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	return slot, nil
}

// GetByID получает слот по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"id": id})
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("%w: GetByID - scan: %v", ErrScanRow, err)
	}
	return slot, nil
}

// GetByIDs получает слоты по списку ID, упорядоченные по времени начала
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Slot, error) {
	if len(ids) == 0 {
		return []*domain.Slot{}, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("starting_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots, err := scanSlots(rows)
	if err != nil {
		return nil, err
	}
	if len(slots) != len(uniqueIDs(ids)) {
		return nil, ErrSlotNotFound
	}
	return slots, nil
}

// GetByFormAndRange получает слоты формы, начинающиеся в полуинтервале [from, to)
func (r *Repository) GetByFormAndRange(ctx context.Context, formID int64, from, to time.Time) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"form_id": formID}).
		Where(squirrel.GtOrEq{"starting_at": from}).
		Where(squirrel.Lt{"starting_at": to}).
		OrderBy("starting_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFormAndRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFormAndRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// SetOpen открывает или закрывает слот
func (r *Repository) SetOpen(ctx context.Context, id int64, isOpen bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("is_open", isOpen).
		Set("is_specific", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetOpen - build update query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetOpen - execute update: %v", ErrExecQuery, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetOpen - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrSlotNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var s domain.Slot
	err := row.Scan(
		&s.ID,
		&s.FormID,
		&s.StartingAt,
		&s.EndingAt,
		&s.MaxCapacity,
		&s.ConfirmedSeats,
		&s.IsOpen,
		&s.IsSpecific,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan: %v", ErrScanRow, err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows iteration: %v", ErrScanRow, err)
	}
	return slots, nil
}

func uniqueIDs(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
