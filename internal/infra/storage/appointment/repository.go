package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

var appointmentColumns = []string{
	"a.id",
	"a.form_id",
	"a.reference",
	"a.user_id",
	"a.email",
	"a.first_name",
	"a.last_name",
	"a.booked_seats",
	"a.is_cancelled",
	"a.date_taken",
	"a.cancelled_at",
	"a.created_at",
	"a.updated_at",
}

var slotColumns = []string{
	"s.id",
	"s.form_id",
	"s.starting_at",
	"s.ending_at",
	"s.max_capacity",
	"s.confirmed_seats",
	"s.is_open",
	"s.is_specific",
}

const slotReturning = "RETURNING id, form_id, starting_at, ending_at, max_capacity, confirmed_seats, is_open, is_specific"

// Repository репозиторий записей
type Repository struct {
	db DB
	tx *txmanager.TransactionManager
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DB) *Repository {
	return &Repository{db: db, tx: txmanager.NewTransactionManager(db)}
}

// inTx выполняет fn в транзакции из контекста или в собственной транзакции READ COMMITTED
func (r *Repository) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	err := r.tx.DoReadCommitted(ctx, fn)
	if errors.Is(err, txmanager.ErrBeginTx) || errors.Is(err, txmanager.ErrCommitTx) {
		return fmt.Errorf("%w: %v", ErrTransaction, err)
	}
	return err
}

// SaveConfirmed одной транзакцией увеличивает счётчики мест слотов и сохраняет запись
// Увеличение условное (confirmed_seats + seats <= max_capacity), поэтому параллельные
// подтверждения из других процессов не могут превысить вместимость
func (r *Repository) SaveConfirmed(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	slotIDs := appt.SlotIDs()
	sort.Slice(slotIDs, func(i, j int) bool { return slotIDs[i] < slotIDs[j] })

	err := r.inTx(ctx, func(txCtx context.Context) error {
		executor := dbmetrics.GetExecutor(txCtx, r.db)

		// 1. Условно увеличиваем счётчики всех слотов
		slots := make([]domain.Slot, 0, len(slotIDs))
		for _, id := range slotIDs {
			slot, err := r.incrementConfirmed(txCtx, executor, id, appt.BookedSeats)
			if err != nil {
				return err
			}
			slots = append(slots, *slot)
		}
		sort.Slice(slots, func(i, j int) bool { return slots[i].StartingAt.Before(slots[j].StartingAt) })

		// 2. Сохраняем запись
		query, args, err := psqlbuilder.Insert("appointments").
			Columns("form_id", "reference", "user_id", "email", "first_name", "last_name", "booked_seats", "is_cancelled", "date_taken").
			Values(appt.FormID, appt.Reference, appt.UserID, appt.Email, appt.FirstName, appt.LastName, appt.BookedSeats, false, appt.DateTaken).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: SaveConfirmed - build insert query: %v", ErrBuildQuery, err)
		}

		var createdAt, updatedAt sql.NullTime
		if err := executor.QueryRowContext(txCtx, query, args...).Scan(&appt.ID, &createdAt, &updatedAt); err != nil {
			return fmt.Errorf("%w: SaveConfirmed - execute insert: %v", ErrExecQuery, err)
		}
		appt.CreatedAt = createdAt.Time
		appt.UpdatedAt = updatedAt.Time

		// 3. Связываем запись со слотами
		linkBuilder := psqlbuilder.Insert("appointment_slots").Columns("appointment_id", "slot_id")
		for _, id := range slotIDs {
			linkBuilder = linkBuilder.Values(appt.ID, id)
		}
		query, args, err = linkBuilder.ToSql()
		if err != nil {
			return fmt.Errorf("%w: SaveConfirmed - build link query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(txCtx, query, args...); err != nil {
			return fmt.Errorf("%w: SaveConfirmed - execute link insert: %v", ErrExecQuery, err)
		}

		appt.Slots = slots
		appt.IsCancelled = false
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

func (r *Repository) incrementConfirmed(ctx context.Context, executor DBExecutor, slotID int64, seats int) (*domain.Slot, error) {
	query, args, err := psqlbuilder.Update("slots").
		Set("confirmed_seats", squirrel.Expr("confirmed_seats + ?", seats)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slotID}).
		Where("is_open").
		Where(squirrel.Expr("confirmed_seats + ? <= max_capacity", seats)).
		Suffix(slotReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: incrementConfirmed - build update query: %v", ErrBuildQuery, err)
	}

	var s domain.Slot
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID, &s.FormID, &s.StartingAt, &s.EndingAt, &s.MaxCapacity, &s.ConfirmedSeats, &s.IsOpen, &s.IsSpecific,
	)
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: incrementConfirmed - execute update: %v", ErrExecQuery, err)
	}

	// Строка не обновилась: выясняем причину
	query, args, err = psqlbuilder.Select("is_open").From("slots").Where(squirrel.Eq{"id": slotID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: incrementConfirmed - build select query: %v", ErrBuildQuery, err)
	}
	var isOpen bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&isOpen); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id=%d", ErrSlotNotFound, slotID)
		}
		return nil, fmt.Errorf("%w: incrementConfirmed - scan: %v", ErrScanRow, err)
	}
	if !isOpen {
		return nil, fmt.Errorf("%w: id=%d", ErrSlotClosed, slotID)
	}
	return nil, fmt.Errorf("%w: id=%d, seats=%d", ErrCapacityExceeded, slotID, seats)
}

// CancelConfirmed логически отменяет запись и возвращает её места слотам
func (r *Repository) CancelConfirmed(ctx context.Context, id int64, at time.Time) (*domain.Appointment, error) {
	var result *domain.Appointment

	err := r.inTx(ctx, func(txCtx context.Context) error {
		executor := dbmetrics.GetExecutor(txCtx, r.db)

		// 1. Помечаем запись отменённой (только если она ещё активна)
		query, args, err := psqlbuilder.Update("appointments").
			Set("is_cancelled", true).
			Set("cancelled_at", at).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id, "is_cancelled": false}).
			Suffix("RETURNING booked_seats").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: CancelConfirmed - build update query: %v", ErrBuildQuery, err)
		}

		var seats int
		if err := executor.QueryRowContext(txCtx, query, args...).Scan(&seats); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				if _, getErr := r.GetByID(txCtx, id); getErr != nil {
					return getErr
				}
				return ErrAlreadyCancelled
			}
			return fmt.Errorf("%w: CancelConfirmed - execute update: %v", ErrExecQuery, err)
		}

		// 2. Возвращаем места (счётчик не уходит в минус)
		query, args, err = psqlbuilder.Update("slots").
			Set("confirmed_seats", squirrel.Expr("GREATEST(confirmed_seats - ?, 0)", seats)).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Expr("id IN (SELECT slot_id FROM appointment_slots WHERE appointment_id = ?)", id)).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: CancelConfirmed - build slots update query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(txCtx, query, args...); err != nil {
			return fmt.Errorf("%w: CancelConfirmed - execute slots update: %v", ErrExecQuery, err)
		}

		result, err = r.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID получает запись со слотами
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appointments, err := r.selectAppointments(ctx, "GetByID", squirrel.Eq{"a.id": id})
	if err != nil {
		return nil, err
	}
	if len(appointments) == 0 {
		return nil, ErrAppointmentNotFound
	}
	return appointments[0], nil
}

// GetByReference получает запись по коду
func (r *Repository) GetByReference(ctx context.Context, reference string) (*domain.Appointment, error) {
	appointments, err := r.selectAppointments(ctx, "GetByReference", squirrel.Eq{"a.reference": reference})
	if err != nil {
		return nil, err
	}
	if len(appointments) == 0 {
		return nil, ErrAppointmentNotFound
	}
	return appointments[0], nil
}

// GetByFilter получает историю записей пользователя
// Период фильтруется по началу любого из слотов записи: [StartDate, EndDate]
func (r *Repository) GetByFilter(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	conds := squirrel.And{squirrel.Expr("LOWER(a.email) = LOWER(?)", filter.Email)}

	if filter.FormID != nil {
		conds = append(conds, squirrel.Eq{"a.form_id": *filter.FormID})
	}
	if filter.CategoryID != nil {
		conds = append(conds, squirrel.Expr("a.form_id IN (SELECT id FROM forms WHERE category_id = ?)", *filter.CategoryID))
	}
	if !filter.IncludeCancelled {
		conds = append(conds, squirrel.Eq{"a.is_cancelled": false})
	}
	if filter.StartDate != nil {
		conds = append(conds, squirrel.Expr(
			"EXISTS (SELECT 1 FROM appointment_slots x JOIN slots xs ON xs.id = x.slot_id WHERE x.appointment_id = a.id AND xs.starting_at >= ?)",
			*filter.StartDate))
	}
	if filter.EndDate != nil {
		conds = append(conds, squirrel.Expr(
			"EXISTS (SELECT 1 FROM appointment_slots x JOIN slots xs ON xs.id = x.slot_id WHERE x.appointment_id = a.id AND xs.starting_at < ?)",
			filter.EndDate.AddDate(0, 0, 1)))
	}

	return r.selectAppointments(ctx, "GetByFilter", conds)
}

// CountActiveBySlot число неотменённых записей на слоте
func (r *Repository) CountActiveBySlot(ctx context.Context, slotID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("appointment_slots aps").
		Join("appointments a ON a.id = aps.appointment_id").
		Where(squirrel.Eq{"aps.slot_id": slotID, "a.is_cancelled": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySlot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySlot - scan: %v", ErrScanRow, err)
	}
	return count, nil
}

// GetSlotsWithActiveAppointments слоты формы начиная с from, на которых есть неотменённые записи
func (r *Repository) GetSlotsWithActiveAppointments(ctx context.Context, formID int64, from time.Time) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		Distinct().
		From("slots s").
		Join("appointment_slots aps ON aps.slot_id = s.id").
		Join("appointments a ON a.id = aps.appointment_id").
		Where(squirrel.Eq{"s.form_id": formID, "a.is_cancelled": false}).
		Where(squirrel.GtOrEq{"s.starting_at": from}).
		OrderBy("s.starting_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSlotsWithActiveAppointments - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetSlotsWithActiveAppointments - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		var s domain.Slot
		if err := rows.Scan(&s.ID, &s.FormID, &s.StartingAt, &s.EndingAt, &s.MaxCapacity, &s.ConfirmedSeats, &s.IsOpen, &s.IsSpecific); err != nil {
			return nil, fmt.Errorf("%w: GetSlotsWithActiveAppointments - scan: %v", ErrScanRow, err)
		}
		slots = append(slots, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetSlotsWithActiveAppointments - rows iteration: %v", ErrScanRow, err)
	}
	return slots, nil
}

func (r *Repository) selectAppointments(ctx context.Context, op string, where squirrel.Sqlizer) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments a").
		Where(where).
		OrderBy("a.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	byID := make(map[int64]*domain.Appointment)
	for rows.Next() {
		var (
			a                    domain.Appointment
			cancelledAt          sql.NullTime
			createdAt, updatedAt sql.NullTime
		)
		err := rows.Scan(
			&a.ID,
			&a.FormID,
			&a.Reference,
			&a.UserID,
			&a.Email,
			&a.FirstName,
			&a.LastName,
			&a.BookedSeats,
			&a.IsCancelled,
			&a.DateTaken,
			&cancelledAt,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan: %v", ErrScanRow, op, err)
		}
		if cancelledAt.Valid {
			a.CancelledAt = &cancelledAt.Time
		}
		a.CreatedAt = createdAt.Time
		a.UpdatedAt = updatedAt.Time

		appointments = append(appointments, &a)
		byID[a.ID] = &a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %v", ErrScanRow, op, err)
	}
	rows.Close()

	if len(appointments) == 0 {
		return appointments, nil
	}
	if err := r.loadSlots(ctx, executor, byID); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *Repository) loadSlots(ctx context.Context, executor DBExecutor, byID map[int64]*domain.Appointment) error {
	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query, args, err := psqlbuilder.Select(append([]string{"aps.appointment_id"}, slotColumns...)...).
		From("appointment_slots aps").
		Join("slots s ON s.id = aps.slot_id").
		Where(squirrel.Eq{"aps.appointment_id": ids}).
		OrderBy("s.starting_at ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			appointmentID int64
			s             domain.Slot
		)
		if err := rows.Scan(&appointmentID, &s.ID, &s.FormID, &s.StartingAt, &s.EndingAt, &s.MaxCapacity, &s.ConfirmedSeats, &s.IsOpen, &s.IsSpecific); err != nil {
			return fmt.Errorf("%w: loadSlots - scan: %v", ErrScanRow, err)
		}
		if a, ok := byID[appointmentID]; ok {
			a.Slots = append(a.Slots, s)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadSlots - rows iteration: %v", ErrScanRow, err)
	}
	return nil
}
