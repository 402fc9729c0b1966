package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory"
	rulesRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/rules"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
)

type slotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Slot, error)
	GetByFormAndRange(ctx context.Context, formID int64, from, to time.Time) ([]*domain.Slot, error)
}

type appointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByReference(ctx context.Context, reference string) (*domain.Appointment, error)
	GetByFilter(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
	SaveConfirmed(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	CancelConfirmed(ctx context.Context, id int64, at time.Time) (*domain.Appointment, error)
	CountActiveBySlot(ctx context.Context, slotID int64) (int, error)
	GetSlotsWithActiveAppointments(ctx context.Context, formID int64, from time.Time) ([]*domain.Slot, error)
}

type rulesRepository interface {
	GetFormRules(ctx context.Context, formID int64) (*domain.FormRules, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	GetWeekSchedule(ctx context.Context, formID int64) (*domain.WeekSchedule, error)
}

// repositories хранилища выбранного драйвера
type repositories struct {
	slots        slotRepository
	appointments appointmentRepository
	rules        rulesRepository
	close        func() error
}

// openStorage подключает PostgreSQL или поднимает хранилище в памяти
func openStorage(cfg *config.Config, log *logger.Logger, m *metrics.Metrics, stopMetricsCh <-chan struct{}) (*repositories, error) {
	if cfg.Database.Driver == config.DriverMemory {
		return openMemory(cfg, log)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrapped *dbmetrics.DB
	if m != nil {
		wrapped = dbmetrics.WrapWithDefault(db, m, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrapped = dbmetrics.Wrap(db)
	}

	return &repositories{
		slots:        slotRepo.NewRepository(wrapped),
		appointments: appointmentRepo.NewRepository(wrapped),
		rules:        rulesRepo.NewRepository(wrapped),
		close:        db.Close,
	}, nil
}

func openMemory(cfg *config.Config, log *logger.Logger) (*repositories, error) {
	store := memory.NewStore()
	if cfg.Database.SeedFile != "" {
		if err := store.LoadSeed(context.Background(), cfg.Database.SeedFile, time.Now()); err != nil {
			return nil, err
		}
		log.Info("In-memory storage seeded from %s", cfg.Database.SeedFile)
	} else {
		log.Warn("In-memory storage started without seed data")
	}

	return &repositories{
		slots:        store.Slots(),
		appointments: store.Appointments(),
		rules:        store.Rules(),
		close:        func() error { return nil },
	}, nil
}
