package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

// serializationFailure код PostgreSQL для конфликта сериализуемых транзакций
const serializationFailure = "40001"

const defaultMaxRetries = 3

var (
	// ErrBeginTx возвращается, если не удалось открыть транзакцию
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx возвращается, если не удалось зафиксировать транзакцию
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")
)

// TxBeginner источник транзакций (*dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager выполняет функции внутри транзакции, передавая её через контекст
type TransactionManager struct {
	db         TxBeginner
	maxRetries int
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{db: db, maxRetries: defaultMaxRetries}
}

// DoSerializable выполняет fn в транзакции SERIALIZABLE
// При конфликте сериализации транзакция повторяется до maxRetries раз
// Если контекст уже содержит транзакцию, fn выполняется в ней
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.do(ctx, sql.LevelSerializable, fn)
}

// DoReadCommitted выполняет fn в транзакции READ COMMITTED без повторов
func (m *TransactionManager) DoReadCommitted(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.do(ctx, sql.LevelReadCommitted, fn)
}

func (m *TransactionManager) do(ctx context.Context, level sql.IsolationLevel, fn func(ctx context.Context) error) error {
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	var err error
	for attempt := 0; attempt <= m.maxRetries; attempt++ {
		err = m.runOnce(ctx, level, fn)
		if err == nil || !isSerializationFailure(err) {
			return err
		}
	}
	return err
}

func (m *TransactionManager) runOnce(ctx context.Context, level sql.IsolationLevel, fn func(ctx context.Context) error) (err error) {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: level})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		// %w сохраняет *pq.Error для проверки на конфликт сериализации
		return fmt.Errorf("%w: %w", ErrCommitTx, err)
	}
	return nil
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == serializationFailure
	}
	return false
}
