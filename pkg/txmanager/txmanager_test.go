package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

type fakeTx struct {
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	txs        []*fakeTx
	commitErrs []error
}

func (b *fakeBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	tx := &fakeTx{}
	if len(b.commitErrs) > 0 {
		tx.commitErr = b.commitErrs[0]
		b.commitErrs = b.commitErrs[1:]
	}
	b.txs = append(b.txs, tx)
	return tx, nil
}

func TestDoSerializable_CommitsAndPassesTx(t *testing.T) {
	beginner := &fakeBeginner{}
	mgr := NewTransactionManager(beginner)

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	require.Len(t, beginner.txs, 1)
	assert.True(t, beginner.txs[0].committed)
	assert.False(t, beginner.txs[0].rolledBack)
}

func TestDoSerializable_RollsBackOnError(t *testing.T) {
	beginner := &fakeBeginner{}
	mgr := NewTransactionManager(beginner)
	wantErr := errors.New("capacity exceeded")

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	require.Len(t, beginner.txs, 1)
	assert.True(t, beginner.txs[0].rolledBack)
	assert.False(t, beginner.txs[0].committed)
}

func TestDoSerializable_RetriesSerializationFailure(t *testing.T) {
	beginner := &fakeBeginner{commitErrs: []error{&pq.Error{Code: serializationFailure}}}
	mgr := NewTransactionManager(beginner)
	calls := 0

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, beginner.txs, 2)
}

func TestDoSerializable_ReusesOuterTransaction(t *testing.T) {
	beginner := &fakeBeginner{}
	mgr := NewTransactionManager(beginner)

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		return mgr.DoSerializable(ctx, func(ctx context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Len(t, beginner.txs, 1)
}
