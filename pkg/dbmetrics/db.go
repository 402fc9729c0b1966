package dbmetrics

import (
	"context"
	"database/sql"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
)

const defaultPoolStatsInterval = 15 * time.Second

// DB обёртка над *sql.DB, замеряющая длительность запросов
// С nil-метриками работает как обычный *sql.DB
type DB struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

// Wrap оборачивает *sql.DB без сбора метрик
func Wrap(db *sql.DB) *DB {
	return &DB{db: db}
}

// WrapWithDefault оборачивает *sql.DB и запускает сбор статистики пула соединений до закрытия stopCh
func WrapWithDefault(db *sql.DB, m *metrics.Metrics, stopCh <-chan struct{}) *DB {
	wrapped := &DB{db: db, metrics: m}
	go wrapped.collectPoolStats(defaultPoolStatsInterval, stopCh)
	return wrapped
}

func (d *DB) collectPoolStats(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			stats := d.db.Stats()
			d.metrics.SetDBConnections("open", stats.OpenConnections)
			d.metrics.SetDBConnections("in_use", stats.InUse)
			d.metrics.SetDBConnections("idle", stats.Idle)
		}
	}
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.metrics.RecordDBQuery("exec", time.Since(start).Seconds(), err)
	return res, err
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.metrics.RecordDBQuery("query", time.Since(start).Seconds(), err)
	return rows, err
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.metrics.RecordDBQuery("query_row", time.Since(start).Seconds(), row.Err())
	return row
}

// BeginTx открывает транзакцию, запросы которой тоже попадают в метрики
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		d.metrics.RecordDBQuery("begin", 0, err)
		return nil, err
	}
	return &Tx{tx: tx, metrics: d.metrics}, nil
}

// Tx обёртка над *sql.Tx
type Tx struct {
	tx      *sql.Tx
	metrics *metrics.Metrics
}

func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.metrics.RecordDBQuery("tx_exec", time.Since(start).Seconds(), err)
	return res, err
}

func (t *Tx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.metrics.RecordDBQuery("tx_query", time.Since(start).Seconds(), err)
	return rows, err
}

func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.metrics.RecordDBQuery("tx_query_row", time.Since(start).Seconds(), row.Err())
	return row
}

func (t *Tx) Commit() error {
	err := t.tx.Commit()
	t.metrics.RecordDBQuery("commit", 0, err)
	return err
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}
