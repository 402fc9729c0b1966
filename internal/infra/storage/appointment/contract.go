package appointment

import (
	"context"
	"database/sql"

	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor

// TxBeginner интерфейс для начала транзакций
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error)
}

// DB соединение, умеющее открывать транзакции (*dbmetrics.DB)
type DB interface {
	DBExecutor
	TxBeginner
}
