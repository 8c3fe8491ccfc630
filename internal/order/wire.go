package order

import (
	"database/sql"

	"go.uber.org/zap"

	"restauranthub/internal/infrastructure/mysql"
	"restauranthub/internal/order/controller"
	orderrepo "restauranthub/internal/order/repository"
	"restauranthub/internal/store"
	tablerepo "restauranthub/internal/table/repository"
)

// NewRepository builds the order repository. Table status changes caused by an
// order are written through the same transaction.
func NewRepository(db *sql.DB, tx *mysql.TxRunner) *orderrepo.MySQLOrderRepository {
	return orderrepo.NewMySQLOrderRepository(
		db,
		tx,
		orderrepo.NewMySQLOrderItemRepository(db),
		tablerepo.NewMySQLTableRepository(db, tx),
	)
}

func NewModule(s *store.Store, logger *zap.Logger) *controller.OrderController {
	return controller.NewOrderController(s, logger)
}
