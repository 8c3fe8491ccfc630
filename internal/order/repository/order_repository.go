package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"restauranthub/internal/domain"
	"restauranthub/internal/infrastructure/mysql"
)

// TableWriter upserts a table inside a transaction owned by the caller.
type TableWriter interface {
	UpsertTx(ctx context.Context, tx *sql.Tx, table domain.Table) error
}

type MySQLOrderRepository struct {
	db     *sql.DB
	tx     *mysql.TxRunner
	items  *MySQLOrderItemRepository
	tables TableWriter
}

func NewMySQLOrderRepository(db *sql.DB, tx *mysql.TxRunner, items *MySQLOrderItemRepository, tables TableWriter) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db, tx: tx, items: items, tables: tables}
}

// Save writes the order, its items and the tables it claimed or released in one
// transaction.
func (r *MySQLOrderRepository) Save(ctx context.Context, order domain.Order, tables []domain.Table) error {
	return r.tx.Run(ctx, "save order "+order.ID, func(ctx context.Context, tx *sql.Tx) error {
		if err := r.upsert(ctx, tx, order); err != nil {
			return err
		}
		if err := r.items.ReplaceAll(ctx, tx, order.ID, order.Items); err != nil {
			return err
		}
		for _, t := range tables {
			if err := r.tables.UpsertTx(ctx, tx, t); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *MySQLOrderRepository) upsert(ctx context.Context, tx *sql.Tx, o domain.Order) error {
	query := `
		INSERT INTO orders (
			id, customer, customer_name, customer_address, customer_phone, customer_email,
			type, kind, status, order_date, order_time, prep_time, total,
			payment_method, payment_status, source, tables, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			status = VALUES(status), prep_time = VALUES(prep_time), total = VALUES(total),
			payment_status = VALUES(payment_status), tables = VALUES(tables), updated_at = VALUES(updated_at)
	`

	tables, err := json.Marshal(tableIDs(o.Tables))
	if err != nil {
		return fmt.Errorf("encoding tables of order %s: %w", o.ID, err)
	}

	_, err = tx.ExecContext(ctx, query,
		o.ID, o.Customer, o.CustomerDetails.Name, o.CustomerDetails.Address, o.CustomerDetails.Phone, o.CustomerDetails.Email,
		string(o.Type), string(o.Kind), string(o.Status), o.Date, o.Time, o.PrepTime, o.Total,
		o.Payment.Method, o.Payment.Status, string(o.Source), tables, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting order %s: %w", o.ID, err)
	}
	return nil
}

// FindAll loads every order with its items, oldest first.
func (r *MySQLOrderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	query := `
		SELECT id, customer, customer_name, customer_address, customer_phone, customer_email,
			type, kind, status, order_date, order_time, prep_time, total,
			payment_method, payment_status, source, tables, created_at, updated_at
		FROM orders
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}

	items, err := r.items.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}

	return orders, nil
}

func scanOrder(rows *sql.Rows) (domain.Order, error) {
	var (
		o                         domain.Order
		typ, kind, status, source string
		tables                    []byte
	)
	err := rows.Scan(
		&o.ID, &o.Customer, &o.CustomerDetails.Name, &o.CustomerDetails.Address, &o.CustomerDetails.Phone, &o.CustomerDetails.Email,
		&typ, &kind, &status, &o.Date, &o.Time, &o.PrepTime, &o.Total,
		&o.Payment.Method, &o.Payment.Status, &source, &tables, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return domain.Order{}, fmt.Errorf("scanning order: %w", err)
	}

	o.Type = domain.OrderType(typ)
	o.Kind = domain.OrderKind(kind)
	o.Status = domain.OrderStatus(status)
	o.Source = domain.OrderSource(source)

	var ids []string
	if err := json.Unmarshal(tables, &ids); err != nil {
		return domain.Order{}, fmt.Errorf("decoding tables of order %s: %w", o.ID, err)
	}
	if len(ids) > 0 {
		o.Tables = ids
	}

	return o, nil
}

func tableIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
