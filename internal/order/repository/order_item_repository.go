package repository

import (
	"context"
	"database/sql"
	"fmt"

	"restauranthub/internal/domain"
)

type MySQLOrderItemRepository struct {
	db *sql.DB
}

func NewMySQLOrderItemRepository(db *sql.DB) *MySQLOrderItemRepository {
	return &MySQLOrderItemRepository{db: db}
}

// ReplaceAll swaps the stored items of an order for items.
func (r *MySQLOrderItemRepository) ReplaceAll(ctx context.Context, tx *sql.Tx, orderID string, items []domain.OrderItem) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, orderID); err != nil {
		return fmt.Errorf("deleting items of order %s: %w", orderID, err)
	}

	query := `
		INSERT INTO order_items (order_id, position, item_id, name, quantity, price, category)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for i, item := range items {
		_, err := tx.ExecContext(ctx, query, orderID, i, item.ID, item.Name, item.Quantity, item.Price, item.Category)
		if err != nil {
			return fmt.Errorf("inserting order item: %w", err)
		}
	}
	return nil
}

// FindAll returns the items of every order keyed by order id.
func (r *MySQLOrderItemRepository) FindAll(ctx context.Context) (map[string][]domain.OrderItem, error) {
	query := `
		SELECT order_id, item_id, name, quantity, price, category
		FROM order_items
		ORDER BY order_id, position
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	items := make(map[string][]domain.OrderItem)
	for rows.Next() {
		var orderID string
		var item domain.OrderItem
		if err := rows.Scan(&orderID, &item.ID, &item.Name, &item.Quantity, &item.Price, &item.Category); err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		items[orderID] = append(items[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order items: %w", err)
	}

	return items, nil
}
