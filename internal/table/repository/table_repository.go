package repository

import (
	"context"
	"database/sql"
	"fmt"

	"restauranthub/internal/domain"
	"restauranthub/internal/infrastructure/mysql"
)

type MySQLTableRepository struct {
	db *sql.DB
	tx *mysql.TxRunner
}

func NewMySQLTableRepository(db *sql.DB, tx *mysql.TxRunner) *MySQLTableRepository {
	return &MySQLTableRepository{db: db, tx: tx}
}

func (r *MySQLTableRepository) Save(ctx context.Context, table domain.Table) error {
	return r.SaveAll(ctx, []domain.Table{table})
}

// SaveAll upserts tables in a single transaction, keeping their relative order.
func (r *MySQLTableRepository) SaveAll(ctx context.Context, tables []domain.Table) error {
	return r.tx.Run(ctx, "save tables", func(ctx context.Context, tx *sql.Tx) error {
		for _, t := range tables {
			if err := r.UpsertTx(ctx, tx, t); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpsertTx writes table inside an existing transaction.
func (r *MySQLTableRepository) UpsertTx(ctx context.Context, tx *sql.Tx, table domain.Table) error {
	query := `
		INSERT INTO restaurant_tables (id, name, capacity, type, status)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name), capacity = VALUES(capacity), type = VALUES(type), status = VALUES(status)
	`

	_, err := tx.ExecContext(ctx, query, table.ID, table.Name, table.Capacity, table.Type, string(table.Status))
	if err != nil {
		return fmt.Errorf("upserting table %s: %w", table.ID, err)
	}
	return nil
}

// Delete removes a table. Deleting a missing row is not an error.
func (r *MySQLTableRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM restaurant_tables WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting table %s: %w", id, err)
	}
	return nil
}

func (r *MySQLTableRepository) FindAll(ctx context.Context) ([]domain.Table, error) {
	query := `
		SELECT id, name, capacity, type, status
		FROM restaurant_tables
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying tables: %w", err)
	}
	defer rows.Close()

	var tables []domain.Table
	for rows.Next() {
		var t domain.Table
		var status string
		if err := rows.Scan(&t.ID, &t.Name, &t.Capacity, &t.Type, &status); err != nil {
			return nil, fmt.Errorf("scanning table: %w", err)
		}
		t.Status = domain.TableStatus(status)
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tables: %w", err)
	}

	return tables, nil
}
