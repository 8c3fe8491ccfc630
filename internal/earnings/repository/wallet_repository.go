package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"restauranthub/internal/domain"
	"restauranthub/internal/infrastructure/mysql"
)

// walletRowID is the key of the single wallet row.
const walletRowID = 1

type MySQLWalletRepository struct {
	db *sql.DB
	tx *mysql.TxRunner
}

func NewMySQLWalletRepository(db *sql.DB, tx *mysql.TxRunner) *MySQLWalletRepository {
	return &MySQLWalletRepository{db: db, tx: tx}
}

// SaveWithdrawal writes the withdrawal and the resulting wallet balance together.
func (r *MySQLWalletRepository) SaveWithdrawal(ctx context.Context, w domain.Withdrawal, balance decimal.Decimal) error {
	return r.tx.Run(ctx, "save withdrawal "+w.ID, func(ctx context.Context, tx *sql.Tx) error {
		query := `
			INSERT INTO withdrawals (id, amount, status, reference, requested_at, settled_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE
				status = VALUES(status), reference = VALUES(reference), settled_at = VALUES(settled_at)
		`
		_, err := tx.ExecContext(ctx, query, w.ID, w.Amount, string(w.Status), w.Reference, w.RequestedAt, w.SettledAt)
		if err != nil {
			return fmt.Errorf("upserting withdrawal %s: %w", w.ID, err)
		}
		return r.setBalance(ctx, tx, balance)
	})
}

// SetOpeningBalance seeds the wallet row unless one exists already.
func (r *MySQLWalletRepository) SetOpeningBalance(ctx context.Context, balance decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx, `INSERT IGNORE INTO wallet (id, balance) VALUES (?, ?)`, walletRowID, balance)
	if err != nil {
		return fmt.Errorf("seeding wallet: %w", err)
	}
	return nil
}

func (r *MySQLWalletRepository) setBalance(ctx context.Context, tx *sql.Tx, balance decimal.Decimal) error {
	query := `
		INSERT INTO wallet (id, balance) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE balance = VALUES(balance)
	`
	if _, err := tx.ExecContext(ctx, query, walletRowID, balance); err != nil {
		return fmt.Errorf("updating wallet balance: %w", err)
	}
	return nil
}

// Balance returns the stored balance and whether a wallet row exists.
func (r *MySQLWalletRepository) Balance(ctx context.Context) (decimal.Decimal, bool, error) {
	var balance decimal.Decimal
	err := r.db.QueryRowContext(ctx, `SELECT balance FROM wallet WHERE id = ?`, walletRowID).Scan(&balance)
	if err == sql.ErrNoRows {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("querying wallet balance: %w", err)
	}
	return balance, true, nil
}

func (r *MySQLWalletRepository) FindWithdrawals(ctx context.Context) ([]domain.Withdrawal, error) {
	query := `
		SELECT id, amount, status, reference, requested_at, settled_at
		FROM withdrawals
		ORDER BY requested_at, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying withdrawals: %w", err)
	}
	defer rows.Close()

	var withdrawals []domain.Withdrawal
	for rows.Next() {
		var (
			w         domain.Withdrawal
			status    string
			settledAt sql.NullTime
		)
		if err := rows.Scan(&w.ID, &w.Amount, &status, &w.Reference, &w.RequestedAt, &settledAt); err != nil {
			return nil, fmt.Errorf("scanning withdrawal: %w", err)
		}
		w.Status = domain.WithdrawalStatus(status)
		if settledAt.Valid {
			at := settledAt.Time
			w.SettledAt = &at
		}
		withdrawals = append(withdrawals, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating withdrawals: %w", err)
	}

	return withdrawals, nil
}
