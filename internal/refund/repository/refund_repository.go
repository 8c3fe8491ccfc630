package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"restauranthub/internal/domain"
)

type MySQLRefundRepository struct {
	db *sql.DB
}

func NewMySQLRefundRepository(db *sql.DB) *MySQLRefundRepository {
	return &MySQLRefundRepository{db: db}
}

func (r *MySQLRefundRepository) Save(ctx context.Context, refund domain.RefundRequest) error {
	query := `
		INSERT INTO refund_requests (
			id, order_id, customer_name, reason, photos, items, amount,
			restaurant_share, platform_share, status, created_at, decided_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE status = VALUES(status), decided_at = VALUES(decided_at)
	`

	photos, err := json.Marshal(nonNil(refund.Photos))
	if err != nil {
		return fmt.Errorf("encoding refund photos: %w", err)
	}
	items, err := json.Marshal(nonNil(refund.Items))
	if err != nil {
		return fmt.Errorf("encoding refund items: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		refund.ID, refund.OrderID, refund.CustomerName, refund.Reason, photos, items, refund.Amount,
		refund.CostSplit.Restaurant, refund.CostSplit.Crevings, string(refund.Status), refund.CreatedAt, refund.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting refund %s: %w", refund.ID, err)
	}
	return nil
}

func (r *MySQLRefundRepository) FindAll(ctx context.Context) ([]domain.RefundRequest, error) {
	query := `
		SELECT id, order_id, customer_name, reason, photos, items, amount,
			restaurant_share, platform_share, status, created_at, decided_at
		FROM refund_requests
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying refunds: %w", err)
	}
	defer rows.Close()

	var refunds []domain.RefundRequest
	for rows.Next() {
		var (
			rr            domain.RefundRequest
			photos, items []byte
			status        string
			decidedAt     sql.NullTime
		)
		err := rows.Scan(
			&rr.ID, &rr.OrderID, &rr.CustomerName, &rr.Reason, &photos, &items, &rr.Amount,
			&rr.CostSplit.Restaurant, &rr.CostSplit.Crevings, &status, &rr.CreatedAt, &decidedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning refund: %w", err)
		}
		if err := json.Unmarshal(photos, &rr.Photos); err != nil {
			return nil, fmt.Errorf("decoding photos of refund %s: %w", rr.ID, err)
		}
		if err := json.Unmarshal(items, &rr.Items); err != nil {
			return nil, fmt.Errorf("decoding items of refund %s: %w", rr.ID, err)
		}
		rr.Status = domain.RefundStatus(status)
		if decidedAt.Valid {
			at := decidedAt.Time
			rr.DecidedAt = &at
		}
		refunds = append(refunds, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating refunds: %w", err)
	}

	return refunds, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
