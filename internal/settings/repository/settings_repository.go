package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"restauranthub/internal/domain"
	"restauranthub/internal/errors"
)

// settingsRowID is the key of the single settings row.
const settingsRowID = 1

type MySQLSettingsRepository struct {
	db *sql.DB
}

func NewMySQLSettingsRepository(db *sql.DB) *MySQLSettingsRepository {
	return &MySQLSettingsRepository{db: db}
}

func (r *MySQLSettingsRepository) Find(ctx context.Context) (*domain.Settings, error) {
	query := `
		SELECT config
		FROM settings
		WHERE id = ?
	`

	var raw []byte
	err := r.db.QueryRowContext(ctx, query, settingsRowID).Scan(&raw)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("settings not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying settings: %w", err)
	}

	settings := domain.DefaultSettings()
	if err := json.Unmarshal(raw, &settings); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}

	return &settings, nil
}

func (r *MySQLSettingsRepository) Save(ctx context.Context, settings domain.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	query := `
		INSERT INTO settings (id, config) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE config = VALUES(config)
	`
	if _, err := r.db.ExecContext(ctx, query, settingsRowID, raw); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
