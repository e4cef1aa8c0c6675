package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bmcallister/trade-journal/internal/models"
)

// getOrCreateTicker resolves a symbol to a ticker id inside the given
// transaction, creating the ticker on first use. Symbols are stored
// upper-cased.
func getOrCreateTicker(tx *sql.Tx, symbol string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(symbol))
	if normalized == "" {
		return "", fmt.Errorf("symbol is required")
	}

	var id string
	err := tx.QueryRow(`SELECT id FROM tickers WHERE symbol = $1`, normalized).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("failed to look up ticker: %w", err)
	}

	id = uuid.NewString()
	// A concurrent insert of the same symbol wins; fall back to it.
	_, err = tx.Exec(
		`INSERT INTO tickers (id, symbol) VALUES ($1, $2) ON CONFLICT (symbol) DO NOTHING`,
		id, normalized,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create ticker: %w", err)
	}

	if err := tx.QueryRow(`SELECT id FROM tickers WHERE symbol = $1`, normalized).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to resolve ticker: %w", err)
	}
	return id, nil
}

// ListStrategies returns all strategy tag options ordered by name.
func (db *DB) ListStrategies() ([]models.TagOption, error) {
	return db.listTags("strategies")
}

// ListEmotions returns all emotion tag options ordered by name.
func (db *DB) ListEmotions() ([]models.TagOption, error) {
	return db.listTags("emotions")
}

func (db *DB) listTags(table string) ([]models.TagOption, error) {
	rows, err := db.conn.Query(fmt.Sprintf(`SELECT id, name FROM %s ORDER BY name`, table))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var options []models.TagOption
	for rows.Next() {
		var opt models.TagOption
		if err := rows.Scan(&opt.ID, &opt.Name); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}
