package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/bmcallister/trade-journal/internal/models"
)

// DefaultListLimit caps trade listings when the caller does not ask
// for a smaller page.
const DefaultListLimit = 200

const tradeColumns = `
	t.id, t.direction, t.entry_price, t.exit_price, t.quantity,
	t.entry_at, t.exit_at, t.notes, t.external_ref, t.created_at,
	tk.symbol`

// CreateTrade inserts a new trade for a user, creating the ticker on
// first use and linking any strategy/emotion tags. The trade and its
// tag links commit or roll back together.
func (db *DB) CreateTrade(userID string, input *models.TradeInput) (*models.Trade, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tickerID, err := getOrCreateTicker(tx, input.Symbol)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	now := time.Now()

	_, err = tx.Exec(`
		INSERT INTO trades (
			id, user_id, ticker_id, direction, entry_price, exit_price,
			quantity, entry_at, exit_at, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id, userID, tickerID, nullString(input.Direction),
		decimalArg(input.EntryPrice), decimalArg(input.ExitPrice), decimalArg(input.Quantity),
		input.EntryAt, input.ExitAt, nullString(input.Notes), now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trade: %w", err)
	}

	if err := linkTags(tx, "trade_strategies", "strategy_id", id, input.StrategyIDs); err != nil {
		return nil, err
	}
	if err := linkTags(tx, "trade_emotions", "emotion_id", id, input.EmotionIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit trade: %w", err)
	}

	return db.GetTradeByID(userID, id)
}

// CreateImportedTrade records a trade ingested from an external broker
// export, keyed by its external reference for dedupe.
func (db *DB) CreateImportedTrade(userID string, input *models.TradeInput, externalRef string) (*models.Trade, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tickerID, err := getOrCreateTicker(tx, input.Symbol)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()

	_, err = tx.Exec(`
		INSERT INTO trades (
			id, user_id, ticker_id, direction, entry_price, exit_price,
			quantity, entry_at, exit_at, notes, external_ref, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		id, userID, tickerID, nullString(input.Direction),
		decimalArg(input.EntryPrice), decimalArg(input.ExitPrice), decimalArg(input.Quantity),
		input.EntryAt, input.ExitAt, nullString(input.Notes), externalRef, time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create imported trade: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit imported trade: %w", err)
	}

	return db.GetTradeByID(userID, id)
}

// TradeExistsByExternalRef checks whether an imported trade with the
// given external reference was already recorded.
func (db *DB) TradeExistsByExternalRef(externalRef string) (bool, error) {
	var exists bool
	err := db.conn.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM trades WHERE external_ref = $1)`, externalRef,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check trade existence: %w", err)
	}
	return exists, nil
}

// GetTradeByID retrieves a single trade with its symbol and tag names.
func (db *DB) GetTradeByID(userID, id string) (*models.Trade, error) {
	query := `
		SELECT` + tradeColumns + `
		FROM trades t
		LEFT JOIN tickers tk ON tk.id = t.ticker_id
		WHERE t.id = $1 AND t.user_id = $2`

	trade, err := scanTrade(db.conn.QueryRow(query, id, userID))
	if err != nil {
		return nil, err
	}
	trade.UserID = userID

	trade.Strategies, err = db.tradeTagNames("trade_strategies", "strategy_id", "strategies", id)
	if err != nil {
		return nil, err
	}
	trade.Emotions, err = db.tradeTagNames("trade_emotions", "emotion_id", "emotions", id)
	if err != nil {
		return nil, err
	}

	return trade, nil
}

// ListTrades returns a user's trades, newest first, honoring the
// optional filter fields. Undated trades sort last so the most recent
// page stays meaningful.
func (db *DB) ListTrades(filter models.TradeFilter) ([]models.Trade, error) {
	query := `
		SELECT` + tradeColumns + `
		FROM trades t
		LEFT JOIN tickers tk ON tk.id = t.ticker_id
		WHERE t.user_id = $1`

	args := []interface{}{filter.UserID}

	if filter.Direction != "" {
		args = append(args, filter.Direction)
		query += fmt.Sprintf(" AND t.direction = $%d", len(args))
	}
	if filter.Symbol != "" {
		args = append(args, "%"+filter.Symbol+"%")
		query += fmt.Sprintf(" AND tk.symbol ILIKE $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND t.entry_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND t.entry_at <= $%d", len(args))
	}

	limit := filter.Limit
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY t.entry_at DESC NULLS LAST, t.created_at DESC LIMIT $%d", len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trade.UserID = filter.UserID
		trades = append(trades, *trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trades: %w", err)
	}
	return trades, nil
}

// DeleteTrade removes a trade owned by the user; tag links cascade.
func (db *DB) DeleteTrade(userID, id string) error {
	result, err := db.conn.Exec(`DELETE FROM trades WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("trade not found: %s", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(row rowScanner) (*models.Trade, error) {
	var t models.Trade
	var direction, notes, externalRef, symbol sql.NullString
	var entryPrice, exitPrice, quantity sql.NullString
	var entryAt, exitAt, createdAt sql.NullTime

	err := row.Scan(
		&t.ID, &direction, &entryPrice, &exitPrice, &quantity,
		&entryAt, &exitAt, &notes, &externalRef, &createdAt,
		&symbol,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("trade not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan trade: %w", err)
	}

	if direction.Valid {
		t.Direction = direction.String
	}
	t.EntryPrice = decimalFromNull(entryPrice)
	t.ExitPrice = decimalFromNull(exitPrice)
	t.Quantity = decimalFromNull(quantity)
	if entryAt.Valid {
		t.EntryAt = &entryAt.Time
	}
	if exitAt.Valid {
		t.ExitAt = &exitAt.Time
	}
	if createdAt.Valid {
		t.CreatedAt = &createdAt.Time
	}
	if notes.Valid {
		t.Notes = notes.String
	}
	if externalRef.Valid {
		t.ExternalRef = externalRef.String
	}
	if symbol.Valid {
		t.Symbol = symbol.String
	}
	return &t, nil
}

func (db *DB) tradeTagNames(linkTable, linkColumn, tagTable, tradeID string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT tag.name
		FROM %s link
		JOIN %s tag ON tag.id = link.%s
		WHERE link.trade_id = $1
		ORDER BY tag.name`, linkTable, tagTable, linkColumn)

	rows, err := db.conn.Query(query, tradeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", linkTable, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan tag name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func linkTags(tx *sql.Tx, table, column, tradeID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (trade_id, %s)
		SELECT $1, id FROM %s WHERE id = ANY($2)`,
		table, column, tagTableFor(column))

	result, err := tx.Exec(query, tradeID, pq.Array(tagIDs))
	if err != nil {
		return fmt.Errorf("failed to link %s: %w", table, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if int(rowsAffected) != len(tagIDs) {
		return fmt.Errorf("invalid tag selection for %s", table)
	}
	return nil
}

func tagTableFor(column string) string {
	if column == "strategy_id" {
		return "strategies"
	}
	return "emotions"
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func decimalArg(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}

func decimalFromNull(ns sql.NullString) *decimal.Decimal {
	if !ns.Valid {
		return nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil
	}
	return &d
}
