package repository

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/rgajunior/trading/internal/model"
)

type UniverseRepository struct {
	db *sql.DB
}

func NewUniverseRepository(db *sql.DB) *UniverseRepository {
	return &UniverseRepository{db: db}
}

// Latest returns the persisted universe in stored order, or nil when
// none has ever been captured.
func (r *UniverseRepository) Latest() (*model.Universe, error) {
	rows, err := r.db.Query(`
		SELECT symbol, captured_at
		FROM symbol_universe
		ORDER BY id ASC
	`)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var u model.Universe
	for rows.Next() {
		var symbol string
		var capturedAt time.Time
		if err := rows.Scan(&symbol, &capturedAt); err != nil {
			return nil, err
		}
		u.Symbols = append(u.Symbols, symbol)
		u.CapturedAt = capturedAt
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(u.Symbols) == 0 {
		return nil, nil
	}

	return &u, nil
}

// Replace swaps the whole universe in one transaction. Every row gets
// the same capture timestamp; insertion order is preserved by the
// serial key.
func (r *UniverseRepository) Replace(u *model.Universe) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM symbol_universe`); err != nil {
		return err
	}

	if len(u.Symbols) > 0 {
		_, err = tx.Exec(`
			INSERT INTO symbol_universe(symbol, captured_at)
			SELECT unnest($1::text[]), $2
		`, pq.Array(u.Symbols), u.CapturedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
