package repository

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/rgajunior/trading/internal/model"
)

type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// SaveCycle persists the cycle record and its non-neutral scores in
// one transaction.
func (r *SnapshotRepository) SaveCycle(cycle *model.Cycle, scores []model.SymbolScore) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRow(`
		INSERT INTO sentiment_cycle(captured_at, universe_size, article_count, group_count, failed_groups, cache_hits, cache_misses)
		VALUES($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, cycle.CapturedAt, cycle.UniverseSize, cycle.ArticleCount, cycle.GroupCount,
		cycle.FailedGroups, cycle.CacheHits, cycle.CacheMisses).Scan(&cycle.ID)
	if err != nil {
		return err
	}

	if len(scores) > 0 {
		symbols := make([]string, len(scores))
		values := make([]float64, len(scores))
		for i, s := range scores {
			symbols[i] = s.Symbol
			values[i] = s.Score
		}

		_, err = tx.Exec(`
			INSERT INTO sentiment_score(cycle_id, symbol, score)
			SELECT $1, s, v FROM unnest($2::text[], $3::float8[]) AS u(s, v)
		`, cycle.ID, pq.Array(symbols), pq.Array(values))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *SnapshotRepository) LatestCycle() (*model.Cycle, error) {
	var c model.Cycle
	err := r.db.QueryRow(`
		SELECT id, captured_at, universe_size, article_count, group_count, failed_groups, cache_hits, cache_misses
		FROM sentiment_cycle
		ORDER BY id DESC
		LIMIT 1
	`).Scan(&c.ID, &c.CapturedAt, &c.UniverseSize, &c.ArticleCount, &c.GroupCount,
		&c.FailedGroups, &c.CacheHits, &c.CacheMisses)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *SnapshotRepository) ScoresByCycle(cycleID int64) ([]model.SymbolScore, error) {
	rows, err := r.db.Query(`
		SELECT symbol, score
		FROM sentiment_score
		WHERE cycle_id = $1
		ORDER BY symbol ASC
	`, cycleID)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []model.SymbolScore
	for rows.Next() {
		var s model.SymbolScore
		if err := rows.Scan(&s.Symbol, &s.Score); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return scores, nil
}

func (r *SnapshotRepository) Cycles(limit, offset int) ([]model.Cycle, error) {
	rows, err := r.db.Query(`
		SELECT id, captured_at, universe_size, article_count, group_count, failed_groups, cache_hits, cache_misses
		FROM sentiment_cycle
		ORDER BY id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []model.Cycle
	for rows.Next() {
		var c model.Cycle
		err := rows.Scan(&c.ID, &c.CapturedAt, &c.UniverseSize, &c.ArticleCount, &c.GroupCount,
			&c.FailedGroups, &c.CacheHits, &c.CacheMisses)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cycles, nil
}

func (r *SnapshotRepository) CycleTotal() (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM sentiment_cycle
	`).Scan(&total)
	return total, err
}
