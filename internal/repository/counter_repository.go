package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type counterRepository struct {
	db *sqlx.DB
}

func NewCounterRepository(db *sqlx.DB) CounterRepository {
	return &counterRepository{db: db}
}

// Next upserts the (kind, year) counter and returns the incremented value.
// The row lock taken by the upsert serializes concurrent number requests.
func (r *counterRepository) Next(ctx context.Context, tx *sqlx.Tx, kind string, year int) (int64, error) {
	query := `
		INSERT INTO transaction_counters (kind, year, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (kind, year)
		DO UPDATE SET value = transaction_counters.value + 1
		RETURNING value
	`

	var value int64
	err := tx.GetContext(ctx, &value, query, kind, year)
	return value, err
}
