package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chegg-game/chegg-server/internal/models"
)

// RatingRow captures one side's rating change for the ratings history table.
type RatingRow struct {
	Username  string
	OldRating int
	NewRating int
}

// ArchiveMatch upserts the completed match and appends rating history rows in
// a single transaction. Callers treat failures as lost durability only.
func ArchiveMatch(ctx context.Context, pool *pgxpool.Pool, record *models.MatchRecord, ratings []RatingRow) error {
	if pool == nil {
		return nil
	}

	err := pgx.BeginTxFunc(ctx, pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		upsert := `
			INSERT INTO matches (id, name, winner, turns, action_log, final_state, finished_at)
			VALUES ($1, $2, $3, $4, $5, $6, to_timestamp($7))
			ON CONFLICT (id) DO UPDATE
			SET winner=$3, turns=$4, action_log=$5, final_state=$6, finished_at=to_timestamp($7)
		`
		if _, e := tx.Exec(ctx, upsert,
			record.ID, record.Name, record.Winner, record.Turns,
			record.Log, record.FinalState, record.Timestamp/1000,
		); e != nil {
			return e
		}

		for _, r := range ratings {
			q := `
				INSERT INTO ratings (username, match_id, old_rating, new_rating)
				VALUES ($1, $2, $3, $4)
			`
			if _, e := tx.Exec(ctx, q, r.Username, record.ID, r.OldRating, r.NewRating); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("archive match %s: %w", record.ID, err)
	}
	return nil
}
