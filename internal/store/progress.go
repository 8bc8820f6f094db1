package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// progressRepo implements ProgressRepo with one row per finished round.
type progressRepo struct {
	db *sql.DB
}

func (r *progressRepo) RecordResult(ctx context.Context, res Result) error {
	query, args := builder().Insert(progressTable).
		Columns("day", "word", "won", "guesses", "at").
		Values(res.Day(), res.Word, res.Won, res.Guesses, res.At.UnixMilli()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return r.PruneProgress(ctx, ProgressRetentionDays)
}

func (r *progressRepo) Progress(ctx context.Context, days int) ([]DayProgress, error) {
	b := builder()
	sel := b.Select("day", entsql.As(entsql.Count("*"), "total"), entsql.As(entsql.Sum("won"), "wins")).
		From(b.Table(progressTable)).
		GroupBy("day").
		OrderBy(entsql.Desc("day"))
	if days > 0 {
		sel.Limit(days)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	var out []DayProgress
	for rows.Next() {
		var d DayProgress
		if err := rows.Scan(&d.Day, &d.Total, &d.Wins); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *progressRepo) PruneProgress(ctx context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}
	b := builder()
	query, args := b.Select("day").
		From(b.Table(progressTable)).
		GroupBy("day").
		OrderBy(entsql.Desc("day")).
		Offset(keep).
		Limit(1).
		Query()

	var threshold string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil // fewer than keep days exist
	}
	if err != nil {
		return fmt.Errorf("query days for prune: %w", err)
	}

	query, args = b.Delete(progressTable).Where(entsql.LTE("day", threshold)).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune progress: %w", err)
	}
	return nil
}
