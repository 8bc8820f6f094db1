package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/wordquest/internal/history"
)

// sessionRepo implements SessionRepo. The full record is stored as JSON
// next to a few indexed summary columns.
type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) SaveSession(ctx context.Context, rec history.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("save session: missing id")
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	var ended any
	if rec.EndedAtMs != nil {
		ended = *rec.EndedAtMs
	}
	query, args := builder().Insert(sessionsTable).
		Columns("id", "started_at", "ended_at", "word_length", "solved", "guesses", "record").
		Values(rec.ID, rec.StartedAtMs, ended, rec.WordLength, rec.Solved, len(rec.History), string(raw)).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *sessionRepo) GetSession(ctx context.Context, id string) (history.Record, error) {
	b := builder()
	query, args := b.Select("record").
		From(b.Table(sessionsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	var raw string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return history.Record{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return history.Record{}, fmt.Errorf("query session: %w", err)
	}
	return decodeRecord(raw)
}

func (r *sessionRepo) ListSessions(ctx context.Context, opts QueryOpts) ([]history.Record, error) {
	b := builder()
	sel := b.Select("record").From(b.Table(sessionsTable))
	var preds []*entsql.Predicate
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("started_at", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("started_at", opts.To.UnixMilli()))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(entsql.Desc("started_at"), entsql.Desc("id"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []history.Record
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func decodeRecord(raw string) (history.Record, error) {
	var rec history.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return history.Record{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return rec, nil
}
