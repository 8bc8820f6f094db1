package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/wordquest/internal/wordpick"
)

// BagRepo implements wordpick.BagRepository with one row per scope.
type BagRepo struct {
	db *sql.DB
}

var _ wordpick.BagRepository = (*BagRepo)(nil)

func scopePredicate(scope wordpick.Scope) *entsql.Predicate {
	return entsql.And(
		entsql.EQ("source", string(scope.Source)),
		entsql.EQ("grade_band", scope.GradeBand),
		entsql.EQ("include_lower_bands", scope.IncludeLowerBands),
		entsql.EQ("word_length", scope.Length),
		entsql.EQ("phonics", scope.Phonics),
		entsql.EQ("pool", scope.Pool),
	)
}

func (r *BagRepo) LoadBag(ctx context.Context, scope wordpick.Scope) (wordpick.BagState, error) {
	b := builder()
	query, args := b.Select("queue", "last_word").
		From(b.Table(bagsTable)).
		Where(scopePredicate(scope)).
		Limit(1).
		Query()

	var raw, last string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&raw, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return wordpick.BagState{}, nil
	}
	if err != nil {
		return wordpick.BagState{}, fmt.Errorf("load bag %s: %w", scope, err)
	}

	var queue []string
	if err := json.Unmarshal([]byte(raw), &queue); err != nil {
		return wordpick.BagState{}, fmt.Errorf("decode bag %s: %w", scope, err)
	}
	return wordpick.BagState{Queue: queue, Last: last}, nil
}

func (r *BagRepo) SaveBag(ctx context.Context, scope wordpick.Scope, state wordpick.BagState) error {
	queue := state.Queue
	if queue == nil {
		queue = []string{}
	}
	raw, err := json.Marshal(queue)
	if err != nil {
		return fmt.Errorf("encode bag %s: %w", scope, err)
	}

	query, args := builder().Insert(bagsTable).
		Columns(append(slices.Clone(bagScopeColumns), "queue", "last_word", "updated_at")...).
		Values(string(scope.Source), scope.GradeBand, scope.IncludeLowerBands, scope.Length, scope.Phonics, scope.Pool, string(raw), state.Last, time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns(bagScopeColumns...),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save bag %s: %w", scope, err)
	}
	return nil
}
