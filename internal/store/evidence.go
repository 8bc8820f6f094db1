package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/wordquest/internal/skillmap"
)

// evidenceRepo implements EvidenceRepo. Each evidence record is one row
// in skill_evidence plus one skill_deltas row per skill, joined by
// sequence.
type evidenceRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *evidenceRepo) AppendEvidence(ctx context.Context, sessionID string, ev skillmap.Evidence) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	features, err := json.Marshal(ev.Features)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin evidence: %w", err)
	}
	defer tx.Rollback()

	b := builder()
	query, args := b.Insert(evidenceTable).
		Columns("sequence", "session_id", "student_id", "source", "created_at", "features").
		Values(seqNum, sessionID, ev.StudentID, ev.Source, ev.CreatedAt.UnixMilli(), string(features)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save evidence: %w", err)
	}

	if ids := ev.SkillDelta.SkillIDs(); len(ids) > 0 {
		ins := b.Insert(deltasTable).Columns("sequence", "student_id", "skill_id", "delta")
		for _, id := range ids {
			ins.Values(seqNum, ev.StudentID, id, ev.SkillDelta[id])
		}
		query, args = ins.Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("save skill deltas: %w", err)
		}
	}
	return tx.Commit()
}

func (r *evidenceRepo) ListEvidence(ctx context.Context, studentID string, opts QueryOpts) ([]EvidenceRecord, error) {
	b := builder()
	preds := []*entsql.Predicate{entsql.EQ("student_id", studentID)}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("created_at", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("created_at", opts.To.UnixMilli()))
	}
	sel := b.Select("sequence", "session_id", "source", "created_at", "features").
		From(b.Table(evidenceTable)).
		Where(entsql.And(preds...)).
		OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query evidence: %w", err)
	}
	var (
		out   []EvidenceRecord
		index = make(map[int64]int)
	)
	for rows.Next() {
		var (
			rec      EvidenceRecord
			created  int64
			features string
		)
		if err := rows.Scan(&rec.Sequence, &rec.SessionID, &rec.Source, &created, &features); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan evidence: %w", err)
		}
		rec.StudentID = studentID
		rec.CreatedAt = time.UnixMilli(created).UTC()
		if err := json.Unmarshal([]byte(features), &rec.Features); err != nil {
			rows.Close()
			return nil, fmt.Errorf("unmarshal features: %w", err)
		}
		rec.SkillDelta = skillmap.Deltas{}
		index[rec.Sequence] = len(out)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(out) == 0 {
		return out, nil
	}
	seqs := make([]any, 0, len(out))
	for _, rec := range out {
		seqs = append(seqs, rec.Sequence)
	}
	query, args = b.Select("sequence", "skill_id", "delta").
		From(b.Table(deltasTable)).
		Where(entsql.In("sequence", seqs...)).
		Query()
	drows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query skill deltas: %w", err)
	}
	defer drows.Close()
	for drows.Next() {
		var (
			seq   int64
			skill string
			delta float64
		)
		if err := drows.Scan(&seq, &skill, &delta); err != nil {
			return nil, fmt.Errorf("scan skill delta: %w", err)
		}
		if i, ok := index[seq]; ok {
			out[i].SkillDelta[skill] = delta
		}
	}
	return out, drows.Err()
}

func (r *evidenceRepo) SkillTotals(ctx context.Context, studentID string) ([]SkillTotal, error) {
	b := builder()
	query, args := b.Select("skill_id", entsql.As(entsql.Sum("delta"), "total"), entsql.As(entsql.Count("*"), "n")).
		From(b.Table(deltasTable)).
		Where(entsql.EQ("student_id", studentID)).
		GroupBy("skill_id").
		OrderBy("skill_id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query skill totals: %w", err)
	}
	defer rows.Close()

	var out []SkillTotal
	for rows.Next() {
		var t SkillTotal
		if err := rows.Scan(&t.SkillID, &t.Total, &t.Count); err != nil {
			return nil, fmt.Errorf("scan skill total: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
