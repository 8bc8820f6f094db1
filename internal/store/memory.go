package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/abhisek/wordquest/internal/history"
	"github.com/abhisek/wordquest/internal/skillmap"
)

// Memory is an in-process implementation of SessionRepo, EvidenceRepo and
// ProgressRepo. Concurrency-safe; state is lost when the process exits.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]history.Record
	evidence []EvidenceRecord
	results  []Result
	seq      int64
}

var (
	_ SessionRepo  = (*Memory)(nil)
	_ EvidenceRepo = (*Memory)(nil)
	_ ProgressRepo = (*Memory)(nil)
)

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]history.Record)}
}

func (m *Memory) SaveSession(_ context.Context, rec history.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("save session: missing id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[rec.ID] = rec
	return nil
}

func (m *Memory) GetSession(_ context.Context, id string) (history.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.sessions[id]
	if !ok {
		return history.Record{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return rec, nil
}

func (m *Memory) ListSessions(_ context.Context, opts QueryOpts) ([]history.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []history.Record
	for _, rec := range m.sessions {
		if !opts.From.IsZero() && rec.StartedAtMs < opts.From.UnixMilli() {
			continue
		}
		if !opts.To.IsZero() && rec.StartedAtMs > opts.To.UnixMilli() {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAtMs != out[j].StartedAtMs {
			return out[i].StartedAtMs > out[j].StartedAtMs
		}
		return out[i].ID > out[j].ID
	})
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *Memory) AppendEvidence(_ context.Context, sessionID string, ev skillmap.Evidence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	deltas := make(skillmap.Deltas, len(ev.SkillDelta))
	for k, v := range ev.SkillDelta {
		deltas[k] = v
	}
	ev.SkillDelta = deltas
	m.evidence = append(m.evidence, EvidenceRecord{Sequence: m.seq, SessionID: sessionID, Evidence: ev})
	return nil
}

func (m *Memory) ListEvidence(_ context.Context, studentID string, opts QueryOpts) ([]EvidenceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []EvidenceRecord
	for i := len(m.evidence) - 1; i >= 0; i-- {
		rec := m.evidence[i]
		if rec.StudentID != studentID {
			continue
		}
		if !opts.From.IsZero() && rec.CreatedAt.Before(opts.From) {
			continue
		}
		if !opts.To.IsZero() && rec.CreatedAt.After(opts.To) {
			continue
		}
		out = append(out, rec)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}

func (m *Memory) SkillTotals(_ context.Context, studentID string) ([]SkillTotal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	totals := make(map[string]*SkillTotal)
	for _, rec := range m.evidence {
		if rec.StudentID != studentID {
			continue
		}
		for id, d := range rec.SkillDelta {
			t, ok := totals[id]
			if !ok {
				t = &SkillTotal{SkillID: id}
				totals[id] = t
			}
			t.Total += d
			t.Count++
		}
	}
	out := make([]SkillTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SkillID < out[j].SkillID })
	return out, nil
}

func (m *Memory) RecordResult(ctx context.Context, r Result) error {
	m.mu.Lock()
	m.results = append(m.results, r)
	m.mu.Unlock()
	return m.PruneProgress(ctx, ProgressRetentionDays)
}

func (m *Memory) Progress(_ context.Context, days int) ([]DayProgress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byDay := make(map[string]*DayProgress)
	for _, r := range m.results {
		d, ok := byDay[r.Day()]
		if !ok {
			d = &DayProgress{Day: r.Day()}
			byDay[r.Day()] = d
		}
		d.Total++
		if r.Won {
			d.Wins++
		}
	}
	out := make([]DayProgress, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day > out[j].Day })
	if days > 0 && len(out) > days {
		out = out[:days]
	}
	return out, nil
}

func (m *Memory) PruneProgress(_ context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool)
	var days []string
	for _, r := range m.results {
		if !seen[r.Day()] {
			seen[r.Day()] = true
			days = append(days, r.Day())
		}
	}
	if len(days) <= keep {
		return nil
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	threshold := days[keep]

	kept := m.results[:0]
	for _, r := range m.results {
		if r.Day() > threshold {
			kept = append(kept, r)
		}
	}
	m.results = kept
	return nil
}
