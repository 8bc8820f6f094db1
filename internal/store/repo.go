package store

import (
	"context"
	"time"

	"github.com/abhisek/wordquest/internal/history"
	"github.com/abhisek/wordquest/internal/skillmap"
)

// ProgressRetentionDays is how many distinct days of results are kept.
const ProgressRetentionDays = 90

// QueryOpts configures list queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	From  time.Time // timestamp >= From
	To    time.Time // timestamp <= To
}

// SessionRepo persists finished or abandoned sessions in their record shape.
type SessionRepo interface {
	// SaveSession inserts or replaces the session with rec.ID.
	SaveSession(ctx context.Context, rec history.Record) error

	// GetSession returns ErrNotFound when no session has the id.
	GetSession(ctx context.Context, id string) (history.Record, error)

	// ListSessions returns sessions newest first.
	ListSessions(ctx context.Context, opts QueryOpts) ([]history.Record, error)
}

// EvidenceRecord is a stored evidence row with its ordering metadata.
type EvidenceRecord struct {
	Sequence  int64
	SessionID string
	skillmap.Evidence
}

// SkillTotal aggregates the deltas recorded for one skill.
type SkillTotal struct {
	SkillID string
	Total   float64
	Count   int
}

// EvidenceRepo stores the skill evidence handed to the mastery model.
type EvidenceRepo interface {
	// AppendEvidence records ev for the session.
	AppendEvidence(ctx context.Context, sessionID string, ev skillmap.Evidence) error

	// ListEvidence returns a student's evidence newest first.
	ListEvidence(ctx context.Context, studentID string, opts QueryOpts) ([]EvidenceRecord, error)

	// SkillTotals sums a student's deltas per skill, ordered by skill id.
	SkillTotals(ctx context.Context, studentID string) ([]SkillTotal, error)
}

// Result is the outcome of one round for daily progress.
type Result struct {
	Word    string
	Won     bool
	Guesses int
	At      time.Time
}

// Day returns the UTC calendar day the result belongs to.
func (r Result) Day() string {
	return r.At.UTC().Format(time.DateOnly)
}

// DayProgress summarizes one day of play.
type DayProgress struct {
	Day   string
	Total int
	Wins  int
}

// ProgressRepo tracks per-day results.
type ProgressRepo interface {
	// RecordResult appends a result and prunes days beyond the retention window.
	RecordResult(ctx context.Context, r Result) error

	// Progress returns up to days most recent days, newest first.
	Progress(ctx context.Context, days int) ([]DayProgress, error)

	// PruneProgress deletes all but the keep most recent days.
	PruneProgress(ctx context.Context, keep int) error
}
