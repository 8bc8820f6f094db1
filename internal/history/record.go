package history

import (
	"strings"
	"time"

	"github.com/abhisek/wordquest/internal/feedback"
)

// Record is the persisted shape of a session. Timestamps are Unix
// milliseconds so the payload stays readable by older clients.
type Record struct {
	ID          string        `json:"id,omitempty"`
	StartedAtMs int64         `json:"startedAtMs"`
	EndedAtMs   *int64        `json:"endedAtMs"`
	WordLength  int           `json:"wordLength"`
	Solved      bool          `json:"solved"`
	History     []GuessRecord `json:"history"`
}

// GuessRecord is the persisted shape of a Guess.
type GuessRecord struct {
	Guess    string            `json:"guess"`
	Feedback []feedback.Status `json:"feedback"`
	TMs      int64             `json:"tMs"`
}

// ToRecord converts a session into its persisted shape.
func ToRecord(s *Session) Record {
	rec := Record{
		ID:          s.ID,
		StartedAtMs: s.StartedAt.UnixMilli(),
		WordLength:  s.TargetLength,
		Solved:      s.Solved,
		History:     make([]GuessRecord, 0, len(s.History)),
	}
	if s.EndedAt != nil {
		ms := s.EndedAt.UnixMilli()
		rec.EndedAtMs = &ms
	}
	for _, g := range s.History {
		fb := make([]feedback.Status, len(g.Feedback))
		copy(fb, g.Feedback)
		rec.History = append(rec.History, GuessRecord{
			Guess:    g.Letters,
			Feedback: fb,
			TMs:      g.At.UnixMilli(),
		})
	}
	return rec
}

// FromRecord rebuilds a session from its persisted shape. Guess letters
// are lowercased; older payloads stored them uppercase.
func FromRecord(rec Record) *Session {
	s := &Session{
		ID:           rec.ID,
		StartedAt:    time.UnixMilli(rec.StartedAtMs).UTC(),
		TargetLength: rec.WordLength,
		Solved:       rec.Solved,
		History:      make([]Guess, 0, len(rec.History)),
	}
	if s.TargetLength <= 0 {
		s.TargetLength = DefaultWordLength
	}
	if rec.EndedAtMs != nil {
		end := time.UnixMilli(*rec.EndedAtMs).UTC()
		s.EndedAt = &end
	}
	for _, g := range rec.History {
		fb := make([]feedback.Status, len(g.Feedback))
		copy(fb, g.Feedback)
		s.History = append(s.History, Guess{
			Letters:  strings.ToLower(g.Guess),
			Feedback: fb,
			At:       time.UnixMilli(g.TMs).UTC(),
		})
	}
	return s
}
