// Package history holds the session data model shared by the recorder,
// the constraint tracker and the signal computer.
package history

import (
	"time"

	"github.com/abhisek/wordquest/internal/feedback"
)

// DefaultWordLength is used when a session is created without a length.
const DefaultWordLength = 5

// Guess is one submitted guess and the feedback it received.
type Guess struct {
	Letters  string
	Feedback []feedback.Status
	At       time.Time
}

// WellFormed reports whether the feedback row lines up with the letters
// and every letter is a-z. Malformed records carry no information for
// constraint tracking or signal computation.
func (g Guess) WellFormed() bool {
	if len(g.Letters) == 0 || len(g.Feedback) != len(g.Letters) {
		return false
	}
	for i := 0; i < len(g.Letters); i++ {
		if c := g.Letters[i]; c < 'a' || c > 'z' {
			return false
		}
	}
	for _, s := range g.Feedback {
		if !s.Valid() {
			return false
		}
	}
	return true
}

// Session is one round of play: created at game start, appended to once
// per guess and finalized once.
type Session struct {
	ID           string
	StartedAt    time.Time
	EndedAt      *time.Time
	TargetLength int
	Solved       bool
	History      []Guess
}

// Ended reports whether the session has been finalized.
func (s *Session) Ended() bool {
	return s.EndedAt != nil
}

// Prefix returns the first n guesses. n is clamped to the history length.
func (s *Session) Prefix(n int) []Guess {
	if n < 0 {
		n = 0
	}
	if n > len(s.History) {
		n = len(s.History)
	}
	return s.History[:n]
}

// Duration returns the elapsed time between start and end, or between
// start and now when the session is still open.
func (s *Session) Duration(now time.Time) time.Duration {
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	if end.Before(s.StartedAt) {
		return 0
	}
	return end.Sub(s.StartedAt)
}
