// Package session records guesses into a session and finalizes it.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/wordquest/internal/feedback"
	"github.com/abhisek/wordquest/internal/history"
	"github.com/abhisek/wordquest/internal/signals"
)

var (
	// ErrNilSession is returned when an operation receives a nil session.
	ErrNilSession = errors.New("nil session")

	// ErrSessionEnded is returned when appending to or ending a session
	// that has already been finalized.
	ErrSessionEnded = errors.New("session already ended")

	// ErrDuplicateTurn is returned by AddTurn for a turn already recorded.
	ErrDuplicateTurn = errors.New("duplicate turn")

	// ErrOutOfOrder is returned by AddTurn when a turn skips ahead.
	ErrOutOfOrder = errors.New("turn out of order")
)

// Recorder owns the session lifecycle: create, append, end.
type Recorder struct {
	Now      func() time.Time
	NewID    func() string
	Computer *signals.Computer
}

// NewRecorder returns a Recorder using the wall clock and random UUIDs.
func NewRecorder(computer *signals.Computer) *Recorder {
	if computer == nil {
		computer = signals.NewComputer()
	}
	return &Recorder{
		Now:      time.Now,
		NewID:    func() string { return uuid.New().String() },
		Computer: computer,
	}
}

func (r *Recorder) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// Create starts a new session. Non-positive lengths default to
// history.DefaultWordLength.
func (r *Recorder) Create(targetLength int) *history.Session {
	if targetLength <= 0 {
		targetLength = history.DefaultWordLength
	}
	id := uuid.New().String()
	if r.NewID != nil {
		id = r.NewID()
	}
	return &history.Session{
		ID:           id,
		StartedAt:    r.now(),
		TargetLength: targetLength,
		History:      []history.Guess{},
	}
}

// AddGuess appends a timestamped copy of the guess. A feedback row that
// does not line up with the letters is stored as given.
func (r *Recorder) AddGuess(s *history.Session, letters string, fb []feedback.Status) error {
	if s == nil {
		return ErrNilSession
	}
	if s.Ended() {
		return ErrSessionEnded
	}

	at := r.now()
	if n := len(s.History); n > 0 && at.Before(s.History[n-1].At) {
		at = s.History[n-1].At
	}
	if at.Before(s.StartedAt) && len(s.History) == 0 {
		at = s.StartedAt
	}

	row := make([]feedback.Status, len(fb))
	copy(row, fb)
	s.History = append(s.History, history.Guess{
		Letters:  strings.ToLower(letters),
		Feedback: row,
		At:       at,
	})
	return nil
}

// AddTurn appends the guess for an explicit 1-based turn number, which
// must be exactly one past the last recorded turn.
func (r *Recorder) AddTurn(s *history.Session, turn int, letters string, fb []feedback.Status) error {
	if s == nil {
		return ErrNilSession
	}
	if s.Ended() {
		return ErrSessionEnded
	}
	next := len(s.History) + 1
	switch {
	case turn < next:
		return fmt.Errorf("turn %d: %w", turn, ErrDuplicateTurn)
	case turn > next:
		return fmt.Errorf("turn %d, expected %d: %w", turn, next, ErrOutOfOrder)
	}
	return r.AddGuess(s, letters, fb)
}

// End finalizes the session and computes its signal. A session can be
// ended once.
func (r *Recorder) End(s *history.Session, solved bool) (signals.Signal, error) {
	if s == nil {
		return signals.Signal{}, ErrNilSession
	}
	if s.Ended() {
		return signals.Signal{}, ErrSessionEnded
	}

	end := r.now()
	if end.Before(s.StartedAt) {
		end = s.StartedAt
	}
	if n := len(s.History); n > 0 && end.Before(s.History[n-1].At) {
		end = s.History[n-1].At
	}
	s.EndedAt = &end
	s.Solved = solved

	computer := r.Computer
	if computer == nil {
		computer = signals.NewComputer()
	}
	return computer.Compute(s), nil
}
