// Package feedback scores a guess against a hidden target word.
package feedback

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLengthMismatch is returned when guess and target lengths differ.
var ErrLengthMismatch = errors.New("guess length does not match target length")

// LengthMismatchError carries the offending lengths.
type LengthMismatchError struct {
	Guess  int
	Target int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("guess has %d letters, target has %d", e.Guess, e.Target)
}

func (e *LengthMismatchError) Unwrap() error { return ErrLengthMismatch }

// Evaluate scores guess against target with the two-pass algorithm:
//
// Pass 1 marks exact matches Correct and counts the target letters that
// were not matched.
//
// Pass 2 walks the remaining guess letters left to right; a letter with a
// remaining count is Present (consuming one instance), otherwise Absent.
//
// For every letter, Correct+Present never exceeds its count in target.
func Evaluate(guess, target string) ([]Status, error) {
	guess = strings.ToLower(guess)
	target = strings.ToLower(target)
	if len(guess) != len(target) {
		return nil, &LengthMismatchError{Guess: len(guess), Target: len(target)}
	}

	res := make([]Status, len(guess))
	var remaining [26]int

	for i := 0; i < len(guess); i++ {
		if guess[i] == target[i] {
			res[i] = Correct
			continue
		}
		if j, ok := letterIndex(target[i]); ok {
			remaining[j]++
		}
	}

	for i := 0; i < len(guess); i++ {
		if res[i] == Correct {
			continue
		}
		j, ok := letterIndex(guess[i])
		if ok && remaining[j] > 0 {
			res[i] = Present
			remaining[j]--
		} else {
			res[i] = Absent
		}
	}
	return res, nil
}

// Solved reports whether every position is Correct. An empty row is not
// a solve.
func Solved(row []Status) bool {
	if len(row) == 0 {
		return false
	}
	for _, s := range row {
		if s != Correct {
			return false
		}
	}
	return true
}

// Counts returns the number of Correct, Present and Absent marks in row.
func Counts(row []Status) (correct, present, absent int) {
	for _, s := range row {
		switch s {
		case Correct:
			correct++
		case Present:
			present++
		case Absent:
			absent++
		}
	}
	return correct, present, absent
}

func letterIndex(c byte) (int, bool) {
	if c < 'a' || c > 'z' {
		return 0, false
	}
	return int(c - 'a'), true
}
