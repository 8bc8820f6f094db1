// Package constraint derives letter constraints from a guess history and
// scores how well a candidate respects them.
package constraint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/wordquest/internal/feedback"
	"github.com/abhisek/wordquest/internal/history"
)

// Set is the constraint set implied by a history prefix. It is derived on
// demand and never stored.
type Set struct {
	MustPosition    map[int]byte
	ExcludedAt      map[int]LetterSet
	AvoidGlobally   LetterSet
	IncludeGlobally LetterSet
}

// Rule identifies which constraint a candidate broke.
type Rule string

const (
	RuleMustPosition Rule = "must_position"
	RuleExcludedAt   Rule = "excluded_at"
	RuleAvoid        Rule = "avoid"
)

// Violation is a single broken constraint.
type Violation struct {
	Rule     Rule
	Position int
	Letter   byte
	// Want is the required letter for RuleMustPosition, zero otherwise.
	Want byte
}

func (v Violation) String() string {
	switch v.Rule {
	case RuleMustPosition:
		if v.Letter == 0 {
			return fmt.Sprintf("slot %d must be %c (missing)", v.Position+1, v.Want)
		}
		return fmt.Sprintf("slot %d must be %c, got %c", v.Position+1, v.Want, v.Letter)
	case RuleExcludedAt:
		return fmt.Sprintf("%c already ruled out at slot %d", v.Letter, v.Position+1)
	case RuleAvoid:
		return fmt.Sprintf("%c is not in the word (slot %d)", v.Letter, v.Position+1)
	default:
		return string(v.Rule)
	}
}

func newSet() Set {
	return Set{
		MustPosition: make(map[int]byte),
		ExcludedAt:   make(map[int]LetterSet),
	}
}

// Build derives the constraint set from a history prefix. Malformed
// records are skipped.
func Build(prefix []history.Guess) Set {
	c := newSet()
	for _, g := range prefix {
		c.apply(g)
	}
	return c
}

// apply folds one record into the set. Confirmations are applied before
// absences so an Absent never bans a letter the same guess confirmed.
func (c *Set) apply(g history.Guess) {
	if !g.WellFormed() {
		return
	}
	for i, st := range g.Feedback {
		l := g.Letters[i]
		switch st {
		case feedback.Correct:
			c.MustPosition[i] = l
			c.IncludeGlobally = c.IncludeGlobally.With(l)
		case feedback.Present:
			c.ExcludedAt[i] = c.ExcludedAt[i].With(l)
			c.IncludeGlobally = c.IncludeGlobally.With(l)
		}
	}
	for i, st := range g.Feedback {
		l := g.Letters[i]
		if st == feedback.Absent && !c.IncludeGlobally.Has(l) {
			c.AvoidGlobally = c.AvoidGlobally.With(l)
		}
	}
}

// Empty reports whether the set carries no constraints.
func (c Set) Empty() bool {
	return len(c.MustPosition) == 0 && len(c.ExcludedAt) == 0 &&
		c.AvoidGlobally == 0 && c.IncludeGlobally == 0
}

// Clone returns a deep copy.
func (c Set) Clone() Set {
	out := newSet()
	for k, v := range c.MustPosition {
		out.MustPosition[k] = v
	}
	for k, v := range c.ExcludedAt {
		out.ExcludedAt[k] = v
	}
	out.AvoidGlobally = c.AvoidGlobally
	out.IncludeGlobally = c.IncludeGlobally
	return out
}

// Covers reports whether c is at least as strict as other: every
// constraint in other is also present in c.
func (c Set) Covers(other Set) bool {
	for pos, l := range other.MustPosition {
		if got, ok := c.MustPosition[pos]; !ok || got != l {
			return false
		}
	}
	for pos, ex := range other.ExcludedAt {
		if !c.ExcludedAt[pos].Contains(ex) {
			return false
		}
	}
	return c.AvoidGlobally.Contains(other.AvoidGlobally) &&
		c.IncludeGlobally.Contains(other.IncludeGlobally)
}

// Violations walks the candidate against the set and returns every broken
// constraint, ordered by rule then position.
func Violations(candidate string, c Set) []Violation {
	v, _ := walk(strings.ToLower(candidate), c)
	return v
}

// Respect scores a candidate in [0,1]: one minus the share of failed
// checks. Every MustPosition entry is a check; excluded-slot and avoided
// letters in the candidate each add a failed check. No checks scores 1.
func Respect(candidate string, c Set) float64 {
	v, checks := walk(strings.ToLower(candidate), c)
	if checks == 0 {
		return 1
	}
	return 1 - float64(len(v))/float64(checks)
}

func walk(candidate string, c Set) ([]Violation, int) {
	var out []Violation
	checks := 0

	positions := make([]int, 0, len(c.MustPosition))
	for pos := range c.MustPosition {
		positions = append(positions, pos)
	}
	sort.Ints(positions)
	for _, pos := range positions {
		want := c.MustPosition[pos]
		checks++
		var got byte
		if pos < len(candidate) {
			got = candidate[pos]
		}
		if got != want {
			out = append(out, Violation{Rule: RuleMustPosition, Position: pos, Letter: got, Want: want})
		}
	}

	for i := 0; i < len(candidate); i++ {
		if c.ExcludedAt[i].Has(candidate[i]) {
			checks++
			out = append(out, Violation{Rule: RuleExcludedAt, Position: i, Letter: candidate[i]})
		}
	}

	for i := 0; i < len(candidate); i++ {
		if c.AvoidGlobally.Has(candidate[i]) {
			checks++
			out = append(out, Violation{Rule: RuleAvoid, Position: i, Letter: candidate[i]})
		}
	}
	return out, checks
}

// Describe renders the set as short human-readable lines.
func (c Set) Describe() []string {
	var lines []string
	if len(c.MustPosition) > 0 {
		pattern := make([]byte, 0, 12)
		maxPos := 0
		for pos := range c.MustPosition {
			if pos > maxPos {
				maxPos = pos
			}
		}
		for i := 0; i <= maxPos; i++ {
			if l, ok := c.MustPosition[i]; ok {
				pattern = append(pattern, l)
			} else {
				pattern = append(pattern, '_')
			}
		}
		lines = append(lines, "fixed: "+string(pattern))
	}
	if len(c.ExcludedAt) > 0 {
		positions := make([]int, 0, len(c.ExcludedAt))
		for pos := range c.ExcludedAt {
			positions = append(positions, pos)
		}
		sort.Ints(positions)
		parts := make([]string, 0, len(positions))
		for _, pos := range positions {
			parts = append(parts, fmt.Sprintf("%d:%s", pos+1, c.ExcludedAt[pos]))
		}
		lines = append(lines, "not at: "+strings.Join(parts, " "))
	}
	if c.IncludeGlobally != 0 {
		lines = append(lines, "includes: "+c.IncludeGlobally.String())
	}
	if c.AvoidGlobally != 0 {
		lines = append(lines, "avoid: "+c.AvoidGlobally.String())
	}
	return lines
}
