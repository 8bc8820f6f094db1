// Package skillmap converts session signals into bounded per-skill deltas
// against a fixed skill taxonomy.
package skillmap

import (
	"math"
	"sort"
	"time"

	"github.com/abhisek/wordquest/internal/signals"
)

// Delta bounds.
const (
	MinDelta = -2.0
	MaxDelta = 2.0
)

// EvidenceSource tags evidence produced by this game.
const EvidenceSource = "wordquest"

// Deltas maps skill ids to signed evidence in [MinDelta, MaxDelta].
type Deltas map[string]float64

// SkillIDs returns the keys in sorted order.
func (d Deltas) SkillIDs() []string {
	ids := make([]string, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Evidence is the record handed to the mastery model.
type Evidence struct {
	StudentID  string    `json:"studentId"`
	CreatedAt  time.Time `json:"createdAt"`
	Source     string    `json:"source"`
	SkillDelta Deltas    `json:"skillDelta"`
	Features   Features  `json:"features"`
}

// Mapper applies a weight table to signals.
type Mapper struct {
	table *Table
}

// NewMapper returns a Mapper for table, or for the embedded default table
// when table is nil.
func NewMapper(table *Table) *Mapper {
	if table == nil {
		table = DefaultTable()
	}
	return &Mapper{table: table}
}

// Table returns the weight table in use.
func (m *Mapper) Table() *Table { return m.table }

// Map returns the skill deltas for sig.
func (m *Mapper) Map(sig signals.Signal) Deltas {
	return m.mapFeatures(DeriveFeatures(sig))
}

func (m *Mapper) mapFeatures(features Features) Deltas {
	sums := make(map[string]float64)
	for _, f := range AllFeatures() {
		weights, ok := m.table.Weights[f]
		if !ok {
			continue
		}
		value := features[f]
		ids := make([]string, 0, len(weights))
		for id := range weights {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if _, known := SkillByID(id); !known {
				continue
			}
			sums[id] += weights[id] * value
		}
	}

	out := make(Deltas, len(sums))
	for id, v := range sums {
		out[id] = round3(clamp(v, MinDelta, MaxDelta))
	}
	return out
}

// Evidence builds the evidence record for one finished session.
func (m *Mapper) Evidence(studentID string, sig signals.Signal, at time.Time) Evidence {
	features := DeriveFeatures(sig)
	return Evidence{
		StudentID:  studentID,
		CreatedAt:  at.UTC(),
		Source:     EvidenceSource,
		SkillDelta: m.mapFeatures(features),
		Features:   features,
	}
}

func round3(v float64) float64 {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		return 0 // normalize -0
	}
	return r
}
