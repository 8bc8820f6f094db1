package skillmap

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wordquest/internal/signals"
)

func solvedInTwo() signals.Signal {
	return signals.Signal{
		Guesses:       2,
		Solved:        true,
		UniqueLetters: 6,
		AbsentRate:    0.1,
	}
}

func TestTaxonomy(t *testing.T) {
	require.NoError(t, validateTaxonomy(seedSkills))
	assert.Len(t, Skills(), 10)

	s, ok := SkillByID("decoding.long_vowels")
	require.True(t, ok)
	assert.Equal(t, "Long Vowels / Silent-e", s.Label)
	assert.Equal(t, DomainDecoding, s.Domain)

	for _, d := range AllDomains() {
		assert.NotEmptyf(t, SkillsByDomain(d), "domain %s", d)
	}
}

func TestValidateTaxonomy_Errors(t *testing.T) {
	bad := append(Skills(),
		Skill{ID: "decoding.short_vowels", Domain: DomainDecoding},
		Skill{ID: "art.color", Domain: Domain("art")},
	)
	err := validateTaxonomy(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate skill ID: "decoding.short_vowels"`)
	assert.Contains(t, err.Error(), `unknown domain "art"`)

	err = validateTaxonomy(Skills()[:2])
	require.Error(t, err)
	assert.Contains(t, err.Error(), `domain "numeracy" has no skills`)
}

func TestDeriveFeatures(t *testing.T) {
	f := DeriveFeatures(solvedInTwo())
	assert.Equal(t, 0.0, f[FeatureVowelConfusion])
	assert.Equal(t, 0.0, f[FeatureRepeatSameSlot])
	assert.Equal(t, 1.0, f[FeatureGuessEfficiency])
	assert.Equal(t, 1.0, f[FeatureCorrection])
	assert.InDelta(t, 0.03, f[FeatureOrthographicMiss], 1e-9)
	assert.Equal(t, 0.0, f[FeatureMorphologyHintUsed])
}

func TestDeriveFeatures_ZeroGuessesStayFinite(t *testing.T) {
	f := DeriveFeatures(signals.Signal{AffixAttempts: 3, VowelSwaps: 4, ConstraintViolations: 9})
	for name, v := range f {
		assert.GreaterOrEqualf(t, v, 0.0, "%s", name)
		assert.LessOrEqualf(t, v, 1.0, "%s", name)
	}
	assert.Equal(t, 1.0, f[FeatureMorphologyHintUsed])
}

func TestMap_DefaultTable(t *testing.T) {
	d := NewMapper(nil).Map(solvedInTwo())

	assert.InDelta(t, -0.015, d["decoding.short_vowels"], 1e-9)
	assert.InDelta(t, 0.576, d["decoding.long_vowels"], 1e-9)
	assert.InDelta(t, 1.667, d["orthography.pattern_control"], 1e-9)
	assert.InDelta(t, 1.0, d["fluency.pacing"], 1e-9)
	assert.Equal(t, 0.0, d["morphology.inflectional"])
	assert.NotContains(t, d, "numeracy.fact_fluency")
}

func TestMap_ClampsToBounds(t *testing.T) {
	table, err := ParseTable([]byte(`{
		"version": "v1.0.0",
		"taxonomy_version": "v1.0.0",
		"weights": {
			"guess_efficiency": {"fluency.pacing": 5, "writing.elaboration": -5},
			"correction_after_feedback": {"fluency.pacing": 5, "writing.elaboration": -5}
		}
	}`), FormatJSON, "test")
	require.NoError(t, err)

	d := NewMapper(table).Map(solvedInTwo())
	assert.Equal(t, MaxDelta, d["fluency.pacing"])
	assert.Equal(t, MinDelta, d["writing.elaboration"])
	for _, v := range d {
		assert.GreaterOrEqual(t, v, MinDelta)
		assert.LessOrEqual(t, v, MaxDelta)
	}
}

func TestMap_UnknownSkillsSkipped(t *testing.T) {
	table, err := ParseTable([]byte(`{
		"version": "v1.3.0",
		"taxonomy_version": "v1.0.0",
		"weights": {"guess_efficiency": {"fluency.pacing": 1, "decoding.made_up": 1}}
	}`), FormatJSON, "test")
	require.NoError(t, err)

	assert.Equal(t, []string{"decoding.made_up"}, table.UnknownSkills())
	d := NewMapper(table).Map(solvedInTwo())
	assert.NotContains(t, d, "decoding.made_up")
	assert.Equal(t, 1.0, d["fluency.pacing"])
	assert.True(t, table.Newer(DefaultTable()))
}

func TestParseTable_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown feature", `{"version":"v1.0.0","taxonomy_version":"v1.0.0","weights":{"made_up":{"fluency.pacing":1}}}`, `unknown feature "made_up"`},
		{"taxonomy major mismatch", `{"version":"v1.0.0","taxonomy_version":"v2.0.0","weights":{"guess_efficiency":{"fluency.pacing":1}}}`, "does not match compiled taxonomy"},
		{"version not semver", `{"version":"1.0","taxonomy_version":"v1.0.0","weights":{"guess_efficiency":{"fluency.pacing":1}}}`, "schema validation failed"},
		{"missing weights", `{"version":"v1.0.0","taxonomy_version":"v1.0.0"}`, "schema validation failed"},
		{"non-numeric weight", `{"version":"v1.0.0","taxonomy_version":"v1.0.0","weights":{"guess_efficiency":{"fluency.pacing":"high"}}}`, "schema validation failed"},
		{"not json", `{`, "invalid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTable([]byte(tt.body), FormatJSON, "inline")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTable))
			var te *TableError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, "inline", te.Source)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadTable_Formats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"weights.toml": `version = "v1.1.0"
taxonomy_version = "v1.0.0"

[weights.guess_efficiency]
"fluency.pacing" = 0.5
`,
		"weights.yaml": `version: v1.1.0
taxonomy_version: v1.0.0
weights:
  guess_efficiency:
    fluency.pacing: 0.5
`,
		"weights.json": `{"version":"v1.1.0","taxonomy_version":"v1.0.0","weights":{"guess_efficiency":{"fluency.pacing":0.5}}}`,
	}
	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

			table, err := LoadTable(path)
			require.NoError(t, err)
			assert.Equal(t, "v1.1.0", table.Version)
			assert.Equal(t, 0.5, table.Weights[FeatureGuessEfficiency]["fluency.pacing"])

			d := NewMapper(table).Map(solvedInTwo())
			assert.Equal(t, 0.5, d["fluency.pacing"])
		})
	}
}

func TestLoadTable_Errors(t *testing.T) {
	_, err := LoadTable("weights.ini")
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = LoadTable(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEvidence(t *testing.T) {
	at := time.Date(2026, 4, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	ev := NewMapper(nil).Evidence("stu-1", solvedInTwo(), at)

	assert.Equal(t, "stu-1", ev.StudentID)
	assert.Equal(t, EvidenceSource, ev.Source)
	assert.Equal(t, time.UTC, ev.CreatedAt.Location())
	assert.Equal(t, 1.0, ev.Features[FeatureCorrection])
	assert.InDelta(t, 1.667, ev.SkillDelta["orthography.pattern_control"], 1e-9)
}

func TestDefaultTableHasNoUnknownSkills(t *testing.T) {
	assert.Empty(t, DefaultTable().UnknownSkills())
}
