package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wordquest/internal/feedback"
	"github.com/abhisek/wordquest/internal/signals"
)

// execute runs the root command against an isolated config and database.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	if os.Getenv("WORDQUEST_DB_PATH") == "" {
		t.Setenv("WORDQUEST_DB_PATH", filepath.Join(dir, "wordquest.db"))
	}
	t.Setenv("WORDQUEST_LOG_LEVEL", "error")

	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores defaults; cobra keeps flag values between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestEval_JSON(t *testing.T) {
	out, err := execute(t, "", "eval", "CRANE", "crate", "--json")
	require.NoError(t, err)

	var got struct {
		Guess    string            `json:"guess"`
		Feedback []feedback.Status `json:"feedback"`
		Solved   bool              `json:"solved"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "crane", got.Guess)
	assert.False(t, got.Solved)
	assert.Equal(t, []feedback.Status{
		feedback.Correct, feedback.Correct, feedback.Correct, feedback.Absent, feedback.Correct,
	}, got.Feedback)
}

func TestEval_LengthMismatch(t *testing.T) {
	_, err := execute(t, "", "eval", "cat", "crate")
	assert.ErrorIs(t, err, feedback.ErrLengthMismatch)
}

func TestParseGuessArg(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		target  string
		want    []feedback.Status
		wantErr bool
	}{
		{
			name: "explicit statuses",
			arg:  "crane=correct,correct,correct,absent,correct",
			want: []feedback.Status{feedback.Correct, feedback.Correct, feedback.Correct, feedback.Absent, feedback.Correct},
		},
		{
			name: "colour names",
			arg:  "Tab=green yellow gray",
			want: []feedback.Status{feedback.Correct, feedback.Present, feedback.Absent},
		},
		{
			name:   "scored against target",
			arg:    "crane",
			target: "crate",
			want:   []feedback.Status{feedback.Correct, feedback.Correct, feedback.Correct, feedback.Absent, feedback.Correct},
		},
		{name: "no feedback", arg: "crane", wantErr: true},
		{name: "status count mismatch", arg: "crane=correct,absent", wantErr: true},
		{name: "unknown status", arg: "cab=correct,blue,absent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGuessArg(tt.arg, tt.target)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.ToLower(strings.SplitN(tt.arg, "=", 2)[0]), got.Letters)
			assert.Equal(t, tt.want, got.Feedback)
		})
	}
}

func TestCheck(t *testing.T) {
	out, err := execute(t, "", "check", "crate", "--guess", "crane=green,green,green,gray,green")
	require.NoError(t, err)
	assert.Contains(t, out, "respect: 1.000")
}

func TestSignals_FromFile(t *testing.T) {
	rec := `{
		"startedAtMs": 1000,
		"endedAtMs": 61000,
		"wordLength": 5,
		"solved": true,
		"history": [
			{"guess": "crane", "feedback": ["correct","correct","correct","absent","correct"], "tMs": 11000},
			{"guess": "crate", "feedback": ["correct","correct","correct","correct","correct"], "tMs": 31000}
		]
	}`
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(rec), 0o600))

	out, err := execute(t, "", "signals", "--file", path)
	require.NoError(t, err)

	var sig signals.Signal
	require.NoError(t, json.Unmarshal([]byte(out), &sig))
	assert.True(t, sig.Solved)
	assert.Equal(t, 2, sig.Guesses)
	assert.Equal(t, 60, sig.DurationSec)
	assert.Equal(t, 10, sig.TimeToFirstGuessSec)
}

func TestSignals_UnknownStatusIsMalformed(t *testing.T) {
	rec := `{
		"startedAtMs": 1000,
		"endedAtMs": 61000,
		"wordLength": 5,
		"solved": true,
		"history": [
			{"guess": "crane", "feedback": ["correct","blue","correct","absent","correct"], "tMs": 11000},
			{"guess": "crate", "feedback": ["correct","correct","correct","correct","correct"], "tMs": 31000}
		]
	}`

	out, err := execute(t, rec, "signals", "--file", "-")
	require.NoError(t, err)

	var sig signals.Signal
	require.NoError(t, json.Unmarshal([]byte(out), &sig))
	assert.Equal(t, 2, sig.Guesses)
	assert.Equal(t, 1, sig.Malformed)
	assert.True(t, sig.Solved)
}

func TestSignals_NeedsInput(t *testing.T) {
	_, err := execute(t, "", "signals")
	assert.Error(t, err)
}

func TestPlay_RecordsRound(t *testing.T) {
	t.Setenv("WORDQUEST_DB_PATH", filepath.Join(t.TempDir(), "play.db"))

	out, err := execute(t, "crane\n\ncrate\n", "play", "--words", "crate")
	require.NoError(t, err)
	assert.Contains(t, out, "Guess the 5-letter word.")
	assert.Contains(t, out, "Solved CRATE in 2!")
	assert.Contains(t, out, "Focus:")

	out, err = execute(t, "", "sessions")
	require.NoError(t, err)
	assert.NotContains(t, out, "No sessions recorded yet.")
	assert.Contains(t, out, "✓")

	out, err = execute(t, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "1 rounds over 1 days, 1 won")

	out, err = execute(t, "", "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Learner data reset.")

	out, err = execute(t, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "No rounds played yet.")
}

func TestPlay_InputRunsOutGivesUp(t *testing.T) {
	out, err := execute(t, "slate\n", "play", "--words", "crate", "--ephemeral")
	require.NoError(t, err)
	assert.Contains(t, out, "The word was CRATE.")
	assert.Contains(t, out, "Focus:")
}

func TestGuessInput_AppendsEOT(t *testing.T) {
	data, err := io.ReadAll(guessInput(strings.NewReader("crane\n")))
	require.NoError(t, err)
	assert.Equal(t, "crane\n\x04", string(data))
}

func TestReset_Aborts(t *testing.T) {
	out, err := execute(t, "n\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")
}

func TestSkillsList(t *testing.T) {
	out, err := execute(t, "", "skills", "list", "--domain", "decoding")
	require.NoError(t, err)
	assert.Contains(t, out, "decoding.short_vowels")
	assert.NotContains(t, out, "numeracy.fact_fluency")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "wordquest "))
}
