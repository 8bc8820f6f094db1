package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordquest/internal/history"
	"github.com/abhisek/wordquest/internal/signals"
	"github.com/abhisek/wordquest/internal/skillmap"
)

var signalsCmd = &cobra.Command{
	Use:   "signals [session-id]",
	Short: "Compute diagnostic signals for a session",
	Long: `Compute the diagnostic signals of a stored session, or of a session
record read from --file (use - for stdin). Records use the persisted
shape: {startedAtMs, endedAtMs, wordLength, solved, history:[{guess,
feedback, tMs}]}.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		withDeltas, _ := cmd.Flags().GetBool("deltas")

		var rec history.Record
		switch {
		case file != "" && len(args) > 0:
			return fmt.Errorf("use a session id or --file, not both")
		case file != "":
			var err error
			if rec, err = readRecord(cmd.InOrStdin(), file); err != nil {
				return err
			}
		case len(args) == 1:
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			if rec, err = st.SessionRepo().GetSession(cmd.Context(), args[0]); err != nil {
				return err
			}
		default:
			return fmt.Errorf("a session id or --file is required")
		}

		sig := signals.NewComputer().Compute(history.FromRecord(rec))

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if !withDeltas {
			return enc.Encode(sig)
		}
		mapper, err := loadMapper()
		if err != nil {
			return err
		}
		return enc.Encode(struct {
			Signal     signals.Signal    `json:"signal"`
			SkillDelta skillmap.Deltas   `json:"skillDelta"`
			Features   skillmap.Features `json:"features"`
		}{sig, mapper.Map(sig), skillmap.DeriveFeatures(sig)})
	},
}

func init() {
	signalsCmd.Flags().String("file", "", "Read a session record from a JSON file (- for stdin)")
	signalsCmd.Flags().Bool("deltas", false, "Also print skill deltas and features")
}

func readRecord(stdin io.Reader, path string) (history.Record, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return history.Record{}, fmt.Errorf("read session record: %w", err)
	}
	var rec history.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return history.Record{}, fmt.Errorf("parse session record: %w", err)
	}
	return rec, nil
}
