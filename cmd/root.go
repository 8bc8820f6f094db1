package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/wordquest/internal/config"
	"github.com/abhisek/wordquest/internal/logging"
	"github.com/abhisek/wordquest/internal/store"
)

var (
	cfgFile string
	cfg     = &config.Config{}
	logger  = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "wordquest",
	Short: "Word-guessing practice with reading diagnostics",
	Long: "WordQuest is a word-guessing game for young readers. Every round is " +
		"turned into diagnostic signals and skill evidence for literacy instruction.",
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default $XDG_CONFIG_HOME/wordquest/config.toml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides WORDQUEST_DB env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	addRoundFlags(rootCmd)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(signalsCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(evidenceCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// initConfig layers .env, the config file, WORDQUEST_* variables and
// flags, then builds the logger.
func initConfig(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	v := config.New()
	if err := config.ReadFile(v, cfgFile); err != nil {
		return err
	}
	flags := cmd.Root().PersistentFlags()
	if f := flags.Lookup("db"); f.Changed {
		v.Set("db.path", f.Value.String())
	}
	if f := flags.Lookup("log-level"); f.Changed {
		v.Set("log.level", f.Value.String())
	}

	loaded, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg = loaded

	logger, err = logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug().Str("file", used).Msg("using config file")
	}
	return nil
}

// resolveDBPath returns the database path using --db flag or db.path
// (highest priority), then WORDQUEST_DB env var, then the default XDG path.
func resolveDBPath() (string, error) {
	if p := cfg.DB.Path; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the configured database.
func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
