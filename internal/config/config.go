// Package config loads WordQuest settings from defaults, an optional
// config file, .env files and WORDQUEST_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/abhisek/wordquest/internal/catalog"
)

// EnvPrefix prefixes every environment override, e.g. WORDQUEST_LOG_LEVEL.
const EnvPrefix = "WORDQUEST"

// Config is the full WordQuest configuration.
type Config struct {
	DB      DBConfig      `mapstructure:"db"`
	Log     LogConfig     `mapstructure:"log"`
	Game    GameConfig    `mapstructure:"game"`
	Skills  SkillsConfig  `mapstructure:"skills"`
	Student StudentConfig `mapstructure:"student"`
}

// DBConfig locates the SQLite database. An empty path means the default
// data directory.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

// GameConfig holds default round options.
type GameConfig struct {
	MaxGuesses  int      `mapstructure:"max_guesses"`
	GradeBand   string   `mapstructure:"grade_band"`
	Length      int      `mapstructure:"length"`
	Phonics     string   `mapstructure:"phonics"`
	TeacherPool []string `mapstructure:"teacher_pool"`
}

// SkillsConfig points at an external weight table. Empty uses the
// embedded default.
type SkillsConfig struct {
	Weights string `mapstructure:"weights"`
}

// StudentConfig identifies who the evidence belongs to.
type StudentConfig struct {
	ID string `mapstructure:"id"`
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers every key so environment overrides apply on
// Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("db.path", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("game.max_guesses", 6)
	v.SetDefault("game.grade_band", catalog.Any)
	v.SetDefault("game.length", 0)
	v.SetDefault("game.phonics", catalog.Any)
	v.SetDefault("game.teacher_pool", []string{})
	v.SetDefault("skills.weights", "")
	v.SetDefault("student.id", "local")
}

// ReadFile merges the config file at path into v. An empty path tries
// DefaultConfigPath and is a no-op when that file does not exist.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		def, err := DefaultConfigPath()
		if err != nil {
			return nil
		}
		if _, err := os.Stat(def); err != nil {
			return nil
		}
		path = def
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/wordquest/config.toml,
// falling back to ~/.config.
func DefaultConfigPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "wordquest", "config.toml"), nil
}

// LoadDotEnv loads each existing file into the process environment.
// Variables already set win. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "warn"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Game.MaxGuesses == 0 {
		cfg.Game.MaxGuesses = 6
	}
	if cfg.Game.GradeBand == "" {
		cfg.Game.GradeBand = catalog.Any
	}
	if cfg.Game.Phonics == "" {
		cfg.Game.Phonics = catalog.Any
	}
	if strings.TrimSpace(cfg.Student.ID) == "" {
		cfg.Student.ID = "local"
	}
}

// Validate checks values that would otherwise fail later at play time.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be console or json)", c.Log.Format)
	}

	if c.Game.MaxGuesses < 1 || c.Game.MaxGuesses > 12 {
		return fmt.Errorf("invalid max_guesses: %d (must be 1-12)", c.Game.MaxGuesses)
	}
	if c.Game.Length != 0 && (c.Game.Length < 2 || c.Game.Length > 12) {
		return fmt.Errorf("invalid length: %d (must be 0 or 2-12)", c.Game.Length)
	}
	if c.Game.GradeBand != catalog.Any {
		valid := false
		for _, b := range catalog.GradeBands() {
			if b == c.Game.GradeBand {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid grade_band: %s (must be %s or one of %s)",
				c.Game.GradeBand, catalog.Any, strings.Join(catalog.GradeBands(), ", "))
		}
	}
	return nil
}
