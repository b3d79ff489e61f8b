// Package config loads treeline's layered YAML configuration document,
// the ambient configuration stack SPEC_FULL.md adds atop the teacher's
// bare CLI-flag configuration: database tuning, storage directories, and
// embedding settings, each accepting "~"-relative paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jward/treeline/internal/errs"
)

const envVar = "TREELINE_CONFIG"

// Config is the full layered document.
type Config struct {
	Database  Database  `yaml:"database"`
	Storage   Storage   `yaml:"storage"`
	Embedding Embedding `yaml:"embedding"`
}

// Database groups the persistence layer's path and batch/retry tuning.
type Database struct {
	Path       string `yaml:"path"`
	BatchSize  int    `yaml:"batch_size"`
	MaxRetries int    `yaml:"max_retries"`
	RetryDelay string `yaml:"retry_delay"`
}

// RetryDelayDuration parses RetryDelay, defaulting to 25ms if it is empty
// or malformed — the store's own built-in default, kept here rather than
// failing a run over a config typo.
func (d Database) RetryDelayDuration() time.Duration {
	dur, err := time.ParseDuration(d.RetryDelay)
	if err != nil {
		return 25 * time.Millisecond
	}
	return dur
}

// Storage groups the directories treeline reads and writes outside the
// database itself.
type Storage struct {
	DataDir          string `yaml:"data_dir"`
	SessionsDir      string `yaml:"sessions_dir"`
	ParserResultsDir string `yaml:"parser_results_dir"`
	LogsDir          string `yaml:"logs_dir"`
}

// Embedding groups the settings handed to the embedding collaborator.
type Embedding struct {
	ModelPath string `yaml:"model_path"`
	MaxTokens int     `yaml:"max_tokens"`
}

func defaults() Config {
	return Config{
		Database: Database{
			Path:       "~/.treeline/treeline.db",
			BatchSize:  500,
			MaxRetries: 3,
			RetryDelay: "25ms",
		},
		Storage: Storage{
			DataDir:          "~/.treeline/data",
			SessionsDir:      "~/.treeline/sessions",
			ParserResultsDir: "~/.treeline/parser-results",
			LogsDir:          "~/.treeline/logs",
		},
		Embedding: Embedding{
			ModelPath: "",
			MaxTokens: 512,
		},
	}
}

// Path returns the configured file path: TREELINE_CONFIG if set, else
// ~/.treeline/config.yaml.
func Path() (string, error) {
	if p := os.Getenv(envVar); p != "" {
		return expandHome(p)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errs.Wrap(errs.KindConfiguration, "resolve home directory", err)
	}
	return filepath.Join(home, ".treeline", "config.yaml"), nil
}

// Load reads and parses the configuration document at Path(). A missing
// file is not an error: defaults are returned as-is, since the document is
// optional scaffolding, not a hard prerequisite, for every operation that
// accepts its own flags.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	cfg := defaults()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := expandAll(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.KindConfiguration, fmt.Sprintf("read config %q", path), err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errs.Wrap(errs.KindConfiguration, fmt.Sprintf("parse config %q", path), err)
	}
	if err := expandAll(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func expandAll(cfg *Config) error {
	fields := []*string{
		&cfg.Database.Path,
		&cfg.Storage.DataDir,
		&cfg.Storage.SessionsDir,
		&cfg.Storage.ParserResultsDir,
		&cfg.Storage.LogsDir,
		&cfg.Embedding.ModelPath,
	}
	for _, f := range fields {
		if *f == "" {
			continue
		}
		expanded, err := expandHome(*f)
		if err != nil {
			return err
		}
		*f = expanded
	}
	return nil
}

// expandHome replaces a leading "~" with the invoking user's home
// directory, per "all paths accept a leading ~".
func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errs.Wrap(errs.KindConfiguration, "resolve home directory", err)
	}
	if p == "~" {
		return home, nil
	}
	return filepath.Join(home, p[2:]), nil
}
