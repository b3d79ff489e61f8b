// Command treeline is the CLI surface over the indexing engine: two
// commands matter, `index` for a full directory index and `reindex` for
// the incremental reconciler (§6.4). Everything here is thin: it resolves
// flags and configuration, opens the store, and hands off to
// internal/engine and internal/reconcile, printing the resulting stats.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jward/treeline/internal/config"
	"github.com/jward/treeline/internal/engine"
	"github.com/jward/treeline/internal/lang"
	"github.com/jward/treeline/internal/logging"
	"github.com/jward/treeline/internal/reconcile"
	"github.com/jward/treeline/internal/store"
)

var flagFormat string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "treeline",
	Short:         "Multi-language source-code indexer",
	Long:          "treeline parses a repository with tree-sitter, extracts a hierarchical code model, resolves cross-file import relationships, and persists the result to a relational store.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagFormat != "text" && flagFormat != "json" {
			return fmt.Errorf("invalid --format %q: must be text or json", flagFormat)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: text|json")
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(reindexCmd)
}

var flagForce bool
var flagProjectName string

var indexCmd = &cobra.Command{
	Use:   "index <project_path>",
	Short: "Create the project if absent and run a full index",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&flagProjectName, "project-name", "", "project name (default: directory basename)")
	indexCmd.Flags().BoolVar(&flagForce, "force", false, "delete any existing project rows first")
}

var reindexCmd = &cobra.Command{
	Use:   "reindex <project_name>",
	Short: "Run the incremental reconciler for an already-indexed project",
	Args:  cobra.ExactArgs(1),
	RunE:  runReindex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving path %q: %w", args[0], err)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("directory not found: %s", root)
	}

	projectName := flagProjectName
	if projectName == "" {
		projectName = filepath.Base(root)
	}

	log := logging.NewText(os.Stderr)
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if flagForce {
		if existing, ok, err := st.ProjectByName(projectName); err == nil && ok {
			if err := st.ClearProject(existing.ID, true); err != nil {
				return fmt.Errorf("clearing existing project %q: %w", projectName, err)
			}
			log.Info("cleared existing project", "project", projectName)
		}
	}

	cache := &lang.Cache{}
	start := time.Now()
	_, stats, err := engine.FullIndex(cmd.Context(), st, nil, cache, engine.FullIndexOptions{
		ProjectName: projectName,
		Root:        root,
		SnapshotDir: cfg.Storage.ParserResultsDir,
	})
	if err != nil {
		return fmt.Errorf("indexing %s: %w", root, err)
	}

	printStats(cmd, "index", projectName, stats, time.Since(start))
	return nil
}

func runReindex(cmd *cobra.Command, args []string) error {
	projectName := args[0]

	log := logging.NewText(os.Stderr)
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	cache := &lang.Cache{}
	start := time.Now()
	stats, err := reconcile.Reconcile(cmd.Context(), st, nil, cache, reconcile.Options{
		ProjectName: projectName,
		SnapshotDir: cfg.Storage.ParserResultsDir,
	})
	if err != nil {
		return fmt.Errorf("reconciling %s: %w", projectName, err)
	}
	log.Info("reconcile complete", "project", projectName, "duration", time.Since(start))

	printStats(cmd, "reindex", projectName, stats, time.Since(start))
	return nil
}

// openStore loads the configured database path, ensures its parent
// directory exists, opens the connection, and runs the schema migration.
func openStore(cfg *config.Config) (*store.Store, error) {
	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dbDir, err)
	}
	st, err := store.NewStoreWithOptions(cfg.Database.Path, store.Options{
		BatchSize:  cfg.Database.BatchSize,
		MaxRetries: cfg.Database.MaxRetries,
		RetryDelay: cfg.Database.RetryDelayDuration(),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.Database.Path, err)
	}
	if err := st.Migrate(); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return st, nil
}

// printStats renders a run's resulting statistics in --format's text or
// json shape, matching the "stats object... returned" success contract.
func printStats(cmd *cobra.Command, op, project string, stats engine.Stats, elapsed time.Duration) {
	if flagFormat == "json" {
		payload := map[string]any{
			"operation":             op,
			"project":               project,
			"files_changed":         stats.FilesChanged,
			"files_added":           stats.FilesAdded,
			"files_deleted":         stats.FilesDeleted,
			"nodes_added":           stats.NodesAdded,
			"nodes_deleted":         stats.NodesDeleted,
			"relationships_added":   stats.RelationshipsAdded,
			"relationships_deleted": stats.RelationshipsDeleted,
			"duration_ms":           elapsed.Milliseconds(),
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		_ = enc.Encode(payload)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(),
		"%s %s: +%d/~%d/-%d files, +%d/-%d blocks, +%d/-%d relationships (%s)\n",
		op, project,
		stats.FilesAdded, stats.FilesChanged, stats.FilesDeleted,
		stats.NodesAdded, stats.NodesDeleted,
		stats.RelationshipsAdded, stats.RelationshipsDeleted,
		elapsed.Round(time.Millisecond),
	)
}
