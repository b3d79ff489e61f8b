package engine

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jward/treeline/internal/embed"
	"github.com/jward/treeline/internal/lang"
	"github.com/jward/treeline/internal/snapshot"
	"github.com/jward/treeline/internal/store"
)

// FullIndexOptions names the one full index run: the project identity, the
// directory to walk, and where to drop the resulting snapshot document (an
// empty SnapshotDir skips the write, for callers — tests mostly — that
// only want the store side effects).
type FullIndexOptions struct {
	ProjectName string
	Root        string
	SnapshotDir string
}

// FullIndex runs the §4.5 orchestrator over Root, then persists every file
// to the store and embedding sink, and finally writes the resulting
// snapshot document to SnapshotDir. It is the `index` CLI command's entire
// body.
func FullIndex(ctx context.Context, st *store.Store, adapter *embed.Adapter, cache *lang.Cache, opts FullIndexOptions) (*snapshot.ExtractionSnapshot, Stats, error) {
	snap, err := ExtractDirectory(opts.Root, cache)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("extract %s: %w", opts.Root, err)
	}

	projectID, err := st.InsertProject(&store.Project{Name: opts.ProjectName, Path: opts.Root})
	if err != nil {
		return nil, Stats{}, fmt.Errorf("register project %q: %w", opts.ProjectName, err)
	}

	paths := sortedFilePaths(snap)

	// Pass 1: upsert every file row first so relationship target ids (a
	// transient, run-local numbering up to this point) can be translated
	// to real store ids before any blocks or edges are written.
	transientToReal := make(map[int64]int64, len(paths))
	for _, p := range paths {
		fd := snap.Files[p]
		size := int64(len(fd.Content))
		fileID, err := st.UpsertFile(projectID, fd.FilePath, fd.ContentHash, fd.Language, size, fd.Unsupported)
		if err != nil {
			return nil, Stats{}, fmt.Errorf("reserve file row %s: %w", p, err)
		}
		transientToReal[fd.ID] = fileID
	}

	// Pass 2: translate ids, then write blocks, relationships, and
	// embeddings for each file.
	var stats Stats
	for _, p := range paths {
		fd := snap.Files[p]
		realID := transientToReal[fd.ID]
		for i := range fd.Relationships {
			if t, ok := transientToReal[fd.Relationships[i].TargetID]; ok {
				fd.Relationships[i].TargetID = t
			}
			fd.Relationships[i].SourceID = realID
		}
		fd.ID = realID

		// A full index re-run over an unchanged (or just re-touched) tree
		// upserts the same file rows again (§testable property P6); clear
		// each file's owned blocks and relationships first so re-running
		// never layers a second copy of its edges on top of the first.
		if err := RetireFile(ctx, st, adapter, projectID, realID); err != nil {
			return nil, Stats{}, fmt.Errorf("retire file %s: %w", p, err)
		}

		_, blockIDs, err := WriteFile(ctx, st, adapter, projectID, fd)
		if err != nil {
			return nil, Stats{}, fmt.Errorf("persist file %s: %w", p, err)
		}
		stats.NodesAdded += len(blockIDs)
		stats.RelationshipsAdded += len(fd.Relationships)
	}
	stats.FilesAdded = len(paths)

	snap.Metadata.TotalFiles = len(snap.Files)
	snap.Metadata.ExportTimestamp = time.Now().UTC().Format(time.RFC3339)

	if opts.SnapshotDir != "" {
		if err := os.MkdirAll(opts.SnapshotDir, 0o755); err != nil {
			return nil, Stats{}, fmt.Errorf("create snapshot dir %s: %w", opts.SnapshotDir, err)
		}
		name := snapshot.FileName(opts.ProjectName, time.Now().UTC().Format("20060102_150405"))
		if err := snapshot.Write(opts.SnapshotDir, name, snap); err != nil {
			return nil, Stats{}, fmt.Errorf("write snapshot: %w", err)
		}
	}

	return snap, stats, nil
}

// sortedFilePaths returns a snapshot's file paths in a stable order, so
// that the transient ids assigned while persisting a full index are
// reproducible across runs over an unchanged tree.
func sortedFilePaths(snap *snapshot.ExtractionSnapshot) []string {
	paths := make([]string, 0, len(snap.Files))
	for p := range snap.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
