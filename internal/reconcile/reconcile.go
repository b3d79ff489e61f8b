package reconcile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jward/treeline/internal/embed"
	"github.com/jward/treeline/internal/engine"
	"github.com/jward/treeline/internal/lang"
	"github.com/jward/treeline/internal/relate"
	"github.com/jward/treeline/internal/snapshot"
	"github.com/jward/treeline/internal/store"
)

// Options configures one reconcile run.
type Options struct {
	ProjectName string
	SnapshotDir string
}

// Reconcile brings the store and the on-disk snapshot document for a
// project in line with its current filesystem state (§4.7). Two concurrent
// reconciles of the same project are a caller error per §5; nothing here
// detects that itself beyond the store's own unique constraints.
func Reconcile(ctx context.Context, st *store.Store, adapter *embed.Adapter, cache *lang.Cache, opts Options) (engine.Stats, error) {
	var stats engine.Stats

	project, ok, err := st.ProjectByName(opts.ProjectName)
	if err != nil {
		return stats, fmt.Errorf("reconcile %q: %w", opts.ProjectName, err)
	}
	if !ok {
		return stats, fmt.Errorf("reconcile %q: project not found", opts.ProjectName)
	}

	current, err := HashTree(project.Path)
	if err != nil {
		return stats, fmt.Errorf("reconcile %q: hash tree: %w", opts.ProjectName, err)
	}
	storedHashes, err := st.GetFileHashes(project.ID)
	if err != nil {
		return stats, fmt.Errorf("reconcile %q: get file hashes: %w", opts.ProjectName, err)
	}

	diff := ComputeDiff(current, storedHashes)
	if diff.IsEmpty() {
		return stats, nil
	}

	snap := loadSnapshot(opts.SnapshotDir, opts.ProjectName)

	// Step 7: remove deleted paths from the snapshot and fully retire
	// their store rows (file row included — the path no longer exists).
	for _, p := range diff.Deleted {
		delete(snap.Files, p)
		fileID, ok, err := st.FileIDByPath(project.ID, p)
		if err != nil {
			return stats, fmt.Errorf("reconcile %q: lookup %s: %w", opts.ProjectName, p, err)
		}
		if !ok {
			continue
		}
		touched, _ := st.CountRelationshipsTouching(fileID)
		blockIDs, err := st.GetBlockIDs(fileID)
		if err != nil {
			return stats, fmt.Errorf("reconcile %q: block ids %s: %w", opts.ProjectName, p, err)
		}
		if err := engine.RetireFile(ctx, st, adapter, project.ID, fileID); err != nil {
			return stats, fmt.Errorf("reconcile %q: retire %s: %w", opts.ProjectName, p, err)
		}
		if err := st.DeleteFile(fileID); err != nil {
			return stats, fmt.Errorf("reconcile %q: delete %s: %w", opts.ProjectName, p, err)
		}
		stats.NodesDeleted += len(blockIDs)
		stats.RelationshipsDeleted += touched
	}
	stats.FilesDeleted = len(diff.Deleted)

	// Step 8: re-parse and extract only the modified+added paths,
	// replacing their entries in the snapshot.
	changed := make([]string, 0, len(diff.Modified)+len(diff.Added))
	changed = append(changed, diff.Modified...)
	changed = append(changed, diff.Added...)
	sort.Strings(changed)
	changedSet := make(map[string]bool, len(changed))
	for _, p := range changed {
		changedSet[p] = true
	}

	changedInputs := make([]relate.FileInput, 0, len(changed))
	var nextTransient int64 = 1
	for _, p := range changed {
		abs := filepath.Join(project.Path, p)
		fd, input := engine.ExtractOne(project.Path, abs, cache, nextTransient)
		nextTransient++
		snap.Files[p] = fd
		if input != nil {
			changedInputs = append(changedInputs, *input)
		}
	}

	// Step 9: rebuild the id->path registry from the full, updated
	// snapshot — every surviving file, changed or not — then resolve
	// relationships only for the changed files against it.
	paths := sortedSnapshotPaths(snap)
	pathToReal := make(map[string]int64, len(paths))
	allInputs := make([]relate.FileInput, 0, len(paths))
	for _, p := range paths {
		fd := snap.Files[p]
		var realID int64
		if changedSet[p] {
			id, ok, err := st.FileIDByPath(project.ID, p)
			if err != nil {
				return stats, fmt.Errorf("reconcile %q: lookup %s: %w", opts.ProjectName, p, err)
			}
			if !ok {
				size := int64(len(fd.Content))
				id, err = st.UpsertFile(project.ID, p, fd.ContentHash, fd.Language, size, fd.Unsupported)
				if err != nil {
					return stats, fmt.Errorf("reconcile %q: reserve file row %s: %w", opts.ProjectName, p, err)
				}
			}
			realID = id
		} else {
			realID = fd.ID // unchanged entries already carry their real store id from the prior snapshot write
		}
		fd.ID = realID
		pathToReal[p] = realID
		allInputs = append(allInputs, relate.FileInput{FileID: realID, Path: p})
	}
	realToPath := make(map[int64]string, len(pathToReal))
	for p, id := range pathToReal {
		realToPath[id] = p
	}
	for i := range changedInputs {
		changedInputs[i].FileID = pathToReal[changedInputs[i].Path]
	}

	reg := relate.BuildRegistry(allInputs)
	edges := relate.ResolveFiles(reg, changedInputs)
	edgesByPath := make(map[string][]snapshot.RelationshipEdge, len(changed))
	for _, e := range edges {
		srcPath := realToPath[e.SourceFileID]
		edgesByPath[srcPath] = append(edgesByPath[srcPath], snapshot.RelationshipEdge{
			SourceID:      e.SourceFileID,
			TargetID:      e.TargetFileID,
			ImportContent: e.ImportContent,
		})
	}
	for _, p := range changed {
		if fd, ok := snap.Files[p]; ok {
			fd.Relationships = edgesByPath[p]
		}
	}

	// Step 11: apply the diff to the store. Modified files are retired
	// (blocks + edges-as-source + edges-as-target cleared, embeddings
	// deleted) before their fresh content is written; added files are
	// written directly.
	modifiedSet := make(map[string]bool, len(diff.Modified))
	for _, p := range diff.Modified {
		modifiedSet[p] = true
	}
	for _, p := range changed {
		fd, ok := snap.Files[p]
		if !ok {
			continue
		}
		fileID := pathToReal[p]
		if modifiedSet[p] {
			touched, _ := st.CountRelationshipsTouching(fileID)
			oldBlockIDs, err := st.GetBlockIDs(fileID)
			if err != nil {
				return stats, fmt.Errorf("reconcile %q: block ids %s: %w", opts.ProjectName, p, err)
			}
			if err := engine.RetireFile(ctx, st, adapter, project.ID, fileID); err != nil {
				return stats, fmt.Errorf("reconcile %q: retire %s: %w", opts.ProjectName, p, err)
			}
			stats.NodesDeleted += len(oldBlockIDs)
			stats.RelationshipsDeleted += touched
		}
		_, newBlockIDs, err := engine.WriteFile(ctx, st, adapter, project.ID, fd)
		if err != nil {
			return stats, fmt.Errorf("reconcile %q: write %s: %w", opts.ProjectName, p, err)
		}
		stats.NodesAdded += len(newBlockIDs)
		stats.RelationshipsAdded += len(fd.Relationships)
	}
	stats.FilesChanged = len(diff.Modified)
	stats.FilesAdded = len(diff.Added)

	// Step 10: write the new snapshot document to a new timestamped file.
	if opts.SnapshotDir != "" {
		snap.Metadata.TotalFiles = len(snap.Files)
		snap.Metadata.ExportTimestamp = time.Now().UTC().Format(time.RFC3339)
		if err := os.MkdirAll(opts.SnapshotDir, 0o755); err != nil {
			return stats, fmt.Errorf("reconcile %q: create snapshot dir: %w", opts.ProjectName, err)
		}
		name := snapshot.FileName(opts.ProjectName, time.Now().UTC().Format("20060102_150405"))
		if err := snapshot.Write(opts.SnapshotDir, name, snap); err != nil {
			return stats, fmt.Errorf("reconcile %q: write snapshot: %w", opts.ProjectName, err)
		}
	}

	return stats, nil
}

// loadSnapshot returns the most recent snapshot document for a project, or
// an empty one if none exists yet (§4.7 step 6).
func loadSnapshot(dir, project string) *snapshot.ExtractionSnapshot {
	if dir != "" {
		if path, ok := snapshot.Latest(dir, project); ok {
			if snap, err := snapshot.Read(path); err == nil {
				return snap
			}
		}
	}
	return snapshot.New(engine.ExtractorVersion)
}

// sortedSnapshotPaths returns a snapshot's file paths in a stable order.
func sortedSnapshotPaths(snap *snapshot.ExtractionSnapshot) []string {
	paths := make([]string, 0, len(snap.Files))
	for p := range snap.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
