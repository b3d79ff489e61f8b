package engine

import (
	"sort"
	"sync"

	"github.com/jward/treeline/internal/lang"
	"github.com/jward/treeline/internal/relate"
	"github.com/jward/treeline/internal/snapshot"
	"github.com/jward/treeline/internal/walker"
)

// ExtractorVersion is stamped into every snapshot's metadata.
const ExtractorVersion = "1.0"

// ExtractDirectory walks root and produces a complete extraction snapshot:
// Phase A (serial) reads, classifies, and hashes every file; Phase B
// (parallel) parses and extracts blocks via a bounded worker pool; Phase C
// (serial) assigns transient snapshot ids in a stable order and runs the
// batch-wide relationship resolution, which must see every file's blocks
// before it can run. ExtractDirectory is a pure function of the
// filesystem: it touches no store and keeps no state between calls.
func ExtractDirectory(root string, cache *lang.Cache) (*snapshot.ExtractionSnapshot, error) {
	// Phase A: enumerate and prepare every file, serially. Walker I/O errors
	// on individual entries are already swallowed by Walk; read failures are
	// folded into each unit's Unsupported reason rather than aborting here.
	var units []fileUnit
	err := walker.Walk(root, func(path string) error {
		units = append(units, prepareFile(root, path))
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Stable order up front so transient ids (and therefore snapshot file
	// keys and relationship source/target references) are reproducible
	// across runs over an unchanged tree.
	sort.Slice(units, func(i, j int) bool {
		return units[i].normalizedPath < units[j].normalizedPath
	})

	// Phase B: parse and extract in parallel, one slot per file up to
	// NumCPU, preserving input order in the results slice.
	results := make([]fileResult, len(units))
	workers := workerCount(len(units))
	if workers > 0 {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					results[i] = extractFile(cache, units[i])
				}
			}()
		}
		for i := range units {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	// Phase C: serial collect. Transient ids are assigned in sorted-path
	// order starting at 1, matching the <u32> id field snapshots carry.
	snap := snapshot.New(ExtractorVersion)
	snap.Metadata.TotalFiles = len(results)

	transientIDToPath := make(map[int64]string, len(results))
	var relateInputs []relate.FileInput
	for i, r := range results {
		transientID := int64(i + 1)
		transientIDToPath[transientID] = r.unit.normalizedPath
		snap.Files[r.unit.normalizedPath] = toFileData(transientID, r)
		if r.unit.unsupported == "" && r.err == "" {
			relateInputs = append(relateInputs, relate.FileInput{
				FileID:   transientID,
				Path:     r.unit.normalizedPath,
				Language: r.unit.language,
				Blocks:   r.blocks,
			})
		}
	}

	// The relationship-resolution barrier: begins only once every file's
	// blocks and transient id are visible.
	edges := relate.Resolve(relateInputs)
	for _, e := range edges {
		srcPath, ok := transientIDToPath[e.SourceFileID]
		if !ok {
			continue
		}
		fd := snap.Files[srcPath]
		fd.Relationships = append(fd.Relationships, snapshot.RelationshipEdge{
			SourceID:      e.SourceFileID,
			TargetID:      e.TargetFileID,
			ImportContent: e.ImportContent,
		})
	}

	return snap, nil
}
