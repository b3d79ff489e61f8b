// Package reconcile implements the incremental reconciler (§4.7): it hashes
// the current filesystem, diffs it against the store's prior hashes,
// re-extracts only what changed, and replays the result against both the
// relational store and the embedding sink.
package reconcile

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/jward/treeline/internal/hashutil"
	"github.com/jward/treeline/internal/ids"
	"github.com/jward/treeline/internal/walker"
)

// Diff partitions the current filesystem against the store's prior file
// hashes into the four sets §4.7 step 4 names.
type Diff struct {
	Modified  []string
	Added     []string
	Deleted   []string
	Unchanged []string
}

// IsEmpty reports whether a diff touches nothing, the "return immediately
// with zero-change stats" short-circuit of step 5.
func (d Diff) IsEmpty() bool {
	return len(d.Modified) == 0 && len(d.Added) == 0 && len(d.Deleted) == 0
}

// HashTree walks root with the same filter/ignore rules as the full
// indexer and returns path -> SHA-256 content hash for every surviving
// file, text or binary alike — matching engine.prepareFile's hash, which
// is computed before the text/binary classification, so that an
// unsupported file (unknown language or binary) hashes identically on
// both sides and never flaps between modified/unchanged across runs where
// its bytes never changed. A file that fails to read is skipped rather
// than aborting the whole hash pass, matching the per-file isolation the
// rest of the pipeline uses; it will simply show up as "deleted" this run
// and get picked up again once it becomes readable.
func HashTree(root string) (map[string]string, error) {
	hashes := make(map[string]string)
	err := walker.Walk(root, func(path string) error {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		hashes[ids.NormalizePath(rel)] = hashutil.SHA256Hex(content)
		return nil
	})
	return hashes, err
}

// ComputeDiff partitions current vs. stored hashes into modified, added,
// deleted, and unchanged path sets (§4.7 step 4), each sorted for
// deterministic processing order.
func ComputeDiff(current, stored map[string]string) Diff {
	var d Diff
	for p, h := range current {
		sh, ok := stored[p]
		switch {
		case !ok:
			d.Added = append(d.Added, p)
		case sh != h:
			d.Modified = append(d.Modified, p)
		default:
			d.Unchanged = append(d.Unchanged, p)
		}
	}
	for p := range stored {
		if _, ok := current[p]; !ok {
			d.Deleted = append(d.Deleted, p)
		}
	}
	sort.Strings(d.Modified)
	sort.Strings(d.Added)
	sort.Strings(d.Deleted)
	sort.Strings(d.Unchanged)
	return d
}
