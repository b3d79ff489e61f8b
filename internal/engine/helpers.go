package engine

import (
	"path/filepath"
	"runtime"
)

// relPath returns path relative to root, falling back to path itself if the
// two don't share a common ancestor (should not happen for paths produced
// by walker.Walk, but keeps this defensive rather than panicking).
func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}

// workerCount sizes a parse/extract worker pool: one goroutine per file up
// to the number of CPUs, mirroring the teacher's bounded worker pool for
// its own parallel phase.
func workerCount(items int) int {
	if items <= 0 {
		return 0
	}
	n := runtime.NumCPU()
	if items < n {
		return items
	}
	return n
}
