package engine

import (
	"github.com/jward/treeline/internal/lang"
	"github.com/jward/treeline/internal/relate"
	"github.com/jward/treeline/internal/snapshot"
)

// ExtractOne runs Phase A (prepare) and Phase B (parse+extract) for a
// single file, the per-file unit the incremental reconciler needs without
// paying for a full directory walk. transientID is the id the caller wants
// stamped on this run's snapshot entry and relate.FileInput before it gets
// translated to the file's real store id.
func ExtractOne(root, path string, cache *lang.Cache, transientID int64) (*snapshot.FileData, *relate.FileInput) {
	unit := prepareFile(root, path)
	result := extractFile(cache, unit)
	fd := toFileData(transientID, result)

	var input *relate.FileInput
	if unit.unsupported == "" && result.err == "" {
		input = &relate.FileInput{
			FileID:   transientID,
			Path:     unit.normalizedPath,
			Language: unit.language,
			Blocks:   result.blocks,
		}
	}
	return fd, input
}
