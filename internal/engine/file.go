package engine

import (
	"context"
	"os"

	"github.com/jward/treeline/internal/errs"
	"github.com/jward/treeline/internal/extract"
	"github.com/jward/treeline/internal/hashutil"
	"github.com/jward/treeline/internal/ids"
	"github.com/jward/treeline/internal/lang"
	"github.com/jward/treeline/internal/snapshot"
	"github.com/jward/treeline/internal/walker"
)

// fileUnit is Phase A's serial-prepare output for one file: everything
// needed to run Phase B's parse+extract without touching the filesystem
// again, or a recorded reason the file was skipped.
type fileUnit struct {
	path           string
	normalizedPath string
	language       string
	content        []byte
	contentHash    string
	unsupported    string // reason, empty if the file has a usable language+content
}

// prepareFile is Phase A: read, classify language, hash. It never touches
// tree-sitter and never fails the whole run — every outcome, including an
// unreadable file, is folded into the returned unit's Unsupported reason.
func prepareFile(root, path string) fileUnit {
	normalized := ids.NormalizePath(relPath(root, path))
	u := fileUnit{path: path, normalizedPath: normalized}

	// Hash first, before language classification: an unsupported file
	// (unknown extension or binary) still owns a File row with an
	// authoritative content_hash (§3), and HashTree must be able to
	// reproduce the identical hash for it on the next reconcile. Bailing
	// out of this function before reading — as a by-language check would —
	// would leave such files with an empty stored hash forever, which
	// HashTree's real hash would never match, flapping them as
	// modified/deleted on every run.
	content, err := os.ReadFile(path)
	if err != nil {
		u.unsupported = "read failed: " + err.Error()
		return u
	}
	u.contentHash = hashutil.SHA256Hex(content)

	if !walker.IsText(content) {
		u.unsupported = "binary file"
		return u
	}

	language, ok := lang.LanguageOf(path)
	if !ok {
		u.unsupported = "no language recognized for this file extension"
		return u
	}
	if !isExtractable(language) {
		u.unsupported = "no extractor registered for language " + language
		return u
	}

	u.language = language
	u.content = content
	return u
}

func isExtractable(language string) bool {
	_, ok := extract.For(language)
	return ok
}

// fileResult is Phase B's parallel-extract output for one file.
type fileResult struct {
	unit   fileUnit
	blocks []*extract.Block
	err    string // set on parse/extract failure; blocks is nil in that case
}

// extractFile is Phase B: parse with a grammar-bound parser and run the
// language's Extractor. Every failure here (grammar missing, parse error,
// block-id sequence overflow) degrades the file to unsupported rather than
// aborting the batch, per the per-file isolation rule.
func extractFile(cache *lang.Cache, u fileUnit) fileResult {
	if u.unsupported != "" {
		return fileResult{unit: u}
	}

	parser, ok := cache.Parser(u.language)
	if !ok {
		u.unsupported = "no grammar loaded for language " + u.language
		return fileResult{unit: u}
	}

	tree, err := parser.ParseCtx(context.Background(), nil, u.content)
	if err != nil {
		return fileResult{unit: u, err: "parse failed: " + err.Error()}
	}
	root := tree.RootNode()
	if root.HasError() {
		return fileResult{unit: u, err: "parse produced a syntax error"}
	}

	factory, _ := extract.For(u.language)
	extractor := factory()
	blocks, ok := extract.ExtractAll(extractor, u.content, root, u.normalizedPath)
	if !ok {
		return fileResult{unit: u, err: "block id sequence overflowed (file too large to index)"}
	}
	return fileResult{unit: u, blocks: blocks}
}

// toFileData converts one extraction result into its snapshot entry,
// leaving Relationships empty for the caller to fill in after the
// batch-wide resolution pass.
func toFileData(transientID int64, r fileResult) *snapshot.FileData {
	fd := &snapshot.FileData{
		ID:          transientID,
		FilePath:    r.unit.normalizedPath,
		Language:    r.unit.language,
		ContentHash: r.unit.contentHash,
	}
	switch {
	case r.unit.unsupported != "":
		fd.Unsupported = true
		fd.Error = r.unit.unsupported
	case r.err != "":
		fd.Unsupported = true
		fd.Error = r.err
	default:
		fd.Content = string(r.unit.content)
		fd.Blocks = toSnapshotBlocks(r.blocks)
	}
	return fd
}

// parseErrKind reports the errs.Kind a file's failure corresponds to, for
// callers that want to log it through the error taxonomy.
func parseErrKind(r fileResult) errs.Kind {
	if r.unit.unsupported != "" {
		return errs.KindUnsupported
	}
	if r.err != "" {
		return errs.KindParseFailure
	}
	return ""
}
