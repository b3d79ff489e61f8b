// Package embed bridges file/block records into the embedding
// collaborator referenced only through an interface in §4.8: the indexer
// never computes vectors itself. An optional Risor expression lets a
// caller filter which blocks are worth embedding before they reach the
// sink, evaluated the same way the teacher's runtime package evaluates
// Risor source against a set of globals.
package embed

import (
	"context"
	"fmt"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/object"

	"github.com/jward/treeline/internal/store"
)

// FileRecord is the minimal file identity the sink needs to key its
// vectors, "file_<id>" plus project.
type FileRecord struct {
	ID        int64
	ProjectID int64
	Path      string
	Language  string
}

// Sink is the embedding collaborator's contract: embed_and_store and
// delete, exactly as described in §4.8. The indexer never implements this
// itself; callers wire a concrete sink (a vector store client, a no-op
// test double, etc).
type Sink interface {
	EmbedAndStore(ctx context.Context, file FileRecord, blocks []*store.Block) error
	Delete(ctx context.Context, ids []string, projectID int64) error
}

// PrefixedFileID returns the embedding key for a file-level vector.
func PrefixedFileID(fileID int64) string {
	return fmt.Sprintf("file_%d", fileID)
}

// PrefixedBlockID returns the embedding key for a block-level vector.
func PrefixedBlockID(blockID int64) string {
	return fmt.Sprintf("block_%d", blockID)
}

// Adapter wraps a Sink with an optional Risor query-filter expression that
// decides which blocks are worth embedding. The expression has access to
// the globals "name", "block_type", and "line_count" and must evaluate to
// a boolean; a nil or empty Filter embeds every block, matching the sink's
// default behavior.
type Adapter struct {
	sink   Sink
	filter string
}

// New builds an Adapter. filter may be empty to embed every block.
func New(sink Sink, filter string) *Adapter {
	return &Adapter{sink: sink, filter: filter}
}

// EmbedFile filters file's blocks through the configured expression (if
// any) and hands the survivors to the sink.
func (a *Adapter) EmbedFile(ctx context.Context, file FileRecord, blocks []*store.Block) error {
	if a.filter == "" {
		return a.sink.EmbedAndStore(ctx, file, blocks)
	}
	var kept []*store.Block
	for _, b := range blocks {
		ok, err := a.evalFilter(ctx, b)
		if err != nil {
			return fmt.Errorf("embed filter: block %d: %w", b.ID, err)
		}
		if ok {
			kept = append(kept, b)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return a.sink.EmbedAndStore(ctx, file, kept)
}

func (a *Adapter) evalFilter(ctx context.Context, b *store.Block) (bool, error) {
	result, err := risor.Eval(ctx, a.filter,
		risor.WithGlobal("name", b.Name),
		risor.WithGlobal("block_type", b.Type),
		risor.WithGlobal("line_count", b.EndLine-b.StartLine+1),
	)
	if err != nil {
		return false, err
	}
	truthy, ok := result.(*object.Bool)
	if !ok {
		return true, nil // non-boolean result: default to embedding the block
	}
	return truthy.Value(), nil
}

// DeleteFile removes every vector keyed on a file and its blocks' ids,
// the deletion-closure step (P8) the reconciler and delete_file both need.
func (a *Adapter) DeleteFile(ctx context.Context, projectID, fileID int64, blockIDs []int64) error {
	ids := make([]string, 0, len(blockIDs)+1)
	ids = append(ids, PrefixedFileID(fileID))
	for _, id := range blockIDs {
		ids = append(ids, PrefixedBlockID(id))
	}
	return a.sink.Delete(ctx, ids, projectID)
}
