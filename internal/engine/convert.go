package engine

import (
	"github.com/jward/treeline/internal/extract"
	"github.com/jward/treeline/internal/snapshot"
	"github.com/jward/treeline/internal/store"
)

// toSnapshotBlocks converts an extraction-time block tree into its
// serialized form, one-to-one.
func toSnapshotBlocks(blocks []*extract.Block) []*snapshot.CodeBlock {
	out := make([]*snapshot.CodeBlock, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, toSnapshotBlock(b))
	}
	return out
}

func toSnapshotBlock(b *extract.Block) *snapshot.CodeBlock {
	return &snapshot.CodeBlock{
		ID:        b.ID,
		Type:      string(b.Type),
		Name:      b.Name,
		Content:   b.Content,
		Symbols:   b.Symbols,
		StartLine: b.StartLine,
		EndLine:   b.EndLine,
		StartCol:  b.StartCol,
		EndCol:    b.EndCol,
		Children:  toSnapshotBlocks(b.Children),
	}
}

// flattenForStore turns a serialized block tree into the store's flat,
// parent-id-linked row form, parents always appearing before their
// children so a single transaction can insert in order without violating
// the code_blocks.parent_id foreign key.
func flattenForStore(blocks []*snapshot.CodeBlock, parentID *int64) []*store.Block {
	var out []*store.Block
	for _, b := range blocks {
		row := &store.Block{
			ID:        b.ID,
			ParentID:  parentID,
			Type:      b.Type,
			Name:      b.Name,
			Content:   b.Content,
			Symbols:   b.Symbols,
			StartLine: b.StartLine,
			EndLine:   b.EndLine,
			StartCol:  b.StartCol,
			EndCol:    b.EndCol,
		}
		out = append(out, row)
		id := b.ID
		out = append(out, flattenForStore(b.Children, &id)...)
	}
	return out
}

// collectBlockIDs returns every block id in a tree, depth-first, used to
// build the embedding-deletion id set for a file.
func collectBlockIDs(blocks []*snapshot.CodeBlock) []int64 {
	var ids []int64
	for _, b := range blocks {
		ids = append(ids, b.ID)
		ids = append(ids, collectBlockIDs(b.Children)...)
	}
	return ids
}
