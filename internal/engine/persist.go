package engine

import (
	"context"

	"github.com/jward/treeline/internal/embed"
	"github.com/jward/treeline/internal/snapshot"
	"github.com/jward/treeline/internal/store"
)

// Stats is the run-statistics contract returned by both a full index and a
// reconcile (§4.7 step 12, §7's "stats object" success shape).
type Stats struct {
	FilesChanged         int
	FilesAdded           int
	FilesDeleted         int
	NodesAdded           int
	NodesDeleted         int
	RelationshipsAdded   int
	RelationshipsDeleted int
}

// WriteFile persists one snapshot file entry wholesale: upsert the file
// row, bulk-insert its blocks and relationships, and hand the new blocks to
// the embedding collaborator. Callers updating an existing file must call
// RetireFile first so this never layers new rows on top of stale ones;
// fd.Relationships' TargetID fields must already hold real store file ids
// (the caller translates from whatever transient numbering it used to
// build them) by the time WriteFile runs. Returns the file's store id and
// the ids of the blocks just written.
func WriteFile(ctx context.Context, st *store.Store, adapter *embed.Adapter, projectID int64, fd *snapshot.FileData) (int64, []int64, error) {
	size := int64(len(fd.Content))
	fileID, err := st.UpsertFile(projectID, fd.FilePath, fd.ContentHash, fd.Language, size, fd.Unsupported)
	if err != nil {
		return 0, nil, err
	}
	if fd.Unsupported {
		return fileID, nil, nil
	}

	blocks := flattenForStore(fd.Blocks, nil)
	if len(blocks) > 0 {
		if err := st.BulkInsertBlocks(fileID, blocks); err != nil {
			return fileID, nil, err
		}
	}

	if len(fd.Relationships) > 0 {
		edges := make([]store.Relationship, 0, len(fd.Relationships))
		for _, rel := range fd.Relationships {
			edges = append(edges, store.Relationship{
				TargetID:      rel.TargetID,
				Kind:          "import",
				ImportContent: rel.ImportContent,
			})
		}
		if err := st.BulkInsertRelationships(fileID, edges); err != nil {
			return fileID, nil, err
		}
	}

	blockIDs := collectBlockIDs(fd.Blocks)
	if adapter != nil && len(blocks) > 0 {
		rec := embed.FileRecord{ID: fileID, ProjectID: projectID, Path: fd.FilePath, Language: fd.Language}
		if err := adapter.EmbedFile(ctx, rec, blocks); err != nil {
			return fileID, blockIDs, err
		}
	}
	return fileID, blockIDs, nil
}

// RetireFile clears everything a file owns ahead of a wholesale rewrite:
// its embeddings, its blocks, the relationships it sources, and — per §9's
// target-side-cascade resolution — the relationships where it is merely
// the target. The file row itself is left in place; WriteFile's upsert
// keeps its id stable across the rewrite.
func RetireFile(ctx context.Context, st *store.Store, adapter *embed.Adapter, projectID, fileID int64) error {
	blockIDs, err := st.GetBlockIDs(fileID)
	if err != nil {
		return err
	}
	if adapter != nil {
		if err := adapter.DeleteFile(ctx, projectID, fileID, blockIDs); err != nil {
			return err
		}
	}
	if err := st.DeleteRelationshipsFrom(fileID); err != nil {
		return err
	}
	if err := st.DeleteRelationshipsTargeting(fileID); err != nil {
		return err
	}
	return st.DeleteBlocksForFile(fileID)
}
