package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertProject_IdempotentByName(t *testing.T) {
	s := newTestStore(t)
	id1, err := s.InsertProject(&Project{Name: "demo", Path: "/repo"})
	require.NoError(t, err)
	id2, err := s.InsertProject(&Project{Name: "demo", Path: "/repo"})
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
}

func TestUpsertFile_ReplacesOnConflict(t *testing.T) {
	s := newTestStore(t)
	projectID, err := s.InsertProject(&Project{Name: "demo", Path: "/repo"})
	require.NoError(t, err)

	id1, err := s.UpsertFile(projectID, "a.go", "hash1", "go", 10, false)
	require.NoError(t, err)

	id2, err := s.UpsertFile(projectID, "a.go", "hash2", "go", 20, false)
	require.NoError(t, err)
	assert.Equal(t, id1, id2, "re-upserting the same path must keep the same row id")

	hashes, err := s.GetFileHashes(projectID)
	require.NoError(t, err)
	assert.Equal(t, "hash2", hashes["a.go"])
}

func TestBulkInsertBlocks_AndGetBlocks(t *testing.T) {
	s := newTestStore(t)
	projectID, err := s.InsertProject(&Project{Name: "demo", Path: "/repo"})
	require.NoError(t, err)
	fileID, err := s.UpsertFile(projectID, "a.go", "hash1", "go", 10, false)
	require.NoError(t, err)

	blocks := []*Block{
		{ID: 1, Type: "function", Name: "main", Content: "func main() {}", StartLine: 1, EndLine: 1, Symbols: []string{"a", "b"}},
		{ID: 2, Type: "function", Name: "helper", Content: "func helper() {}", StartLine: 3, EndLine: 3},
	}
	require.NoError(t, s.BulkInsertBlocks(fileID, blocks))

	got, err := s.GetBlocks(fileID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "main", got[0].Name)
	assert.Equal(t, []string{"a", "b"}, got[0].Symbols)

	ids, err := s.GetBlockIDs(fileID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, ids)
}

func TestDeleteBlocksForFile_LeavesFileRowIntact(t *testing.T) {
	s := newTestStore(t)
	projectID, err := s.InsertProject(&Project{Name: "demo", Path: "/repo"})
	require.NoError(t, err)
	fileID, err := s.UpsertFile(projectID, "a.go", "hash1", "go", 10, false)
	require.NoError(t, err)
	require.NoError(t, s.BulkInsertBlocks(fileID, []*Block{{ID: 1, Type: "function", Name: "main", StartLine: 1, EndLine: 1}}))

	require.NoError(t, s.DeleteBlocksForFile(fileID))

	ids, err := s.GetBlockIDs(fileID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	got, ok, err := s.FileIDByPath(projectID, "a.go")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, fileID, got)
}

func TestRelationships_FromTargetingAndCount(t *testing.T) {
	s := newTestStore(t)
	projectID, err := s.InsertProject(&Project{Name: "demo", Path: "/repo"})
	require.NoError(t, err)
	srcID, err := s.UpsertFile(projectID, "main.go", "h1", "go", 5, false)
	require.NoError(t, err)
	dstID, err := s.UpsertFile(projectID, "helper.go", "h2", "go", 5, false)
	require.NoError(t, err)

	require.NoError(t, s.BulkInsertRelationships(srcID, []Relationship{{TargetID: dstID, Kind: "import", ImportContent: "helper"}}))

	count, err := s.CountRelationshipsTouching(dstID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, s.DeleteRelationshipsTargeting(dstID))
	count, err = s.CountRelationshipsTouching(dstID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestClearProject_RequiresForceWhenNonEmpty(t *testing.T) {
	s := newTestStore(t)
	projectID, err := s.InsertProject(&Project{Name: "demo", Path: "/repo"})
	require.NoError(t, err)
	_, err = s.UpsertFile(projectID, "a.go", "h1", "go", 5, false)
	require.NoError(t, err)

	err = s.ClearProject(projectID, false)
	assert.Error(t, err)

	require.NoError(t, s.ClearProject(projectID, true))
	_, ok, err := s.ProjectByName("demo")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProjectByName_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, ok, err := s.ProjectByName("nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewStoreWithOptions_Defaults(t *testing.T) {
	s, err := NewStoreWithOptions(filepath.Join(t.TempDir(), "test.db"), Options{})
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, DefaultBatchSize, s.batchSize)
	assert.Equal(t, defaultMaxRetryAttempts, s.maxRetries)
	assert.Equal(t, defaultRetryDelay, s.retryDelay)
}
