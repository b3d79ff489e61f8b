package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "foo/bar.go", NormalizePath("./foo/bar.go"))
	assert.Equal(t, "foo/bar.go", NormalizePath("/foo/bar.go"))
	assert.Equal(t, "foo/bar.go", NormalizePath("foo/bar.go"))
	assert.Equal(t, "foo/bar.go", NormalizePath(`foo\bar.go`))
}

func TestSequencer_StableAcrossRuns(t *testing.T) {
	s1 := NewSequencer("pkg/foo.go")
	s2 := NewSequencer("pkg/foo.go")

	id1, ok := s1.Next()
	require.True(t, ok)
	id2, ok := s2.Next()
	require.True(t, ok)
	assert.Equal(t, id1, id2, "re-extracting an unchanged file must regenerate identical block ids")

	next1, ok := s1.Next()
	require.True(t, ok)
	assert.NotEqual(t, id1, next1)
}

func TestSequencer_DifferentPathsDifferentHash(t *testing.T) {
	a := NewSequencer("pkg/foo.go")
	b := NewSequencer("pkg/bar.go")

	idA, ok := a.Next()
	require.True(t, ok)
	idB, ok := b.Next()
	require.True(t, ok)
	assert.NotEqual(t, idA, idB)
}

func TestSequencer_Overflow(t *testing.T) {
	s := NewSequencer("pkg/huge.go")
	for i := 0; i < maxSeq+1; i++ {
		_, ok := s.Next()
		require.True(t, ok)
	}
	_, ok := s.Next()
	assert.False(t, ok)
	assert.True(t, s.Overflowed())
}

func TestDecode_RoundTrip(t *testing.T) {
	s := NewSequencer("pkg/foo.go")
	id, ok := s.Next()
	require.True(t, ok)

	hash, seq := Decode(id)
	assert.Equal(t, PathHash("pkg/foo.go"), hash)
	assert.Equal(t, 0, seq)
}

func TestBlockRefMarker(t *testing.T) {
	assert.Equal(t, "// [BLOCK_REF:42]", BlockRefMarker("//", 42))
	assert.Equal(t, "# [BLOCK_REF:7]", BlockRefMarker("#", 7))
}
