package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguageOf_ByExtension(t *testing.T) {
	cases := map[string]string{
		"main.go":         "go",
		"app.tsx":         "typescript",
		"index.js":        "javascript",
		"script.py":       "python",
		"lib.rs":          "rust",
		"Main.java":       "java",
		"header.hpp":      "cpp",
		"a/b/c/module.rb": "ruby",
	}
	for path, want := range cases {
		got, ok := LanguageOf(path)
		require.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}
}

func TestLanguageOf_ByBasename(t *testing.T) {
	got, ok := LanguageOf("project/Dockerfile")
	require.True(t, ok)
	assert.Equal(t, "docker", got)
}

func TestLanguageOf_Unrecognized(t *testing.T) {
	_, ok := LanguageOf("README.md")
	assert.False(t, ok)
}

func TestCache_GetMemoizesGrammar(t *testing.T) {
	c := &Cache{}
	g1, ok := c.Get("go")
	require.True(t, ok)
	g2, ok := c.Get("go")
	require.True(t, ok)
	assert.Same(t, g1, g2)
}

func TestCache_GetUnknownLanguage(t *testing.T) {
	c := &Cache{}
	_, ok := c.Get("cobol")
	assert.False(t, ok)
}

func TestCache_ParserReturnsFreshParserEachCall(t *testing.T) {
	c := &Cache{}
	p1, ok := c.Parser("python")
	require.True(t, ok)
	p2, ok := c.Parser("python")
	require.True(t, ok)
	assert.NotSame(t, p1, p2)
}
