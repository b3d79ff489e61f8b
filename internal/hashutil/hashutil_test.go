package hashutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSHA256Hex_SameContentSameHash(t *testing.T) {
	a := SHA256Hex([]byte("package main"))
	b := SHA256Hex([]byte("package main"))
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestSHA256Hex_DifferentContentDifferentHash(t *testing.T) {
	a := SHA256Hex([]byte("package main"))
	b := SHA256Hex([]byte("package other"))
	assert.NotEqual(t, a, b)
}
