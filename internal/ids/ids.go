// Package ids computes the file-deterministic block identifiers used
// throughout treeline. A block id is (pathHash << 12) | seq, where pathHash
// is a stable 32-bit hash of the file's normalized path and seq is a 12-bit
// depth-first sequence number assigned during extraction. Re-parsing an
// unchanged file regenerates identical ids, which is what lets the
// incremental reconciler leave edges between untouched files valid.
package ids

import (
	"fmt"
	"hash/fnv"
	"path"
	"path/filepath"
	"strings"
)

// maxSeq is the largest sequence value the 12-bit field can hold.
const maxSeq = 1<<12 - 1

// NormalizePath cleans a path to forward slashes with no leading "./" or
// leading slash, matching the form the module registry and snapshot keys
// expect.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(filepath.ToSlash(p), `\`, "/")
	p = path.Clean(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	return p
}

// PathHash returns the stable 32-bit FNV-1a hash of a normalized path.
func PathHash(normalizedPath string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(normalizedPath))
	return h.Sum32()
}

// Sequencer assigns the 12-bit depth-first sequence numbers for a single
// file's blocks. It is not safe for concurrent use; each file's extraction
// gets its own Sequencer.
type Sequencer struct {
	pathHash uint32
	next     int
	overflow bool
}

// NewSequencer creates a Sequencer for the given (already normalized) path.
func NewSequencer(normalizedPath string) *Sequencer {
	return &Sequencer{pathHash: PathHash(normalizedPath)}
}

// Next returns the next block id in depth-first order. Once the sequence
// has been exhausted (4096 blocks), Next returns (0, false) and Overflowed
// reports true from then on; the caller must mark the whole file
// unsupported rather than persist a partial block set.
func (s *Sequencer) Next() (int64, bool) {
	if s.next > maxSeq {
		s.overflow = true
		return 0, false
	}
	id := int64(s.pathHash)<<12 | int64(s.next)
	s.next++
	return id, true
}

// Overflowed reports whether the sequence ran past 4095 blocks.
func (s *Sequencer) Overflowed() bool {
	return s.overflow
}

// Decode splits a block id back into its path hash and sequence components.
// Used by tests asserting P2/P4 and by diagnostics.
func Decode(id int64) (pathHash uint32, seq int) {
	return uint32(id >> 12), int(id & maxSeq)
}

// BlockRefMarker formats the textual marker substituted into a parent
// block's content in place of a split-out nested function, per the
// comment-prefix convention of the target language.
func BlockRefMarker(commentPrefix string, childID int64) string {
	return fmt.Sprintf("%s [BLOCK_REF:%d]", commentPrefix, childID)
}
