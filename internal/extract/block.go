// Package extract turns a parsed tree-sitter tree into the canonical
// CodeBlock model: one extractor per supported language, all built on the
// shared helpers and the large-function-splitting rule in this package.
package extract

// Kind discriminates the CodeBlock variants. A plain string enum (rather
// than a class hierarchy of block types) per the tagged-union guidance for
// ports of dynamically-typed extractors.
type Kind string

const (
	KindEnum      Kind = "enum"
	KindVariable  Kind = "variable"
	KindFunction  Kind = "function"
	KindClass     Kind = "class"
	KindInterface Kind = "interface"
	KindTypeAlias Kind = "type"
	KindImport    Kind = "import"
	KindExport    Kind = "export"
)

// Block is the extraction-time representation of a CodeBlock: identical
// shape to the persisted/serialized form, but produced before block ids
// are assigned. ParentID and ID are filled in by AssignIDs.
type Block struct {
	ID        int64
	ParentID  *int64
	Type      Kind
	Name      string
	Content   string
	Symbols   []string
	StartLine int
	EndLine   int
	StartCol  int
	EndCol    int
	Children  []*Block

	// startByte/endByte back the large-function block-ref splicing in
	// SplitLargeFunctions; never serialized.
	startByte uint32
	endByte   uint32
}

// LineCount returns the inclusive 1-based line span of the block.
func (b *Block) LineCount() int {
	return b.EndLine - b.StartLine + 1
}
