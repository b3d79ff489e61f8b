package store

import "time"

// Project is one logical repository being indexed.
type Project struct {
	ID          int64
	Name        string
	Path        string
	Language    string
	Version     string
	Description string
	SourceFile  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// File is one row per distinct path within a project.
type File struct {
	ID           int64
	ProjectID    int64
	FilePath     string
	ContentHash  string
	Language     string
	Size         int64
	Unsupported  bool
}

// Block is the storage-shaped form of extract.Block: flattened (parent_id
// instead of a Children slice) and with Symbols folded into Properties.
type Block struct {
	ID         int64
	FileID     int64
	ParentID   *int64
	Type       string
	Name       string
	Content    string
	Symbols    []string
	StartLine  int
	EndLine    int
	StartCol   int
	EndCol     int
}

// Relationship is an edge between two files' ids.
type Relationship struct {
	ID            int64
	SourceID      int64
	TargetID      int64
	Kind          string
	ImportContent string
}
