package store

import (
	"database/sql"
	"fmt"
)

// InsertProject creates a project row, or returns the existing one's id if
// a project with the same name already exists — "created once per logical
// repository; referenced by every file."
func (s *Store) InsertProject(p *Project) (int64, error) {
	_, err := s.db.Exec(
		`INSERT INTO projects (name, path, language, version, description, source_file)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET updated_at = CURRENT_TIMESTAMP`,
		p.Name, p.Path, p.Language, p.Version, p.Description, p.SourceFile,
	)
	if err != nil {
		return 0, fmt.Errorf("insert project %q: %w", p.Name, err)
	}
	var id int64
	if qErr := s.db.QueryRow(`SELECT id FROM projects WHERE name = ?`, p.Name).Scan(&id); qErr != nil {
		return 0, fmt.Errorf("insert project %q: %w", p.Name, qErr)
	}
	return id, nil
}

// UpsertFile inserts a new file row or replaces an existing one's hash,
// language, size, and unsupported flag, keyed on (project_id, file_path).
func (s *Store) UpsertFile(projectID int64, path, hash, language string, size int64, unsupported bool) (int64, error) {
	var fileID int64
	err := s.withRetry(func() error {
		_, err := s.db.Exec(
			`INSERT INTO files (project_id, file_path, content_hash, language, size, unsupported)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(project_id, file_path) DO UPDATE SET
			   content_hash = excluded.content_hash,
			   language = excluded.language,
			   size = excluded.size,
			   unsupported = excluded.unsupported`,
			projectID, path, hash, language, size, unsupported,
		)
		if err != nil {
			return err
		}
		return s.db.QueryRow(
			`SELECT id FROM files WHERE project_id = ? AND file_path = ?`, projectID, path,
		).Scan(&fileID)
	})
	if err != nil {
		return 0, fmt.Errorf("upsert file %q: %w", path, err)
	}
	return fileID, nil
}

// BulkInsertBlocks writes blocks (already flattened, parent before child)
// in batches of the store's configured batch size, one transaction per batch. Block ids are
// extractor-assigned and stable, so every insert is INSERT OR REPLACE to
// make re-insertion idempotent across runs.
func (s *Store) BulkInsertBlocks(fileID int64, blocks []*Block) error {
	for start := 0; start < len(blocks); start += s.batchSize {
		end := min(start+s.batchSize, len(blocks))
		batch := blocks[start:end]
		if err := s.withRetry(func() error { return insertBlockBatch(s.db, fileID, batch) }); err != nil {
			return fmt.Errorf("bulk insert blocks: %w", err)
		}
	}
	return nil
}

func insertBlockBatch(db *sql.DB, fileID int64, batch []*Block) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT OR REPLACE INTO code_blocks
		   (id, file_id, parent_id, type, name, content, start_line, end_line, start_col, end_col, properties)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, b := range batch {
		_, err := stmt.Exec(
			b.ID, fileID, b.ParentID, b.Type, b.Name, b.Content,
			b.StartLine, b.EndLine, b.StartCol, b.EndCol, marshalModifiers(b.Symbols),
		)
		if err != nil {
			return fmt.Errorf("block %d (%s): %w", b.ID, b.Name, err)
		}
	}
	return tx.Commit()
}

// BulkInsertRelationships writes edges sourced from sourceFileID in
// batches of the store's configured batch size.
func (s *Store) BulkInsertRelationships(sourceFileID int64, edges []Relationship) error {
	for start := 0; start < len(edges); start += s.batchSize {
		end := min(start+s.batchSize, len(edges))
		batch := edges[start:end]
		if err := s.withRetry(func() error { return insertRelationshipBatch(s.db, sourceFileID, batch) }); err != nil {
			return fmt.Errorf("bulk insert relationships: %w", err)
		}
	}
	return nil
}

func insertRelationshipBatch(db *sql.DB, sourceFileID int64, batch []Relationship) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO relationships (source_id, target_id, kind, import_content) VALUES (?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range batch {
		kind := e.Kind
		if kind == "" {
			kind = "import"
		}
		if _, err := stmt.Exec(sourceFileID, e.TargetID, kind, e.ImportContent); err != nil {
			return fmt.Errorf("relationship %d -> %d: %w", sourceFileID, e.TargetID, err)
		}
	}
	return tx.Commit()
}

// DeleteFile removes a file row. Blocks and relationships sourced from it
// cascade via the FK; relationships that merely target it do not (the
// no-cascade FK on relationships.target_id), which is why the reconciler
// separately calls DeleteRelationshipsTargeting for those.
func (s *Store) DeleteFile(fileID int64) error {
	_, err := s.db.Exec(`DELETE FROM files WHERE id = ?`, fileID)
	if err != nil {
		return fmt.Errorf("delete file %d: %w", fileID, err)
	}
	return nil
}

// DeleteRelationshipsTargeting removes every relationship whose target_id
// is fileID, the explicit cleanup the target-side no-cascade FK requires.
func (s *Store) DeleteRelationshipsTargeting(fileID int64) error {
	_, err := s.db.Exec(`DELETE FROM relationships WHERE target_id = ?`, fileID)
	if err != nil {
		return fmt.Errorf("delete relationships targeting file %d: %w", fileID, err)
	}
	return nil
}

// GetFileHashes returns path -> content_hash for every file in a project,
// the reconciler's diff baseline.
func (s *Store) GetFileHashes(projectID int64) (map[string]string, error) {
	rows, err := s.db.Query(`SELECT file_path, content_hash FROM files WHERE project_id = ?`, projectID)
	if err != nil {
		return nil, fmt.Errorf("get file hashes: %w", err)
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var path, hash string
		if err := rows.Scan(&path, &hash); err != nil {
			return nil, fmt.Errorf("get file hashes: scan: %w", err)
		}
		hashes[path] = hash
	}
	return hashes, rows.Err()
}

// FileIDByPath looks up a file's id within a project, used by the
// reconciler and relationship resolution to translate paths back to ids.
func (s *Store) FileIDByPath(projectID int64, path string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM files WHERE project_id = ? AND file_path = ?`, projectID, path).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("file id by path %q: %w", path, err)
	}
	return id, true, nil
}

// ClearProject deletes a project and everything it owns. force is required
// when the project has files, guarding against accidental wipes.
func (s *Store) ClearProject(projectID int64, force bool) error {
	if !force {
		var count int
		if err := s.db.QueryRow(`SELECT COUNT(*) FROM files WHERE project_id = ?`, projectID).Scan(&count); err != nil {
			return fmt.Errorf("clear project: count files: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("clear project %d: has %d files, force required", projectID, count)
		}
	}
	if _, err := s.db.Exec(`DELETE FROM projects WHERE id = ?`, projectID); err != nil {
		return fmt.Errorf("clear project %d: %w", projectID, err)
	}
	return nil
}

// ProjectByName looks up a project by its unique name, used by the
// reconciler to resolve the project the caller named on the command line.
func (s *Store) ProjectByName(name string) (*Project, bool, error) {
	var p Project
	err := s.db.QueryRow(
		`SELECT id, name, path, language, version, description, source_file, created_at, updated_at
		 FROM projects WHERE name = ?`, name,
	).Scan(&p.ID, &p.Name, &p.Path, &p.Language, &p.Version, &p.Description, &p.SourceFile, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("project by name %q: %w", name, err)
	}
	return &p, true, nil
}

// GetBlockIDs returns every block id owned by a file, depth included,
// used to build the embedding-deletion id set ahead of a wholesale
// rewrite or a file deletion.
func (s *Store) GetBlockIDs(fileID int64) ([]int64, error) {
	rows, err := s.db.Query(`SELECT id FROM code_blocks WHERE file_id = ?`, fileID)
	if err != nil {
		return nil, fmt.Errorf("get block ids for file %d: %w", fileID, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("get block ids for file %d: scan: %w", fileID, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetBlocks returns every block row owned by a file, in insertion order,
// with Symbols unmarshaled back out of their stored JSON form. Used by
// tests asserting P4/P5 against what actually landed in the store.
func (s *Store) GetBlocks(fileID int64) ([]*Block, error) {
	rows, err := s.db.Query(
		`SELECT id, parent_id, type, name, content, start_line, end_line, start_col, end_col, properties
		 FROM code_blocks WHERE file_id = ? ORDER BY id`, fileID,
	)
	if err != nil {
		return nil, fmt.Errorf("get blocks for file %d: %w", fileID, err)
	}
	defer rows.Close()

	var blocks []*Block
	for rows.Next() {
		b := &Block{FileID: fileID}
		var parentID sql.NullInt64
		var properties string
		if err := rows.Scan(&b.ID, &parentID, &b.Type, &b.Name, &b.Content,
			&b.StartLine, &b.EndLine, &b.StartCol, &b.EndCol, &properties); err != nil {
			return nil, fmt.Errorf("get blocks for file %d: scan: %w", fileID, err)
		}
		if parentID.Valid {
			id := parentID.Int64
			b.ParentID = &id
		}
		b.Symbols = unmarshalModifiers(properties)
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

// DeleteBlocksForFile removes every code_block row owned by a file,
// without touching the file row itself — the "owned children" half of the
// file-update-is-delete-then-insert rule in §3.
func (s *Store) DeleteBlocksForFile(fileID int64) error {
	_, err := s.db.Exec(`DELETE FROM code_blocks WHERE file_id = ?`, fileID)
	if err != nil {
		return fmt.Errorf("delete blocks for file %d: %w", fileID, err)
	}
	return nil
}

// DeleteRelationshipsFrom removes every relationship sourced from a file,
// the other half of the owned-children wipe a wholesale file rewrite
// requires (the file row itself is kept; only what it owns is cleared).
func (s *Store) DeleteRelationshipsFrom(fileID int64) error {
	_, err := s.db.Exec(`DELETE FROM relationships WHERE source_id = ?`, fileID)
	if err != nil {
		return fmt.Errorf("delete relationships from file %d: %w", fileID, err)
	}
	return nil
}

// CountRelationshipsTouching counts relationships with fileID as either
// endpoint, used to report relationships_deleted before a file's edges are
// cleared.
func (s *Store) CountRelationshipsTouching(fileID int64) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM relationships WHERE source_id = ? OR target_id = ?`, fileID, fileID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count relationships touching file %d: %w", fileID, err)
	}
	return n, nil
}
