// Package sqlite persists the vector index as a single SQLite database
// file. The index builder writes it; the advisor loads it into memory
// exactly once at startup and never touches the file again.
//
// The file must come from a trusted, locally-controlled build. Loading
// only validates structure (schema, blob lengths, dimension
// consistency), not provenance.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	_ "modernc.org/sqlite"

	"koyl/internal/domain"
	"koyl/internal/vectorstore"
	"koyl/internal/vectorstore/memory"
)

const schema = `
CREATE TABLE IF NOT EXISTS index_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS chunks (
	id          TEXT PRIMARY KEY,
	document_id TEXT NOT NULL,
	position    INTEGER NOT NULL,
	content     TEXT NOT NULL,
	embedding   BLOB NOT NULL
);`

const (
	metaEmbedderModel = "embedder_model"
	metaDimension     = "dimension"
)

// Store writes a new index database. It is used by the index builder
// only; the advisor side goes through Load.
type Store struct {
	db        *sql.DB
	dimension int
}

// Create opens (or creates) an index database at path, ensures the
// schema, and records the embedder model and dimension.
func Create(path, embedderModel string, dimension int) (*Store, error) {
	if dimension <= 0 {
		return nil, errors.New("invalid dimension")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating index schema: %w", err)
	}
	for key, value := range map[string]string{
		metaEmbedderModel: embedderModel,
		metaDimension:     strconv.Itoa(dimension),
	} {
		if _, err := db.Exec(`INSERT OR REPLACE INTO index_meta(key, value) VALUES(?, ?)`, key, value); err != nil {
			db.Close()
			return nil, fmt.Errorf("writing index metadata: %w", err)
		}
	}
	return &Store{db: db, dimension: dimension}, nil
}

// Append inserts chunks with their embeddings in one transaction.
func (s *Store) Append(chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT INTO chunks(id, document_id, position, content, embedding) VALUES(?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, ch := range chunks {
		if len(vectors[i]) != s.dimension {
			return fmt.Errorf("chunk %s: vector dimension %d, want %d", ch.ID, len(vectors[i]), s.dimension)
		}
		if _, err := stmt.Exec(ch.ID, ch.DocumentID, ch.Index, ch.Text, vectorstore.EncodeEmbedding(vectors[i])); err != nil {
			return fmt.Errorf("inserting chunk %s: %w", ch.ID, err)
		}
	}
	return tx.Commit()
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Load reads the whole persisted index into an immutable in-memory
// searcher. Chunks come back in insertion order, which fixes the
// tie-break order of subsequent searches. Any structural problem
// (missing file, missing metadata, malformed blob, inconsistent
// dimension) fails the load; there is no partial or degraded mode.
func Load(path string) (*memory.Index, vectorstore.Meta, error) {
	var meta vectorstore.Meta
	if _, err := os.Stat(path); err != nil {
		return nil, meta, fmt.Errorf("index not found at %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, meta, fmt.Errorf("opening index database: %w", err)
	}
	defer db.Close()

	meta, err = readMeta(db)
	if err != nil {
		return nil, meta, err
	}

	rows, err := db.Query(`SELECT id, document_id, position, content, embedding FROM chunks ORDER BY rowid`)
	if err != nil {
		return nil, meta, fmt.Errorf("reading index chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	var vectors [][]float32
	for rows.Next() {
		var ch domain.Chunk
		var blob []byte
		if err := rows.Scan(&ch.ID, &ch.DocumentID, &ch.Index, &ch.Text, &blob); err != nil {
			return nil, meta, fmt.Errorf("reading index chunks: %w", err)
		}
		vec, err := vectorstore.DecodeEmbedding(blob)
		if err != nil {
			return nil, meta, fmt.Errorf("chunk %s: %w", ch.ID, err)
		}
		if len(vec) != meta.Dimension {
			return nil, meta, fmt.Errorf("chunk %s: vector dimension %d, want %d", ch.ID, len(vec), meta.Dimension)
		}
		chunks = append(chunks, ch)
		vectors = append(vectors, vec)
	}
	if err := rows.Err(); err != nil {
		return nil, meta, fmt.Errorf("reading index chunks: %w", err)
	}
	meta.Chunks = len(chunks)

	idx, err := memory.NewIndex(meta.Dimension, chunks, vectors)
	if err != nil {
		return nil, meta, err
	}
	return idx, meta, nil
}

func readMeta(db *sql.DB) (vectorstore.Meta, error) {
	var meta vectorstore.Meta
	rows, err := db.Query(`SELECT key, value FROM index_meta`)
	if err != nil {
		return meta, fmt.Errorf("reading index metadata: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return meta, fmt.Errorf("reading index metadata: %w", err)
		}
		switch key {
		case metaEmbedderModel:
			meta.EmbedderModel = value
		case metaDimension:
			d, err := strconv.Atoi(value)
			if err != nil {
				return meta, fmt.Errorf("invalid index dimension %q", value)
			}
			meta.Dimension = d
		}
	}
	if err := rows.Err(); err != nil {
		return meta, err
	}
	if meta.Dimension <= 0 {
		return meta, errors.New("index metadata missing dimension")
	}
	return meta, nil
}
