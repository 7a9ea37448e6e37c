package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/argonaut/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
	"github.com/custodia-labs/argonaut/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// dbFileName is the database file inside the data directory.
const dbFileName = "index.db"

// sqliteNotADB is SQLITE_NOTADB, returned for files that are not databases.
const sqliteNotADB = 26

// Store is a SQLite-backed IndexStore.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the store in dataDir.
// If dataDir is empty, defaults to ~/.argonaut/vector_db.
// The directory is created on demand.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".argonaut", "vector_db")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFileName)

	s, err := open(dbPath)
	if err == nil {
		return s, nil
	}
	if !isNotADatabase(err) {
		return nil, err
	}

	aside := fmt.Sprintf("%s.corrupt-%d", dbPath, time.Now().Unix())
	logger.Recovered("index store %s is unreadable, moving it to %s and starting empty", dbPath, aside)
	if rerr := os.Rename(dbPath, aside); rerr != nil {
		return nil, fmt.Errorf("moving corrupt index store: %w", rerr)
	}
	// Stale WAL files belong to the corrupt database.
	_ = os.Remove(dbPath + "-wal")
	_ = os.Remove(dbPath + "-shm")

	return open(dbPath)
}

// open connects to dbPath and applies migrations.
func open(dbPath string) (*Store, error) {
	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// isNotADatabase reports whether err is SQLITE_NOTADB.
func isNotADatabase(err error) bool {
	var coded interface{ Code() int }
	if errors.As(err, &coded) && coded.Code()&0xff == sqliteNotADB {
		return true
	}
	return strings.Contains(err.Error(), "file is not a database")
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Indexes ====================

// EnsureIndex creates the index if absent and returns the stored handle.
func (s *Store) EnsureIndex(ctx context.Context, handle domain.IndexHandle) (domain.IndexHandle, error) {
	if handle.Name == "" || handle.Dimensions <= 0 {
		return domain.IndexHandle{}, domain.ErrInvalidInput
	}

	existing, err := s.GetIndex(ctx, handle.Name)
	switch {
	case err == nil:
		if existing.Dimensions != handle.Dimensions {
			return domain.IndexHandle{}, fmt.Errorf(
				"%w: index %q holds %d-dimension vectors, embedding model produces %d",
				domain.ErrModelUnavailable, handle.Name, existing.Dimensions, handle.Dimensions)
		}
		return existing, nil
	case !errors.Is(err, domain.ErrNotFound):
		return domain.IndexHandle{}, err
	}

	if handle.CreatedAt.IsZero() {
		handle.CreatedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO indexes (name, source, model, dimensions, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, handle.Name, handle.Source, handle.Model, handle.Dimensions, handle.CreatedAt)
	if err != nil {
		return domain.IndexHandle{}, fmt.Errorf("creating index: %w", err)
	}

	return s.GetIndex(ctx, handle.Name)
}

// GetIndex returns the handle for a stored index.
func (s *Store) GetIndex(ctx context.Context, name string) (domain.IndexHandle, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT i.name, i.source, i.model, i.dimensions, i.created_at,
			(SELECT COUNT(*) FROM chunks c WHERE c.index_name = i.name)
		FROM indexes i WHERE i.name = ?
	`, name)

	var h domain.IndexHandle
	if err := row.Scan(&h.Name, &h.Source, &h.Model, &h.Dimensions, &h.CreatedAt, &h.Chunks); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.IndexHandle{}, domain.ErrNotFound
		}
		return domain.IndexHandle{}, fmt.Errorf("scanning index: %w", err)
	}
	return h, nil
}

// ListIndexes returns all stored indexes ordered by name.
func (s *Store) ListIndexes(ctx context.Context) ([]domain.IndexHandle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.name, i.source, i.model, i.dimensions, i.created_at,
			(SELECT COUNT(*) FROM chunks c WHERE c.index_name = i.name)
		FROM indexes i ORDER BY i.name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying indexes: %w", err)
	}
	defer rows.Close()

	var handles []domain.IndexHandle //nolint:prealloc // size unknown from query
	for rows.Next() {
		var h domain.IndexHandle
		if err := rows.Scan(&h.Name, &h.Source, &h.Model, &h.Dimensions, &h.CreatedAt, &h.Chunks); err != nil {
			return nil, fmt.Errorf("scanning index: %w", err)
		}
		handles = append(handles, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating indexes: %w", err)
	}
	return handles, nil
}

// ==================== Chunks ====================

// AppendChunks stores chunks after the existing ones in a single transaction.
// Every chunk must carry an embedding.
func (s *Store) AppendChunks(ctx context.Context, indexName string, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, index_name, document_id, content, position, embedding, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := range chunks {
		c := &chunks[i]
		if len(c.Embedding) == 0 {
			return fmt.Errorf("%w: chunk %s has no embedding", domain.ErrInvalidInput, c.ID)
		}

		metadataJSON, err := json.Marshal(chunkMetadata(c))
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, c.ID, indexName, c.DocumentID, c.Content, c.Position,
			float32SliceToBytes(c.Embedding), string(metadataJSON), now); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunks: %w", err)
	}
	return nil
}

// GetChunk returns one chunk of the index.
func (s *Store) GetChunk(ctx context.Context, indexName, chunkID string) (*domain.Chunk, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, document_id, content, position, embedding, metadata
		FROM chunks WHERE index_name = ? AND id = ?
	`, indexName, chunkID)

	chunk, err := scanChunk(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return chunk, nil
}

// ListChunks returns every chunk of the index in insertion order.
// Rows whose embedding or metadata cannot be decoded are skipped.
func (s *Store) ListChunks(ctx context.Context, indexName string) ([]domain.Chunk, error) {
	handle, err := s.GetIndex(ctx, indexName)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, content, position, embedding, metadata
		FROM chunks WHERE index_name = ? ORDER BY seq
	`, indexName)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	chunks := make([]domain.Chunk, 0, handle.Chunks)
	skipped := 0
	for rows.Next() {
		chunk, err := scanChunk(rows.Scan)
		if err != nil || len(chunk.Embedding) != handle.Dimensions {
			skipped++
			continue
		}
		chunks = append(chunks, *chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	if skipped > 0 {
		logger.Recovered("index %q: skipped %d unreadable chunk rows", indexName, skipped)
	}
	return chunks, nil
}

// CountChunks returns the number of chunks in the index.
func (s *Store) CountChunks(ctx context.Context, indexName string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE index_name = ?", indexName).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// ==================== Helper Functions ====================

// chunkMetadata returns the metadata to persist, always tagged with the source.
func chunkMetadata(c *domain.Chunk) map[string]any {
	md := make(map[string]any, len(c.Metadata)+1)
	for k, v := range c.Metadata {
		md[k] = v
	}
	if _, ok := md[domain.MetadataSource]; !ok && c.Source != "" {
		md[domain.MetadataSource] = c.Source
	}
	return md
}

// scanChunk decodes one chunk row through the given scan function.
func scanChunk(scan func(dest ...any) error) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var embeddingBlob []byte
	var metadataJSON string

	if err := scan(&chunk.ID, &chunk.DocumentID, &chunk.Content,
		&chunk.Position, &embeddingBlob, &metadataJSON); err != nil {
		return nil, err
	}

	if len(embeddingBlob)%4 != 0 {
		return nil, fmt.Errorf("%w: embedding blob of %d bytes", domain.ErrCorruptState, len(embeddingBlob))
	}
	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("%w: chunk metadata: %w", domain.ErrCorruptState, err)
		}
	}
	if src, ok := chunk.Metadata[domain.MetadataSource].(string); ok {
		chunk.Source = src
	}

	return &chunk, nil
}

// float32SliceToBytes converts []float32 to little-endian bytes.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
