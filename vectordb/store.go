// Package vectordb is a persistent vector index: named collections of
// fixed-dimension vectors with JSON payloads, searched by cosine
// similarity. Everything lives in one SQLite file inside the index
// directory.
package vectordb

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileName is the database file created inside the index directory.
const FileName = "ontomap.db"

// Distance is a similarity metric.
type Distance string

// Cosine is the only metric supported.
const Cosine Distance = "cosine"

// Collection describes a collection.
type Collection struct {
	Name      string
	Dimension int
	Distance  Distance
	// Points is the number of stored vectors.
	Points int
}

// Payload is the metadata stored with each vector.
type Payload struct {
	// ID is the URI of the ontology concept.
	ID        string `json:"id"`
	Label     string `json:"label"`
	Category  string `json:"category"`
	Ontology  string `json:"ontology,omitempty"`
	Predicate string `json:"predicate,omitempty"`
}

// Point is a stored vector.
type Point struct {
	ID      int64
	Vector  []float32
	Payload Payload
}

// ScoredPoint is a search hit.
type ScoredPoint struct {
	ID      int64
	Score   float64
	Payload Payload
}

const schema = `
CREATE TABLE IF NOT EXISTS collections (
	name       TEXT PRIMARY KEY,
	dimension  INTEGER NOT NULL,
	distance   TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS points (
	collection TEXT NOT NULL,
	id         INTEGER NOT NULL,
	vector     BLOB NOT NULL,
	payload    TEXT NOT NULL,
	PRIMARY KEY (collection, id)
);
CREATE TABLE IF NOT EXISTS embedding_cache (
	hash   TEXT PRIMARY KEY,
	vector BLOB NOT NULL
);`

// Store is a vector index backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Open opens (creating if needed) the index in directory dir.
func Open(ctx context.Context, dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	path := filepath.Join(dir, FileName)
	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &Store{db: db, path: path, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger.Debug("Opened vector index", slog.String("path", path))
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CollectionInfo returns the collection metadata or ErrCollectionNotFound.
func (s *Store) CollectionInfo(ctx context.Context, name string) (Collection, error) {
	c := Collection{Name: name}
	var distance string
	err := s.db.QueryRowContext(ctx,
		`SELECT dimension, distance FROM collections WHERE name = ?`, name).
		Scan(&c.Dimension, &distance)
	if errors.Is(err, sql.ErrNoRows) {
		return Collection{}, fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
	}
	if err != nil {
		return Collection{}, fmt.Errorf("get collection %s: %w", name, err)
	}
	c.Distance = Distance(distance)

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM points WHERE collection = ?`, name).Scan(&c.Points); err != nil {
		return Collection{}, fmt.Errorf("count points: %w", err)
	}
	return c, nil
}

// RecreateCollection drops the collection and its points, then creates it
// empty with the given dimension.
func (s *Store) RecreateCollection(ctx context.Context, name string, dimension int, distance Distance) error {
	if dimension <= 0 {
		return fmt.Errorf("collection dimension must be positive, got %d", dimension)
	}
	if distance != Cosine {
		return fmt.Errorf("unsupported distance %q", distance)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM points WHERE collection = ?`, name); err != nil {
		return fmt.Errorf("delete points: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO collections(name, dimension, distance, created_at) VALUES(?, ?, ?, ?)`,
		name, dimension, string(distance), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("Created collection",
		slog.String("collection", name),
		slog.Int("dimension", dimension),
		slog.String("distance", string(distance)))
	return nil
}

// Upsert writes points in one transaction, replacing points with the same id.
func (s *Store) Upsert(ctx context.Context, name string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	info, err := s.CollectionInfo(ctx, name)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO points(collection, id, vector, payload) VALUES(?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range points {
		if len(p.Vector) != info.Dimension {
			return fmt.Errorf("%w: point %d has %d, collection %s has %d",
				ErrDimension, p.ID, len(p.Vector), name, info.Dimension)
		}
		payload, err := marshalPayload(p.Payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, name, p.ID, EncodeVector(p.Vector), payload); err != nil {
			return fmt.Errorf("insert point %d: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// marshalPayload encodes without HTML escaping so URLs are stored verbatim
// and CountMatching can find them.
func marshalPayload(p Payload) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Count returns the number of points in the collection.
func (s *Store) Count(ctx context.Context, name string) (int, error) {
	info, err := s.CollectionInfo(ctx, name)
	if err != nil {
		return 0, err
	}
	return info.Points, nil
}

// CountMatching returns the number of points whose serialized payload
// contains substr.
func (s *Store) CountMatching(ctx context.Context, name, substr string) (int, error) {
	if _, err := s.CollectionInfo(ctx, name); err != nil {
		return 0, err
	}
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM points WHERE collection = ? AND instr(payload, ?) > 0`,
		name, substr).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count matching points: %w", err)
	}
	return n, nil
}

// Search returns up to limit points ordered by descending cosine similarity
// to vector, ties broken by ascending id.
func (s *Store) Search(ctx context.Context, name string, vector []float32, limit int) ([]ScoredPoint, error) {
	info, err := s.CollectionInfo(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(vector) != info.Dimension {
		return nil, fmt.Errorf("%w: query has %d, collection %s has %d",
			ErrDimension, len(vector), name, info.Dimension)
	}
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, payload, vec_cosine(vector, ?) AS score
		FROM points
		WHERE collection = ?
		ORDER BY score DESC, id ASC
		LIMIT ?`, EncodeVector(vector), name, limit)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", name, err)
	}
	defer rows.Close()

	var hits []ScoredPoint
	for rows.Next() {
		var (
			hit     ScoredPoint
			payload string
			score   sql.NullFloat64
		)
		if err := rows.Scan(&hit.ID, &payload, &score); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &hit.Payload); err != nil {
			return nil, fmt.Errorf("decode payload of point %d: %w", hit.ID, err)
		}
		hit.Score = score.Float64
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}
