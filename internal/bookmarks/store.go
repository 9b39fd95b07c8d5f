package bookmarks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/1pybb7-prog/mytourproject1/internal/geo"
	"github.com/1pybb7-prog/mytourproject1/internal/metrics"
)

// ErrNotFound is returned when the requested bookmark does not exist.
var ErrNotFound = errors.New("bookmark not found")

// Bookmark is a place the user saved for later.
type Bookmark struct {
	ID        string       `json:"id"`
	PlaceID   string       `json:"place_id"`
	Title     string       `json:"title"`
	Position  geo.Position `json:"position"`
	CreatedAt time.Time    `json:"created_at"`
}

// Store persists bookmarks in a local SQLite database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS bookmarks (
	id         TEXT PRIMARY KEY,
	place_id   TEXT NOT NULL,
	title      TEXT NOT NULL,
	lat        REAL NOT NULL,
	lng        REAL NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bookmarks_place_id ON bookmarks(place_id);
`

// Open opens (or creates) the bookmark database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bookmark db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bookmark schema: %w", err)
	}
	store := &Store{db: db}
	if count, err := store.count(context.Background()); err == nil {
		metrics.BookmarksTotal.Set(float64(count))
	}
	return store, nil
}

// Add saves a bookmark and returns it with its generated ID.
func (s *Store) Add(ctx context.Context, placeID, title string, pos geo.Position) (Bookmark, error) {
	bookmark := Bookmark{
		ID:        uuid.NewString(),
		PlaceID:   placeID,
		Title:     title,
		Position:  pos,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bookmarks (id, place_id, title, lat, lng, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		bookmark.ID, bookmark.PlaceID, bookmark.Title, bookmark.Position.Lat, bookmark.Position.Lng, bookmark.CreatedAt)
	if err != nil {
		return Bookmark{}, fmt.Errorf("failed to insert bookmark: %w", err)
	}

	metrics.BookmarksTotal.Inc()
	return bookmark, nil
}

// List returns all bookmarks, newest first.
func (s *Store) List(ctx context.Context) ([]Bookmark, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, place_id, title, lat, lng, created_at FROM bookmarks ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	var result []Bookmark
	for rows.Next() {
		var b Bookmark
		if err := rows.Scan(&b.ID, &b.PlaceID, &b.Title, &b.Position.Lat, &b.Position.Lng, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

// Get returns a single bookmark by ID.
func (s *Store) Get(ctx context.Context, id string) (Bookmark, error) {
	var b Bookmark
	err := s.db.QueryRowContext(ctx,
		`SELECT id, place_id, title, lat, lng, created_at FROM bookmarks WHERE id = ?`, id).
		Scan(&b.ID, &b.PlaceID, &b.Title, &b.Position.Lat, &b.Position.Lng, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Bookmark{}, ErrNotFound
	}
	if err != nil {
		return Bookmark{}, fmt.Errorf("failed to load bookmark: %w", err)
	}
	return b, nil
}

// Delete removes a bookmark. It returns ErrNotFound when no row matched.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	metrics.BookmarksTotal.Dec()
	return nil
}

func (s *Store) count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookmarks`).Scan(&count)
	return count, err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
