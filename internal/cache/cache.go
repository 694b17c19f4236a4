// Package cache provides the local SQLite show cache.
//
// The cache is the offline tier of the repository's fallback chain:
// successful network fetches are written through here, and when every
// remote source is down the last cached shows keep the client usable.
//
// # Thread Safety
//
// Store is safe for concurrent use. The underlying sql.DB handles
// connection pooling and serialization. Individual operations are
// atomic, but sequences of operations require external synchronization.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/muraschal/radiox-frontend/internal/logging"
	"github.com/muraschal/radiox-frontend/internal/show"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// Store persists shows locally.
type Store struct {
	db *sql.DB
}

// NewStore creates a SQLite store at the given path. The database is
// created if it doesn't exist, and migrations are applied automatically.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS shows (
		id TEXT PRIMARY KEY,
		session_id TEXT,
		title TEXT NOT NULL,
		script_preview TEXT,
		script_content TEXT,
		broadcast_style TEXT,
		channel TEXT,
		language TEXT,
		preset_name TEXT,
		audio_url TEXT,
		audio_duration REAL DEFAULT 0,
		audio_file_size INTEGER DEFAULT 0,
		estimated_duration_minutes INTEGER DEFAULT 0,
		news_count INTEGER DEFAULT 0,
		created_at DATETIME NOT NULL,
		segments TEXT,
		metadata TEXT,
		cached_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_shows_created ON shows(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_shows_channel ON shows(channel);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// SaveShows saves or updates shows in a single transaction.
//
// The generation placeholder is never persisted. Individual row failures
// are logged but do not stop the transaction. Returns the number of rows
// saved.
func (s *Store) SaveShows(shows []show.Show) (int, error) {
	if len(shows) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Rollback is safe to call even after commit - it's a no-op
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO shows (id, session_id, title, script_preview, script_content, broadcast_style,
			channel, language, preset_name, audio_url, audio_duration, audio_file_size,
			estimated_duration_minutes, news_count, created_at, segments, metadata, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			session_id = excluded.session_id,
			title = excluded.title,
			script_preview = excluded.script_preview,
			script_content = excluded.script_content,
			audio_url = excluded.audio_url,
			audio_duration = excluded.audio_duration,
			audio_file_size = excluded.audio_file_size,
			segments = excluded.segments,
			metadata = excluded.metadata,
			cached_at = excluded.cached_at
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	var saved int
	now := time.Now()
	for _, sh := range shows {
		if sh.IsPlaceholder() {
			continue
		}
		segments, metadata := encodeJSONColumns(sh)
		result, err := stmt.Exec(
			sh.ID,
			sh.SessionID,
			sh.Title,
			sh.ScriptPreview,
			sh.ScriptContent,
			sh.BroadcastStyle,
			sh.Channel,
			sh.Language,
			sh.PresetName,
			sh.AudioURL,
			sh.AudioDurationSeconds,
			sh.AudioFileSizeBytes,
			sh.EstimatedDurationMinutes,
			sh.NewsCount,
			sh.CreatedAt,
			segments,
			metadata,
			now,
		)
		if err != nil {
			logging.Debug("Failed to cache show", "id", sh.ID, "error", err)
			continue
		}
		rows, err := result.RowsAffected()
		if err == nil && rows > 0 {
			saved++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return saved, nil
}

// SaveShow saves or updates a single show.
func (s *Store) SaveShow(sh show.Show) error {
	_, err := s.SaveShows([]show.Show{sh})
	return err
}

// GetShows retrieves cached shows ordered by creation time, newest first.
func (s *Store) GetShows(limit, offset int) ([]show.Show, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.Query(`
		SELECT id, session_id, title, script_preview, script_content, broadcast_style,
			channel, language, preset_name, audio_url, audio_duration, audio_file_size,
			estimated_duration_minutes, news_count, created_at, segments, metadata
		FROM shows
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query shows: %w", err)
	}
	defer rows.Close()

	return scanShows(rows)
}

// GetShow retrieves one cached show by id, or nil if absent.
func (s *Store) GetShow(id string) (*show.Show, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, title, script_preview, script_content, broadcast_style,
			channel, language, preset_name, audio_url, audio_duration, audio_file_size,
			estimated_duration_minutes, news_count, created_at, segments, metadata
		FROM shows
		WHERE id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query show: %w", err)
	}
	defer rows.Close()

	shows, err := scanShows(rows)
	if err != nil {
		return nil, err
	}
	if len(shows) == 0 {
		return nil, nil
	}
	return &shows[0], nil
}

// Count returns the number of cached shows.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM shows").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count shows: %w", err)
	}
	return count, nil
}

// Prune removes cached shows older than cutoff, returning the number
// removed.
func (s *Store) Prune(cutoff time.Time) (int, error) {
	result, err := s.db.Exec("DELETE FROM shows WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune shows: %w", err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// scanShows scans rows into shows, handling the common scanning logic.
func scanShows(rows *sql.Rows) ([]show.Show, error) {
	var shows []show.Show
	for rows.Next() {
		var (
			sh        show.Show
			sessionID sql.NullString
			preview   sql.NullString
			content   sql.NullString
			style     sql.NullString
			channel   sql.NullString
			language  sql.NullString
			preset    sql.NullString
			audioURL  sql.NullString
			segments  sql.NullString
			metadata  sql.NullString
		)
		err := rows.Scan(
			&sh.ID,
			&sessionID,
			&sh.Title,
			&preview,
			&content,
			&style,
			&channel,
			&language,
			&preset,
			&audioURL,
			&sh.AudioDurationSeconds,
			&sh.AudioFileSizeBytes,
			&sh.EstimatedDurationMinutes,
			&sh.NewsCount,
			&sh.CreatedAt,
			&segments,
			&metadata,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan show: %w", err)
		}
		sh.SessionID = sessionID.String
		sh.ScriptPreview = preview.String
		sh.ScriptContent = content.String
		sh.BroadcastStyle = style.String
		sh.Channel = channel.String
		sh.Language = language.String
		sh.PresetName = preset.String
		sh.AudioURL = audioURL.String
		if segments.Valid && segments.String != "" {
			if err := json.Unmarshal([]byte(segments.String), &sh.Segments); err != nil {
				logging.Debug("Failed to decode cached segments", "id", sh.ID, "error", err)
			}
		}
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &sh.Metadata); err != nil {
				logging.Debug("Failed to decode cached metadata", "id", sh.ID, "error", err)
			}
		}
		shows = append(shows, sh)
	}

	// Critical: check for errors from row iteration
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return shows, nil
}

// encodeJSONColumns serializes the structured columns. Encoding failures
// degrade to empty columns rather than failing the whole save.
func encodeJSONColumns(sh show.Show) (string, string) {
	var segments, metadata string
	if len(sh.Segments) > 0 {
		if b, err := json.Marshal(sh.Segments); err == nil {
			segments = string(b)
		}
	}
	if len(sh.Metadata) > 0 {
		if b, err := json.Marshal(sh.Metadata); err == nil {
			metadata = string(b)
		}
	}
	return segments, metadata
}
