package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// SessionRepository handles the durable session records. Each record is a
// JSON blob keyed by a storage key, the server-side stand-in for a
// browser's local storage namespace.
type SessionRepository struct{}

// NewSessionRepository creates a new repository instance
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

// Get returns the raw record stored at key, or nil when no record exists
func (r *SessionRepository) Get(key string) ([]byte, error) {
	query := "SELECT data FROM session_records WHERE key = ?"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	var data string
	err := DB.QueryRow(query, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session record: %v", err)
	}
	return []byte(data), nil
}

// Save writes the record at key, replacing any previous value
func (r *SessionRepository) Save(key string, data []byte) error {
	now := time.Now().UnixMilli()

	query := `
		INSERT INTO session_records (key, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`
	if DB.DriverName() == "postgres" {
		query = `
			INSERT INTO session_records (key, data, updated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (key) DO UPDATE SET
				data = EXCLUDED.data,
				updated_at = EXCLUDED.updated_at
		`
	}

	_, err := DB.Exec(query, key, string(data), now)
	if err != nil {
		return fmt.Errorf("failed to save session record: %v", err)
	}
	return nil
}

// Delete removes the record at key. Deleting an absent key is not an error.
func (r *SessionRepository) Delete(key string) error {
	query := "DELETE FROM session_records WHERE key = ?"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	_, err := DB.Exec(query, key)
	if err != nil {
		return fmt.Errorf("failed to delete session record: %v", err)
	}
	return nil
}

// DeleteOlderThan removes records whose last write is older than maxAge
// and returns how many were deleted
func (r *SessionRepository) DeleteOlderThan(maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).UnixMilli()

	query := "DELETE FROM session_records WHERE updated_at < ?"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	result, err := DB.Exec(query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale session records: %v", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return count, nil
}
