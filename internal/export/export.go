package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/example/kidvocab/internal/session"
	"github.com/example/kidvocab/pkg/models"
)

// ErrInvalidRecord is returned when an imported file does not hold an
// acceptable session record
var ErrInvalidRecord = errors.New("invalid session record")

// Export writes the session record as pretty-printed JSON, a direct dump
// of the stored format
func Export(data models.SessionData, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// Filename returns the date-stamped export filename for the given time
func Filename(now time.Time) string {
	return fmt.Sprintf("kidvocab-session-%s.json", now.Format("2006-01-02"))
}

// ExportToFile dumps the record into dir under a date-stamped name and
// returns the written path
func ExportToFile(data models.SessionData, dir string) (string, error) {
	path := filepath.Join(dir, Filename(time.Now()))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %v", err)
	}
	defer f.Close()

	if err := Export(data, f); err != nil {
		return "", fmt.Errorf("failed to write export file: %v", err)
	}
	return path, nil
}

// Import parses a previously exported record and validates it against the
// expected schema version. A malformed or invalid file is rejected as a
// whole; there is no partial application.
func Import(r io.Reader, expectedVersion string) (*models.SessionData, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read import: %v", err)
	}

	var data models.SessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if !session.IsValidSessionData(data, expectedVersion) {
		return nil, ErrInvalidRecord
	}
	return &data, nil
}

// ImportFile imports a session record from a file on disk
func ImportFile(path string, expectedVersion string) (*models.SessionData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %v", err)
	}
	defer f.Close()

	return Import(f, expectedVersion)
}
