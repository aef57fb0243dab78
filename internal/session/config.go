package session

import (
	"time"

	"github.com/example/kidvocab/pkg/models"
)

// SchemaVersion is the current session record schema version. The major
// component gates compatibility: records written under a different major
// version are discarded on load, minor drift is tolerated.
const SchemaVersion = "1.0"

// Config holds the settings for a session store
type Config struct {
	// Storage key for the durable record
	Key string
	// Template for freshly-created records
	InitialData models.SessionData
	// Records older than this are discarded on load
	MaxAge time.Duration
	// Trailing-edge debounce window for durable writes
	Debounce time.Duration
	// Expected schema version, stamped on every write
	Version string
}

// DefaultConfig returns the default session store configuration
func DefaultConfig() Config {
	return Config{
		Key: "kidvocab_session",
		InitialData: models.SessionData{
			ActiveTab:        "dashboard",
			SelectedCategory: "all",
			LearningMode:     "flashcards",
			CurrentWordIndex: 0,
			RememberedWords:  []int{},
			ForgottenWords:   []int{},
			ExcludedWordIDs:  []int{},
			SessionNumber:    1,
			UserWordHistory:  map[int]models.WordHistory{},
		},
		MaxAge:   7 * 24 * time.Hour,
		Debounce: 500 * time.Millisecond,
		Version:  SchemaVersion,
	}
}
