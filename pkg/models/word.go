package models

import "time"

// Difficulty levels for catalog words
const (
	DifficultyEasy   = 1
	DifficultyMedium = 2
	DifficultyHard   = 3
)

// Word represents a vocabulary item from the static word catalog
type Word struct {
	ID            int       `json:"id" db:"id"`
	Word          string    `json:"word" db:"word"`
	Translation   string    `json:"translation" db:"translation"`
	CategoryID    int64     `json:"category_id" db:"category_id"`
	Category      string    `json:"category" db:"category"`
	Difficulty    int       `json:"difficulty" db:"difficulty"`       // 1=easy, 2=medium, 3=hard
	Pronunciation string    `json:"pronunciation" db:"pronunciation"` // Optional: URL to audio pronunciation
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
