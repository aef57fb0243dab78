package database

import (
	"fmt"
	"strings"

	"github.com/example/kidvocab/pkg/models"
)

// selectWords is the shared projection joining words to their category name
const selectWords = `
	SELECT w.id, w.word, w.translation, w.category_id, c.name AS category,
	       w.difficulty, w.pronunciation, w.created_at, w.updated_at
	FROM words w
	JOIN categories c ON w.category_id = c.id
`

// WordRepository handles database operations for the word catalog
type WordRepository struct{}

// NewWordRepository creates a new repository instance
func NewWordRepository() *WordRepository {
	return &WordRepository{}
}

// GetAll returns the full word catalog
func (r *WordRepository) GetAll() ([]models.Word, error) {
	var words []models.Word
	err := DB.Select(&words, selectWords+" ORDER BY w.word")
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %v", err)
	}
	return words, nil
}

// GetByID returns a word by ID
func (r *WordRepository) GetByID(id int) (*models.Word, error) {
	var word models.Word

	query := selectWords + " WHERE w.id = ?"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	err := DB.Get(&word, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get word by ID: %v", err)
	}
	return &word, nil
}

// GetByCategory returns words belonging to a specific category
func (r *WordRepository) GetByCategory(categoryID int64) ([]models.Word, error) {
	var words []models.Word

	query := selectWords + " WHERE w.category_id = ? ORDER BY w.word"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	err := DB.Select(&words, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get words by category: %v", err)
	}
	return words, nil
}

// GetByDifficulty returns words at the given difficulty level
func (r *WordRepository) GetByDifficulty(difficulty int) ([]models.Word, error) {
	var words []models.Word

	query := selectWords + " WHERE w.difficulty = ? ORDER BY w.word"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	err := DB.Select(&words, query, difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to get words by difficulty: %v", err)
	}
	return words, nil
}

// SearchWords searches for words by pattern matching on the word or translation
func (r *WordRepository) SearchWords(query string) ([]models.Word, error) {
	var words []models.Word
	pattern := "%" + query + "%"

	if DB.DriverName() == "postgres" {
		sqlQuery := selectWords + `
			WHERE w.word ILIKE $1 OR w.translation ILIKE $1
			ORDER BY w.word
		`
		if err := DB.Select(&words, sqlQuery, pattern); err != nil {
			return nil, fmt.Errorf("failed to search words: %v", err)
		}
		return words, nil
	}

	sqlQuery := selectWords + `
		WHERE LOWER(w.word) LIKE LOWER(?) OR LOWER(w.translation) LIKE LOWER(?)
		ORDER BY w.word
	`
	if err := DB.Select(&words, sqlQuery, pattern, pattern); err != nil {
		return nil, fmt.Errorf("failed to search words: %v", err)
	}
	return words, nil
}

// Create inserts a new word
func (r *WordRepository) Create(word *models.Word) error {
	if DB.DriverName() == "postgres" {
		query := `
			INSERT INTO words (word, translation, category_id, difficulty, pronunciation)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at
		`
		return DB.QueryRow(
			query,
			word.Word,
			word.Translation,
			word.CategoryID,
			word.Difficulty,
			word.Pronunciation,
		).Scan(&word.ID, &word.CreatedAt, &word.UpdatedAt)
	}

	// SQLite path: no RETURNING
	query := `
		INSERT INTO words (word, translation, category_id, difficulty, pronunciation, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`
	result, err := DB.Exec(
		query,
		word.Word,
		word.Translation,
		word.CategoryID,
		word.Difficulty,
		word.Pronunciation,
	)
	if err != nil {
		return fmt.Errorf("failed to create word: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %v", err)
	}
	word.ID = int(id)
	return nil
}

// Update modifies an existing word
func (r *WordRepository) Update(word *models.Word) error {
	if DB.DriverName() == "postgres" {
		query := `
			UPDATE words SET
				word = $1,
				translation = $2,
				category_id = $3,
				difficulty = $4,
				pronunciation = $5,
				updated_at = NOW()
			WHERE id = $6
			RETURNING updated_at
		`
		return DB.QueryRow(
			query,
			word.Word,
			word.Translation,
			word.CategoryID,
			word.Difficulty,
			word.Pronunciation,
			word.ID,
		).Scan(&word.UpdatedAt)
	}

	query := `
		UPDATE words SET
			word = ?,
			translation = ?,
			category_id = ?,
			difficulty = ?,
			pronunciation = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := DB.Exec(
		query,
		word.Word,
		word.Translation,
		word.CategoryID,
		word.Difficulty,
		word.Pronunciation,
		word.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update word: %v", err)
	}
	return nil
}

// Delete removes a word
func (r *WordRepository) Delete(id int) error {
	query := "DELETE FROM words WHERE id = ?"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	_, err := DB.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete word: %v", err)
	}
	return nil
}
