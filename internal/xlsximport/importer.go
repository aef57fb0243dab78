package xlsximport

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/kidvocab/internal/database"
	"github.com/example/kidvocab/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath            string // Path to the Excel or CSV file
	WordColumn          string // Column with the word
	TranslationColumn   string // Column with the translation
	CategoryColumn      string // Column with the category
	DifficultyColumn    string // Column with the difficulty
	PronunciationColumn string // Column with the pronunciation
	SheetName           string // Name of the sheet to import
	StartRow            int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		WordColumn:          "A",
		TranslationColumn:   "B",
		CategoryColumn:      "C",
		DifficultyColumn:    "D",
		PronunciationColumn: "E",
		SheetName:           "Sheet1",
		StartRow:            2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed    int
	CategoriesCreated int
	Created           int
	Updated           int
	Errors            []string
}

// ImportWords imports catalog words from an Excel or CSV file
func ImportWords(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	if ext == ".csv" {
		return importFromCSV(config)
	}
	return importFromExcel(config)
}

// importFromExcel imports words from an Excel file
func importFromExcel(config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	imp, err := newImporter()
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}

		imp.result.TotalProcessed++

		cell := func(column string) string {
			if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
				return row[idx]
			}
			return ""
		}

		err := imp.processWordData(
			cell(config.WordColumn),
			cell(config.TranslationColumn),
			cell(config.CategoryColumn),
			cell(config.DifficultyColumn),
			cell(config.PronunciationColumn),
		)
		if err != nil {
			imp.result.Errors = append(imp.result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return imp.result, nil
}

// importFromCSV imports words from a CSV file with the same column layout
// as the Excel sheet: word, translation, category, difficulty, pronunciation
func importFromCSV(config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	imp, err := newImporter()
	if err != nil {
		return nil, err
	}

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}

		rowNum++
		if rowNum < config.StartRow {
			continue
		}

		imp.result.TotalProcessed++

		field := func(idx int) string {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		err = imp.processWordData(field(0), field(1), field(2), field(3), field(4))
		if err != nil {
			imp.result.Errors = append(imp.result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	return imp.result, nil
}

// importer carries the repositories and running result through one import
type importer struct {
	categoryRepo *database.CategoryRepository
	wordRepo     *database.WordRepository
	categoryMap  map[string]int64
	result       *ImportResult
}

func newImporter() (*importer, error) {
	imp := &importer{
		categoryRepo: database.NewCategoryRepository(),
		wordRepo:     database.NewWordRepository(),
		categoryMap:  make(map[string]int64),
		result:       &ImportResult{Errors: make([]string, 0)},
	}

	// Map category names to IDs for quick lookup
	existing, err := imp.categoryRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get existing categories: %v", err)
	}
	for _, category := range existing {
		imp.categoryMap[strings.ToLower(category.Name)] = category.ID
	}

	return imp, nil
}

// getOrCreateCategory gets a category by name or creates a new one
func (imp *importer) getOrCreateCategory(name string) (int64, error) {
	nameLower := strings.ToLower(strings.TrimSpace(name))
	if id, exists := imp.categoryMap[nameLower]; exists {
		return id, nil
	}

	category := &models.Category{Name: strings.TrimSpace(name)}
	if err := imp.categoryRepo.Create(category); err != nil {
		return 0, fmt.Errorf("failed to create category: %v", err)
	}

	imp.categoryMap[nameLower] = category.ID
	imp.result.CategoriesCreated++
	return category.ID, nil
}

// processWordData handles one row of word data from any source
func (imp *importer) processWordData(word, translation, categoryName, difficulty, pronunciation string) error {
	word = strings.TrimSpace(word)
	translation = strings.TrimSpace(translation)

	if word == "" {
		return fmt.Errorf("word cannot be empty")
	}
	if translation == "" {
		return fmt.Errorf("translation cannot be empty")
	}
	if categoryName == "" {
		return fmt.Errorf("category cannot be empty")
	}

	difficultyVal := parseIntOrDefault(difficulty, models.DifficultyEasy, models.DifficultyHard, models.DifficultyEasy)

	categoryID, err := imp.getOrCreateCategory(categoryName)
	if err != nil {
		return err
	}

	// Update an existing word in the same category instead of duplicating it
	existingWords, err := imp.wordRepo.SearchWords(word)
	if err != nil {
		return fmt.Errorf("failed to search for existing words: %v", err)
	}

	for _, existing := range existingWords {
		if strings.EqualFold(existing.Word, word) && existing.CategoryID == categoryID {
			existing.Translation = translation
			existing.Difficulty = difficultyVal
			existing.Pronunciation = pronunciation

			if err := imp.wordRepo.Update(&existing); err != nil {
				return fmt.Errorf("failed to update word: %v", err)
			}
			imp.result.Updated++
			return nil
		}
	}

	newWord := &models.Word{
		Word:          word,
		Translation:   translation,
		CategoryID:    categoryID,
		Difficulty:    difficultyVal,
		Pronunciation: pronunciation,
	}
	if err := imp.wordRepo.Create(newWord); err != nil {
		return fmt.Errorf("failed to create word: %v", err)
	}
	imp.result.Created++
	return nil
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	if column == "" {
		return -1
	}
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}

// Helper function to parse an integer clamped to a range, with a default
// for unparsable input
func parseIntOrDefault(s string, min, max, defaultVal int) int {
	var val int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &val); err != nil {
		return defaultVal
	}
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
