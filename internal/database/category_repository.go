package database

import (
	"fmt"
	"strings"

	"github.com/example/kidvocab/pkg/models"
)

// CategoryRepository handles database operations for word categories
type CategoryRepository struct{}

// NewCategoryRepository creates a new repository instance
func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

// GetAll returns all categories
func (r *CategoryRepository) GetAll() ([]models.Category, error) {
	var categories []models.Category
	err := DB.Select(&categories, "SELECT * FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %v", err)
	}
	return categories, nil
}

// GetByName returns a category by its name (case-insensitive)
func (r *CategoryRepository) GetByName(name string) (*models.Category, error) {
	var category models.Category

	query := "SELECT * FROM categories WHERE LOWER(name) = LOWER(?)"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	err := DB.Get(&category, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get category by name: %v", err)
	}
	return &category, nil
}

// Create inserts a new category
func (r *CategoryRepository) Create(category *models.Category) error {
	if DB.DriverName() == "postgres" {
		query := `
			INSERT INTO categories (name)
			VALUES ($1)
			RETURNING id, created_at
		`
		return DB.QueryRow(query, category.Name).Scan(&category.ID, &category.CreatedAt)
	}

	// SQLite path: no RETURNING, fetch the row id afterwards
	result, err := DB.Exec("INSERT INTO categories (name) VALUES (?)", category.Name)
	if err != nil {
		return fmt.Errorf("failed to create category: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %v", err)
	}
	category.ID = id
	return nil
}

// Delete removes a category
func (r *CategoryRepository) Delete(id int64) error {
	query := "DELETE FROM categories WHERE id = ?"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	_, err := DB.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %v", err)
	}
	return nil
}
