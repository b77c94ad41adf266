package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CategoryRepository handles database operations for categories.
type CategoryRepository struct {
	DB *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

// GetAll retrieves all categories in creation order.
func (r *CategoryRepository) GetAll(ctx context.Context) ([]Category, error) {
	categories := []Category{}
	err := r.DB.SelectContext(ctx, &categories, "SELECT id, name, slug, description, color FROM categories ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetByID finds a category by its ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*Category, error) {
	var category Category
	err := r.DB.GetContext(ctx, &category, "SELECT id, name, slug, description, color FROM categories WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found is not an error
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

// Save creates a new category and returns its ID.
func (r *CategoryRepository) Save(ctx context.Context, category *Category) (int64, error) {
	query := `INSERT INTO categories (name, slug, description, color) VALUES (:name, :slug, :description, :color)`
	res, err := r.DB.NamedExecContext(ctx, query, category)
	if err != nil {
		return 0, fmt.Errorf("failed to create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update overwrites the editable fields of a category.
func (r *CategoryRepository) Update(ctx context.Context, category *Category) error {
	query := `UPDATE categories SET name = :name, slug = :slug, description = :description, color = :color WHERE id = :id`
	res, err := r.DB.NamedExecContext(ctx, query, category)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return expectOneRow(res, "category", category.ID)
}

// Delete removes a category. It does not check for referencing topics.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return expectOneRow(res, "category", id)
}

// CountTopics returns the number of topics filed under the category.
func (r *CategoryRepository) CountTopics(ctx context.Context, id int64) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, "SELECT COUNT(*) FROM topics WHERE category_id = ?", id); err != nil {
		return 0, fmt.Errorf("failed to count topics in category: %w", err)
	}
	return n, nil
}
