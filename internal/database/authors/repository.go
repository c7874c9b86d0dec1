// Package authors provides database operations for author records.
package authors

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/smartlibrary/server/internal/entities"
)

// Repository handles author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAuthor retrieves an author by ID.
func (r *Repository) GetAuthor(id uint) (*entities.Author, error) {
	var author entities.Author
	err := r.db.First(&author, id).Error
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// GetAllAuthors retrieves all authors ordered by name.
func (r *Repository) GetAllAuthors() ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.Order("last_name, first_name").Find(&authors).Error
	return authors, err
}

// CreateAuthor inserts a new author record.
func (r *Repository) CreateAuthor(author *entities.Author) error {
	return r.db.Create(author).Error
}

// UpdateAuthor updates an author's details.
func (r *Repository) UpdateAuthor(id uint, firstName, lastName, bio string) error {
	result := r.db.Model(&entities.Author{}).Where("id = ?", id).Updates(map[string]any{
		"first_name": firstName,
		"last_name":  lastName,
		"bio":        bio,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAuthor removes an author. Fails if books still reference them.
func (r *Repository) DeleteAuthor(id uint) error {
	var books int64
	if err := r.db.Model(&entities.Book{}).Where("author_id = ?", id).Count(&books).Error; err != nil {
		return err
	}
	if books > 0 {
		return fmt.Errorf("author %d has %d books and cannot be deleted", id, books)
	}
	return r.db.Delete(&entities.Author{}, id).Error
}
