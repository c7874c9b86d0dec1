// Package clubs provides database operations for book clubs.
package clubs

import (
	"gorm.io/gorm"

	"github.com/smartlibrary/server/internal/entities"
)

// Repository handles book club database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new clubs repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetClub retrieves a club by ID.
func (r *Repository) GetClub(id uint) (*entities.BookClub, error) {
	var club entities.BookClub
	err := r.db.First(&club, id).Error
	if err != nil {
		return nil, err
	}
	return &club, nil
}

// GetAllClubs retrieves all clubs ordered by name.
func (r *Repository) GetAllClubs() ([]entities.BookClub, error) {
	var clubs []entities.BookClub
	err := r.db.Order("name").Find(&clubs).Error
	return clubs, err
}

// CreateClub inserts a new club record.
func (r *Repository) CreateClub(club *entities.BookClub) error {
	return r.db.Create(club).Error
}

// UpdateClub updates a club's name and description.
func (r *Repository) UpdateClub(id uint, name, description string) error {
	result := r.db.Model(&entities.BookClub{}).Where("id = ?", id).Updates(map[string]any{
		"name":        name,
		"description": description,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteClub removes a club record.
func (r *Repository) DeleteClub(id uint) error {
	return r.db.Delete(&entities.BookClub{}, id).Error
}
