// Package catalog provides database operations for book records, including
// the guarded availability-counter mutations the loan ledger composes into
// its transactions.
package catalog

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/smartlibrary/server/internal/entities"
)

// Repository handles all book catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction, so catalog
// reads and counter updates participate in a caller-owned unit of work.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// GetBook retrieves a book by its ID.
func (r *Repository) GetBook(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Author").First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetAllBooks retrieves all books with their authors.
func (r *Repository) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Preload("Author").Order("id").Find(&books).Error
	return books, err
}

// SearchBooks searches books by title, author name or ISBN
// (case-insensitive partial match).
func (r *Repository) SearchBooks(query string) ([]entities.Book, error) {
	var books []entities.Book
	pattern := "%" + query + "%"
	err := r.db.Preload("Author").
		Joins("LEFT JOIN authors ON authors.id = books.author_id").
		Where("LOWER(books.title) LIKE LOWER(?)"+
			" OR LOWER(authors.first_name || ' ' || COALESCE(authors.last_name, '')) LIKE LOWER(?)"+
			" OR books.isbn LIKE ?", pattern, pattern, pattern).
		Order("books.id").
		Find(&books).Error
	return books, err
}

// CreateBook inserts a new book. Available copies start equal to total
// copies: a new record has nothing on loan yet.
func (r *Repository) CreateBook(book *entities.Book) error {
	book.AvailableCopies = book.TotalCopies
	return r.db.Create(book).Error
}

// UpdateBook updates a book's descriptive fields and total copy count.
// Available copies are re-derived as total minus the book's active loans
// (clamped at zero) rather than adjusted incrementally, so repeated edits
// cannot drift the counter away from reality.
func (r *Repository) UpdateBook(id uint, title string, authorID uint, isbn string, year int, totalCopies int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, id).Error; err != nil {
			return err
		}

		var active int64
		if err := tx.Model(&entities.Loan{}).
			Where("book_id = ? AND status = ?", id, entities.LoanStatusLoaned).
			Count(&active).Error; err != nil {
			return err
		}

		available := totalCopies - int(active)
		if available < 0 {
			available = 0
		}

		return tx.Model(&book).Updates(map[string]any{
			"title":            title,
			"author_id":        authorID,
			"isbn":             isbn,
			"year_published":   year,
			"total_copies":     totalCopies,
			"available_copies": available,
		}).Error
	})
}

// DeleteBook removes a book. Fails if loans still reference it.
func (r *Repository) DeleteBook(id uint) error {
	var loans int64
	if err := r.db.Model(&entities.Loan{}).Where("book_id = ?", id).Count(&loans).Error; err != nil {
		return err
	}
	if loans > 0 {
		return fmt.Errorf("book %d has %d loan records and cannot be deleted", id, loans)
	}
	return r.db.Delete(&entities.Book{}, id).Error
}

// DecrementAvailable atomically takes one copy off the shelf. The WHERE
// guard means the counter can never go below zero; a zero row count tells
// the caller the book is missing or out of stock.
func (r *Repository) DecrementAvailable(id uint) (int64, error) {
	result := r.db.Model(&entities.Book{}).
		Where("id = ? AND available_copies > 0", id).
		UpdateColumn("available_copies", gorm.Expr("available_copies - 1"))
	return result.RowsAffected, result.Error
}

// IncrementAvailable puts one copy back on the shelf.
func (r *Repository) IncrementAvailable(id uint) error {
	result := r.db.Model(&entities.Book{}).
		Where("id = ?", id).
		UpdateColumn("available_copies", gorm.Expr("available_copies + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
