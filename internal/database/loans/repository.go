// Package loans provides database operations for the loan ledger.
package loans

import (
	"time"

	"gorm.io/gorm"

	"github.com/smartlibrary/server/internal/entities"
)

// View is a loan row joined with its book title and member name, with the
// status as presented to readers. A loan stored as LOANED whose due date has
// passed is reported as OVERDUE; the stored row is never rewritten.
type View struct {
	ID         uint                `json:"id"`
	BookID     uint                `json:"book_id"`
	BookTitle  string              `json:"book_title"`
	MemberID   uint                `json:"member_id"`
	MemberName string              `json:"member_name"`
	LoanDate   time.Time           `json:"loan_date"`
	DueDate    time.Time           `json:"due_date"`
	ReturnDate *time.Time          `json:"return_date,omitempty"`
	Status     entities.LoanStatus `json:"status"`
}

// Filter narrows ListViews. Zero values mean "no constraint".
type Filter struct {
	MemberID uint
	BookID   uint
	Status   entities.LoanStatus
}

// Repository handles loan ledger database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new loans repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateLoan inserts a new loan row.
func (r *Repository) CreateLoan(loan *entities.Loan) error {
	return r.db.Create(loan).Error
}

// GetLoan retrieves a loan by ID.
func (r *Repository) GetLoan(id uint) (*entities.Loan, error) {
	var loan entities.Loan
	err := r.db.First(&loan, id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// MarkReturned closes an active loan in a single guarded update. The status
// guard in the WHERE clause makes the operation idempotent under races: only
// one caller ever flips the row, and the returned row count says whether it
// was this one.
func (r *Repository) MarkReturned(id uint, returnedAt time.Time) (int64, error) {
	result := r.db.Model(&entities.Loan{}).
		Where("id = ? AND status = ?", id, entities.LoanStatusLoaned).
		Updates(map[string]any{
			"status":      entities.LoanStatusReturned,
			"return_date": returnedAt,
		})
	return result.RowsAffected, result.Error
}

// ListViews returns loan rows joined with book and member names, newest
// first. The OVERDUE filter selects active loans past due as of now; the
// derivation also rewrites the status on every returned row.
func (r *Repository) ListViews(filter Filter, now time.Time) ([]View, error) {
	q := r.db.Model(&entities.Loan{}).
		Select("loans.id, loans.book_id, books.title AS book_title,"+
			" loans.member_id, members.full_name AS member_name,"+
			" loans.loan_date, loans.due_date, loans.return_date, loans.status").
		Joins("JOIN books ON books.id = loans.book_id").
		Joins("JOIN members ON members.id = loans.member_id").
		Order("loans.id DESC")

	if filter.MemberID != 0 {
		q = q.Where("loans.member_id = ?", filter.MemberID)
	}
	if filter.BookID != 0 {
		q = q.Where("loans.book_id = ?", filter.BookID)
	}
	switch filter.Status {
	case entities.LoanStatusOverdue:
		q = q.Where("loans.status = ? AND loans.due_date < ?", entities.LoanStatusLoaned, now)
	case entities.LoanStatusLoaned:
		q = q.Where("loans.status = ? AND loans.due_date >= ?", entities.LoanStatusLoaned, now)
	case entities.LoanStatusReturned:
		q = q.Where("loans.status = ?", entities.LoanStatusReturned)
	}

	var views []View
	if err := q.Scan(&views).Error; err != nil {
		return nil, err
	}
	for i := range views {
		if views[i].Status == entities.LoanStatusLoaned && views[i].DueDate.Before(now) {
			views[i].Status = entities.LoanStatusOverdue
		}
	}
	return views, nil
}
