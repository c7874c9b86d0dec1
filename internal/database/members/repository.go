// Package members provides database operations for library members and
// their active-loan counts.
package members

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/smartlibrary/server/internal/entities"
)

// Repository handles member database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new members repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// GetMember retrieves a member by ID.
func (r *Repository) GetMember(id uint) (*entities.Member, error) {
	var member entities.Member
	err := r.db.Preload("User").First(&member, id).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetAllMembers retrieves all members with their linked users.
func (r *Repository) GetAllMembers() ([]entities.Member, error) {
	var members []entities.Member
	err := r.db.Preload("User").Order("id").Find(&members).Error
	return members, err
}

// CreateMember inserts a new member record.
func (r *Repository) CreateMember(member *entities.Member) error {
	if member.Status == "" {
		member.Status = entities.MemberActive
	}
	return r.db.Create(member).Error
}

// UpdateMember updates a member's contact details and status.
func (r *Repository) UpdateMember(id uint, fullName, phone string, status entities.MemberStatus) error {
	result := r.db.Model(&entities.Member{}).Where("id = ?", id).Updates(map[string]any{
		"full_name": fullName,
		"phone":     phone,
		"status":    status,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteMember removes a member. Fails if loans still reference them.
func (r *Repository) DeleteMember(id uint) error {
	var loans int64
	if err := r.db.Model(&entities.Loan{}).Where("member_id = ?", id).Count(&loans).Error; err != nil {
		return err
	}
	if loans > 0 {
		return fmt.Errorf("member %d has %d loan records and cannot be deleted", id, loans)
	}
	return r.db.Delete(&entities.Member{}, id).Error
}

// CountActiveLoans returns how many loans the member currently holds in
// LOANED status. The count is derived, never stored.
func (r *Repository) CountActiveLoans(memberID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Loan{}).
		Where("member_id = ? AND status = ?", memberID, entities.LoanStatusLoaned).
		Count(&count).Error
	return count, err
}
