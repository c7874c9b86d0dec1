package entities

import (
	"time"
)

// UserRole is the fixed role set the authorization gate works with.
type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleLibrarian UserRole = "LIBRARIAN"
	RoleMember    UserRole = "MEMBER"
)

type MemberStatus string

const (
	MemberActive   MemberStatus = "ACTIVE"
	MemberInactive MemberStatus = "INACTIVE"
)

type LoanStatus string

const (
	LoanStatusLoaned   LoanStatus = "LOANED"
	LoanStatusReturned LoanStatus = "RETURNED"

	// LoanStatusOverdue is never written to storage. It is derived at read
	// time from an active loan whose due date has passed.
	LoanStatusOverdue LoanStatus = "OVERDUE"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100" json:"username"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	Role         UserRole  `gorm:"size:20;default:'MEMBER'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Author struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"index;size:100" json:"first_name"`
	LastName  string    `gorm:"index;size:100" json:"last_name"`
	Bio       string    `gorm:"type:text" json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Book struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"index;size:512" json:"title"`
	AuthorID        uint      `gorm:"index" json:"author_id"`
	Author          Author    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	ISBN            string    `gorm:"index;size:20" json:"isbn,omitempty"`
	YearPublished   int       `json:"year_published,omitempty"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Member struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UserID    *uint        `gorm:"index" json:"user_id,omitempty"`
	User      *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	FullName  string       `gorm:"index;size:256" json:"full_name"`
	Phone     string       `gorm:"size:50" json:"phone,omitempty"`
	Status    MemberStatus `gorm:"size:20;default:'ACTIVE'" json:"status"`
	Loans     []Loan       `gorm:"foreignKey:MemberID" json:"loans,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type BookClub struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:256" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Loan is one issuance of one book copy to one member. It is created LOANED
// and transitions to RETURNED exactly once; rows are never deleted outside
// administrative cleanup.
type Loan struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	BookID     uint       `gorm:"index" json:"book_id"`
	Book       Book       `gorm:"foreignKey:BookID" json:"-"`
	MemberID   uint       `gorm:"index" json:"member_id"`
	Member     Member     `gorm:"foreignKey:MemberID" json:"-"`
	LoanDate   time.Time  `json:"loan_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Status     LoanStatus `gorm:"index;size:20;default:'LOANED'" json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (Author) TableName() string {
	return "authors"
}

func (Book) TableName() string {
	return "books"
}

func (Member) TableName() string {
	return "members"
}

func (BookClub) TableName() string {
	return "book_clubs"
}

func (Loan) TableName() string {
	return "loans"
}
