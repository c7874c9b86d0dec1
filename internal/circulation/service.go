// Package circulation implements the loan ledger: issuing and returning
// book copies under the per-member loan cap, with every mutation running in
// a single database transaction.
//
// Both mutations lead with a guarded UPDATE, so the first statement of each
// transaction takes SQLite's write lock. Validation reads that follow are
// therefore serialized against competing writers and the availability
// counter can neither go negative nor double-count a return.
package circulation

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/smartlibrary/server/internal/authz"
	"github.com/smartlibrary/server/internal/database/catalog"
	"github.com/smartlibrary/server/internal/database/loans"
	"github.com/smartlibrary/server/internal/database/members"
	"github.com/smartlibrary/server/internal/entities"
)

const (
	// MaxActiveLoans caps how many LOANED rows a member may hold at once.
	MaxActiveLoans = 3
	// LoanPeriod is how long a borrowed copy is out before it is overdue.
	LoanPeriod = 7 * 24 * time.Hour
)

// Actor identifies who is performing a ledger operation. MemberID is zero
// for staff accounts not linked to a member record.
type Actor struct {
	UserID   uint
	Role     entities.UserRole
	MemberID uint
}

// AuditLogger receives the outcome of every ledger mutation.
type AuditLogger interface {
	LogLoan(userID uint, action, description string, loanID *uint, opErr error)
}

// Service is the loan ledger engine.
type Service struct {
	db      *gorm.DB
	catalog *catalog.Repository
	members *members.Repository
	loans   *loans.Repository
	audit   AuditLogger
	timeout time.Duration
}

// NewService creates the ledger over the given database handle. The audit
// logger may be nil, which disables audit recording.
func NewService(db *gorm.DB, audit AuditLogger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		db:      db,
		catalog: catalog.NewRepository(db),
		members: members.NewRepository(db),
		loans:   loans.NewRepository(db),
		audit:   audit,
		timeout: timeout,
	}
}

// Issue lends one copy of a book to a member. The transaction decrements the
// availability counter first; a zero row count from the guarded update is
// disambiguated by a re-read into book-not-found versus out-of-stock. The
// member's active loan count is checked inside the same transaction, so two
// concurrent issues cannot push a member past the cap.
func (s *Service) Issue(ctx context.Context, actor Actor, bookID, memberID uint) (*entities.Loan, error) {
	if d := authz.Check(actor.Role, authz.FamilyLoans, authz.OpIssue); !d.Allowed {
		err := fmt.Errorf("%w: %s", ErrPermissionDenied, d.Reason)
		s.logLoan(actor, "loan.issue", fmt.Sprintf("issue book %d to member %d", bookID, memberID), nil, err)
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var loan *entities.Loan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.catalog.WithTx(tx).DecrementAvailable(bookID)
		if err != nil {
			return err
		}
		if rows == 0 {
			if _, err := s.catalog.WithTx(tx).GetBook(bookID); err != nil {
				if isMissingRow(err) {
					return ErrBookNotFound
				}
				return err
			}
			return ErrOutOfStock
		}

		if _, err := s.members.WithTx(tx).GetMember(memberID); err != nil {
			if isMissingRow(err) {
				return ErrMemberNotFound
			}
			return err
		}

		active, err := s.members.WithTx(tx).CountActiveLoans(memberID)
		if err != nil {
			return err
		}
		if active >= MaxActiveLoans {
			return ErrLoanLimitExceeded
		}

		now := time.Now()
		loan = &entities.Loan{
			BookID:   bookID,
			MemberID: memberID,
			LoanDate: now,
			DueDate:  now.Add(LoanPeriod),
			Status:   entities.LoanStatusLoaned,
		}
		return s.loans.WithTx(tx).CreateLoan(loan)
	})
	if err != nil {
		wrapped := wrapStore(err)
		s.logLoan(actor, "loan.issue", fmt.Sprintf("issue book %d to member %d", bookID, memberID), nil, wrapped)
		return nil, wrapped
	}

	s.logLoan(actor, "loan.issue", fmt.Sprintf("issued book %d to member %d", bookID, memberID), &loan.ID, nil)
	return loan, nil
}

// Return closes an active loan and puts the copy back on the shelf. The
// guarded status flip runs first; if another request already returned the
// loan the call is a no-op success, so retried returns never increment the
// counter twice. Returning an unknown loan is ErrLoanNotFound.
func (s *Service) Return(ctx context.Context, actor Actor, loanID uint) (*entities.Loan, error) {
	if d := authz.Check(actor.Role, authz.FamilyLoans, authz.OpReturn); !d.Allowed {
		err := fmt.Errorf("%w: %s", ErrPermissionDenied, d.Reason)
		s.logLoan(actor, "loan.return", fmt.Sprintf("return loan %d", loanID), nil, err)
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var loan *entities.Loan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.loans.WithTx(tx).MarkReturned(loanID, time.Now())
		if err != nil {
			return err
		}

		l, err := s.loans.WithTx(tx).GetLoan(loanID)
		if rows == 0 {
			if isMissingRow(err) {
				return ErrLoanNotFound
			}
			if err != nil {
				return err
			}
			// Already returned; nothing left to do.
			loan = l
			return nil
		}
		if err != nil {
			return err
		}

		loan = l
		return s.catalog.WithTx(tx).IncrementAvailable(l.BookID)
	})
	if err != nil {
		wrapped := wrapStore(err)
		s.logLoan(actor, "loan.return", fmt.Sprintf("return loan %d", loanID), nil, wrapped)
		return nil, wrapped
	}

	s.logLoan(actor, "loan.return", fmt.Sprintf("returned loan %d", loanID), &loan.ID, nil)
	return loan, nil
}

// List returns loan views matching the filter. Members only ever see their
// own loans regardless of the filter they pass.
func (s *Service) List(ctx context.Context, actor Actor, filter loans.Filter) ([]loans.View, error) {
	if d := authz.Check(actor.Role, authz.FamilyLoans, authz.OpRead); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, d.Reason)
	}
	if actor.Role == entities.RoleMember {
		if actor.MemberID == 0 {
			return []loans.View{}, nil
		}
		filter.MemberID = actor.MemberID
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	views, err := s.loans.WithTx(s.db.WithContext(ctx)).ListViews(filter, time.Now())
	if err != nil {
		return nil, wrapStore(err)
	}
	return views, nil
}

func (s *Service) logLoan(actor Actor, action, description string, loanID *uint, opErr error) {
	if s.audit == nil {
		return
	}
	s.audit.LogLoan(actor.UserID, action, description, loanID, opErr)
}
