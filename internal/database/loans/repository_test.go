package loans

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/smartlibrary/server/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_loans_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Author{},
		&entities.Book{},
		&entities.Member{},
		&entities.Loan{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

type fixture struct {
	book   *entities.Book
	member *entities.Member
}

func createFixture(t *testing.T, db *gorm.DB) fixture {
	author := &entities.Author{FirstName: "Stanislaw", LastName: "Lem"}
	require.NoError(t, db.Create(author).Error)
	book := &entities.Book{Title: "Solaris", AuthorID: author.ID, TotalCopies: 3, AvailableCopies: 3}
	require.NoError(t, db.Create(book).Error)
	member := &entities.Member{FullName: "Alice Carter", Status: entities.MemberActive}
	require.NoError(t, db.Create(member).Error)
	return fixture{book: book, member: member}
}

func createLoan(t *testing.T, repo *Repository, f fixture, due time.Time, status entities.LoanStatus) *entities.Loan {
	loan := &entities.Loan{
		BookID:   f.book.ID,
		MemberID: f.member.ID,
		LoanDate: due.Add(-7 * 24 * time.Hour),
		DueDate:  due,
		Status:   status,
	}
	require.NoError(t, repo.CreateLoan(loan))
	return loan
}

func TestMarkReturned_GuardedFlip(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	f := createFixture(t, db)
	loan := createLoan(t, repo, f, time.Now().Add(24*time.Hour), entities.LoanStatusLoaned)

	returnedAt := time.Now()
	rows, err := repo.MarkReturned(loan.ID, returnedAt)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	stored, err := repo.GetLoan(loan.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.LoanStatusReturned, stored.Status)
	require.NotNil(t, stored.ReturnDate)
	assert.WithinDuration(t, returnedAt, *stored.ReturnDate, time.Second)

	// A second flip matches no row
	rows, err = repo.MarkReturned(loan.ID, time.Now())
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestMarkReturned_UnknownLoan(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	rows, err := repo.MarkReturned(777, time.Now())
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestListViews_JoinsAndFilters(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	f := createFixture(t, db)
	now := time.Now()

	active := createLoan(t, repo, f, now.Add(48*time.Hour), entities.LoanStatusLoaned)
	overdue := createLoan(t, repo, f, now.Add(-48*time.Hour), entities.LoanStatusLoaned)
	returned := createLoan(t, repo, f, now.Add(-24*time.Hour), entities.LoanStatusReturned)

	all, err := repo.ListViews(Filter{}, now)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Solaris", all[0].BookTitle)
	assert.Equal(t, "Alice Carter", all[0].MemberName)

	activeViews, err := repo.ListViews(Filter{Status: entities.LoanStatusLoaned}, now)
	require.NoError(t, err)
	require.Len(t, activeViews, 1)
	assert.Equal(t, active.ID, activeViews[0].ID)
	assert.Equal(t, entities.LoanStatusLoaned, activeViews[0].Status)

	overdueViews, err := repo.ListViews(Filter{Status: entities.LoanStatusOverdue}, now)
	require.NoError(t, err)
	require.Len(t, overdueViews, 1)
	assert.Equal(t, overdue.ID, overdueViews[0].ID)
	assert.Equal(t, entities.LoanStatusOverdue, overdueViews[0].Status)

	returnedViews, err := repo.ListViews(Filter{Status: entities.LoanStatusReturned}, now)
	require.NoError(t, err)
	require.Len(t, returnedViews, 1)
	assert.Equal(t, returned.ID, returnedViews[0].ID)
}

func TestListViews_MemberFilter(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	f := createFixture(t, db)
	other := &entities.Member{FullName: "Bob Novak", Status: entities.MemberActive}
	require.NoError(t, db.Create(other).Error)

	createLoan(t, repo, f, time.Now().Add(24*time.Hour), entities.LoanStatusLoaned)
	otherLoan := &entities.Loan{
		BookID:   f.book.ID,
		MemberID: other.ID,
		LoanDate: time.Now(),
		DueDate:  time.Now().Add(24 * time.Hour),
		Status:   entities.LoanStatusLoaned,
	}
	require.NoError(t, repo.CreateLoan(otherLoan))

	views, err := repo.ListViews(Filter{MemberID: other.ID}, time.Now())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Bob Novak", views[0].MemberName)
}
