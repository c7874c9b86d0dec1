package database

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartlibrary/server/internal/entities"
)

func setupTestDB(t *testing.T) (*Database, func()) {
	dbPath := "./test_database_" + t.Name() + ".db"

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestGetSummary_EmptyDatabase(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	summary, err := db.GetSummary(time.Now())
	require.NoError(t, err)

	assert.Zero(t, summary.TotalBooks)
	assert.Zero(t, summary.AvailableCopies)
	assert.Zero(t, summary.Borrowed)
	assert.Zero(t, summary.Overdue)
}

func TestGetSummary_Counters(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	author := &entities.Author{FirstName: "Stanislaw", LastName: "Lem"}
	require.NoError(t, db.DB.Create(author).Error)

	book := &entities.Book{Title: "Solaris", AuthorID: author.ID, TotalCopies: 3, AvailableCopies: 1}
	require.NoError(t, db.DB.Create(book).Error)

	member := &entities.Member{FullName: "Alice Carter", Status: entities.MemberActive}
	require.NoError(t, db.DB.Create(member).Error)

	now := time.Now()
	mkLoan := func(due time.Time, status entities.LoanStatus) {
		loan := &entities.Loan{
			BookID:   book.ID,
			MemberID: member.ID,
			LoanDate: due.Add(-7 * 24 * time.Hour),
			DueDate:  due,
			Status:   status,
		}
		require.NoError(t, db.DB.Create(loan).Error)
	}
	mkLoan(now.Add(48*time.Hour), entities.LoanStatusLoaned)
	mkLoan(now.Add(-48*time.Hour), entities.LoanStatusLoaned)
	mkLoan(now.Add(-24*time.Hour), entities.LoanStatusReturned)

	summary, err := db.GetSummary(now)
	require.NoError(t, err)

	assert.EqualValues(t, 1, summary.TotalBooks)
	assert.EqualValues(t, 1, summary.AvailableCopies)
	assert.EqualValues(t, 2, summary.Borrowed)
	assert.EqualValues(t, 1, summary.Overdue)
	assert.EqualValues(t, 1, summary.Authors)
	assert.EqualValues(t, 1, summary.Members)
}
