package catalog

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
	dbPath := "./test_catalog_" + t.Name() + ".db"

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

func createTestAuthor(t *testing.T, db *gorm.DB, first, last string) *entities.Author {
	author := &entities.Author{FirstName: first, LastName: last}
	require.NoError(t, db.Create(author).Error)
	return author
}

func TestCreateBook_AvailableMatchesTotal(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createTestAuthor(t, db, "Stanislaw", "Lem")
	book := &entities.Book{
		Title:       "Solaris",
		AuthorID:    author.ID,
		TotalCopies: 4,
		// Deliberately wrong; CreateBook must overwrite it
		AvailableCopies: 99,
	}
	require.NoError(t, repo.CreateBook(book))

	stored, err := repo.GetBook(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.AvailableCopies)
	assert.Equal(t, "Lem", stored.Author.LastName)
}

func TestDecrementAvailable_GuardStopsAtZero(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createTestAuthor(t, db, "Octavia", "Butler")
	book := &entities.Book{Title: "Kindred", AuthorID: author.ID, TotalCopies: 2}
	require.NoError(t, repo.CreateBook(book))

	for i := 0; i < 2; i++ {
		rows, err := repo.DecrementAvailable(book.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, rows)
	}

	// The counter is zero; the guard must refuse another decrement
	rows, err := repo.DecrementAvailable(book.ID)
	require.NoError(t, err)
	assert.Zero(t, rows)

	stored, err := repo.GetBook(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.AvailableCopies)
}

func TestDecrementAvailable_UnknownBook(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	rows, err := repo.DecrementAvailable(12345)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestIncrementAvailable(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createTestAuthor(t, db, "Octavia", "Butler")
	book := &entities.Book{Title: "Kindred", AuthorID: author.ID, TotalCopies: 1}
	require.NoError(t, repo.CreateBook(book))

	_, err := repo.DecrementAvailable(book.ID)
	require.NoError(t, err)
	require.NoError(t, repo.IncrementAvailable(book.ID))

	stored, err := repo.GetBook(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.AvailableCopies)

	assert.ErrorIs(t, repo.IncrementAvailable(9999), gorm.ErrRecordNotFound)
}

func TestUpdateBook_RederivesAvailable(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createTestAuthor(t, db, "Ursula", "Le Guin")
	book := &entities.Book{Title: "A Wizard of Earthsea", AuthorID: author.ID, TotalCopies: 3}
	require.NoError(t, repo.CreateBook(book))

	member := &entities.Member{FullName: "Alice Carter", Status: entities.MemberActive}
	require.NoError(t, db.Create(member).Error)

	// Two copies out on loan
	for i := 0; i < 2; i++ {
		loan := &entities.Loan{
			BookID:   book.ID,
			MemberID: member.ID,
			LoanDate: time.Now(),
			DueDate:  time.Now().Add(7 * 24 * time.Hour),
			Status:   entities.LoanStatusLoaned,
		}
		require.NoError(t, db.Create(loan).Error)
		_, err := repo.DecrementAvailable(book.ID)
		require.NoError(t, err)
	}

	// Shrinking total below active loans clamps availability at zero
	require.NoError(t, repo.UpdateBook(book.ID, "A Wizard of Earthsea", author.ID, "", 1968, 1))
	stored, err := repo.GetBook(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TotalCopies)
	assert.Equal(t, 0, stored.AvailableCopies)

	// Growing total re-derives from active loans, not the previous counter
	require.NoError(t, repo.UpdateBook(book.ID, "A Wizard of Earthsea", author.ID, "", 1968, 5))
	stored, err = repo.GetBook(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.TotalCopies)
	assert.Equal(t, 3, stored.AvailableCopies)
}

func TestDeleteBook_BlockedByLoans(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createTestAuthor(t, db, "Ursula", "Le Guin")
	book := &entities.Book{Title: "The Left Hand of Darkness", AuthorID: author.ID, TotalCopies: 1}
	require.NoError(t, repo.CreateBook(book))

	member := &entities.Member{FullName: "Alice Carter", Status: entities.MemberActive}
	require.NoError(t, db.Create(member).Error)
	loan := &entities.Loan{
		BookID:   book.ID,
		MemberID: member.ID,
		LoanDate: time.Now(),
		DueDate:  time.Now().Add(7 * 24 * time.Hour),
		Status:   entities.LoanStatusLoaned,
	}
	require.NoError(t, db.Create(loan).Error)

	assert.Error(t, repo.DeleteBook(book.ID))

	require.NoError(t, db.Delete(loan).Error)
	assert.NoError(t, repo.DeleteBook(book.ID))
}

func TestSearchBooks(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	lem := createTestAuthor(t, db, "Stanislaw", "Lem")
	butler := createTestAuthor(t, db, "Octavia", "Butler")

	require.NoError(t, repo.CreateBook(&entities.Book{Title: "Solaris", AuthorID: lem.ID, ISBN: "9780156027601", TotalCopies: 1}))
	require.NoError(t, repo.CreateBook(&entities.Book{Title: "Kindred", AuthorID: butler.ID, ISBN: "9780807083697", TotalCopies: 1}))

	byTitle, err := repo.SearchBooks("sola")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Solaris", byTitle[0].Title)

	byAuthor, err := repo.SearchBooks("butler")
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "Kindred", byAuthor[0].Title)

	byISBN, err := repo.SearchBooks("9780156027601")
	require.NoError(t, err)
	require.Len(t, byISBN, 1)
	assert.Equal(t, "Solaris", byISBN[0].Title)

	none, err := repo.SearchBooks("duneduneude")
	require.NoError(t, err)
	assert.Empty(t, none)
}
