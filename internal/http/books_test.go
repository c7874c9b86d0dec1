package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartlibrary/server/internal/database"
	"github.com/smartlibrary/server/internal/database/catalog"
	"github.com/smartlibrary/server/internal/entities"
)

func setupBooksTest(t *testing.T, role entities.UserRole) (*database.Database, *gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_books_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	controller := NewBooksController(catalog.NewRepository(db.DB), nil)

	router := gin.New()
	router.Use(asRole(1, role))
	router.GET("/api/books", controller.List)
	router.GET("/api/books/:id", controller.Get)
	router.POST("/api/books", controller.Create)
	router.PUT("/api/books/:id", controller.Update)
	router.DELETE("/api/books/:id", controller.Delete)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, router, cleanup
}

func TestBooksAPI_CreateAndGet(t *testing.T) {
	db, router, cleanup := setupBooksTest(t, entities.RoleLibrarian)
	defer cleanup()

	author := &entities.Author{FirstName: "Stanislaw", LastName: "Lem"}
	require.NoError(t, db.DB.Create(author).Error)

	body, _ := json.Marshal(gin.H{
		"title":          "Solaris",
		"author_id":      author.ID,
		"isbn":           "9780156027601",
		"year_published": 1961,
		"total_copies":   3,
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/books", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var book entities.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
	assert.Equal(t, 3, book.AvailableCopies)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/books", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])
}

func TestBooksAPI_CreateRejectsMembers(t *testing.T) {
	_, router, cleanup := setupBooksTest(t, entities.RoleMember)
	defer cleanup()

	body, _ := json.Marshal(gin.H{"title": "Solaris", "author_id": 1, "total_copies": 1})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/books", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBooksAPI_DeleteIsAdminOnly(t *testing.T) {
	db, router, cleanup := setupBooksTest(t, entities.RoleLibrarian)
	defer cleanup()

	author := &entities.Author{FirstName: "Stanislaw", LastName: "Lem"}
	require.NoError(t, db.DB.Create(author).Error)
	book := &entities.Book{Title: "Solaris", AuthorID: author.ID, TotalCopies: 1, AvailableCopies: 1}
	require.NoError(t, db.DB.Create(book).Error)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/api/books/1", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBooksAPI_GetUnknown(t *testing.T) {
	_, router, cleanup := setupBooksTest(t, entities.RoleLibrarian)
	defer cleanup()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/books/999", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/books/notanumber", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
