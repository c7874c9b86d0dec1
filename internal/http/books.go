package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartlibrary/server/internal/audit"
	"github.com/smartlibrary/server/internal/auth"
	"github.com/smartlibrary/server/internal/authz"
	"github.com/smartlibrary/server/internal/database/catalog"
	"github.com/smartlibrary/server/internal/entities"
)

type BooksController struct {
	catalog *catalog.Repository
	audit   *audit.Service
}

func NewBooksController(repo *catalog.Repository, auditService *audit.Service) *BooksController {
	return &BooksController{
		catalog: repo,
		audit:   auditService,
	}
}

func (controller *BooksController) List(c *gin.Context) {
	if !allow(c, authz.FamilyCatalog, authz.OpRead) {
		return
	}

	if query := c.Query("q"); query != "" {
		books, err := controller.catalog.SearchBooks(query)
		if err != nil {
			c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
		return
	}

	books, err := controller.catalog.GetAllBooks()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (controller *BooksController) Get(c *gin.Context) {
	if !allow(c, authz.FamilyCatalog, authz.OpRead) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	book, err := controller.catalog.GetBook(id)
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

type bookRequest struct {
	Title         string `json:"title" binding:"required"`
	AuthorID      uint   `json:"author_id" binding:"required"`
	ISBN          string `json:"isbn"`
	YearPublished int    `json:"year_published"`
	TotalCopies   int    `json:"total_copies" binding:"required,min=1"`
}

func (controller *BooksController) Create(c *gin.Context) {
	if !allow(c, authz.FamilyCatalog, authz.OpCreate) {
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book := &entities.Book{
		Title:         req.Title,
		AuthorID:      req.AuthorID,
		ISBN:          req.ISBN,
		YearPublished: req.YearPublished,
		TotalCopies:   req.TotalCopies,
	}
	if err := controller.catalog.CreateBook(book); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	controller.logRecord(c, &book.ID, "book_create", "Created book: "+book.Title)
	c.IndentedJSON(http.StatusCreated, book)
}

func (controller *BooksController) Update(c *gin.Context) {
	if !allow(c, authz.FamilyCatalog, authz.OpUpdate) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := controller.catalog.UpdateBook(id, req.Title, req.AuthorID, req.ISBN, req.YearPublished, req.TotalCopies)
	if err != nil {
		writeRepoError(c, err)
		return
	}

	controller.logRecord(c, &id, "book_update", "Updated book: "+req.Title)

	book, err := controller.catalog.GetBook(id)
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

func (controller *BooksController) Delete(c *gin.Context) {
	if !allow(c, authz.FamilyCatalog, authz.OpDelete) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	book, err := controller.catalog.GetBook(id)
	if err != nil {
		writeRepoError(c, err)
		return
	}

	if err := controller.catalog.DeleteBook(id); err != nil {
		c.IndentedJSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	if controller.audit != nil {
		controller.audit.LogDelete(auth.GetUserID(c), "book", id, book.Title)
	}
	c.IndentedJSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (controller *BooksController) logRecord(c *gin.Context, id *uint, action, description string) {
	if controller.audit == nil {
		return
	}
	controller.audit.LogRecord(auth.GetUserID(c), "book", id, action, description, nil)
}
