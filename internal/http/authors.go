package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartlibrary/server/internal/audit"
	"github.com/smartlibrary/server/internal/auth"
	"github.com/smartlibrary/server/internal/authz"
	"github.com/smartlibrary/server/internal/database/authors"
	"github.com/smartlibrary/server/internal/entities"
)

type AuthorsController struct {
	authors *authors.Repository
	audit   *audit.Service
}

func NewAuthorsController(repo *authors.Repository, auditService *audit.Service) *AuthorsController {
	return &AuthorsController{
		authors: repo,
		audit:   auditService,
	}
}

func (controller *AuthorsController) List(c *gin.Context) {
	if !allow(c, authz.FamilyAuthors, authz.OpRead) {
		return
	}

	all, err := controller.authors.GetAllAuthors()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"authors": all, "count": len(all)})
}

func (controller *AuthorsController) Get(c *gin.Context) {
	if !allow(c, authz.FamilyAuthors, authz.OpRead) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	author, err := controller.authors.GetAuthor(id)
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, author)
}

type authorRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
}

func (controller *AuthorsController) Create(c *gin.Context) {
	if !allow(c, authz.FamilyAuthors, authz.OpCreate) {
		return
	}

	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author := &entities.Author{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	}
	if err := controller.authors.CreateAuthor(author); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	controller.logRecord(c, &author.ID, "author_create", "Created author: "+author.FirstName+" "+author.LastName)
	c.IndentedJSON(http.StatusCreated, author)
}

func (controller *AuthorsController) Update(c *gin.Context) {
	if !allow(c, authz.FamilyAuthors, authz.OpUpdate) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := controller.authors.UpdateAuthor(id, req.FirstName, req.LastName, req.Bio); err != nil {
		writeRepoError(c, err)
		return
	}

	controller.logRecord(c, &id, "author_update", "Updated author: "+req.FirstName+" "+req.LastName)

	author, err := controller.authors.GetAuthor(id)
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, author)
}

func (controller *AuthorsController) Delete(c *gin.Context) {
	if !allow(c, authz.FamilyAuthors, authz.OpDelete) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	author, err := controller.authors.GetAuthor(id)
	if err != nil {
		writeRepoError(c, err)
		return
	}

	if err := controller.authors.DeleteAuthor(id); err != nil {
		c.IndentedJSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	if controller.audit != nil {
		controller.audit.LogDelete(auth.GetUserID(c), "author", id, author.FirstName+" "+author.LastName)
	}
	c.IndentedJSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (controller *AuthorsController) logRecord(c *gin.Context, id *uint, action, description string) {
	if controller.audit == nil {
		return
	}
	controller.audit.LogRecord(auth.GetUserID(c), "author", id, action, description, nil)
}
