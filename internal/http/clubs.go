package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartlibrary/server/internal/audit"
	"github.com/smartlibrary/server/internal/auth"
	"github.com/smartlibrary/server/internal/authz"
	"github.com/smartlibrary/server/internal/database/clubs"
	"github.com/smartlibrary/server/internal/entities"
)

type ClubsController struct {
	clubs *clubs.Repository
	audit *audit.Service
}

func NewClubsController(repo *clubs.Repository, auditService *audit.Service) *ClubsController {
	return &ClubsController{
		clubs: repo,
		audit: auditService,
	}
}

func (controller *ClubsController) List(c *gin.Context) {
	if !allow(c, authz.FamilyClubs, authz.OpRead) {
		return
	}

	all, err := controller.clubs.GetAllClubs()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"clubs": all, "count": len(all)})
}

func (controller *ClubsController) Get(c *gin.Context) {
	if !allow(c, authz.FamilyClubs, authz.OpRead) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	club, err := controller.clubs.GetClub(id)
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, club)
}

type clubRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (controller *ClubsController) Create(c *gin.Context) {
	if !allow(c, authz.FamilyClubs, authz.OpCreate) {
		return
	}

	var req clubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	club := &entities.BookClub{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := controller.clubs.CreateClub(club); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	controller.logRecord(c, &club.ID, "club_create", "Created club: "+club.Name)
	c.IndentedJSON(http.StatusCreated, club)
}

func (controller *ClubsController) Update(c *gin.Context) {
	if !allow(c, authz.FamilyClubs, authz.OpUpdate) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req clubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := controller.clubs.UpdateClub(id, req.Name, req.Description); err != nil {
		writeRepoError(c, err)
		return
	}

	controller.logRecord(c, &id, "club_update", "Updated club: "+req.Name)

	club, err := controller.clubs.GetClub(id)
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, club)
}

func (controller *ClubsController) Delete(c *gin.Context) {
	if !allow(c, authz.FamilyClubs, authz.OpDelete) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	club, err := controller.clubs.GetClub(id)
	if err != nil {
		writeRepoError(c, err)
		return
	}

	if err := controller.clubs.DeleteClub(id); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if controller.audit != nil {
		controller.audit.LogDelete(auth.GetUserID(c), "club", id, club.Name)
	}
	c.IndentedJSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (controller *ClubsController) logRecord(c *gin.Context, id *uint, action, description string) {
	if controller.audit == nil {
		return
	}
	controller.audit.LogRecord(auth.GetUserID(c), "club", id, action, description, nil)
}
