package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartlibrary/server/internal/audit"
	"github.com/smartlibrary/server/internal/auth"
	"github.com/smartlibrary/server/internal/authz"
	"github.com/smartlibrary/server/internal/database/members"
	"github.com/smartlibrary/server/internal/entities"
)

type MembersController struct {
	members *members.Repository
	audit   *audit.Service
}

func NewMembersController(repo *members.Repository, auditService *audit.Service) *MembersController {
	return &MembersController{
		members: repo,
		audit:   auditService,
	}
}

func (controller *MembersController) List(c *gin.Context) {
	if !allow(c, authz.FamilyMembers, authz.OpRead) {
		return
	}

	all, err := controller.members.GetAllMembers()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"members": all, "count": len(all)})
}

func (controller *MembersController) Get(c *gin.Context) {
	if !allow(c, authz.FamilyMembers, authz.OpRead) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	member, err := controller.members.GetMember(id)
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, member)
}

type memberRequest struct {
	FullName string                `json:"full_name" binding:"required"`
	Phone    string                `json:"phone"`
	Status   entities.MemberStatus `json:"status"`
	UserID   *uint                 `json:"user_id"`
}

func (controller *MembersController) Create(c *gin.Context) {
	if !allow(c, authz.FamilyMembers, authz.OpCreate) {
		return
	}

	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member := &entities.Member{
		FullName: req.FullName,
		Phone:    req.Phone,
		Status:   req.Status,
		UserID:   req.UserID,
	}
	if err := controller.members.CreateMember(member); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	controller.logRecord(c, &member.ID, "member_create", "Created member: "+member.FullName)
	c.IndentedJSON(http.StatusCreated, member)
}

func (controller *MembersController) Update(c *gin.Context) {
	if !allow(c, authz.FamilyMembers, authz.OpUpdate) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status := req.Status
	if status == "" {
		status = entities.MemberActive
	}

	if err := controller.members.UpdateMember(id, req.FullName, req.Phone, status); err != nil {
		writeRepoError(c, err)
		return
	}

	controller.logRecord(c, &id, "member_update", "Updated member: "+req.FullName)

	member, err := controller.members.GetMember(id)
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, member)
}

func (controller *MembersController) Delete(c *gin.Context) {
	if !allow(c, authz.FamilyMembers, authz.OpDelete) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	member, err := controller.members.GetMember(id)
	if err != nil {
		writeRepoError(c, err)
		return
	}

	if err := controller.members.DeleteMember(id); err != nil {
		c.IndentedJSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	if controller.audit != nil {
		controller.audit.LogDelete(auth.GetUserID(c), "member", id, member.FullName)
	}
	c.IndentedJSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (controller *MembersController) logRecord(c *gin.Context, id *uint, action, description string) {
	if controller.audit == nil {
		return
	}
	controller.audit.LogRecord(auth.GetUserID(c), "member", id, action, description, nil)
}
