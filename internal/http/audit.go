package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartlibrary/server/internal/audit"
	"github.com/smartlibrary/server/internal/authz"
	auditdb "github.com/smartlibrary/server/internal/database/audit"
	"github.com/smartlibrary/server/internal/entities"
)

type AuditController struct {
	audit *audit.Service
}

func NewAuditController(auditService *audit.Service) *AuditController {
	return &AuditController{audit: auditService}
}

// List returns audit events, newest first. Admin only.
func (controller *AuditController) List(c *gin.Context) {
	if !allow(c, authz.FamilyAudit, authz.OpRead) {
		return
	}

	filter := auditdb.EventFilter{Limit: 100}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > 1000 {
			c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		filter.Limit = limit
	}
	if v := c.Query("user_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		filter.UserID = uint(id)
	}
	if v := c.Query("event_type"); v != "" {
		filter.EventType = entities.AuditEventType(v)
	}
	if v := c.Query("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "since must be RFC3339"})
			return
		}
		filter.Since = since
	}

	events, err := controller.audit.GetEvents(filter)
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}
