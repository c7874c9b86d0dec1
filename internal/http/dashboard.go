package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartlibrary/server/internal/database"
)

type DashboardController struct {
	db *database.Database
}

func NewDashboardController(db *database.Database) *DashboardController {
	return &DashboardController{db: db}
}

// Summary returns the library-wide counters. Every authenticated role may
// read them.
func (controller *DashboardController) Summary(c *gin.Context) {
	summary, err := controller.db.GetSummary(time.Now())
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, summary)
}
