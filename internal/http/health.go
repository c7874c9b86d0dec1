package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartlibrary/server/internal/database"
)

// HealthResponse reports liveness of the API and its backing store.
type HealthResponse struct {
	Status    string    `json:"status"`
	Storage   string    `json:"storage"`
	Version   string    `json:"version,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

type HealthController struct {
	db      *database.Database
	version string
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{
		db:      db,
		version: version,
	}
}

// Status pings the store and answers 200 when it is reachable, 503 when not.
func (h *HealthController) Status(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Storage:   "ok",
		Version:   h.version,
		CheckedAt: time.Now(),
	}

	if h.db == nil {
		resp.Storage = "not configured"
		c.JSON(http.StatusOK, resp)
		return
	}

	if err := h.pingStorage(); err != nil {
		resp.Status = "degraded"
		resp.Storage = err.Error()
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *HealthController) pingStorage() error {
	sqlDB, err := h.db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
