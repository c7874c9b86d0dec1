package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartlibrary/server/internal/auth"
	"github.com/smartlibrary/server/internal/authz"
)

// allow checks the role policy for the request and writes a 403 when the
// operation is denied.
func allow(c *gin.Context, family authz.Family, op authz.Operation) bool {
	d := authz.Check(auth.GetUserRole(c), family, op)
	if !d.Allowed {
		c.IndentedJSON(http.StatusForbidden, gin.H{"error": d.Reason})
		return false
	}
	return true
}

// pathID parses the :id path parameter, writing a 400 on bad input.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// writeRepoError maps a repository error to a 404 or 500 response.
func writeRepoError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
