package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/smartlibrary/server/internal/auth"
	"github.com/smartlibrary/server/internal/circulation"
	"github.com/smartlibrary/server/internal/database/loans"
	"github.com/smartlibrary/server/internal/entities"
)

type LoansController struct {
	circulation *circulation.Service
	authService *auth.Service
}

func NewLoansController(circ *circulation.Service, authService *auth.Service) *LoansController {
	return &LoansController{
		circulation: circ,
		authService: authService,
	}
}

// statusForLedgerError maps ledger sentinels to HTTP status codes: denied
// requests are 403, missing records 404, rule violations 409 and a store
// outage 503.
func statusForLedgerError(err error) int {
	switch {
	case errors.Is(err, circulation.ErrPermissionDenied):
		return http.StatusForbidden
	case circulation.IsBusinessRule(err):
		return http.StatusConflict
	case circulation.IsNotFound(err):
		return http.StatusNotFound
	case circulation.IsRetryable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (controller *LoansController) actor(c *gin.Context) circulation.Actor {
	actor := circulation.Actor{
		UserID: auth.GetUserID(c),
		Role:   auth.GetUserRole(c),
	}
	if actor.Role == entities.RoleMember && controller.authService != nil {
		memberID, err := controller.authService.MemberIDForUser(actor.UserID)
		if err == nil {
			actor.MemberID = memberID
		}
	}
	return actor
}

type issueRequest struct {
	BookID   uint `json:"book_id" binding:"required"`
	MemberID uint `json:"member_id" binding:"required"`
}

func (controller *LoansController) Issue(c *gin.Context) {
	var req issueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "book_id and member_id are required"})
		return
	}

	loan, err := controller.circulation.Issue(c.Request.Context(), controller.actor(c), req.BookID, req.MemberID)
	if err != nil {
		c.IndentedJSON(statusForLedgerError(err), gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusCreated, loan)
}

func (controller *LoansController) Return(c *gin.Context) {
	loanID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid loan id"})
		return
	}

	loan, err := controller.circulation.Return(c.Request.Context(), controller.actor(c), uint(loanID))
	if err != nil {
		c.IndentedJSON(statusForLedgerError(err), gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, loan)
}

func (controller *LoansController) List(c *gin.Context) {
	var filter loans.Filter

	if v := c.Query("member_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid member_id"})
			return
		}
		filter.MemberID = uint(id)
	}
	if v := c.Query("book_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid book_id"})
			return
		}
		filter.BookID = uint(id)
	}
	if v := c.Query("status"); v != "" {
		status := entities.LoanStatus(v)
		switch status {
		case entities.LoanStatusLoaned, entities.LoanStatusReturned, entities.LoanStatusOverdue:
			filter.Status = status
		default:
			c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
	}

	views, err := controller.circulation.List(c.Request.Context(), controller.actor(c), filter)
	if err != nil {
		c.IndentedJSON(statusForLedgerError(err), gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{"loans": views, "count": len(views)})
}
