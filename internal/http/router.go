// Package http wires the HTTP API: routing, controllers and the mapping
// from ledger errors to response codes.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/smartlibrary/server/internal/audit"
	"github.com/smartlibrary/server/internal/auth"
	"github.com/smartlibrary/server/internal/circulation"
	"github.com/smartlibrary/server/internal/database"
	"github.com/smartlibrary/server/internal/database/authors"
	"github.com/smartlibrary/server/internal/database/catalog"
	"github.com/smartlibrary/server/internal/database/clubs"
	"github.com/smartlibrary/server/internal/database/members"
)

// RouterConfig receives all router dependencies, improving testability and
// reducing parameter count.
type RouterConfig struct {
	Database       *database.Database
	Circulation    *circulation.Service
	Catalog        *catalog.Repository
	Members        *members.Repository
	Authors        *authors.Repository
	Clubs          *clubs.Repository
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	AuditService   *audit.Service
	Version        string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	if cfg.AuthService != nil && cfg.SessionManager != nil {
		var authAudit auth.AuditLogger
		if cfg.AuditService != nil {
			authAudit = cfg.AuditService
		}
		authHandlers := auth.NewHandlers(cfg.AuthService, cfg.SessionManager, authAudit)
		authHandlers.RegisterRoutes(router)
	}

	loansController := NewLoansController(cfg.Circulation, cfg.AuthService)
	router.POST("/api/loans", loansController.Issue)
	router.POST("/api/loans/:id/return", loansController.Return)
	router.GET("/api/loans", loansController.List)

	booksController := NewBooksController(cfg.Catalog, cfg.AuditService)
	router.GET("/api/books", booksController.List)
	router.GET("/api/books/:id", booksController.Get)
	router.POST("/api/books", booksController.Create)
	router.PUT("/api/books/:id", booksController.Update)
	router.DELETE("/api/books/:id", booksController.Delete)

	membersController := NewMembersController(cfg.Members, cfg.AuditService)
	router.GET("/api/members", membersController.List)
	router.GET("/api/members/:id", membersController.Get)
	router.POST("/api/members", membersController.Create)
	router.PUT("/api/members/:id", membersController.Update)
	router.DELETE("/api/members/:id", membersController.Delete)

	authorsController := NewAuthorsController(cfg.Authors, cfg.AuditService)
	router.GET("/api/authors", authorsController.List)
	router.GET("/api/authors/:id", authorsController.Get)
	router.POST("/api/authors", authorsController.Create)
	router.PUT("/api/authors/:id", authorsController.Update)
	router.DELETE("/api/authors/:id", authorsController.Delete)

	clubsController := NewClubsController(cfg.Clubs, cfg.AuditService)
	router.GET("/api/clubs", clubsController.List)
	router.GET("/api/clubs/:id", clubsController.Get)
	router.POST("/api/clubs", clubsController.Create)
	router.PUT("/api/clubs/:id", clubsController.Update)
	router.DELETE("/api/clubs/:id", clubsController.Delete)

	dashboardController := NewDashboardController(cfg.Database)
	router.GET("/api/dashboard", dashboardController.Summary)

	if cfg.AuditService != nil {
		auditController := NewAuditController(cfg.AuditService)
		router.GET("/api/audit", auditController.List)
	}

	return router
}
