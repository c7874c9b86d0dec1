// Package entrypoint assembles the application and runs the HTTP server.
package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartlibrary/server/internal/audit"
	"github.com/smartlibrary/server/internal/auth"
	"github.com/smartlibrary/server/internal/circulation"
	"github.com/smartlibrary/server/internal/config"
	"github.com/smartlibrary/server/internal/database"
	auditdb "github.com/smartlibrary/server/internal/database/audit"
	"github.com/smartlibrary/server/internal/database/authors"
	"github.com/smartlibrary/server/internal/database/catalog"
	"github.com/smartlibrary/server/internal/database/clubs"
	"github.com/smartlibrary/server/internal/database/members"
	http_controllers "github.com/smartlibrary/server/internal/http"
	"github.com/smartlibrary/server/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires every component together and serves the API.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting SmartLibrary v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	auditService := audit.NewService(auditdb.NewRepository(db.DB))

	authService := auth.NewService(db.DB, cfg.Auth)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying database handle: %v", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}
	authMiddleware := auth.NewMiddleware(authService, sessionManager)

	hasUsers, err := authService.HasUsers()
	if err != nil {
		log.Fatalf("Failed to check for existing users: %v", err)
	}
	if !hasUsers {
		log.Printf("WARNING: no user accounts exist; run '%s seed' to create demo accounts", os.Args[0])
	}

	circulationService := circulation.NewService(db.DB, auditService, cfg.Loans.TransactionTimeout)

	retentionScheduler := scheduler.NewAuditRetentionScheduler(auditService, cfg.Audit)
	if err := retentionScheduler.Start(context.Background()); err != nil {
		log.Printf("WARNING: failed to start audit retention scheduler: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		Circulation:    circulationService,
		Catalog:        catalog.NewRepository(db.DB),
		Members:        members.NewRepository(db.DB),
		Authors:        authors.NewRepository(db.DB),
		Clubs:          clubs.NewRepository(db.DB),
		AuthService:    authService,
		SessionManager: sessionManager,
		AuthMiddleware: authMiddleware,
		AuditService:   auditService,
		Version:        version,
	})

	Serve(router, cfg, func(ctx context.Context) {
		retentionScheduler.Stop()
	})
}
