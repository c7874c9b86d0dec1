// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/smartlibrary/server/internal/audit"
	"github.com/smartlibrary/server/internal/config"
)

// AuditRetentionScheduler prunes old audit events on a cron schedule.
type AuditRetentionScheduler struct {
	auditService *audit.Service
	cfg          config.Audit

	cron       *cron.Cron
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewAuditRetentionScheduler creates a new scheduler instance.
func NewAuditRetentionScheduler(auditService *audit.Service, cfg config.Audit) *AuditRetentionScheduler {
	return &AuditRetentionScheduler{
		auditService: auditService,
		cfg:          cfg,
		cron:         cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler. Retention of zero or fewer days disables it.
func (s *AuditRetentionScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.cfg.RetentionDays <= 0 {
		log.Printf("Audit retention scheduler: disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.CleanupSchedule, func() {
		s.runCleanup()
	}); err != nil {
		return fmt.Errorf("failed to schedule audit cleanup job: %w", err)
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Audit retention scheduler: started with schedule '%s', keeping %d days",
		s.cfg.CleanupSchedule, s.cfg.RetentionDays)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *AuditRetentionScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Audit retention scheduler: stopped")
}

// RunNow triggers an immediate cleanup.
func (s *AuditRetentionScheduler) RunNow() {
	go s.runCleanup()
}

// IsRunning returns whether the scheduler is active.
func (s *AuditRetentionScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *AuditRetentionScheduler) runCleanup() {
	deleted, err := s.auditService.DeleteOldEvents(s.cfg.RetentionDays)
	if err != nil {
		log.Printf("Audit retention: cleanup failed: %v", err)
		return
	}
	log.Printf("Audit retention: removed %d events older than %d days", deleted, s.cfg.RetentionDays)
}
