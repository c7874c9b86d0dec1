// Package audit provides high-level audit logging over the audit event
// store. Writes are asynchronous so a slow audit insert never delays the
// operation being recorded.
package audit

import (
	"log"
	"time"

	"github.com/google/uuid"

	auditdb "github.com/smartlibrary/server/internal/database/audit"
	"github.com/smartlibrary/server/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo *auditdb.Repository
}

// NewService creates a new audit service.
func NewService(repo *auditdb.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event, assigning a correlation ID if the
// caller did not set one.
func (s *Service) Log(event *entities.AuditEvent) error {
	if event.CorrelationID == "" {
		event.CorrelationID = uuid.New().String()
	}
	return s.repo.CreateEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	go func() {
		if err := s.Log(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// LogLoan records a loan ledger operation, successful or not.
func (s *Service) LogLoan(userID uint, action, description string, loanID *uint, opErr error) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventLoan,
		Action:      action,
		Description: description,
		EntityType:  "loan",
		EntityID:    loanID,
		Status:      entities.AuditStatusSuccess,
	}

	if opErr != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(opErr.Error(), 500)
	}

	s.LogAsync(event)
}

// LogAuth records a login or logout event.
func (s *Service) LogAuth(userID uint, action, description string, opErr error) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventAuth,
		Action:      action,
		Description: description,
		Status:      entities.AuditStatusSuccess,
	}

	if opErr != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(opErr.Error(), 500)
	}

	s.LogAsync(event)
}

// LogRecord records a create or update of a catalog, member, author or club
// record.
func (s *Service) LogRecord(userID uint, entityType string, entityID *uint, action, description string, opErr error) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventRecord,
		Action:      action,
		Description: description,
		EntityType:  entityType,
		EntityID:    entityID,
		Status:      entities.AuditStatusSuccess,
	}

	if opErr != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(opErr.Error(), 500)
	}

	s.LogAsync(event)
}

// LogDelete records a deletion event.
func (s *Service) LogDelete(userID uint, entityType string, entityID uint, entityName string) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventDelete,
		Action:      entityType + "_delete",
		Description: "Deleted " + entityType + ": " + entityName,
		EntityType:  entityType,
		EntityID:    &entityID,
		Status:      entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// GetEvents retrieves audit events matching the filter, newest first.
func (s *Service) GetEvents(filter auditdb.EventFilter) ([]entities.AuditEvent, error) {
	return s.repo.GetEvents(filter)
}

// DeleteOldEvents removes events older than the retention window.
func (s *Service) DeleteOldEvents(retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return s.repo.DeleteOldEvents(cutoff)
}

// truncate limits a string to maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
