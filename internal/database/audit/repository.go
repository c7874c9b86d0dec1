// Package audit provides database operations for audit events.
package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/smartlibrary/server/internal/entities"
)

// Repository handles audit event database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new audit repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateEvent stores an audit event.
func (r *Repository) CreateEvent(event *entities.AuditEvent) error {
	return r.db.Create(event).Error
}

// EventFilter narrows GetEvents. Zero values mean "no constraint".
type EventFilter struct {
	UserID    uint
	EventType entities.AuditEventType
	Since     time.Time
	Limit     int
}

// GetEvents retrieves audit events matching the filter, newest first.
func (r *Repository) GetEvents(filter EventFilter) ([]entities.AuditEvent, error) {
	q := r.db.Model(&entities.AuditEvent{}).Order("created_at DESC")

	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.EventType != "" {
		q = q.Where("event_type = ?", filter.EventType)
	}
	if !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var events []entities.AuditEvent
	err := q.Find(&events).Error
	return events, err
}

// DeleteOldEvents removes events created before the cutoff and reports how
// many rows were dropped.
func (r *Repository) DeleteOldEvents(before time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", before).Delete(&entities.AuditEvent{})
	return result.RowsAffected, result.Error
}
