package entities

import "time"

type AuditEventType string

const (
	AuditEventLoan   AuditEventType = "loan"
	AuditEventAuth   AuditEventType = "auth"
	AuditEventRecord AuditEventType = "record"
	AuditEventDelete AuditEventType = "delete"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

type AuditEvent struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CorrelationID string         `gorm:"size:36" json:"correlation_id,omitempty"`
	UserID        uint           `gorm:"index" json:"user_id"`
	EventType     AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action        string         `gorm:"size:100" json:"action"`      // e.g., "loan_issue", "book_delete"
	Description   string         `gorm:"size:500" json:"description"` // Human-readable summary
	EntityType    string         `gorm:"size:50" json:"entity_type"`  // "loan", "book", etc.
	EntityID      *uint          `gorm:"index" json:"entity_id,omitempty"`
	Status        AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg      string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
