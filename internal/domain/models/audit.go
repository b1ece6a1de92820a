package models

import (
	"encoding/json"
	"time"
)

type AuditStatus string

const (
	AuditSuccess AuditStatus = "success"
	AuditFailed  AuditStatus = "failed"
	AuditWarning AuditStatus = "warning"
)

const (
	EntityJob         = "job"
	EntityApplication = "application"
)

// AuditEntry is an append-only record of a workflow action. Entries are
// never updated or deleted once written.
type AuditEntry struct {
	ID int `gorm:"primaryKey"`

	Action     string `gorm:"size:100;not null;index"`
	EntityType string `gorm:"size:50;index:idx_audit_entity"`
	EntityID   int    `gorm:"index:idx_audit_entity"`

	Details      string
	Status       AuditStatus `gorm:"size:50"`
	ErrorMessage string

	CreatedAt time.Time `gorm:"index"`
}

func (e *AuditEntry) SetDetails(details map[string]any) {
	if len(details) == 0 {
		return
	}
	if data, err := json.Marshal(details); err == nil {
		e.Details = string(data)
	}
}

func (e *AuditEntry) DetailsMap() map[string]any {
	if e.Details == "" {
		return map[string]any{}
	}
	details := map[string]any{}
	_ = json.Unmarshal([]byte(e.Details), &details)
	return details
}
