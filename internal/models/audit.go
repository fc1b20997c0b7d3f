package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionLogin  = "LOGIN"
	AuditActionLogout = "LOGOUT"
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID            int64     `db:"id" json:"id"`
	PrincipalKind *string   `db:"principal_kind" json:"principalKind,omitempty"`
	PrincipalID   *int64    `db:"principal_id" json:"principalId,omitempty"`
	Action        string    `db:"action" json:"action"`
	Resource      string    `db:"resource" json:"resource"`
	ResourceID    *string   `db:"resource_id" json:"resourceId,omitempty"`
	NewValues     []byte    `db:"new_values" json:"newValues,omitempty"`
	IPAddress     string    `db:"ip_address" json:"ipAddress"`
	UserAgent     string    `db:"user_agent" json:"userAgent"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}
