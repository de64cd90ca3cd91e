package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionLogin               = "LOGIN"
	AuditActionAdminSeed           = "ADMIN_SEED"
	AuditActionAdminUpdate         = "ADMIN_UPDATE"
	AuditActionPasswordReset       = "PASSWORD_RESET"
	AuditActionApplicationStatus   = "APPLICATION_STATUS"
	AuditActionApplicationDelete   = "APPLICATION_DELETE"
	AuditActionContactBulkDelete   = "CONTACT_BULK_DELETE"
	AuditActionNotificationsWipe   = "NOTIFICATIONS_CLEAR"
	AuditActionApplicationsExport  = "APPLICATIONS_EXPORT"
	AuditActionContactsExport      = "CONTACTS_EXPORT"
	AuditActionApplicationDocument = "APPLICATION_DOCUMENT_URL"
	AuditActionContentCreate       = "CONTENT_CREATE"
	AuditActionContentUpdate       = "CONTENT_UPDATE"
	AuditActionContentDelete       = "CONTENT_DELETE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"userId,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resourceId,omitempty"`
	OldValues  []byte    `db:"old_values" json:"oldValues,omitempty"`
	NewValues  []byte    `db:"new_values" json:"newValues,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ipAddress"`
	UserAgent  string    `db:"user_agent" json:"userAgent"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
