// internal/models/admin.go
package models

type AuditLog struct {
	BaseModel
	UserID       *string `json:"user_id" gorm:"type:varchar(36);index"`
	Action       string  `json:"action" gorm:"size:255;not null;index"`
	ResourceType string  `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   *string `json:"resource_id" gorm:"type:varchar(36);index"`
	NewValues    JSONB   `json:"new_values"`
	StatusCode   int     `json:"status_code"`
	IPAddress    string  `json:"ip_address" gorm:"size:45"`
	UserAgent    string  `json:"user_agent" gorm:"type:text"`
}
