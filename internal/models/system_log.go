package models

import (
	"time"

	"gorm.io/datatypes"
)

// Operation kinds recorded in the audit trail.
const (
	OpUserLogin    = "USER_LOGIN"
	OpUserLogout   = "USER_LOGOUT"
	OpUserRegister = "USER_REGISTER"
	OpUserUpdate   = "USER_UPDATE"
	OpUserDelete   = "USER_DELETE"

	OpClassCreate        = "CLASS_CREATE"
	OpClassUpdate        = "CLASS_UPDATE"
	OpClassDelete        = "CLASS_DELETE"
	OpClassAddStudent    = "CLASS_ADD_STUDENT"
	OpClassRemoveStudent = "CLASS_REMOVE_STUDENT"

	OpActivityCreate      = "ACTIVITY_CREATE"
	OpActivityUpdate      = "ACTIVITY_UPDATE"
	OpActivityDelete      = "ACTIVITY_DELETE"
	OpActivityParticipate = "ACTIVITY_PARTICIPATE"
	OpActivityCancel      = "ACTIVITY_CANCEL"

	OpSystemConfig = "SYSTEM_CONFIG"
)

// SystemLog is an append-only audit record. Rows are never updated or deleted.
type SystemLog struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	OperationType string            `gorm:"size:64;not null;index" json:"operation_type"`
	Detail        string            `gorm:"type:text" json:"detail"`
	UserID        *uint             `gorm:"index" json:"user_id"`
	UserRole      string            `gorm:"size:16" json:"user_role"`
	IPAddress     string            `gorm:"size:64" json:"ip_address"`
	Metadata      datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt     time.Time         `json:"created_at"`
}
