package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records one completed request/response cycle. Rows are written
// once, after the response has been sent, and never modified.
type AuditLog struct {
	LogID             int64          `gorm:"column:log_id;primaryKey;autoIncrement" json:"log_id"`
	RequestMethod     string         `gorm:"column:request_method;size:10;not null" json:"request_method"`
	RequestPath       string         `gorm:"column:request_path;size:500;not null" json:"request_path"`
	RequestHeaders    datatypes.JSON `gorm:"column:request_headers" json:"request_headers,omitempty"`
	RequestBody       *string        `gorm:"column:request_body" json:"request_body,omitempty"`
	RequestTimestamp  time.Time      `gorm:"column:request_timestamp;not null;index:idx_api_request_log_key_ts,priority:2" json:"request_timestamp"`
	ResponseStatus    int            `gorm:"column:response_status;not null" json:"response_status"`
	ResponseBody      *string        `gorm:"column:response_body" json:"response_body,omitempty"`
	ResponseTimestamp time.Time      `gorm:"column:response_timestamp;not null" json:"response_timestamp"`
	DurationMS        int64          `gorm:"column:duration_ms;not null" json:"duration_ms"`
	ClientIP          string         `gorm:"column:client_ip;size:64" json:"client_ip"`
	UserAgent         *string        `gorm:"column:user_agent;size:500" json:"user_agent,omitempty"`
	LicenseKey        *string        `gorm:"column:license_key;size:100;index:idx_api_request_log_key_ts,priority:1" json:"license_key,omitempty"`
	ConfirmationNo    *int64         `gorm:"column:confirmation_no" json:"confirmation_no,omitempty"`
	ErrorMessage      *string        `gorm:"column:error_message;size:1000" json:"error_message,omitempty"`
}

// TableName keeps the table name used by the reservation database.
func (AuditLog) TableName() string {
	return "api_request_log"
}
