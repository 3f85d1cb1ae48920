package db

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
)

// JSONB is a generic type for PostgreSQL JSONB columns.
type JSONB json.RawMessage

func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "{}", nil
	}
	return string(j), nil
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = JSONB("{}")
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = JSONB(v)
	case string:
		*j = JSONB(v)
	default:
		return errors.Errorf("unsupported type for JSONB: %T", value)
	}
	return nil
}

func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("{}"), nil
	}
	return json.RawMessage(j).MarshalJSON()
}

func (j *JSONB) UnmarshalJSON(data []byte) error {
	*j = JSONB(data)
	return nil
}

// --- Models ---

// ToolCall is one row of the usage ledger.
type ToolCall struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RequestID  string    `gorm:"type:text;not null;index" json:"request_id"`
	Workspace  string    `gorm:"type:text;not null;index" json:"workspace"`
	Tool       string    `gorm:"type:text;not null;index" json:"tool"`
	Status     string    `gorm:"type:text;not null" json:"status"`
	DurationMs int64     `gorm:"not null" json:"duration_ms"`
	Arguments  JSONB     `gorm:"type:jsonb" json:"arguments"`
	Error      *string   `gorm:"type:text" json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ToolCall) TableName() string { return "bitbucket_mcp_tool_calls" }
