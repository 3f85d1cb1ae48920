package db

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"
)

// UsageStore appends tool calls to the ledger.
type UsageStore struct {
	db *gorm.DB
}

func NewUsageStore(database *gorm.DB) *UsageStore {
	return &UsageStore{db: database}
}

// RecordToolCall inserts one ledger row; call.ID and call.CreatedAt are filled in.
func (s *UsageStore) RecordToolCall(ctx context.Context, call *ToolCall) error {
	return s.db.WithContext(ctx).Create(call).Error
}

// ArgumentsJSON encodes a tool's argument bag for the ledger. Unencodable values yield an empty object.
func ArgumentsJSON(args map[string]any) JSONB {
	if len(args) == 0 {
		return JSONB("{}")
	}
	b, err := json.Marshal(args)
	if err != nil {
		return JSONB("{}")
	}
	return JSONB(b)
}
