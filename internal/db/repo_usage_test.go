package db

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*UsageStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	database, err := openGorm(sqlDB)
	require.NoError(t, err)
	return NewUsageStore(database), mock
}

func TestRecordToolCall(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "bitbucket_mcp_tool_calls"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	call := &ToolCall{
		RequestID:  "req-1",
		Workspace:  "acme",
		Tool:       "list_repositories",
		Status:     "success",
		DurationMs: 12,
		Arguments:  ArgumentsJSON(map[string]any{"limit": 10}),
	}
	err := store.RecordToolCall(context.Background(), call)

	require.NoError(t, err)
	assert.Equal(t, int64(7), call.ID)
	assert.False(t, call.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordToolCall_Error(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "bitbucket_mcp_tool_calls"`)).
		WillReturnError(errors.New("connection reset"))

	err := store.RecordToolCall(context.Background(), &ToolCall{RequestID: "req-2", Tool: "get_commit", Status: "error"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToolCallTableName(t *testing.T) {
	assert.Equal(t, "bitbucket_mcp_tool_calls", ToolCall{}.TableName())
}

func TestOpen_InvalidDSN(t *testing.T) {
	_, err := Open("postgres://%zz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse DATABASE_URL")
}
