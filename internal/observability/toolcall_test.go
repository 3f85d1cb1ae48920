package observability

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogToolCall(t *testing.T) {
	tests := []struct {
		name      string
		status    string
		errMsg    string
		wantLevel logrus.Level
		wantError bool
	}{
		{"success", StatusSuccess, "", logrus.InfoLevel, false},
		{"error", StatusError, "boom", logrus.ErrorLevel, true},
		{"error without message", StatusError, "", logrus.ErrorLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, hook := test.NewNullLogger()

			LogToolCall(logger, "req-1", "list_workspaces", 7, tt.status, tt.errMsg)

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, tt.wantLevel, entry.Level)
			assert.Equal(t, "req-1", entry.Data["request_id"])
			assert.Equal(t, "list_workspaces", entry.Data["tool"])
			assert.Equal(t, int64(7), entry.Data["duration_ms"])
			assert.Equal(t, tt.status, entry.Data["status"])
			_, hasError := entry.Data["error"]
			assert.Equal(t, tt.wantError, hasError)
		})
	}
}

func TestLogSecurityEvent(t *testing.T) {
	logger, hook := test.NewNullLogger()

	LogSecurityEvent(logger, "req-9", "panic_recovered", logrus.Fields{"tool": "get_commit"})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "security", entry.Data["type"])
	assert.Equal(t, "panic_recovered", entry.Data["event"])
	assert.Equal(t, "get_commit", entry.Data["tool"])
}
