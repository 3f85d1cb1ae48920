package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitbucket-mcp/server/internal/db"
	"bitbucket-mcp/server/internal/modules"
	"bitbucket-mcp/server/internal/observability"
)

func okTool(text string) ToolFunc {
	return func(context.Context, string, map[string]any) (*modules.ToolCallResult, error) {
		return modules.TextResult(text), nil
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(label string) Middleware {
		return func(next ToolFunc) ToolFunc {
			return func(ctx context.Context, name string, args map[string]any) (*modules.ToolCallResult, error) {
				order = append(order, label)
				return next(ctx, name, args)
			}
		}
	}

	h := Chain(okTool("done"), mark("outer"), nil, mark("inner"))
	res, err := h(context.Background(), "list_workspaces", nil)

	require.NoError(t, err)
	assert.Equal(t, "done", res.Text())
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestRequestID(t *testing.T) {
	var seen []string
	capture := func(ctx context.Context, _ string, _ map[string]any) (*modules.ToolCallResult, error) {
		seen = append(seen, GetRequestID(ctx))
		return modules.TextResult("ok"), nil
	}
	h := RequestID(capture)

	_, _ = h(context.Background(), "a", nil)
	_, _ = h(context.Background(), "b", nil)
	_, _ = h(WithRequestID(context.Background(), "fixed"), "c", nil)

	require.Len(t, seen, 3)
	assert.Len(t, seen[0], 36)
	assert.NotEqual(t, seen[0], seen[1])
	assert.Equal(t, "fixed", seen[2])
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestRecovery(t *testing.T) {
	logger, hook := test.NewNullLogger()
	panicking := func(context.Context, string, map[string]any) (*modules.ToolCallResult, error) {
		panic("nil map write")
	}

	h := Chain(panicking, RequestID, Recovery(logger))
	res, err := h(context.Background(), "get_commit", nil)

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.IsError)
	assert.Equal(t, "Error executing get_commit: internal error", res.Text())

	var sawPanic, sawSecurity bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel && e.Data["tool"] == "get_commit" {
			sawPanic = true
		}
		if e.Data["event"] == "panic_recovered" {
			sawSecurity = true
			assert.Equal(t, "nil map write", e.Data["error"])
		}
	}
	assert.True(t, sawPanic)
	assert.True(t, sawSecurity)
}

func TestRecoveryPassesThrough(t *testing.T) {
	logger, hook := test.NewNullLogger()

	res, err := Recovery(logger)(okTool("fine"))(context.Background(), "list_workspaces", nil)

	require.NoError(t, err)
	assert.Equal(t, "fine", res.Text())
	assert.Empty(t, hook.AllEntries())
}

func TestTelemetry(t *testing.T) {
	metrics, err := observability.NewToolMetrics()
	require.NoError(t, err)

	tests := []struct {
		name       string
		next       ToolFunc
		wantStatus string
		wantLevel  logrus.Level
		wantErr    bool
	}{
		{
			name:       "success",
			next:       okTool("ok"),
			wantStatus: observability.StatusSuccess,
			wantLevel:  logrus.InfoLevel,
		},
		{
			name: "error result",
			next: func(context.Context, string, map[string]any) (*modules.ToolCallResult, error) {
				return modules.ErrorResult("Error fetching project: Request failed with status code 404"), nil
			},
			wantStatus: observability.StatusError,
			wantLevel:  logrus.ErrorLevel,
		},
		{
			name: "invocation error",
			next: func(_ context.Context, name string, _ map[string]any) (*modules.ToolCallResult, error) {
				return nil, &modules.UnknownToolError{Name: name}
			},
			wantStatus: observability.StatusError,
			wantLevel:  logrus.ErrorLevel,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, hook := test.NewNullLogger()
			h := Chain(tt.next, RequestID, Telemetry(logger, metrics))

			_, err := h(context.Background(), "get_project", nil)

			assert.Equal(t, tt.wantErr, err != nil)
			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, tt.wantLevel, entry.Level)
			assert.Equal(t, "get_project", entry.Data["tool"])
			assert.Equal(t, tt.wantStatus, entry.Data["status"])
			assert.NotEmpty(t, entry.Data["request_id"])
		})
	}
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []*db.ToolCall
	err   error
}

func (f *fakeRecorder) RecordToolCall(_ context.Context, call *db.ToolCall) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func TestUsage(t *testing.T) {
	rec := &fakeRecorder{}
	logger, _ := test.NewNullLogger()
	usage := NewUsage(rec, "acme", logger)

	h := Chain(func(context.Context, string, map[string]any) (*modules.ToolCallResult, error) {
		return modules.ErrorResult("Error fetching commit: boom"), nil
	}, RequestID, usage.Middleware())

	res, err := h(WithRequestID(context.Background(), "req-1"), "get_commit", map[string]any{"commit_hash": "abc"})
	usage.Wait()

	require.NoError(t, err)
	assert.True(t, res.IsError)
	require.Len(t, rec.calls, 1)
	call := rec.calls[0]
	assert.Equal(t, "req-1", call.RequestID)
	assert.Equal(t, "acme", call.Workspace)
	assert.Equal(t, "get_commit", call.Tool)
	assert.Equal(t, observability.StatusError, call.Status)
	assert.JSONEq(t, `{"commit_hash":"abc"}`, string(call.Arguments))
	require.NotNil(t, call.Error)
	assert.Equal(t, "Error fetching commit: boom", *call.Error)
}

func TestUsage_RecorderFailureKeepsResult(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("db down")}
	logger, hook := test.NewNullLogger()
	usage := NewUsage(rec, "acme", logger)

	res, err := usage.Middleware()(okTool("fine"))(context.Background(), "list_workspaces", nil)
	usage.Wait()

	require.NoError(t, err)
	assert.Equal(t, "fine", res.Text())
	require.Len(t, rec.calls, 1)
	assert.Nil(t, rec.calls[0].Error)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
}

func TestUsage_Disabled(t *testing.T) {
	var nilUsage *Usage
	assert.Nil(t, nilUsage.Middleware())
	assert.Nil(t, NewUsage(nil, "acme", logrus.New()).Middleware())
	nilUsage.Wait()
}
