package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"bitbucket-mcp/server/internal/db"
	"bitbucket-mcp/server/internal/modules"
)

// UsageRecorder persists one ledger row. *db.UsageStore implements it.
type UsageRecorder interface {
	RecordToolCall(ctx context.Context, call *db.ToolCall) error
}

// Usage records every tool call in the background. A failed write is logged and
// never changes the tool result.
type Usage struct {
	recorder  UsageRecorder
	workspace string
	log       logrus.FieldLogger
	wg        sync.WaitGroup
}

func NewUsage(recorder UsageRecorder, workspace string, log logrus.FieldLogger) *Usage {
	return &Usage{recorder: recorder, workspace: workspace, log: log}
}

// Middleware returns the recording middleware, or nil (skipped by Chain) without a recorder.
func (u *Usage) Middleware() Middleware {
	if u == nil || u.recorder == nil {
		return nil
	}
	return func(next ToolFunc) ToolFunc {
		return func(ctx context.Context, name string, args map[string]any) (*modules.ToolCallResult, error) {
			start := time.Now()
			res, err := next(ctx, name, args)

			status, errMsg := outcome(res, err)
			call := &db.ToolCall{
				RequestID:  GetRequestID(ctx),
				Workspace:  u.workspace,
				Tool:       name,
				Status:     status,
				DurationMs: time.Since(start).Milliseconds(),
				Arguments:  db.ArgumentsJSON(args),
			}
			if errMsg != "" {
				call.Error = &errMsg
			}

			u.wg.Add(1)
			go func() {
				defer u.wg.Done()
				if err := u.recorder.RecordToolCall(context.WithoutCancel(ctx), call); err != nil {
					u.log.WithError(err).WithField("tool", name).Warn("Failed to record tool call")
				}
			}()
			return res, err
		}
	}
}

// Wait blocks until pending ledger writes finish.
func (u *Usage) Wait() {
	if u != nil {
		u.wg.Wait()
	}
}
