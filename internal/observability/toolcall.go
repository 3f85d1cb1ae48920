package observability

import (
	"github.com/sirupsen/logrus"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// LogToolCall writes one structured entry per tool call. The tool and status fields
// become Loki labels when the Loki hook is installed.
func LogToolCall(logger logrus.FieldLogger, requestID, tool string, durationMs int64, status, errMsg string) {
	entry := logger.WithFields(logrus.Fields{
		"request_id":  requestID,
		"tool":        tool,
		"duration_ms": durationMs,
		"status":      status,
	})
	if status == StatusError {
		if errMsg != "" {
			entry = entry.WithField("error", errMsg)
		}
		entry.Error("Tool call failed")
		return
	}
	entry.Info("Tool call completed")
}

// LogSecurityEvent records an unexpected condition (panics and the like) for alerting.
func LogSecurityEvent(logger logrus.FieldLogger, requestID, event string, details logrus.Fields) {
	logger.WithFields(details).WithFields(logrus.Fields{
		"type":       "security",
		"request_id": requestID,
		"event":      event,
	}).Warn("Security event")
}
