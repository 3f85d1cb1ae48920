// Package observability ships logs to Grafana Loki and exposes the tracer and meter
// used around tool calls.
package observability

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/sirupsen/logrus"

	"bitbucket-mcp/server/internal/config"
)

const lokiPushPath = "/loki/api/v1/push"

// Fields promoted from entry data to Loki stream labels.
var labelFields = []string{"tool", "status"}

// Loki Push API format
type lokiPushRequest struct {
	Streams []lokiStream `json:"streams"`
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

// LokiHook is a logrus hook that pushes every entry at info level or above to Loki.
// Pushes run in the background; Wait blocks until they have finished.
type LokiHook struct {
	url        string
	username   string
	apiKey     string
	httpClient *http.Client
	labels     map[string]string

	wg sync.WaitGroup
}

// NewLokiHook returns nil when cfg is incomplete.
func NewLokiHook(cfg config.LokiConfig) *LokiHook {
	if !cfg.Enabled() {
		return nil
	}
	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = 5 * time.Second
	return &LokiHook{
		url:        cfg.URL + lokiPushPath,
		username:   cfg.Username,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		labels: map[string]string{
			"app":      cfg.AppName,
			"instance": cfg.Instance,
			"region":   cfg.Region,
		},
	}
}

// Levels implements logrus.Hook.
func (h *LokiHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
		logrus.WarnLevel,
		logrus.InfoLevel,
	}
}

// Fire implements logrus.Hook. The entry is copied before the goroutine starts
// because logrus reuses entries after hooks return.
func (h *LokiHook) Fire(entry *logrus.Entry) error {
	labels := make(map[string]string, len(h.labels)+len(labelFields)+1)
	for k, v := range h.labels {
		labels[k] = v
	}
	labels["level"] = entry.Level.String()

	data := make(map[string]any, len(entry.Data)+1)
	for k, v := range entry.Data {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		data[k] = v
	}
	data["msg"] = entry.Message
	for _, f := range labelFields {
		if v, ok := entry.Data[f]; ok {
			labels[f] = fmt.Sprint(v)
		}
	}

	ts := entry.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.push(ts, labels, data)
	}()
	return nil
}

// Wait blocks until all in-flight pushes are done.
func (h *LokiHook) Wait() {
	h.wg.Wait()
}

// push failures go to the standard logger; logging them through logrus would re-enter the hook.
func (h *LokiHook) push(ts time.Time, labels map[string]string, data map[string]any) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		log.Printf("Loki: failed to marshal data: %v", err)
		return
	}

	body, err := json.Marshal(lokiPushRequest{
		Streams: []lokiStream{
			{
				Stream: labels,
				Values: [][]string{
					{strconv.FormatInt(ts.UnixNano(), 10), string(dataJSON)},
				},
			},
		},
	})
	if err != nil {
		log.Printf("Loki: failed to marshal request: %v", err)
		return
	}

	req, err := http.NewRequest(http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		log.Printf("Loki: failed to create request: %v", err)
		return
	}
	req.SetBasicAuth(h.username, h.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		log.Printf("Loki: failed to send: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("Loki: unexpected status code: %d", resp.StatusCode)
	}
}
