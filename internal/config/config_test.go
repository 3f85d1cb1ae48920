package config

import (
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func validEnv() map[string]string {
	return map[string]string{
		"BITBUCKET_USERNAME":     "alice",
		"BITBUCKET_APP_PASSWORD": "secret",
		"BITBUCKET_WORKSPACE":    "acme",
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envMap(validEnv()))
	require.NoError(t, err)

	assert.Equal(t, "alice", cfg.Username)
	assert.Equal(t, "secret", cfg.AppPassword)
	assert.Equal(t, "acme", cfg.Workspace)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Loki.Enabled())
	assert.Equal(t, "bitbucket-mcp-dev", cfg.Loki.AppName)
	assert.Equal(t, "local", cfg.Loki.Instance)
}

func TestFromEnv_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		unset   []string
		wantMsg []string
	}{
		{"username", []string{"BITBUCKET_USERNAME"}, []string{"BITBUCKET_USERNAME"}},
		{"password", []string{"BITBUCKET_APP_PASSWORD"}, []string{"BITBUCKET_APP_PASSWORD"}},
		{"workspace", []string{"BITBUCKET_WORKSPACE"}, []string{"BITBUCKET_WORKSPACE"}},
		{"all", []string{"BITBUCKET_USERNAME", "BITBUCKET_APP_PASSWORD", "BITBUCKET_WORKSPACE"},
			[]string{"BITBUCKET_USERNAME", "BITBUCKET_APP_PASSWORD", "BITBUCKET_WORKSPACE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := validEnv()
			for _, k := range tt.unset {
				env[k] = ""
			}

			cfg, err := FromEnv(envMap(env))

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, errors.Is(err, ErrMissingSetting))
			for _, want := range tt.wantMsg {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestFromEnv_WhitespaceWorkspaceIsMissing(t *testing.T) {
	env := validEnv()
	env["BITBUCKET_WORKSPACE"] = "   "

	_, err := FromEnv(envMap(env))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "BITBUCKET_WORKSPACE")
}

func TestFromEnv_Optional(t *testing.T) {
	env := validEnv()
	env["BITBUCKET_API_URL"] = "http://localhost:8080/2.0/"
	env["BITBUCKET_TIMEOUT"] = "5s"
	env["BITBUCKET_MAX_RETRIES"] = "2"
	env["DEBUG"] = "true"
	env["DATABASE_URL"] = "postgres://localhost/usage"
	env["GRAFANA_LOKI_URL"] = "https://logs.example.com/"
	env["GRAFANA_LOKI_USER"] = "123"
	env["GRAFANA_LOKI_API_KEY"] = "key"
	env["APP_ENV"] = "bitbucket-mcp-prod"

	cfg, err := FromEnv(envMap(env))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/2.0", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "postgres://localhost/usage", cfg.DatabaseURL)
	assert.True(t, cfg.Loki.Enabled())
	assert.Equal(t, "https://logs.example.com", cfg.Loki.URL)
	assert.Equal(t, "bitbucket-mcp-prod", cfg.Loki.AppName)
}

func TestFromEnv_InvalidOptional(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad timeout", "BITBUCKET_TIMEOUT", "soon"},
		{"negative retries", "BITBUCKET_MAX_RETRIES", "-1"},
		{"non-numeric retries", "BITBUCKET_MAX_RETRIES", "many"},
		{"zero timeout", "BITBUCKET_TIMEOUT", "0"},
		{"negative timeout", "BITBUCKET_TIMEOUT", "-5s"},
		{"NaN timeout", "BITBUCKET_TIMEOUT", "NaN"},
		{"infinite timeout", "BITBUCKET_TIMEOUT", "Inf"},
		{"hex retries", "BITBUCKET_MAX_RETRIES", "0x10"},
		{"fractional retries", "BITBUCKET_MAX_RETRIES", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := validEnv()
			env[tt.key] = tt.value

			_, err := FromEnv(envMap(env))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestFromEnv_TimeoutForms(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"30", 30 * time.Second},
		{" 45 ", 45 * time.Second},
		{"2.5", 2500 * time.Millisecond},
		{"1m30s", 90 * time.Second},
		{"750ms", 750 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			env := validEnv()
			env["BITBUCKET_TIMEOUT"] = tt.value

			cfg, err := FromEnv(envMap(env))

			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Timeout)
		})
	}
}

func TestFromEnv_RetryCountIsDecimal(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"010", 10},
		{" 3 ", 3},
		{"0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			env := validEnv()
			env["BITBUCKET_MAX_RETRIES"] = tt.value

			cfg, err := FromEnv(envMap(env))

			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.MaxRetries)
		})
	}
}

func TestLoad_ReadsProcessEnvironment(t *testing.T) {
	t.Setenv("BITBUCKET_USERNAME", "bob")
	t.Setenv("BITBUCKET_APP_PASSWORD", "pw")
	t.Setenv("BITBUCKET_WORKSPACE", "team")

	cfg, err := Load("testdata/does-not-exist.env")
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.Username)
	assert.Equal(t, "team", cfg.Workspace)
}
