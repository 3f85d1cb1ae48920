package modules

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModule struct {
	name  string
	tools []Tool
	exec  func(ctx context.Context, name string, params map[string]any) (string, error)
}

func (m *fakeModule) Name() string                { return m.name }
func (m *fakeModule) Description() string         { return m.name + " module" }
func (m *fakeModule) Descriptions() LocalizedText { return LocalizedText{"en-US": m.Description()} }
func (m *fakeModule) APIVersion() string          { return "test" }
func (m *fakeModule) Tools() []Tool               { return m.tools }
func (m *fakeModule) ExecuteTool(ctx context.Context, name string, params map[string]any) (string, error) {
	return m.exec(ctx, name, params)
}

func newFakeModule(exec func(ctx context.Context, name string, params map[string]any) (string, error)) *fakeModule {
	return &fakeModule{
		name: "fake",
		tools: []Tool{
			{
				Name:   "get_thing",
				Action: "fetching thing",
				InputSchema: InputSchema{
					Type: "object",
					Properties: map[string]Property{
						"thing_id": {Type: "string"},
						"limit":    {Type: "number"},
					},
					Required: []string{"thing_id"},
				},
			},
			{
				Name:        "list_things",
				InputSchema: InputSchema{Type: "object", Properties: map[string]Property{}},
			},
		},
		exec: exec,
	}
}

func TestRegistry_ToolsKeepsRegistrationOrder(t *testing.T) {
	r, err := NewRegistry(newFakeModule(nil))
	require.NoError(t, err)

	var names []string
	for _, tool := range r.Tools() {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"get_thing", "list_things"}, names)

	tool, ok := r.Tool("list_things")
	require.True(t, ok)
	assert.Equal(t, "list_things", tool.Name)
}

func TestRegistry_DuplicateToolName(t *testing.T) {
	_, err := NewRegistry(newFakeModule(nil), newFakeModule(nil))
	require.Error(t, err)
	assert.Equal(t, `tool "get_thing" registered by both fake and fake`, err.Error())
}

func TestRegistry_InvokeUnknownTool(t *testing.T) {
	r, err := NewRegistry(newFakeModule(nil))
	require.NoError(t, err)

	res, err := r.Invoke(context.Background(), "drop_database", nil)

	require.Error(t, err)
	assert.Nil(t, res)
	var unknown *UnknownToolError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "drop_database", unknown.Name)
	assert.Equal(t, "unknown tool: drop_database", err.Error())
}

func TestRegistry_InvokeValidationFailureIsToolResult(t *testing.T) {
	called := false
	r, err := NewRegistry(newFakeModule(func(context.Context, string, map[string]any) (string, error) {
		called = true
		return "", nil
	}))
	require.NoError(t, err)

	res, err := r.Invoke(context.Background(), "get_thing", map[string]any{})

	require.NoError(t, err)
	assert.False(t, called, "handler must not run when validation fails")
	assert.True(t, res.IsError)
	assert.Equal(t, "Error fetching thing: missing required parameter(s): thing_id", res.Text())
}

func TestRegistry_InvokeHandlerError(t *testing.T) {
	r, err := NewRegistry(newFakeModule(func(context.Context, string, map[string]any) (string, error) {
		return "", errors.New("Request failed with status code 404")
	}))
	require.NoError(t, err)

	res, err := r.Invoke(context.Background(), "get_thing", map[string]any{"thing_id": "1"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "Error fetching thing: Request failed with status code 404", res.Text())

	res, err = r.Invoke(context.Background(), "list_things", nil)
	require.NoError(t, err)
	assert.Equal(t, "Error executing list_things: Request failed with status code 404", res.Text())
}

func TestRegistry_InvokePassesCoercedParams(t *testing.T) {
	var got map[string]any
	r, err := NewRegistry(newFakeModule(func(_ context.Context, name string, params map[string]any) (string, error) {
		got = params
		return "ok: " + name, nil
	}))
	require.NoError(t, err)

	res, err := r.Invoke(context.Background(), "get_thing", map[string]any{"thing_id": float64(7), "limit": "5"})

	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "ok: get_thing", res.Text())
	assert.Equal(t, "7", got["thing_id"])
	assert.Equal(t, float64(5), got["limit"])
}
