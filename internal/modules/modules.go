package modules

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
)

// =============================================================================
// Registry
// =============================================================================

// UnknownToolError is returned by Invoke for a name no module registered.
// It is a protocol-level failure, unlike tool errors which become result text.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

type registeredTool struct {
	module Module
	tool   Tool
}

// Registry maps tool names to the modules that execute them.
// It is built once at startup and read-only afterwards.
type Registry struct {
	modules []Module
	tools   map[string]registeredTool
	order   []string
}

// NewRegistry registers the tools of every module. Tool names must be unique across modules.
func NewRegistry(mods ...Module) (*Registry, error) {
	r := &Registry{tools: make(map[string]registeredTool)}
	for _, m := range mods {
		for _, t := range m.Tools() {
			if prev, dup := r.tools[t.Name]; dup {
				return nil, errors.Errorf("tool %q registered by both %s and %s", t.Name, prev.module.Name(), m.Name())
			}
			r.tools[t.Name] = registeredTool{module: m, tool: t}
			r.order = append(r.order, t.Name)
		}
		r.modules = append(r.modules, m)
	}
	return r, nil
}

// Modules returns the registered modules in registration order.
func (r *Registry) Modules() []Module {
	return r.modules
}

// Tools enumerates every tool descriptor in registration order.
func (r *Registry) Tools() []Tool {
	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name].tool)
	}
	return tools
}

// Tool returns a single descriptor by name.
func (r *Registry) Tool(name string) (Tool, bool) {
	rt, ok := r.tools[name]
	return rt.tool, ok
}

// Invoke validates params against the tool's schema and executes it.
// Only an unknown tool name returns an error; every other failure is an error result
// whose text reads "Error <action>: <message>".
func (r *Registry) Invoke(ctx context.Context, name string, params map[string]any) (*ToolCallResult, error) {
	rt, ok := r.tools[name]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}

	validated, err := ValidateParams(rt.tool.InputSchema, params)
	if err != nil {
		return ErrorResult(errorText(rt.tool, err)), nil
	}

	text, err := rt.module.ExecuteTool(ctx, name, validated)
	if err != nil {
		return ErrorResult(errorText(rt.tool, err)), nil
	}
	return TextResult(text), nil
}

func errorText(t Tool, err error) string {
	action := t.Action
	if action == "" {
		action = "executing " + t.Name
	}
	return fmt.Sprintf("Error %s: %s", action, err.Error())
}
