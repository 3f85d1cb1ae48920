package modules

import "context"

// =============================================================================
// Localization
// =============================================================================

// LocalizedText holds multilingual text.
// key: BCP47 language code (en-US, ja-JP)
type LocalizedText map[string]string

// =============================================================================
// Module Interface
// =============================================================================

// Module defines the interface that all modules must implement.
// A module groups the tools backed by one remote API.
type Module interface {
	// Metadata
	Name() string
	Description() string         // English description
	Descriptions() LocalizedText // Multilingual descriptions (tools subcommand)
	APIVersion() string

	// Tools - LLM executes, may have side effects
	Tools() []Tool
	ExecuteTool(ctx context.Context, name string, params map[string]any) (string, error)
}

// =============================================================================
// Tool Definition
// =============================================================================

// ToolAnnotations describes the tool's behavior hints as defined by MCP protocol revision 2025-03-26.
type ToolAnnotations struct {
	ReadOnlyHint    *bool `json:"readOnlyHint,omitempty"    yaml:"readOnlyHint,omitempty"`
	DestructiveHint *bool `json:"destructiveHint,omitempty" yaml:"destructiveHint,omitempty"`
	IdempotentHint  *bool `json:"idempotentHint,omitempty"  yaml:"idempotentHint,omitempty"`
	OpenWorldHint   *bool `json:"openWorldHint,omitempty"   yaml:"openWorldHint,omitempty"`
}

// Helper to create *bool for annotation fields
func boolPtr(v bool) *bool { return &v }

// Pre-built annotation sets for common tool patterns
var (
	// AnnotateReadOnly: list, get tools
	AnnotateReadOnly = &ToolAnnotations{
		ReadOnlyHint:  boolPtr(true),
		OpenWorldHint: boolPtr(true),
	}
	// AnnotateCreate: create tools (non-idempotent write)
	AnnotateCreate = &ToolAnnotations{
		ReadOnlyHint:    boolPtr(false),
		DestructiveHint: boolPtr(false),
		IdempotentHint:  boolPtr(false),
		OpenWorldHint:   boolPtr(true),
	}
	// AnnotateUpdate: update tools (idempotent write)
	AnnotateUpdate = &ToolAnnotations{
		ReadOnlyHint:    boolPtr(false),
		DestructiveHint: boolPtr(false),
		IdempotentHint:  boolPtr(true),
		OpenWorldHint:   boolPtr(true),
	}
	// AnnotateReplace: PUT of a whole settings document (overwrites what was there)
	AnnotateReplace = &ToolAnnotations{
		ReadOnlyHint:    boolPtr(false),
		DestructiveHint: boolPtr(true),
		IdempotentHint:  boolPtr(true),
		OpenWorldHint:   boolPtr(true),
	}
)

// Tool represents an MCP tool definition
type Tool struct {
	ID           string           `json:"id,omitempty"           yaml:"id,omitempty"`           // Stable ID (e.g., "bitbucket:get_project")
	Name         string           `json:"name"                   yaml:"name"`                   // Execution key
	Description  string           `json:"description"            yaml:"description"`            // Runtime description (en-US)
	Descriptions LocalizedText    `json:"descriptions,omitempty" yaml:"descriptions,omitempty"` // Multilingual descriptions (for export)
	InputSchema  InputSchema      `json:"inputSchema"            yaml:"inputSchema"`
	Annotations  *ToolAnnotations `json:"annotations,omitempty"  yaml:"annotations,omitempty"`

	// Action completes "Error <action>: ..." when the tool fails, e.g. "fetching repositories".
	Action string `json:"-" yaml:"-"`
}

// InputSchema defines the input parameters for a tool
type InputSchema struct {
	Type       string              `json:"type"               yaml:"type"`
	Properties map[string]Property `json:"properties"         yaml:"properties"`
	Required   []string            `json:"required,omitempty" yaml:"required,omitempty"`
}

// Property defines a single property in the input schema.
// Object properties may nest their own Properties; they are described, not validated.
type Property struct {
	Type                 string              `json:"type"                           yaml:"type"`
	Description          string              `json:"description,omitempty"          yaml:"description,omitempty"`
	Default              any                 `json:"default,omitempty"              yaml:"default,omitempty"`
	Minimum              *float64            `json:"minimum,omitempty"              yaml:"minimum,omitempty"`
	Maximum              *float64            `json:"maximum,omitempty"              yaml:"maximum,omitempty"`
	Enum                 []string            `json:"enum,omitempty"                 yaml:"enum,omitempty"`
	Items                *Property           `json:"items,omitempty"                yaml:"items,omitempty"`
	Properties           map[string]Property `json:"properties,omitempty"           yaml:"properties,omitempty"`
	Required             []string            `json:"required,omitempty"             yaml:"required,omitempty"`
	AdditionalProperties *bool               `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
}

// Bound returns a pointer for Property.Minimum / Property.Maximum.
func Bound(v float64) *float64 { return &v }

// =============================================================================
// Result Types
// =============================================================================

// ToolCallResult represents the result of a tool call
type ToolCallResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ContentBlock represents a content block in the result
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// TextResult wraps text in a single text content block.
func TextResult(text string) *ToolCallResult {
	return &ToolCallResult{Content: []ContentBlock{{Type: "text", Text: text}}}
}

// ErrorResult is a tool-level failure: still a content payload, flagged with isError.
func ErrorResult(text string) *ToolCallResult {
	return &ToolCallResult{Content: []ContentBlock{{Type: "text", Text: text}}, IsError: true}
}

// Text joins the text of all content blocks.
func (r *ToolCallResult) Text() string {
	if r == nil {
		return ""
	}
	if len(r.Content) == 1 {
		return r.Content[0].Text
	}
	var out string
	for i, b := range r.Content {
		if i > 0 {
			out += "\n"
		}
		out += b.Text
	}
	return out
}
