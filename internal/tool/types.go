package tool

// Type represents JSON Schema types.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Schema represents a JSON Schema for tool parameters.
type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// Declaration declares a tool's function signature for the LLM.
type Declaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// Category groups tools by the kind of side effect they can have.
// The permission gate decides per category, not per tool.
type Category int

const (
	// CategoryReadOnly covers tools that never mutate local state
	// (read_file, list_files, web_search, web_fetch).
	CategoryReadOnly Category = iota

	// CategoryFileMutating covers tools that create or modify files
	// (write_file, edit_file).
	CategoryFileMutating

	// CategoryProcess covers tools that spawn OS processes (run_bash).
	CategoryProcess
)

// String returns the category name for display.
func (c Category) String() string {
	switch c {
	case CategoryReadOnly:
		return "read-only"
	case CategoryFileMutating:
		return "file-mutating"
	case CategoryProcess:
		return "process-spawning"
	default:
		return "unknown"
	}
}
