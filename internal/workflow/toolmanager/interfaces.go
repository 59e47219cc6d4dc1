package toolmanager

import (
	"context"

	"github.com/Cyclone1070/termcoder/internal/tool"
)

// toolImpl defines the interface for individual tools.
// Request structs should implement fmt.Stringer for display and may
// implement validator for argument checks before execution.
type toolImpl interface {
	// Name returns the tool's identifier.
	Name() string

	// Declaration returns the tool's schema for the LLM.
	Declaration() tool.Declaration

	// Category returns the side-effect class used by the permission gate.
	Category() tool.Category

	// Input returns a pointer to a fresh input struct
	// (e.g. &ReadFileRequest{}).
	Input() any

	// Execute runs the tool and returns the content sent back to the
	// LLM. Failures are returned as errors carrying a tool error kind;
	// a non-empty output alongside an error carries partial results.
	Execute(ctx context.Context, input any) (string, error)
}

// validator is implemented by request structs that check their own
// arguments.
type validator interface {
	Validate() error
}

// previewer is implemented by request structs that can show the user
// what the call would actually change (an edit diff, a command line)
// before they approve it. Requests without it fall back to String().
type previewer interface {
	Preview() string
}

// gate authorizes side-effecting tool calls.
type gate interface {
	Authorize(ctx context.Context, toolName string, category tool.Category, prompt, preview string) error
}
