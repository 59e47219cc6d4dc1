// Package permission gates tool execution on the active permission mode
// and, when required, an interactive user decision.
package permission

import "fmt"

// Mode is the session-wide permission mode.
type Mode int

const (
	// ModeDefault prompts for every side-effecting tool call.
	ModeDefault Mode = iota

	// ModeAcceptEdits auto-approves file edits but still prompts before
	// running commands.
	ModeAcceptEdits

	// ModeYolo auto-approves everything. The command safety rules still
	// apply; yolo is not a bypass for those.
	ModeYolo
)

func (m Mode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeAcceptEdits:
		return "accept-edits"
	case ModeYolo:
		return "yolo"
	default:
		return "unknown"
	}
}

// Cycle returns the next mode in display order, wrapping around.
func (m Mode) Cycle() Mode {
	switch m {
	case ModeDefault:
		return ModeAcceptEdits
	case ModeAcceptEdits:
		return ModeYolo
	default:
		return ModeDefault
	}
}

// ParseMode converts a mode name back to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "default":
		return ModeDefault, nil
	case "accept-edits":
		return ModeAcceptEdits, nil
	case "yolo":
		return ModeYolo, nil
	default:
		return ModeDefault, fmt.Errorf("unknown permission mode %q", s)
	}
}
