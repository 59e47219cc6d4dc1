package shell

import (
	"fmt"

	"github.com/Cyclone1070/termcoder/internal/config"
)

// TruncateMode selects which part of oversized output is kept.
type TruncateMode string

const (
	TruncateFirst TruncateMode = "first" // keep the head
	TruncateLast  TruncateMode = "last"  // keep the tail
	TruncateBoth  TruncateMode = "both"  // keep head and tail with an elision marker
	TruncateAll   TruncateMode = "all"   // no per-call truncation, hard ceiling only
)

func (m TruncateMode) valid() bool {
	switch m {
	case TruncateFirst, TruncateLast, TruncateBoth, TruncateAll:
		return true
	}
	return false
}

// RunBashRequest is the input for run_bash.
type RunBashRequest struct {
	Command        string `mapstructure:"command" json:"command"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" json:"timeout_seconds"`
	MaxOutputBytes int    `mapstructure:"max_output_bytes" json:"max_output_bytes"`
	TruncateMode   string `mapstructure:"truncate_mode" json:"truncate_mode"`
}

func (r *RunBashRequest) Validate() error {
	if r.Command == "" {
		return fmt.Errorf("command is required")
	}
	if r.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	if r.MaxOutputBytes < 0 {
		return fmt.Errorf("max_output_bytes must not be negative")
	}
	if r.TruncateMode != "" && !TruncateMode(r.TruncateMode).valid() {
		return fmt.Errorf("truncate_mode must be one of first, last, both, all")
	}
	return nil
}

func (r *RunBashRequest) String() string {
	return fmt.Sprintf("Run `%s`", r.Command)
}

// Preview shows the exact command line the approval popup asks about.
func (r *RunBashRequest) Preview() string {
	return fmt.Sprintf("$ %s", r.Command)
}

// Policy is the effective execution policy for one command, after
// defaults and clamping have been applied to the request.
type Policy struct {
	TimeoutSeconds int
	MaxOutputBytes int
	Mode           TruncateMode
}

// PolicyFor resolves a request against configured defaults. The timeout
// is clamped to [1, MaxShellTimeout].
func PolicyFor(req *RunBashRequest, cfg config.ToolsConfig) Policy {
	p := Policy{
		TimeoutSeconds: cfg.DefaultShellTimeout,
		MaxOutputBytes: cfg.DefaultMaxOutput,
		Mode:           TruncateFirst,
	}
	if req.TimeoutSeconds > 0 {
		p.TimeoutSeconds = req.TimeoutSeconds
	}
	if p.TimeoutSeconds > cfg.MaxShellTimeout {
		p.TimeoutSeconds = cfg.MaxShellTimeout
	}
	if p.TimeoutSeconds < 1 {
		p.TimeoutSeconds = 1
	}
	if req.MaxOutputBytes > 0 {
		p.MaxOutputBytes = req.MaxOutputBytes
	}
	if p.MaxOutputBytes > cfg.HardOutputCeiling {
		p.MaxOutputBytes = cfg.HardOutputCeiling
	}
	if req.TruncateMode != "" {
		p.Mode = TruncateMode(req.TruncateMode)
	}
	return p
}

// Response is the output of run_bash.
type Response struct {
	Command    string `json:"command"`
	ExitCode   int    `json:"exit_code"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	Truncated  bool   `json:"truncated"`
	TimedOut   bool   `json:"timed_out"`
	DurationMs int64  `json:"duration_ms"`
}
