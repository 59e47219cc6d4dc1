package shell

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/Cyclone1070/termcoder/internal/config"
	"github.com/Cyclone1070/termcoder/internal/safety"
	"github.com/Cyclone1070/termcoder/internal/tool"
)

// Runner executes shell commands inside the workspace. Every command is
// checked against the safety rules before anything is spawned; that check
// does not depend on the permission mode.
type Runner struct {
	workspaceRoot string
	cfg           config.ToolsConfig
}

func NewRunner(workspaceRoot string, cfg config.ToolsConfig) *Runner {
	return &Runner{workspaceRoot: workspaceRoot, cfg: cfg}
}

func (t *Runner) Name() string { return "run_bash" }

func (t *Runner) Category() tool.Category { return tool.CategoryProcess }

func (t *Runner) Input() any { return &RunBashRequest{} }

func (t *Runner) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        t.Name(),
		Description: "Execute a shell command in the workspace root. Output is captured and size-limited; long-running commands are killed after the timeout.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"command": {
					Type:        tool.TypeString,
					Description: "Shell command to execute via sh -c.",
				},
				"timeout_seconds": {
					Type:        tool.TypeInteger,
					Description: "Seconds before the command is killed. Optional.",
				},
				"max_output_bytes": {
					Type:        tool.TypeInteger,
					Description: "Maximum bytes of output to return per stream. Optional.",
				},
				"truncate_mode": {
					Type:        tool.TypeString,
					Description: "Which part of oversized output to keep: first, last, both or all.",
					Enum:        []string{"first", "last", "both", "all"},
				},
			},
			Required: []string{"command"},
		},
	}
}

func (t *Runner) Execute(ctx context.Context, input any) (string, error) {
	req, ok := input.(*RunBashRequest)
	if !ok {
		return "", tool.NewError(tool.KindInvalidArguments, "unexpected input type %T", input)
	}

	if c := safety.Classify(req.Command); c.Blocked {
		return "", tool.NewError(tool.KindBlocked, "command blocked: %s", c.Reason)
	}

	resp, err := t.run(ctx, req)
	if resp == nil {
		return "", err
	}
	out, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		return "", fmt.Errorf("marshal response: %w", marshalErr)
	}
	// A timed-out command still reports its partial output alongside the
	// timeout error.
	return string(out), err
}

func (t *Runner) run(ctx context.Context, req *RunBashRequest) (*Response, error) {
	policy := PolicyFor(req, t.cfg)
	start := time.Now()

	cmd := exec.Command("sh", "-c", req.Command)
	cmd.Dir = t.workspaceRoot
	// Own process group so background children die with the command.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, tool.WrapError(tool.KindSpawnFailure, err, "open stdout pipe")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, tool.WrapError(tool.KindSpawnFailure, err, "open stderr pipe")
	}
	if err := cmd.Start(); err != nil {
		return nil, tool.WrapError(tool.KindSpawnFailure, err, "start command")
	}
	pgid := cmd.Process.Pid

	retain := retainFor(policy.Mode)
	stdoutCol := NewCollector(t.cfg.HardOutputCeiling, t.cfg.BinarySampleSize, retain)
	stderrCol := NewCollector(t.cfg.HardOutputCeiling, t.cfg.BinarySampleSize, retain)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		io.Copy(stdoutCol, stdout)
	}()
	go func() {
		defer wg.Done()
		io.Copy(stderrCol, stderr)
	}()

	done := make(chan error, 1)
	go func() {
		wg.Wait()
		done <- cmd.Wait()
	}()

	timedOut := false
	var waitErr error
	timer := time.NewTimer(time.Duration(policy.TimeoutSeconds) * time.Second)
	defer timer.Stop()

	select {
	case waitErr = <-done:
	case <-ctx.Done():
		t.killGroup(pgid, done)
		return nil, tool.WrapError(tool.KindTimeout, ctx.Err(), "command cancelled")
	case <-timer.C:
		timedOut = true
		t.killGroup(pgid, done)
	}

	resp := &Response{
		Command:    req.Command,
		ExitCode:   exitCode(waitErr),
		TimedOut:   timedOut,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if timedOut {
		resp.ExitCode = -1
	}

	var trimmed bool
	resp.Stdout, trimmed = applyTruncation(stdoutCol.String(), policy.MaxOutputBytes, policy.Mode)
	resp.Truncated = trimmed || stdoutCol.Truncated
	resp.Stderr, trimmed = applyTruncation(stderrCol.String(), policy.MaxOutputBytes, policy.Mode)
	resp.Truncated = resp.Truncated || trimmed || stderrCol.Truncated

	if timedOut {
		return resp, tool.NewError(tool.KindTimeout, "command timed out after %d seconds", policy.TimeoutSeconds)
	}
	return resp, nil
}

// killGroup interrupts the process group, waits the graceful window, then
// kills it, and reaps the process so nothing is left behind.
func (t *Runner) killGroup(pgid int, done <-chan error) {
	_ = syscall.Kill(-pgid, syscall.SIGINT)
	select {
	case <-done:
		return
	case <-time.After(time.Duration(t.cfg.GracefulShutdownMs) * time.Millisecond):
	}
	_ = syscall.Kill(-pgid, syscall.SIGKILL)
	<-done
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
