package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Cyclone1070/termcoder/internal/config"
	"github.com/Cyclone1070/termcoder/internal/tool"
	"github.com/Cyclone1070/termcoder/internal/tool/pathutil"
)

// WriteTool creates or overwrites a file inside the workspace, creating
// any missing parent directories.
type WriteTool struct {
	workspaceRoot string
	cfg           config.ToolsConfig
}

func NewWriteTool(workspaceRoot string, cfg config.ToolsConfig) *WriteTool {
	return &WriteTool{workspaceRoot: workspaceRoot, cfg: cfg}
}

func (t *WriteTool) Name() string { return "write_file" }

func (t *WriteTool) Category() tool.Category { return tool.CategoryFileMutating }

func (t *WriteTool) Input() any { return &WriteFileRequest{} }

func (t *WriteTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        t.Name(),
		Description: "Write content to a file, replacing it entirely if it already exists. Missing parent directories are created.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"path": {
					Type:        tool.TypeString,
					Description: "Path of the file to write.",
				},
				"content": {
					Type:        tool.TypeString,
					Description: "Full content the file should contain afterwards.",
				},
			},
			Required: []string{"path", "content"},
		},
	}
}

func (t *WriteTool) Execute(ctx context.Context, input any) (string, error) {
	req, ok := input.(*WriteFileRequest)
	if !ok {
		return "", tool.NewError(tool.KindInvalidArguments, "unexpected input type %T", input)
	}

	abs, rel, err := pathutil.Resolve(t.workspaceRoot, req.Path)
	if err != nil {
		return "", err
	}

	created := true
	perm := os.FileMode(0o644)
	if info, statErr := os.Stat(abs); statErr == nil {
		if info.IsDir() {
			return "", tool.NewError(tool.KindInvalidArguments, "%s is a directory", req.Path)
		}
		created = false
		perm = info.Mode().Perm()
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("create parent directories for %s: %w", req.Path, err)
	}
	if err := writeAtomic(abs, []byte(req.Content), perm); err != nil {
		return "", fmt.Errorf("write %s: %w", req.Path, err)
	}

	resp := WriteFileResponse{Path: rel, Bytes: len(req.Content), Created: created}
	out, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("marshal response: %w", err)
	}
	return string(out), nil
}

// writeAtomic writes data to a sibling temp file and renames it over the
// target, so a crash mid-write never leaves a half-written file behind.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
