package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Cyclone1070/termcoder/internal/config"
	"github.com/Cyclone1070/termcoder/internal/tool"
	"github.com/Cyclone1070/termcoder/internal/tool/pathutil"
)

// ReadTool returns the full text content of a file inside the workspace.
type ReadTool struct {
	workspaceRoot string
	cfg           config.ToolsConfig
}

func NewReadTool(workspaceRoot string, cfg config.ToolsConfig) *ReadTool {
	return &ReadTool{workspaceRoot: workspaceRoot, cfg: cfg}
}

func (t *ReadTool) Name() string { return "read_file" }

func (t *ReadTool) Category() tool.Category { return tool.CategoryReadOnly }

func (t *ReadTool) Input() any { return &ReadFileRequest{} }

func (t *ReadTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        t.Name(),
		Description: "Read the content of a text file. The path may be relative to the workspace root or absolute, but must stay inside the workspace.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"path": {
					Type:        tool.TypeString,
					Description: "Path of the file to read.",
				},
			},
			Required: []string{"path"},
		},
	}
}

func (t *ReadTool) Execute(ctx context.Context, input any) (string, error) {
	req, ok := input.(*ReadFileRequest)
	if !ok {
		return "", tool.NewError(tool.KindInvalidArguments, "unexpected input type %T", input)
	}

	abs, rel, err := pathutil.Resolve(t.workspaceRoot, req.Path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", tool.NewError(tool.KindNotFound, "file not found: %s", req.Path)
		}
		return "", fmt.Errorf("stat %s: %w", req.Path, err)
	}
	if info.IsDir() {
		return "", tool.NewError(tool.KindInvalidArguments, "%s is a directory; use list_files instead", req.Path)
	}
	if info.Size() > t.cfg.MaxFileSize {
		return "", tool.NewError(tool.KindInvalidArguments, "file is %d bytes, larger than the %d byte limit", info.Size(), t.cfg.MaxFileSize)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", req.Path, err)
	}

	sample := data
	if len(sample) > t.cfg.BinarySampleSize {
		sample = sample[:t.cfg.BinarySampleSize]
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return "", tool.NewError(tool.KindInvalidArguments, "%s appears to be a binary file", req.Path)
	}

	content := string(data)
	resp := ReadFileResponse{
		Path:    rel,
		Content: content,
		Lines:   countLines(content),
	}
	out, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("marshal response: %w", err)
	}
	return string(out), nil
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
