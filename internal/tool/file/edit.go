package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Cyclone1070/termcoder/internal/config"
	"github.com/Cyclone1070/termcoder/internal/tool"
	"github.com/Cyclone1070/termcoder/internal/tool/pathutil"
)

// EditTool replaces a unique text snippet in an existing file. The file
// is left untouched unless the snippet matches exactly once.
type EditTool struct {
	workspaceRoot string
	cfg           config.ToolsConfig
}

func NewEditTool(workspaceRoot string, cfg config.ToolsConfig) *EditTool {
	return &EditTool{workspaceRoot: workspaceRoot, cfg: cfg}
}

func (t *EditTool) Name() string { return "edit_file" }

func (t *EditTool) Category() tool.Category { return tool.CategoryFileMutating }

func (t *EditTool) Input() any { return &EditFileRequest{} }

func (t *EditTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        t.Name(),
		Description: "Replace an exact text snippet in a file. old_text must appear exactly once; include enough surrounding context to make it unique.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"path": {
					Type:        tool.TypeString,
					Description: "Path of the file to edit.",
				},
				"old_text": {
					Type:        tool.TypeString,
					Description: "Exact text to replace, copied verbatim from the file.",
				},
				"new_text": {
					Type:        tool.TypeString,
					Description: "Replacement text. May be empty to delete the snippet.",
				},
			},
			Required: []string{"path", "old_text", "new_text"},
		},
	}
}

func (t *EditTool) Execute(ctx context.Context, input any) (string, error) {
	req, ok := input.(*EditFileRequest)
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
		return "", tool.NewError(tool.KindInvalidArguments, "%s is a directory", req.Path)
	}
	if info.Size() > t.cfg.MaxFileSize {
		return "", tool.NewError(tool.KindInvalidArguments, "file is %d bytes, larger than the %d byte limit", info.Size(), t.cfg.MaxFileSize)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", req.Path, err)
	}

	updated, err := ApplyEdit(string(data), req.OldText, req.NewText)
	if err != nil {
		return "", err
	}

	if err := writeAtomic(abs, []byte(updated), info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("write %s: %w", req.Path, err)
	}

	resp := EditFileResponse{Path: rel, Bytes: len(updated)}
	out, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("marshal response: %w", err)
	}
	return string(out), nil
}
