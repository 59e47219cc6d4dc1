package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"

	"github.com/Cyclone1070/termcoder/internal/tool"
	"github.com/Cyclone1070/termcoder/internal/tool/gitutil"
	"github.com/Cyclone1070/termcoder/internal/tool/pathutil"
)

// ListFilesRequest is the input for list_files.
type ListFilesRequest struct {
	Path string `mapstructure:"path" json:"path"`
}

func (r *ListFilesRequest) Validate() error { return nil }

func (r *ListFilesRequest) String() string {
	if r.Path == "" || r.Path == "." {
		return "List workspace root"
	}
	return fmt.Sprintf("List %s", r.Path)
}

// Entry describes one directory entry.
type Entry struct {
	Name    string `json:"name"`
	Type    string `json:"type"` // "file" or "dir"
	Size    int64  `json:"size,omitempty"`
	Ignored bool   `json:"ignored,omitempty"` // matched by .gitignore
}

// ListFilesResponse is the output of list_files.
type ListFilesResponse struct {
	Path    string  `json:"path"`
	Entries []Entry `json:"entries"`
}

// ListTool lists the direct children of a workspace directory. Entries
// matched by .gitignore are included but annotated, so the model can see
// build output exists without reading into it.
type ListTool struct {
	workspaceRoot string
	ignore        gitutil.Matcher
}

func NewListTool(workspaceRoot string, ignore gitutil.Matcher) *ListTool {
	if ignore == nil {
		ignore = gitutil.NoOpMatcher{}
	}
	return &ListTool{workspaceRoot: workspaceRoot, ignore: ignore}
}

func (t *ListTool) Name() string { return "list_files" }

func (t *ListTool) Category() tool.Category { return tool.CategoryReadOnly }

func (t *ListTool) Input() any { return &ListFilesRequest{} }

func (t *ListTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        t.Name(),
		Description: "List the files and directories directly inside a workspace directory. Defaults to the workspace root when no path is given.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"path": {
					Type:        tool.TypeString,
					Description: "Directory to list, relative to the workspace root. Optional.",
				},
			},
		},
	}
}

func (t *ListTool) Execute(ctx context.Context, input any) (string, error) {
	req, ok := input.(*ListFilesRequest)
	if !ok {
		return "", tool.NewError(tool.KindInvalidArguments, "unexpected input type %T", input)
	}

	target := req.Path
	if target == "" {
		target = "."
	}
	abs, rel, err := pathutil.Resolve(t.workspaceRoot, target)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", tool.NewError(tool.KindNotFound, "directory not found: %s", target)
		}
		return "", fmt.Errorf("stat %s: %w", target, err)
	}
	if !info.IsDir() {
		return "", tool.NewError(tool.KindInvalidArguments, "%s is a file, not a directory", target)
	}

	dirEntries, err := os.ReadDir(abs)
	if err != nil {
		return "", fmt.Errorf("read directory %s: %w", target, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entry := Entry{Name: de.Name(), Type: "file"}
		if de.IsDir() {
			entry.Type = "dir"
		} else if fi, err := de.Info(); err == nil {
			entry.Size = fi.Size()
		}
		entryRel := path.Join(rel, de.Name())
		entry.Ignored = t.ignore.ShouldIgnore(entryRel, de.IsDir())
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	out, err := json.Marshal(ListFilesResponse{Path: rel, Entries: entries})
	if err != nil {
		return "", fmt.Errorf("marshal response: %w", err)
	}
	return string(out), nil
}
