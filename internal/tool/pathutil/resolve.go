// Package pathutil resolves tool-supplied paths against the workspace root
// and rejects anything that would escape it. Every filesystem tool goes
// through Resolve before touching the disk; this is defense in depth on top
// of whatever outer sandbox the process runs in.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Cyclone1070/termcoder/internal/tool"
)

// CanonicaliseRoot canonicalises a workspace root path by making it absolute
// and resolving symlinks. Returns an error if the path doesn't exist or isn't
// a directory.
func CanonicaliseRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve workspace root: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", fmt.Errorf("failed to resolve workspace root symlinks: %w", err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("workspace root does not exist: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("workspace root is not a directory: %s", resolved)
	}
	return resolved, nil
}

// Resolve normalises a path and ensures it's within the workspace root.
// Relative paths are joined to the root; "~/" expands to the user home.
// Symlinks along the existing portion of the path are resolved before the
// boundary check, so a link pointing outside the workspace is rejected even
// when its lexical path looks contained. Returns the absolute path, the
// root-relative path, and a tool.Error of kind path_outside_sandbox on
// escape.
func Resolve(workspaceRoot, path string) (abs string, rel string, err error) {
	if workspaceRoot == "" {
		return "", "", fmt.Errorf("workspace root not set")
	}
	if path == "" {
		return "", "", tool.NewError(tool.KindInvalidArguments, "path must not be empty")
	}

	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", fmt.Errorf("failed to expand tilde: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	rootAbs := filepath.Clean(workspaceRoot)

	var absInput string
	if filepath.IsAbs(path) {
		absInput = filepath.Clean(path)
	} else {
		absInput = filepath.Join(rootAbs, path)
	}

	// Lexical containment first: catches plain ../ traversal before any
	// filesystem access.
	if !within(absInput, rootAbs) {
		return "", "", tool.NewError(tool.KindPathOutsideSandbox, "path %q resolves outside the workspace", path)
	}

	// Resolve symlinks on the deepest existing ancestor, then re-append the
	// not-yet-existing suffix (write_file may create new directories).
	resolved, err := resolveExisting(absInput)
	if err != nil {
		return "", "", err
	}

	if !within(resolved, rootAbs) {
		return "", "", tool.NewError(tool.KindPathOutsideSandbox, "path %q resolves outside the workspace", path)
	}

	finalRel, err := filepath.Rel(rootAbs, resolved)
	if err != nil || strings.HasPrefix(finalRel, "..") {
		return "", "", tool.NewError(tool.KindPathOutsideSandbox, "path %q resolves outside the workspace", path)
	}
	finalRel = filepath.ToSlash(finalRel)
	if finalRel == "." {
		finalRel = ""
	}

	return resolved, finalRel, nil
}

// resolveExisting resolves symlinks for the longest existing prefix of path
// and joins the remaining (not yet created) components back on.
func resolveExisting(path string) (string, error) {
	existing := path
	var suffix []string

	for {
		resolved, err := filepath.EvalSymlinks(existing)
		if err == nil {
			if len(suffix) == 0 {
				return resolved, nil
			}
			parts := append([]string{resolved}, reverse(suffix)...)
			return filepath.Join(parts...), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to resolve path: %w", err)
		}

		parent := filepath.Dir(existing)
		if parent == existing {
			// Walked all the way to the filesystem root without finding
			// anything that exists.
			return path, nil
		}
		suffix = append(suffix, filepath.Base(existing))
		existing = parent
	}
}

func reverse(s []string) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

// within reports whether path is rootAbs itself or contained in it.
func within(path, rootAbs string) bool {
	p := filepath.Clean(path)
	if p == rootAbs {
		return true
	}
	return strings.HasPrefix(p, rootAbs+string(filepath.Separator))
}
