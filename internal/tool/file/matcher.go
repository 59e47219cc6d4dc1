package file

import (
	"strings"

	"github.com/Cyclone1070/termcoder/internal/tool"
)

// ApplyEdit replaces the single occurrence of oldText in content with
// newText. Matching is exact on bytes: no whitespace or line-ending
// normalization is performed, so callers must supply oldText verbatim
// from the file. Zero occurrences or more than one occurrence leave the
// content unusable for a safe edit and return an error instead.
func ApplyEdit(content, oldText, newText string) (string, error) {
	count := strings.Count(content, oldText)
	switch count {
	case 0:
		return "", tool.NewError(tool.KindNotFound, "old_text not found in file; it must match the file content exactly, including whitespace and indentation")
	case 1:
		return strings.Replace(content, oldText, newText, 1), nil
	default:
		return "", tool.NewError(tool.KindAmbiguousMatch, "old_text matches %d locations; include more surrounding context to make the match unique", count)
	}
}
