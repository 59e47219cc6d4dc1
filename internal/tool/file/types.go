package file

import "fmt"

// ReadFileRequest is the input for read_file.
type ReadFileRequest struct {
	Path string `mapstructure:"path" json:"path"`
}

func (r *ReadFileRequest) Validate() error {
	if r.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

func (r *ReadFileRequest) String() string {
	return fmt.Sprintf("Read %s", r.Path)
}

// ReadFileResponse is the output of read_file.
type ReadFileResponse struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Lines   int    `json:"lines"`
}

// WriteFileRequest is the input for write_file.
type WriteFileRequest struct {
	Path    string `mapstructure:"path" json:"path"`
	Content string `mapstructure:"content" json:"content"`
}

func (r *WriteFileRequest) Validate() error {
	if r.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

func (r *WriteFileRequest) String() string {
	lines := 0
	if r.Content != "" {
		lines = 1
		for _, c := range r.Content {
			if c == '\n' {
				lines++
			}
		}
	}
	return fmt.Sprintf("Write %s (%d lines)", r.Path, lines)
}

// WriteFileResponse is the output of write_file.
type WriteFileResponse struct {
	Path    string `json:"path"`
	Bytes   int    `json:"bytes"`
	Created bool   `json:"created"` // false when an existing file was overwritten
}

// EditFileRequest is the input for edit_file.
type EditFileRequest struct {
	Path    string `mapstructure:"path" json:"path"`
	OldText string `mapstructure:"old_text" json:"old_text"`
	NewText string `mapstructure:"new_text" json:"new_text"`
}

func (r *EditFileRequest) Validate() error {
	if r.Path == "" {
		return fmt.Errorf("path is required")
	}
	if r.OldText == "" {
		return fmt.Errorf("old_text is required")
	}
	return nil
}

func (r *EditFileRequest) String() string {
	return fmt.Sprintf("Edit %s", r.Path)
}

// EditFileResponse is the output of edit_file.
type EditFileResponse struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}
