package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// maxReadChars bounds read_file output so huge files cannot flood the agent
const maxReadChars = 5000

// ReadResult is the outcome of a read_file invocation
type ReadResult struct {
	Tool    string `json:"tool"`
	Path    string `json:"path"`
	Content string `json:"content"`
}

// ListResult is the outcome of a list_directory invocation
type ListResult struct {
	Tool  string   `json:"tool"`
	Path  string   `json:"path"`
	Items []string `json:"items"`
}

// WriteResult is the outcome of a write_file invocation
type WriteResult struct {
	Tool         string `json:"tool"`
	Status       string `json:"status"`
	Path         string `json:"path"`
	BytesWritten int    `json:"bytes_written"`
}

// DeleteResult is the outcome of a delete_file invocation
type DeleteResult struct {
	Tool   string `json:"tool"`
	Status string `json:"status"`
	Path   string `json:"path"`
}

// ReadFile reads a file, truncating content beyond maxReadChars
func (r *Registry) ReadFile(path string) any {
	if _, err := os.Stat(path); err != nil {
		return ErrorResult{Error: fmt.Sprintf("file not found: %s", path)}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return ErrorResult{Error: fmt.Sprintf("failed to read file: %v", err)}
	}

	return ReadResult{
		Tool:    "read_file",
		Path:    path,
		Content: truncate(string(content), maxReadChars),
	}
}

// ListDirectory lists the entries of a directory
func (r *Registry) ListDirectory(path string) any {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrorResult{Error: fmt.Sprintf("directory not found: %s", path)}
		}
		return ErrorResult{Error: fmt.Sprintf("failed to list directory: %v", err)}
	}

	items := make([]string, 0, len(entries))
	for _, entry := range entries {
		items = append(items, entry.Name())
	}

	return ListResult{
		Tool:  "list_directory",
		Path:  path,
		Items: items,
	}
}

// WriteFile writes content to a file. The target is canonicalized and must
// fall under a writable root; the check happens before any mutation.
func (r *Registry) WriteFile(path, content string) any {
	resolved, allowed := r.policy.ResolveWritablePath(path)
	if !allowed {
		r.logger.Warn("write refused outside writable roots", zap.String("path", path))
		return ErrorResult{
			Error: fmt.Sprintf("permission denied: can only write under %s", strings.Join(r.policy.WritableRoots(), ", ")),
			Path:  path,
		}
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0755); err != nil {
		return ErrorResult{Error: fmt.Sprintf("failed to create parent directory: %v", err)}
	}

	if err := os.WriteFile(resolved, []byte(content), 0600); err != nil {
		return ErrorResult{Error: fmt.Sprintf("failed to write file: %v", err)}
	}

	return WriteResult{
		Tool:         "write_file",
		Status:       "success",
		Path:         resolved,
		BytesWritten: len(content),
	}
}

// DeleteFile removes a file. Same writable-root discipline as WriteFile.
func (r *Registry) DeleteFile(path string) any {
	resolved, allowed := r.policy.ResolveWritablePath(path)
	if !allowed {
		r.logger.Warn("delete refused outside writable roots", zap.String("path", path))
		return ErrorResult{
			Error: fmt.Sprintf("permission denied: can only delete under %s", strings.Join(r.policy.WritableRoots(), ", ")),
			Path:  path,
		}
	}

	if _, err := os.Stat(resolved); err != nil {
		return ErrorResult{Error: fmt.Sprintf("file not found: %s", path)}
	}

	if err := os.Remove(resolved); err != nil {
		return ErrorResult{Error: fmt.Sprintf("failed to delete file: %v", err)}
	}

	return DeleteResult{
		Tool:   "delete_file",
		Status: "success",
		Path:   resolved,
	}
}
