package merge

import (
	"fmt"
	"os"
	"path/filepath"
)

// Files is the file I/O the orchestrator performs. ReadFile must return an
// error matching fs.ErrNotExist for missing files.
type Files interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	// AppendFile adds data to the end of an existing file.
	AppendFile(path string, data []byte) error
}

type osFiles struct{}

// NewOSFiles returns Files backed by the local file system.
func NewOSFiles() Files {
	return osFiles{}
}

func (osFiles) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (osFiles) WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (osFiles) AppendFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
