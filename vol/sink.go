package vol

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Sink receives encoded volumetric artifacts. Names are slash-separated
// paths relative to the sink root, e.g. "Vols/density00012-16x16x16.dat".
type Sink interface {
	// WriteFile creates or replaces the named file with data.
	WriteFile(name string, data []byte) error
	// AppendLines appends the given lines, each followed by a newline,
	// to the named file, creating it if it does not exist.
	AppendLines(name string, lines ...string) error
	// Remove deletes the named file. Removing a file that does not
	// exist is not an error.
	Remove(name string) error
}

// DirSink writes artifacts beneath a root directory on the local
// filesystem, creating intermediate directories as needed.
type DirSink struct {
	root string
}

var _ Sink = (*DirSink)(nil)

// NewDirSink returns a sink rooted at dir. The directory itself is created
// lazily on the first write.
func NewDirSink(dir string) *DirSink {
	return &DirSink{root: dir}
}

func (s *DirSink) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// WriteFile implements Sink.
func (s *DirSink) WriteFile(name string, data []byte) error {
	path := s.path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent of %s: %w", name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	return nil
}

// AppendLines implements Sink.
func (s *DirSink) AppendLines(name string, lines ...string) error {
	path := s.path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent of %s: %w", name, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(f, line); err != nil {
			f.Close()
			return fmt.Errorf("append to %s: %w", name, err)
		}
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}

	return nil
}

// Remove implements Sink.
func (s *DirSink) Remove(name string) error {
	err := os.Remove(s.path(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}

	return nil
}
