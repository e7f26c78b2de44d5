package store

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

const traceFile = "trace.txt"

var ErrNotFound = errors.New("trace not found")

// FS keeps one directory per uploaded trace under Root.
type FS struct{ Root string }

func New(root string) (*FS, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "create store root")
	}
	return &FS{Root: root}, nil
}

func (s *FS) TraceDir(id string) string { return filepath.Join(s.Root, filepath.Base(id)) }
func (s *FS) Path(id string) string     { return filepath.Join(s.TraceDir(id), traceFile) }

func (s *FS) Put(id string, r io.Reader) (string, error) {
	d := s.TraceDir(id)
	if err := os.MkdirAll(d, 0o755); err != nil {
		return "", errors.Wrap(err, "create trace dir")
	}
	p := s.Path(id)
	f, err := os.Create(p)
	if err != nil {
		return "", errors.Wrap(err, "create trace file")
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.RemoveAll(d)
		return "", errors.Wrap(err, "write trace file")
	}
	return p, f.Close()
}

func (s *FS) Open(id string) (*os.File, error) {
	f, err := os.Open(s.Path(id))
	if os.IsNotExist(err) {
		return nil, errors.Wrap(ErrNotFound, id)
	}
	return f, err
}

func (s *FS) Remove(id string) error {
	if _, err := os.Stat(s.Path(id)); os.IsNotExist(err) {
		return errors.Wrap(ErrNotFound, id)
	}
	return os.RemoveAll(s.TraceDir(id))
}

// List returns the ids of stored traces, sorted.
func (s *FS) List() ([]string, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(s.Path(e.Name())); err == nil {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}
