package export

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dchest/safefile"
)

// LocalSink writes blobs below a root directory.
type LocalSink struct {
	root string
}

// NewLocalSink creates a sink rooted at the given directory. The directory is
// created on first write.
func NewLocalSink(root string) *LocalSink {
	return &LocalSink{root: root}
}

// Name implements Sink.
func (s *LocalSink) Name() string { return "local:" + s.root }

// Put writes data through a temporary file that is renamed into place, so
// readers never observe a partial report.
func (s *LocalSink) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return safefile.WriteFile(path, data, 0o644)
}

// Get reads a blob.
func (s *LocalSink) Get(_ context.Context, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.root, filepath.FromSlash(name)))
}

// List returns slash-separated blob names with the given prefix, sorted.
func (s *LocalSink) List(_ context.Context, prefix string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == s.root {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || strings.HasSuffix(d.Name(), ".tmp") {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}
