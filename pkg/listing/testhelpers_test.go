package listing

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newTestRoot returns a temporary directory and an fs.FS confined to it.
func newTestRoot(t *testing.T) (string, fs.FS) {
	t.Helper()
	dir := t.TempDir()
	root, err := os.OpenRoot(dir)
	require.NoError(t, err)
	t.Cleanup(func() {
		root.Close()
	})
	return dir, root.FS()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// fakeFS serves a single root directory with a fixed entry order, which lets
// tests control enumeration order and metadata failures.
type fakeFS struct {
	entries []fs.DirEntry
}

func (f *fakeFS) Open(name string) (fs.File, error) {
	if name != "." {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return &fakeDir{entries: f.entries}, nil
}

type fakeDir struct {
	entries []fs.DirEntry
	pos     int
}

func (d *fakeDir) Stat() (fs.FileInfo, error) {
	return fakeInfo{name: ".", dir: true}, nil
}

func (d *fakeDir) Read([]byte) (int, error) {
	return 0, io.EOF
}

func (d *fakeDir) Close() error {
	return nil
}

func (d *fakeDir) ReadDir(n int) ([]fs.DirEntry, error) {
	if d.pos >= len(d.entries) {
		if n > 0 {
			return nil, io.EOF
		}
		return nil, nil
	}
	end := len(d.entries)
	if n > 0 && d.pos+n < end {
		end = d.pos + n
	}
	batch := d.entries[d.pos:end]
	d.pos = end
	return batch, nil
}

type fakeEntry struct {
	name  string
	dir   bool
	size  int64
	mtime time.Time
	err   error
}

func (e fakeEntry) Name() string { return e.name }
func (e fakeEntry) IsDir() bool  { return e.dir }

func (e fakeEntry) Type() fs.FileMode {
	if e.dir {
		return fs.ModeDir
	}
	return 0
}

func (e fakeEntry) Info() (fs.FileInfo, error) {
	if e.err != nil {
		return nil, e.err
	}
	return fakeInfo{name: e.name, dir: e.dir, size: e.size, mtime: e.mtime}, nil
}

type fakeInfo struct {
	name  string
	dir   bool
	size  int64
	mtime time.Time
}

func (i fakeInfo) Name() string       { return i.name }
func (i fakeInfo) Size() int64        { return i.size }
func (i fakeInfo) ModTime() time.Time { return i.mtime }
func (i fakeInfo) IsDir() bool        { return i.dir }
func (i fakeInfo) Sys() interface{}   { return nil }

func (i fakeInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0755
	}
	return 0644
}

func fakeFiles(names ...string) *fakeFS {
	entries := make([]fs.DirEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, fakeEntry{name: name, size: 1})
	}
	return &fakeFS{entries: entries}
}

func entryNames(entries []Entry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}
