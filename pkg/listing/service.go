package listing

import (
	"context"
	"io"
	"io/fs"
	"math"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/yadexhq/yadex/pkg/metrics"
)

// batchSize is the number of entries requested from the filesystem at once.
const batchSize = 256

// ErrNotDirectory is returned by List when the path names something other
// than a directory.
var ErrNotDirectory = errors.New("not a directory")

type Service struct {
	fsys  fs.FS
	limit int
}

// NewService returns a Service listing directories of fsys. Paths are always
// resolved inside fsys, so callers pass an fs.FS that is already confined,
// e.g. (*os.Root).FS(). A limit of zero lists every entry.
func NewService(fsys fs.FS, limit int) *Service {
	return &Service{fsys: fsys, limit: limit}
}

// List enumerates the directory at dir, a slash-separated request path. At
// most limit entries are read from the filesystem; entries whose metadata
// can't be read are left out of the result.
func (s *Service) List(ctx context.Context, dir string) (*Index, error) {
	f, err := s.fsys.Open(fsName(dir))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	rdf, ok := f.(fs.ReadDirFile)
	if !info.IsDir() || !ok {
		return nil, errors.WithStack(ErrNotDirectory)
	}

	remaining := s.limit
	if remaining == 0 {
		remaining = math.MaxInt
	}

	log := logger.FromContext(ctx)
	entries := []Entry{}
	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			return nil, errors.WithStack(err)
		}

		batch, err := rdf.ReadDir(min(remaining, batchSize))
		for _, de := range batch {
			remaining--
			entry, infoErr := newEntry(de)
			if infoErr != nil {
				metrics.EntriesSkipped.Inc()
				log.Debug("skipping entry without metadata", logger.Data{"error": infoErr.Error()})
				continue
			}
			entries = append(entries, entry)
		}
		if errors.Is(err, io.EOF) || (err == nil && len(batch) == 0) {
			break
		}
		if err != nil {
			return nil, errors.WithStack(err)
		}
	}

	return &Index{
		Path:           displayPath(dir),
		Entries:        entries,
		MaybeTruncated: s.limit > 0 && len(entries) == s.limit,
	}, nil
}

func newEntry(de fs.DirEntry) (Entry, error) {
	info, err := de.Info()
	if err != nil {
		return Entry{}, err
	}

	isDir := info.IsDir()
	href, display := newEntryLink(de.Name(), isDir)
	entry := Entry{
		Name:        de.Name(),
		DisplayName: display,
		IsDir:       isDir,
		Href:        href,
	}
	if size := info.Size(); size > 0 {
		entry.Size = uint64(size)
	}
	if mtime := info.ModTime(); !mtime.IsZero() {
		entry.Datetime = &mtime
	}
	return entry, nil
}

// fsName maps a request path onto an fs.FS name. Cleaning it as an absolute
// path drops every ".." that would climb above the root.
func fsName(dir string) string {
	name := strings.TrimPrefix(path.Clean("/"+dir), "/")
	if name == "" {
		return "."
	}
	return name
}

func displayPath(dir string) string {
	p := path.Clean("/" + dir)
	if p != "/" {
		p += "/"
	}
	return p
}
