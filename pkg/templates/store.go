package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/yadexhq/yadex/pkg/config"
)

const (
	Index = "index"
	Error = "error"
)

// DatetimeLayout is the layout used by the datetime template function.
const DatetimeLayout = "2006-01-02 15:04:05"

// Store holds the compiled templates. It is built once at startup and only
// read afterwards, so a single *Store is shared by every request.
type Store struct {
	templates map[string]*template.Template
}

type LoadErrorKind int

const (
	LoadErrorRead LoadErrorKind = iota
	LoadErrorCompile
)

// LoadError is returned by New when a template file can't be read or parsed.
type LoadError struct {
	Kind LoadErrorKind
	Name string
	// Path is only set for read errors.
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Kind == LoadErrorRead {
		return fmt.Sprintf("failed to read %s template from %s: %v", e.Name, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to compile %s template: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// RenderError is returned by Render when executing a template fails.
type RenderError struct {
	Name string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render %s template: %v", e.Name, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

var funcs = template.FuncMap{
	"bytes": func(size uint64) string {
		return humanize.IBytes(size)
	},
	"datetime": func(t time.Time) string {
		return t.Format(DatetimeLayout)
	},
}

// New reads and compiles the index and error templates. Paths in cfg are
// resolved relative to configDir.
func New(configDir string, cfg config.TemplateConfig) (*Store, error) {
	files := []struct {
		name string
		path string
	}{
		{Index, cfg.IndexFile},
		{Error, cfg.ErrorFile},
	}

	s := &Store{templates: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		path := filepath.Join(configDir, f.path)
		source, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WithStack(&LoadError{Kind: LoadErrorRead, Name: f.name, Path: path, Err: err})
		}
		if err := s.add(f.name, string(source)); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// NewFromSources compiles templates from in-memory sources keyed by name.
func NewFromSources(sources map[string]string) (*Store, error) {
	s := &Store{templates: make(map[string]*template.Template, len(sources))}
	for name, source := range sources {
		if err := s.add(name, source); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) add(name, source string) error {
	tmpl, err := template.New(name).Funcs(funcs).Parse(source)
	if err != nil {
		return errors.WithStack(&LoadError{Kind: LoadErrorCompile, Name: name, Err: err})
	}
	s.templates[name] = tmpl
	return nil
}

// Render executes the named template against data and returns the output.
func (s *Store) Render(name string, data interface{}) (string, error) {
	tmpl, ok := s.templates[name]
	if !ok {
		return "", errors.WithStack(&RenderError{Name: name, Err: errors.New("template not found")})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.WithStack(&RenderError{Name: name, Err: err})
	}
	return buf.String(), nil
}
