package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yadexhq/yadex/pkg/config"
	"github.com/yadexhq/yadex/pkg/templates"
)

func newTestServer(t *testing.T) (string, *config.Config, http.Handler) {
	t.Helper()
	dir := t.TempDir()
	root, err := os.OpenRoot(dir)
	require.NoError(t, err)
	t.Cleanup(func() {
		root.Close()
	})

	cfg := config.NewForTest(dir)
	cfg.Service.Limit = 2
	store, err := templates.New(filepath.Join("..", "..", "config"), cfg.Template)
	require.NoError(t, err)

	return dir, cfg, NewEcho(cfg, root.FS(), store)
}

func TestNew_Addr(t *testing.T) {
	cfg := config.NewForTest("/srv")
	cfg.Network.Port = 8123

	srv := New(cfg, os.DirFS(t.TempDir()), nil)
	assert.Equal(t, "127.0.0.1:8123", srv.Addr)
	assert.NotNil(t, srv.Handler)
}

func TestNewEcho_ServesIndex(t *testing.T) {
	dir, _, h := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.txt"), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "two"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "two", "three.txt"), nil, 0644))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="one.txt"`)
	assert.Contains(t, rec.Body.String(), `href="two/"`)
	assert.Contains(t, rec.Body.String(), "may be incomplete")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/two", nil))
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/two/", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/two/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="three.txt"`)
	assert.NotContains(t, rec.Body.String(), "may be incomplete")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "The resource you are requesting does not exist", rec.Body.String())
}

func TestNewMetrics(t *testing.T) {
	cfg := config.NewForTest("/srv")
	assert.Nil(t, NewMetrics(cfg))

	cfg.Metrics.Port = 9100
	srv := NewMetrics(cfg)
	require.NotNil(t, srv)
	assert.Equal(t, "127.0.0.1:9100", srv.Addr)
}
