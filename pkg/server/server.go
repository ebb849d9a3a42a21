package server

import (
	"io/fs"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/yadexhq/yadex/pkg/config"
	"github.com/yadexhq/yadex/pkg/errcodes"
	"github.com/yadexhq/yadex/pkg/listing"
	"github.com/yadexhq/yadex/pkg/metrics"
)

// New builds the directory index server. fsys must already be confined to the
// served root.
func New(cfg *config.Config, fsys fs.FS, renderer listing.Renderer) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(cfg.Network.Address, strconv.Itoa(cfg.Network.Port)),
		Handler:           NewEcho(cfg, fsys, renderer),
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// NewEcho returns the echo instance serving the index.
func NewEcho(cfg *config.Config, fsys fs.FS, renderer listing.Renderer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(metrics.EchoMiddleware())

	listing.RegisterRoutes(e, listing.NewService(fsys, cfg.Service.Limit), renderer)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e
}

func notFoundHandler(_ echo.Context) error {
	return errcodes.NotFound()
}

// NewMetrics returns the metrics server, or nil when it is disabled.
func NewMetrics(cfg *config.Config) *http.Server {
	if cfg.Metrics.Port == 0 {
		return nil
	}
	return metrics.NewServer(net.JoinHostPort(cfg.Metrics.Address, strconv.Itoa(cfg.Metrics.Port)))
}
