package listing

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/yadexhq/yadex/pkg/errcodes"
	"github.com/yadexhq/yadex/pkg/metrics"
	"github.com/yadexhq/yadex/pkg/templates"
)

// Renderer renders a named template with the given data.
type Renderer interface {
	Render(name string, data interface{}) (string, error)
}

type handler struct {
	listingService *Service
	renderer       Renderer
}

func (h *handler) index(c echo.Context) error {
	u := c.Request().URL

	// Only directories are listed, so every listing URL ends with a slash.
	if !strings.HasSuffix(u.Path, "/") {
		return c.Redirect(http.StatusMovedPermanently, redirectTarget(u))
	}

	ctx := c.Request().Context()
	idx, err := h.listingService.List(ctx, u.Path)
	if err != nil {
		if ctx.Err() != nil {
			logger.FromEchoContext(c).Info("client went away during listing")
			return nil
		}
		logger.FromEchoContext(c).Err(err).Debug("directory not listable")
		return errcodes.NotFound()
	}

	metrics.ListingEntries.Observe(float64(len(idx.Entries)))
	if idx.MaybeTruncated {
		metrics.ListingsTruncated.Inc()
	}

	body, err := h.renderer.Render(templates.Index, idx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.HTML(http.StatusOK, body))
}
