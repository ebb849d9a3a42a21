package listing

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the directory index on every path.
func RegisterRoutes(e *echo.Echo, listingService *Service, renderer Renderer) {
	h := &handler{
		listingService: listingService,
		renderer:       renderer,
	}

	e.Match([]string{http.MethodGet, http.MethodHead}, "/*", h.index)
}
