package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/hd-wallet/internal/api"
)

// StatusNotReady is returned by the probes when a component is missing or unhealthy.
const StatusNotReady = 521

func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/ready", getReadyHandler(s))
}

// Readiness only checks that all components are wired; it never calls the node.
func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.Ready() {
			return c.String(StatusNotReady, "Not ready.")
		}

		return c.String(http.StatusOK, "Ready.")
	}
}
