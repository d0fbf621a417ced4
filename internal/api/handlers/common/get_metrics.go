package common

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github/chapool/hd-wallet/internal/api"
)

func GetMetricsRoute(s *api.Server) *echo.Route {
	if !s.Config.Management.EnableMetrics {
		return s.Router.Root.GET("/metrics", func(echo.Context) error {
			return echo.ErrNotFound
		})
	}

	handler := promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{})

	return s.Router.Root.GET("/metrics", echo.WrapHandler(handler))
}
