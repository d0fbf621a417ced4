package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github/chapool/hd-wallet/internal/api"
	"github/chapool/hd-wallet/internal/util"
)

func GetHealthyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/healthy", getHealthyHandler(s))
}

// Liveness pings the wallet store and asks the node for its chain id.
func getHealthyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.Ready() {
			return c.String(StatusNotReady, "Not ready.")
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), s.Config.Management.ProbeTimeout)
		defer cancel()

		str, errs := ProbeLiveness(ctx, s)
		if len(errs) > 0 {
			util.LogFromContext(ctx).Warn().Errs("errs", errs).Msg("Health check failed")
			return c.String(StatusNotReady, str)
		}

		return c.String(http.StatusOK, str)
	}
}

// ProbeLiveness returns a human readable report and the errors of all failed checks.
func ProbeLiveness(ctx context.Context, s *api.Server) (string, []error) {
	var (
		b    strings.Builder
		errs []error
	)

	if err := s.Store.Ping(ctx); err != nil {
		errs = append(errs, err)
		fmt.Fprintf(&b, "Store: %v\n", err)
	} else {
		b.WriteString("Store: OK\n")
	}

	chainID, err := s.Node.ChainID(ctx)
	if err != nil {
		errs = append(errs, err)
		fmt.Fprintf(&b, "Node: %v\n", err)
	} else {
		fmt.Fprintf(&b, "Node: OK (chain id %s)\n", chainID)
	}

	if len(errs) == 0 {
		b.WriteString("Healthy.")
	} else {
		b.WriteString("Unhealthy.")
	}

	return b.String(), errs
}
