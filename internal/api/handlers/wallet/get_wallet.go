package wallet

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/hd-wallet/internal/api"
	"github/chapool/hd-wallet/internal/util"
)

func GetWalletRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.GET("/:address", getWalletHandler(s))
}

func getWalletHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		wallet, err := s.Wallet.GetWithBalance(ctx, c.Param("address"))
		if err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Msg("Failed to get wallet")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, toWalletWithBalance(wallet))
	}
}
