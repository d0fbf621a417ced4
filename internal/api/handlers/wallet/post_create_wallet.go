package wallet

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/hd-wallet/internal/api"
	"github/chapool/hd-wallet/internal/util"
)

func PostCreateWalletRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.POST("/create", postCreateWalletHandler(s))
}

func postCreateWalletHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body PostCreateWalletPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		wallet, err := s.Wallet.Create(ctx, body.Mnemonic)
		if err != nil {
			log.Debug().Err(err).Msg("Failed to create wallet")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusCreated, toWalletDetail(wallet))
	}
}
