package wallet

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/hd-wallet/internal/api"
	"github/chapool/hd-wallet/internal/util"
	"github/chapool/hd-wallet/internal/wallet"
)

func PostSendRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.POST("/:address/send", postSendHandler(s))
}

func postSendHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body PostSendPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		result, err := s.Wallet.Send(ctx, c.Param("address"), wallet.SendRequest{
			To:     swag.StringValue(body.To),
			Amount: *body.Amount,
		})
		if err != nil {
			log.Debug().Err(err).Msg("Failed to send transfer")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, &SendResponse{
			TransactionID: result.TransactionID,
			ExplorerURL:   result.ExplorerURL,
		})
	}
}
