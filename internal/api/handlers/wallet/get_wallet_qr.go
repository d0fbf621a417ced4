package wallet

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
	"github/chapool/hd-wallet/internal/api"
	"github/chapool/hd-wallet/internal/util"
)

const qrSize = 256

func GetWalletQRRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.GET("/:address/qr", getWalletQRHandler(s))
}

// Renders the checksummed address of a stored wallet as PNG.
func getWalletQRHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		wallet, err := s.Wallet.Get(ctx, c.Param("address"))
		if err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Msg("Failed to load wallet for QR code")
			return err
		}

		png, err := qrcode.Encode(wallet.Address, qrcode.Medium, qrSize)
		if err != nil {
			return errors.Wrap(err, "failed to encode QR code")
		}

		return c.Blob(http.StatusOK, "image/png", png)
	}
}
