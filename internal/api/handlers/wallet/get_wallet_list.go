package wallet

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github/chapool/hd-wallet/internal/api"
	"github/chapool/hd-wallet/internal/api/httperrors"
	"github/chapool/hd-wallet/internal/util"
)

func GetWalletListRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.GET("/list", getWalletListHandler(s))
}

func getWalletListHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		limit, err := queryInt(c, "limit")
		if err != nil {
			return err
		}

		offset, err := queryInt(c, "offset")
		if err != nil {
			return err
		}

		wallets, err := s.Wallet.List(ctx, limit, offset)
		if err != nil {
			log.Debug().Err(err).Msg("Failed to list wallets")
			return err
		}

		response := make([]*WalletDetail, 0, len(wallets))
		for _, w := range wallets {
			response = append(response, toWalletDetail(w))
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}

// queryInt reads an optional non-negative integer query parameter; absent means 0.
func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, httperrors.NewHTTPValidationError(
			http.StatusBadRequest,
			httperrors.TypeInvalidQueryParameter,
			"Invalid query parameter.",
			[]*httperrors.HTTPValidationErrorDetail{
				{Key: name, In: "query", Error: "must be a non-negative integer"},
			},
		)
	}

	return value, nil
}
