package handlers

import (
	"github/chapool/hd-wallet/internal/api"
	"github/chapool/hd-wallet/internal/api/handlers/common"
	"github/chapool/hd-wallet/internal/api/handlers/wallet"
)

// AttachAllRoutes registers every route on s.Router.
func AttachAllRoutes(s *api.Server) {
	s.Router.Routes = append(s.Router.Routes,
		common.GetHealthyRoute(s),
		common.GetReadyRoute(s),
		common.GetMetricsRoute(s),
		wallet.PostCreateWalletRoute(s),
		wallet.GetWalletListRoute(s),
		wallet.GetWalletRoute(s),
		wallet.GetWalletQRRoute(s),
		wallet.PostSendRoute(s),
	)
}
