package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github/chapool/hd-wallet/internal/api"
	"github/chapool/hd-wallet/internal/api/httperrors"
	"github/chapool/hd-wallet/internal/api/router"
	"github/chapool/hd-wallet/internal/config"
	"github/chapool/hd-wallet/internal/wallet/store"
)

// WithTestServer runs closure against a fully wired server backed by an in-memory store
// and a FakeNode (s.Node).
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()

	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Wallet.StoreDriver = config.StoreDriverMemory
	cfg.Wallet.ChainID = TestChainID
	cfg.Wallet.MnemonicValidation = config.MnemonicValidationWords
	cfg.Echo.HideInternalServerErrorDetails = false

	WithTestServerConfigurable(t, cfg, closure)
}

// WithTestServerConfigurable is WithTestServer with a custom config.
func WithTestServerConfigurable(t *testing.T, cfg config.Server, closure func(s *api.Server)) {
	t.Helper()

	s, err := api.InitNewServerWithComponents(cfg, store.NewMemory(), NewFakeNode())
	require.NoError(t, err)

	router.Init(s)

	defer func() {
		for _, err := range s.Shutdown(t.Context()) {
			t.Logf("shutdown: %v", err)
		}
	}()

	closure(s)
}

// FakeNodeOf returns the FakeNode of a test server.
func FakeNodeOf(t *testing.T, s *api.Server) *FakeNode {
	t.Helper()

	node, ok := s.Node.(*FakeNode)
	require.True(t, ok, "server node is not a FakeNode")

	return node
}

// PerformRequest executes a request against the server's echo instance. A non-nil body
// is JSON encoded.
func PerformRequest(t *testing.T, s *api.Server, method string, path string, body any, headers http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	res := httptest.NewRecorder()
	s.Echo.ServeHTTP(res, req)

	return res
}

// ParseResponseAndValidate decodes a JSON response body into v.
func ParseResponseAndValidate(t *testing.T, res *httptest.ResponseRecorder, v any) {
	t.Helper()

	require.NoError(t, json.NewDecoder(res.Result().Body).Decode(v))
}

// RequireHTTPError asserts that res carries httpError's status and type and returns the decoded body.
func RequireHTTPError(t *testing.T, res *httptest.ResponseRecorder, httpError *httperrors.HTTPError) httperrors.HTTPError {
	t.Helper()

	var response httperrors.HTTPError
	ParseResponseAndValidate(t, res, &response)

	require.Equal(t, httpError.Code, res.Result().StatusCode, "unexpected status code: %s", res.Body.String())
	require.Equal(t, httpError.Type, response.Type)

	return response
}
