package ledger_test

import (
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/ledger-signer/internal/api"
	"github/chapool/ledger-signer/internal/api/httperrors"
	"github/chapool/ledger-signer/internal/ledger/emulator"
	"github/chapool/ledger-signer/internal/test"
	"github/chapool/ledger-signer/internal/types"
	"github/chapool/ledger-signer/internal/wallet/codec"
)

const emulatorAddress = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"

func eip155Payload() test.GenericPayload {
	return test.GenericPayload{
		"chain_id":  "1",
		"nonce":     "0x9",
		"gas_price": "20000000000",
		"gas_limit": "21000",
		"to":        "0x3535353535353535353535353535353535353535",
		"value":     "1000000000000000000",
	}
}

type ethService struct {
	mu  sync.Mutex
	raw hexutil.Bytes
}

func (s *ethService) SendRawTransaction(raw hexutil.Bytes) common.Hash {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.raw = raw
	return crypto.Keccak256Hash(raw)
}

func (s *ethService) lastRaw() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.raw
}

func TestGetAddress(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/api/v1/ledger/address", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.LedgerAddressResponse
		test.ParseResponseAndValidate(t, res, &response)

		assert.Equal(t, emulatorAddress, swag.StringValue(response.Address))
		assert.Equal(t, "m/44'/60'/0'/0/0", swag.StringValue(response.Path))
		assert.Equal(t, api.TransportTypeEmulator, swag.StringValue(response.Type))
		assert.Equal(t, emulator.DefaultVersion, response.Version)
		assert.NotEmpty(t, res.Header().Get("X-Request-Id"))
	})
}

func TestPostSignTransaction(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/ledger/sign-transaction", eip155Payload(), nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.SignTransactionResponse
		test.ParseResponseAndValidate(t, res, &response)

		raw, err := hexutil.Decode(swag.StringValue(response.SignedTransaction))
		require.NoError(t, err)
		assert.Equal(t, codec.Hash(raw).Hex(), swag.StringValue(response.TxHash))

		sender, err := codec.Sender(raw)
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress(emulatorAddress), sender)

		base, sig, err := codec.DecodeSigned(raw)
		require.NoError(t, err)
		assert.Equal(t, uint64(9), *base.Nonce)
		assert.Contains(t, []int64{37, 38}, sig.V.Int64())
	})
}

func TestPostSignTransactionValidation(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		payload := eip155Payload()
		payload["to"] = "0x1234"
		payload["nonce"] = "-1"

		res := test.PerformRequest(t, s, "POST", "/api/v1/ledger/sign-transaction", payload, nil)
		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)

		var response httperrors.HTTPValidationError
		test.ParseResponseBody(t, res, &response)

		keys := make([]string, 0, len(response.ValidationErrors))
		for _, detail := range response.ValidationErrors {
			keys = append(keys, swag.StringValue(detail.Key))
		}
		assert.ElementsMatch(t, []string{"to", "nonce"}, keys)
	})
}

func TestPostSignTransactionNonceOutOfRange(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		payload := eip155Payload()
		payload["nonce"] = "0x10000000000000000"

		res := test.PerformRequest(t, s, "POST", "/api/v1/ledger/sign-transaction", payload, nil)
		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)

		var response httperrors.HTTPError
		test.ParseResponseBody(t, res, &response)
		assert.Equal(t, types.PublicHTTPErrorTypeINVALIDTRANSACTION, *response.Type)
	})
}

func TestPostSignTransactionDeviceTimeout(t *testing.T) {
	emu, err := emulator.New(emulator.Config{ConfirmDelay: time.Second})
	require.NoError(t, err)

	cfg := test.DefaultTestConfig()
	cfg.Ledger.SignTimeout = 50 * time.Millisecond

	test.WithTestServerConfigurable(t, cfg, emu, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/ledger/sign-transaction", eip155Payload(), nil)
		require.Equal(t, http.StatusGatewayTimeout, res.Result().StatusCode)

		var response httperrors.HTTPError
		test.ParseResponseBody(t, res, &response)
		assert.Equal(t, types.PublicHTTPErrorTypeDEVICETIMEOUT, *response.Type)
	})
}

func TestPostSignTransactionRejected(t *testing.T) {
	emu, err := emulator.New(emulator.Config{})
	require.NoError(t, err)
	emu.SetReject(true)

	test.WithTestServerConfigurable(t, test.DefaultTestConfig(), emu, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/ledger/sign-transaction", eip155Payload(), nil)
		require.Equal(t, http.StatusBadGateway, res.Result().StatusCode)
	})
}

func TestPostSendTransactionWithoutProvider(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/ledger/send-transaction", eip155Payload(), nil)
		require.Equal(t, http.StatusServiceUnavailable, res.Result().StatusCode)

		var response httperrors.HTTPError
		test.ParseResponseBody(t, res, &response)
		assert.Equal(t, types.PublicHTTPErrorTypePROVIDERMISSING, *response.Type)
	})
}

func TestPostSendTransaction(t *testing.T) {
	node := &ethService{}
	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("eth", node))
	t.Cleanup(server.Stop)

	srv := httptest.NewServer(server)
	t.Cleanup(srv.Close)

	cfg := test.DefaultTestConfig()
	cfg.RPC.URLs = []string{srv.URL}

	emu, err := emulator.New(emulator.Config{})
	require.NoError(t, err)

	test.WithTestServerConfigurable(t, cfg, emu, func(s *api.Server) {
		payload := eip155Payload()
		delete(payload, "value")

		res := test.PerformRequest(t, s, "POST", "/api/v1/ledger/send-transaction", payload, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.SendTransactionResponse
		test.ParseResponseAndValidate(t, res, &response)

		raw := node.lastRaw()
		require.NotEmpty(t, raw)
		assert.Equal(t, crypto.Keccak256Hash(raw).Hex(), swag.StringValue(response.TxHash))

		base, _, err := codec.DecodeSigned(raw)
		require.NoError(t, err)
		assert.Equal(t, 0, base.Value.Cmp(big.NewInt(0)))
	})
}

func TestPostSignMessageUnsupported(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/ledger/sign-message", nil, nil)
		require.Equal(t, http.StatusNotImplemented, res.Result().StatusCode)
	})
}
