package provider_test

import (
	"context"
	"errors"
	"math/big"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/ledger-signer/internal/wallet/provider"
)

type ethService struct {
	reject atomic.Bool
	sent   atomic.Int32
	raw    atomic.Value
}

func (s *ethService) ChainId() *hexutil.Big { //nolint:revive // JSON-RPC method name
	return (*hexutil.Big)(big.NewInt(250))
}

func (s *ethService) GasPrice() *hexutil.Big {
	return (*hexutil.Big)(big.NewInt(1e9))
}

func (s *ethService) GetTransactionCount(_ common.Address, _ string) hexutil.Uint64 {
	return 7
}

func (s *ethService) EstimateGas(_ map[string]any, _ *string) hexutil.Uint64 {
	return 21000
}

func (s *ethService) SendRawTransaction(_ context.Context, raw hexutil.Bytes) (common.Hash, error) {
	s.sent.Add(1)
	if s.reject.Load() {
		return common.Hash{}, errors.New("nonce too low")
	}

	s.raw.Store([]byte(raw))
	return crypto.Keccak256Hash(raw), nil
}

func newNode(t *testing.T) (*ethService, string) {
	t.Helper()

	service := &ethService{}
	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("eth", service))
	t.Cleanup(server.Stop)

	srv := httptest.NewServer(server)
	t.Cleanup(srv.Close)

	return service, srv.URL
}

func deadURL() string {
	srv := httptest.NewServer(nil)
	srv.Close()
	return srv.URL
}

func signedTx(t *testing.T) (*types.Transaction, string) {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	to := common.HexToAddress("0x3535353535353535353535353535353535353535")
	tx, err := types.SignNewTx(key, types.NewEIP155Signer(big.NewInt(250)), &types.LegacyTx{
		Nonce:    1,
		GasPrice: big.NewInt(1e9),
		Gas:      21000,
		To:       &to,
		Value:    big.NewInt(1),
	})
	require.NoError(t, err)

	raw, err := tx.MarshalBinary()
	require.NoError(t, err)

	return tx, hexutil.Encode(raw)
}

func TestNewRPCClientRequiresURL(t *testing.T) {
	_, err := provider.NewRPCClient(nil)
	require.Error(t, err)
}

func TestSendTransaction(t *testing.T) {
	node, url := newNode(t)

	client, err := provider.NewRPCClient([]string{url})
	require.NoError(t, err)
	defer client.Close()

	tx, raw := signedTx(t)

	hash, err := client.SendTransaction(t.Context(), raw)
	require.NoError(t, err)
	assert.Equal(t, tx.Hash(), hash)
	assert.Equal(t, hexutil.MustDecode(raw), node.raw.Load())

	_, err = client.SendTransaction(t.Context(), "0xnothex")
	require.Error(t, err)
}

func TestStateQueries(t *testing.T) {
	_, url := newNode(t)

	client, err := provider.NewRPCClient([]string{url})
	require.NoError(t, err)
	defer client.Close()

	chainID, err := client.ChainID(t.Context())
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(250), chainID)

	nonce, err := client.PendingNonceAt(t.Context(), common.Address{})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), nonce)

	price, err := client.SuggestGasPrice(t.Context())
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1e9), price)

	gas, err := client.EstimateGas(t.Context(), ethereum.CallMsg{Value: big.NewInt(1)})
	require.NoError(t, err)
	assert.Equal(t, uint64(21000), gas)
}

func TestFailoverOnConnectionError(t *testing.T) {
	node, url := newNode(t)

	client, err := provider.NewRPCClient([]string{deadURL(), url})
	require.NoError(t, err)
	defer client.Close()

	_, raw := signedTx(t)

	_, err = client.SendTransaction(t.Context(), raw)
	require.NoError(t, err)
	assert.Equal(t, int32(1), node.sent.Load())
}

func TestNodeErrorIsFinal(t *testing.T) {
	first, firstURL := newNode(t)
	second, secondURL := newNode(t)
	first.reject.Store(true)

	client, err := provider.NewRPCClient([]string{firstURL, secondURL})
	require.NoError(t, err)
	defer client.Close()

	_, raw := signedTx(t)

	_, err = client.SendTransaction(t.Context(), raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonce too low")
	assert.Equal(t, int32(1), first.sent.Load())
	assert.Equal(t, int32(0), second.sent.Load())
}
