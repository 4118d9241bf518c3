package provider

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// RPCClient wraps ethclient with several node URLs and fails over between them.
// It is the Provider broadcasting signed transactions.
type RPCClient struct {
	urls    []string
	dial    func(ctx context.Context, url string) (*ethclient.Client, error)
	mu      sync.Mutex
	clients []*ethclient.Client
	current int
}

// NewRPCClient creates a client over urls. Connections are dialed lazily on first use.
func NewRPCClient(urls []string) (*RPCClient, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one RPC URL is required")
	}

	return &RPCClient{
		urls:    urls,
		dial:    ethclient.DialContext,
		clients: make([]*ethclient.Client, len(urls)),
	}, nil
}

// Close closes all client connections
func (c *RPCClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, client := range c.clients {
		if client != nil {
			client.Close()
			c.clients[i] = nil
		}
	}
}

// SendTransaction decodes the 0x prefixed raw signed transaction and broadcasts it.
func (c *RPCClient) SendTransaction(ctx context.Context, signedTx string) (common.Hash, error) {
	raw, err := hexutil.Decode(signedTx)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "invalid signed transaction hex")
	}

	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return common.Hash{}, errors.Wrap(err, "failed to decode signed transaction")
	}

	err = c.withClient(ctx, func(client *ethclient.Client) error {
		return client.SendTransaction(ctx, tx)
	})
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "failed to send transaction")
	}

	log.Info().Str("tx_hash", tx.Hash().Hex()).Msg("Transaction broadcast")

	return tx.Hash(), nil
}

// ChainID returns the chain id of the connected network.
func (c *RPCClient) ChainID(ctx context.Context) (*big.Int, error) {
	var chainID *big.Int
	err := c.withClient(ctx, func(client *ethclient.Client) (err error) {
		chainID, err = client.ChainID(ctx)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get chain ID")
	}
	return chainID, nil
}

// PendingNonceAt returns the pending nonce for the given address.
func (c *RPCClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	var nonce uint64
	err := c.withClient(ctx, func(client *ethclient.Client) (err error) {
		nonce, err = client.PendingNonceAt(ctx, account)
		return err
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to get pending nonce")
	}
	return nonce, nil
}

// SuggestGasPrice returns the legacy gas price suggested by the node.
func (c *RPCClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	var price *big.Int
	err := c.withClient(ctx, func(client *ethclient.Client) (err error) {
		price, err = client.SuggestGasPrice(ctx)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to suggest gas price")
	}
	return price, nil
}

// EstimateGas estimates the gas needed by msg.
func (c *RPCClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	var gas uint64
	err := c.withClient(ctx, func(client *ethclient.Client) (err error) {
		gas, err = client.EstimateGas(ctx, msg)
		return err
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to estimate gas")
	}
	return gas, nil
}

// withClient runs fn against the current node and moves on to the next URL when the
// node cannot be dialed or fn fails with a transport error.
func (c *RPCClient) withClient(ctx context.Context, fn func(client *ethclient.Client) error) error {
	var lastErr error

	for i := range c.urls {
		idx, client, err := c.client(ctx, i)
		if err != nil {
			lastErr = err
			continue
		}

		err = fn(client)
		if err == nil {
			c.setCurrent(idx)
			return nil
		}

		// node level errors (e.g. nonce too low) are final, only connection problems fail over
		var rpcErr interface{ ErrorCode() int }
		if errors.As(err, &rpcErr) {
			return err
		}

		log.Warn().
			Str("url", c.urls[idx]).
			Err(err).
			Msg("RPC call failed, trying next node")

		c.drop(idx)
		lastErr = err
	}

	if lastErr == nil {
		lastErr = errors.New("all RPC clients are unavailable")
	}

	return lastErr
}

func (c *RPCClient) client(ctx context.Context, offset int) (int, *ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := (c.current + offset) % len(c.urls)
	if c.clients[idx] != nil {
		return idx, c.clients[idx], nil
	}

	client, err := c.dial(ctx, c.urls[idx])
	if err != nil {
		log.Warn().
			Str("url", c.urls[idx]).
			Err(err).
			Msg("Failed to connect to RPC node")
		return idx, nil, errors.Wrapf(err, "failed to dial %s", c.urls[idx])
	}

	c.clients[idx] = client
	return idx, client, nil
}

func (c *RPCClient) setCurrent(idx int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = idx
}

func (c *RPCClient) drop(idx int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.clients[idx] != nil {
		c.clients[idx].Close()
		c.clients[idx] = nil
	}
}
