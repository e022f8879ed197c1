// Package chain provides the blockchain RPC boundary: an ethclient-backed
// balance reader with an explicit lifetime, constructed once at
// application start and closed at teardown.
package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/goliatone/go-errors"
)

// Client wraps a JSON-RPC ethereum client. It satisfies
// wallets.BalanceReader.
type Client struct {
	ec *ethclient.Client
}

// Dial connects to the RPC endpoint. The connection is lazy for HTTP
// transports, so Dial failing means the URL itself is unusable.
func Dial(ctx context.Context, rawurl string) (*Client, error) {
	ec, err := ethclient.DialContext(ctx, rawurl)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "could not dial chain rpc")
	}
	return &Client{ec: ec}, nil
}

// NewClient wraps an already-constructed ethclient, e.g. one sharing an
// rpc.Client with other subsystems.
func NewClient(ec *ethclient.Client) *Client {
	return &Client{ec: ec}
}

// Balance reads the latest balance for the address. The address is parsed
// case-insensitively; callers normally pass the checksummed form.
func (c *Client) Balance(ctx context.Context, address string) (*big.Int, error) {
	balance, err := c.ec.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "could not read balance")
	}
	return balance, nil
}

func (c *Client) Close() {
	c.ec.Close()
}
