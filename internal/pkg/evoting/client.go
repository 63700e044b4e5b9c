package evoting

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sethvargo/go-retry"
)

const (
	defaultReceiptTimeout = 2 * time.Minute
	defaultPollInterval   = 500 * time.Millisecond
	maxPollInterval       = 5 * time.Second
)

// Config configures the contract client.
type Config struct {
	// RPCURL is the JSON-RPC endpoint of the node.
	RPCURL string
	// PrivateKey is the hex encoded operator key used to sign transactions.
	PrivateKey string
	// Address is the deployed contract address.
	Address string
	// ChainID is used for EIP-155 signing. Zero asks the node.
	ChainID int64
	// ReceiptTimeout bounds how long a write waits for its receipt.
	ReceiptTimeout time.Duration
}

type boundContract interface {
	Call(opts *bind.CallOpts, results *[]any, method string, params ...any) error
	Transact(opts *bind.TransactOpts, method string, params ...any) (*types.Transaction, error)
}

type receiptReader interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Contract is the set of operations the gateway relays to the chain.
type Contract interface {
	GetCandidates(ctx context.Context) ([]Candidate, error)
	GetResults(ctx context.Context) ([]Candidate, error)
	GetVoters(ctx context.Context) ([]string, error)
	AddCandidate(ctx context.Context, name string) (Receipt, error)
	AddVoter(ctx context.Context, voterAddress string) (Receipt, error)
	Vote(ctx context.Context, voterAddress string, candidateID uint64) (Receipt, error)
}

var _ Contract = (*Client)(nil)

// Client talks to the EVoting contract.
type Client struct {
	contract boundContract
	receipts receiptReader
	opts     *bind.TransactOpts
	closer   func()

	receiptTimeout time.Duration
	pollInterval   time.Duration

	// sends are serialised so concurrent writes pick distinct pending nonces
	sendMu sync.Mutex
}

// Dial connects to the node and binds the contract.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.RPCURL) == "" || !common.IsHexAddress(cfg.Address) {
		return nil, fmt.Errorf("%w: rpc url and contract address are required", ErrConfig)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(cfg.PrivateKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: private key: %w", ErrConfig, err)
	}

	parsed, err := parseABI()
	if err != nil {
		return nil, err
	}

	ec, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("evoting: dial: %w", err)
	}

	chainID := big.NewInt(cfg.ChainID)
	if cfg.ChainID == 0 {
		chainID, err = ec.ChainID(ctx)
		if err != nil {
			ec.Close()
			return nil, fmt.Errorf("evoting: chain id: %w", err)
		}
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		ec.Close()
		return nil, fmt.Errorf("evoting: transactor: %w", err)
	}

	bound := bind.NewBoundContract(common.HexToAddress(cfg.Address), parsed, ec, ec, ec)

	c := newClient(bound, ec, opts, cfg.ReceiptTimeout)
	c.closer = ec.Close
	return c, nil
}

func newClient(contract boundContract, receipts receiptReader, opts *bind.TransactOpts, receiptTimeout time.Duration) *Client {
	if receiptTimeout <= 0 {
		receiptTimeout = defaultReceiptTimeout
	}

	return &Client{
		contract:       contract,
		receipts:       receipts,
		opts:           opts,
		receiptTimeout: receiptTimeout,
		pollInterval:   defaultPollInterval,
	}
}

// Close releases the RPC connection.
func (c *Client) Close() error {
	if c.closer != nil {
		c.closer()
	}
	return nil
}

// GetCandidates returns every registered candidate.
func (c *Client) GetCandidates(ctx context.Context) ([]Candidate, error) {
	out, err := c.call(ctx, methodGetCandidate)
	if err != nil {
		return nil, err
	}
	return toCandidates(out)
}

// GetResults returns candidates with their current vote counts.
func (c *Client) GetResults(ctx context.Context) ([]Candidate, error) {
	out, err := c.call(ctx, methodGetResults)
	if err != nil {
		return nil, err
	}
	return toCandidates(out)
}

// GetVoters returns the checksummed addresses of every registered voter.
func (c *Client) GetVoters(ctx context.Context) ([]string, error) {
	out, err := c.call(ctx, methodGetVoters)
	if err != nil {
		return nil, err
	}
	return toAddresses(out)
}

// AddCandidate appends a candidate to the ballot.
func (c *Client) AddCandidate(ctx context.Context, name string) (Receipt, error) {
	return c.transact(ctx, methodAddCandidate, name)
}

// AddVoter authorises a voting address.
func (c *Client) AddVoter(ctx context.Context, voterAddress string) (Receipt, error) {
	return c.transact(ctx, methodAddVoter, common.HexToAddress(voterAddress))
}

// Vote casts a ballot for candidateID on behalf of voterAddress.
func (c *Client) Vote(ctx context.Context, voterAddress string, candidateID uint64) (Receipt, error) {
	return c.transact(ctx, methodVote, common.HexToAddress(voterAddress), new(big.Int).SetUint64(candidateID))
}

func (c *Client) call(ctx context.Context, method string) ([]any, error) {
	var out []any
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, method); err != nil {
		return nil, fmt.Errorf("evoting: call %s: %w", method, err)
	}
	return out, nil
}

func (c *Client) transact(ctx context.Context, method string, params ...any) (Receipt, error) {
	tx, err := c.send(ctx, method, params...)
	if err != nil {
		return Receipt{}, err
	}

	receipt, err := c.wait(ctx, tx.Hash())
	if err != nil {
		return Receipt{TxHash: tx.Hash().Hex()}, fmt.Errorf("evoting: %s %s: %w", method, tx.Hash().Hex(), err)
	}

	return Receipt{
		TxHash:      receipt.TxHash.Hex(),
		BlockNumber: bigToUint64(receipt.BlockNumber),
		GasUsed:     receipt.GasUsed,
	}, nil
}

func (c *Client) send(ctx context.Context, method string, params ...any) (*types.Transaction, error) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	opts := *c.opts
	opts.Context = ctx

	tx, err := c.contract.Transact(&opts, method, params...)
	if err != nil {
		return nil, fmt.Errorf("evoting: send %s: %w", method, err)
	}
	return tx, nil
}

func (c *Client) wait(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.receiptTimeout)
	defer cancel()

	b := retry.NewFibonacci(c.pollInterval)
	b = retry.WithCappedDuration(maxPollInterval, b)

	var receipt *types.Receipt
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		r, err := c.receipts.TransactionReceipt(ctx, hash)
		if errors.Is(err, ethereum.NotFound) {
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		receipt = r
		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ethereum.NotFound) {
			return nil, errors.Join(ErrReceiptTimeout, err)
		}
		return nil, err
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, ErrReverted
	}

	return receipt, nil
}
