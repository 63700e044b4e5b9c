package evoting

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContract struct {
	mu       sync.Mutex
	outputs  map[string][]any
	callErr  error
	sendErr  error
	sent     []string
	sentArgs [][]any
	nonce    uint64
}

func (f *fakeContract) Call(_ *bind.CallOpts, results *[]any, method string, _ ...any) error {
	if f.callErr != nil {
		return f.callErr
	}
	*results = f.outputs[method]
	return nil
}

func (f *fakeContract) Transact(opts *bind.TransactOpts, method string, params ...any) (*types.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sendErr != nil {
		return nil, f.sendErr
	}
	if opts.Context == nil {
		return nil, errors.New("missing context")
	}
	f.sent = append(f.sent, method)
	f.sentArgs = append(f.sentArgs, params)
	f.nonce++
	return types.NewTx(&types.LegacyTx{Nonce: f.nonce, GasPrice: big.NewInt(1), Gas: 21000}), nil
}

type fakeReceipts struct {
	pending int
	status  uint64
	err     error
	calls   int
}

func (f *fakeReceipts) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.calls <= f.pending {
		return nil, ethereum.NotFound
	}
	return &types.Receipt{TxHash: hash, Status: f.status, BlockNumber: big.NewInt(42), GasUsed: 51000}, nil
}

func newTestClient(contract boundContract, receipts receiptReader, timeout time.Duration) *Client {
	c := newClient(contract, receipts, &bind.TransactOpts{From: common.HexToAddress("0x01")}, timeout)
	c.pollInterval = time.Millisecond
	return c
}

func TestClient_GetCandidates(t *testing.T) {
	// Arrange
	contract := &fakeContract{outputs: map[string][]any{
		methodGetCandidate: {[]candidateTuple{
			{Id: big.NewInt(1), Name: "Alice", VoteCount: big.NewInt(0)},
			{Id: big.NewInt(2), Name: "Bob", VoteCount: big.NewInt(3)},
		}},
	}}
	c := newTestClient(contract, &fakeReceipts{}, time.Second)

	// Act
	got, err := c.GetCandidates(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []Candidate{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob", VoteCount: 3}}, got)
}

func TestClient_GetVoters(t *testing.T) {
	contract := &fakeContract{outputs: map[string][]any{
		methodGetVoters: {[]common.Address{common.HexToAddress("0x00000000000000000000000000000000000000aa")}},
	}}
	c := newTestClient(contract, &fakeReceipts{}, time.Second)

	got, err := c.GetVoters(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{common.HexToAddress("0xaa").Hex()}, got)
}

func TestClient_CallError(t *testing.T) {
	c := newTestClient(&fakeContract{callErr: errors.New("connection refused")}, &fakeReceipts{}, time.Second)

	_, err := c.GetResults(context.Background())

	assert.ErrorContains(t, err, "call getResults")
}

func TestClient_UnexpectedOutput(t *testing.T) {
	contract := &fakeContract{outputs: map[string][]any{
		methodGetResults: {"not a tuple"},
		methodGetVoters:  {},
	}}
	c := newTestClient(contract, &fakeReceipts{}, time.Second)

	_, errResults := c.GetResults(context.Background())
	_, errVoters := c.GetVoters(context.Background())

	assert.ErrorIs(t, errResults, ErrUnexpectedOutput)
	assert.ErrorIs(t, errVoters, ErrUnexpectedOutput)
}

func TestClient_Vote_WaitsForReceipt(t *testing.T) {
	// Arrange
	contract := &fakeContract{}
	receipts := &fakeReceipts{pending: 2, status: types.ReceiptStatusSuccessful}
	c := newTestClient(contract, receipts, time.Second)

	// Act
	rc, err := c.Vote(context.Background(), "0x00000000000000000000000000000000000000aa", 7)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, receipts.calls)
	assert.Equal(t, uint64(42), rc.BlockNumber)
	assert.NotEmpty(t, rc.TxHash)
	require.Equal(t, []string{methodVote}, contract.sent)
	assert.Equal(t, common.HexToAddress("0xaa"), contract.sentArgs[0][0])
	assert.Equal(t, big.NewInt(7), contract.sentArgs[0][1])
}

func TestClient_AddVoter_Reverted(t *testing.T) {
	c := newTestClient(&fakeContract{}, &fakeReceipts{status: types.ReceiptStatusFailed}, time.Second)

	rc, err := c.AddVoter(context.Background(), "0x00000000000000000000000000000000000000bb")

	assert.ErrorIs(t, err, ErrReverted)
	assert.NotEmpty(t, rc.TxHash)
}

func TestClient_AddCandidate_ReceiptTimeout(t *testing.T) {
	c := newTestClient(&fakeContract{}, &fakeReceipts{pending: 1 << 30}, 20*time.Millisecond)

	_, err := c.AddCandidate(context.Background(), "Carol")

	assert.ErrorIs(t, err, ErrReceiptTimeout)
}

func TestClient_SendError(t *testing.T) {
	receipts := &fakeReceipts{}
	c := newTestClient(&fakeContract{sendErr: errors.New("insufficient funds")}, receipts, time.Second)

	_, err := c.AddCandidate(context.Background(), "Carol")

	assert.ErrorContains(t, err, "send addCandidate")
	assert.Zero(t, receipts.calls)
}

func TestClient_ReceiptError(t *testing.T) {
	c := newTestClient(&fakeContract{}, &fakeReceipts{err: errors.New("rpc down")}, time.Second)

	_, err := c.AddVoter(context.Background(), "0x00000000000000000000000000000000000000cc")

	assert.ErrorContains(t, err, "rpc down")
	assert.NotErrorIs(t, err, ErrReceiptTimeout)
}

func TestDial_Config(t *testing.T) {
	_, err := Dial(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrConfig)

	_, err = Dial(context.Background(), Config{
		RPCURL:     "http://localhost:8545",
		Address:    "0x00000000000000000000000000000000000000aa",
		PrivateKey: "zz",
	})
	assert.ErrorIs(t, err, ErrConfig)
}
