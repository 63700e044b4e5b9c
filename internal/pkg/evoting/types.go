package evoting

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
)

var (
	// ErrReverted is returned when a transaction was mined with a failed status.
	ErrReverted = errors.New("evoting: transaction reverted")
	// ErrReceiptTimeout is returned when no receipt appeared within the receipt timeout.
	ErrReceiptTimeout = errors.New("evoting: timed out waiting for receipt")
	// ErrConfig is returned when the client configuration is incomplete.
	ErrConfig = errors.New("evoting: invalid configuration")
	// ErrUnexpectedOutput is returned when a call result does not match the ABI.
	ErrUnexpectedOutput = errors.New("evoting: unexpected call output")
)

// Candidate is a ballot entry as stored by the contract.
type Candidate struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	VoteCount uint64 `json:"voteCount"`
}

// candidateTuple mirrors the ABI tuple; field names must match the ABI
// component names after camel casing.
type candidateTuple struct {
	Id        *big.Int //nolint:revive,stylecheck // ABI component name
	Name      string
	VoteCount *big.Int
}

// Receipt summarises a mined transaction.
type Receipt struct {
	TxHash      string `json:"txHash"`
	BlockNumber uint64 `json:"blockNumber"`
	GasUsed     uint64 `json:"gasUsed"`
}

func toCandidates(out []any) (candidates []Candidate, err error) {
	if len(out) != 1 || out[0] == nil {
		return nil, ErrUnexpectedOutput
	}

	defer func() {
		if rvr := recover(); rvr != nil {
			candidates, err = nil, ErrUnexpectedOutput
		}
	}()

	tuples := *abi.ConvertType(out[0], new([]candidateTuple)).(*[]candidateTuple)

	return lo.Map(tuples, func(t candidateTuple, _ int) Candidate {
		return Candidate{
			ID:        bigToUint64(t.Id),
			Name:      t.Name,
			VoteCount: bigToUint64(t.VoteCount),
		}
	}), nil
}

func toAddresses(out []any) ([]string, error) {
	if len(out) != 1 {
		return nil, ErrUnexpectedOutput
	}

	addrs, ok := out[0].([]common.Address)
	if !ok {
		return nil, ErrUnexpectedOutput
	}

	return lo.Map(addrs, func(a common.Address, _ int) string { return a.Hex() }), nil
}

func bigToUint64(v *big.Int) uint64 {
	if v == nil || v.Sign() < 0 || !v.IsUint64() {
		return 0
	}
	return v.Uint64()
}
