package evoting

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const (
	methodGetCandidate = "getCandidate"
	methodAddCandidate = "addCandidate"
	methodAddVoter     = "addVoter"
	methodGetVoters    = "getVoters"
	methodVote         = "vote"
	methodGetResults   = "getResults"
)

// ContractABI is the subset of the EVoting contract interface used by the gateway.
const ContractABI = `[
  {"type":"function","name":"addCandidate","stateMutability":"nonpayable",
   "inputs":[{"name":"name","type":"string"}],"outputs":[]},
  {"type":"function","name":"addVoter","stateMutability":"nonpayable",
   "inputs":[{"name":"voter","type":"address"}],"outputs":[]},
  {"type":"function","name":"vote","stateMutability":"nonpayable",
   "inputs":[{"name":"voter","type":"address"},{"name":"candidateId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"getCandidate","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"tuple[]","components":[
     {"name":"id","type":"uint256"},{"name":"name","type":"string"},{"name":"voteCount","type":"uint256"}]}]},
  {"type":"function","name":"getResults","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"tuple[]","components":[
     {"name":"id","type":"uint256"},{"name":"name","type":"string"},{"name":"voteCount","type":"uint256"}]}]},
  {"type":"function","name":"getVoters","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"address[]"}]}
]`

func parseABI() (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(ContractABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("evoting: parse abi: %w", err)
	}
	return parsed, nil
}
