package inbound

type CandidateResponse struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	VoteCount uint64 `json:"voteCount"`
}

type CandidatesResponse struct {
	Candidates []CandidateResponse `json:"candidates"`
}

type ResultsResponse struct {
	Results []CandidateResponse `json:"results"`
}

// Meta reports the total number of votes counted across all candidates.
func (r ResultsResponse) Meta() map[string]any {
	var total uint64
	for _, c := range r.Results {
		total += c.VoteCount
	}
	return map[string]any{"totalVotes": total}
}

type VotersResponse struct {
	Voters []string `json:"voters"`
}

type AddCandidateRequest struct {
	Name string `json:"name"`
}

type AddCandidateResponse struct {
	TxHash string `json:"txHash"`
}

func (AddCandidateResponse) Message() string {
	return "Candidate added successfully!"
}

type VoteRequest struct {
	VoterAddress string  `json:"voterAddress"`
	CandidateID  *uint64 `json:"candidateId"`
}

type VoteResponse struct {
	TxHash string `json:"txHash"`
}

func (VoteResponse) Message() string {
	return "Vote cast successfully!"
}
