package event

import "time"

const VoteCastDestination string = "evoting.ballot.vote_cast"

type VoteCastMessage struct {
	EventID      int64     `json:"event_id"`
	VoterAddress string    `json:"voter_address"`
	CandidateID  uint64    `json:"candidate_id"`
	TxHash       string    `json:"tx_hash"`
	CastAt       time.Time `json:"cast_at"`
}
