package event

import "time"

const VoterRegisteredDestination string = "evoting.voter.registered"

type VoterRegisteredMessage struct {
	EventID        int64     `json:"event_id"`
	VoterAddress   string    `json:"voter_address"`
	IdentifierHash string    `json:"identifier_hash"`
	TxHash         string    `json:"tx_hash"`
	RegisteredAt   time.Time `json:"registered_at"`
}
