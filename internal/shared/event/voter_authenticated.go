package event

import "time"

const VoterAuthenticatedDestination string = "evoting.voter.authenticated"

// VoterAuthenticatedMessage is published after a successful OTP verification
// or fingerprint authentication.
type VoterAuthenticatedMessage struct {
	EventID      int64     `json:"event_id"`
	VoterAddress string    `json:"voter_address"`
	Method       string    `json:"method"`
	VerifiedAt   time.Time `json:"verified_at"`
}
