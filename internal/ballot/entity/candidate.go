package entity

// Candidate is a ballot entry as reported by the contract.
type Candidate struct {
	ID        uint64
	Name      string
	VoteCount uint64
}
