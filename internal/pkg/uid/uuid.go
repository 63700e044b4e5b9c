package uid

import "github.com/google/uuid"

// UUID generates version 7 UUIDs, which sort by creation time. They serve
// as correlation and token IDs.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

func (*UUID) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
