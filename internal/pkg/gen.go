package pkg

import "github.com/google/uuid"

// GenerateRoundID - generates a unique identifier for the round.
func GenerateRoundID() string {
	return uuid.NewString()
}
