package tool

import "github.com/google/uuid"

// GenerateUUIDV7 returns a time-ordered id. Subscriptions and their history
// rows use it so insertion order survives an id sort tiebreak.
func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}
