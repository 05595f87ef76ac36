package shared

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces identifiers for newly admitted entities
type IDGenerator func() string

// NewUUID is the production IDGenerator
func NewUUID() string {
	return uuid.New().String()
}

// SequentialIDs returns a generator yielding prefix-1, prefix-2, ...
// Used where ids must be stable across replays (tests, fixtures).
func SequentialIDs(prefix string) IDGenerator {
	var n int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, atomic.AddInt64(&n, 1))
	}
}
