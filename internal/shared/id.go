package shared

import "github.com/google/uuid"

// IDAllocator hands out collection-unique identifiers for newly created
// records. Services depend on the interface so tests can substitute a
// deterministic sequence.
type IDAllocator interface {
	NextID() string
}

// UUIDAllocator allocates random UUIDs.
type UUIDAllocator struct{}

// NextID returns a fresh UUID string.
func (UUIDAllocator) NextID() string {
	return uuid.NewString()
}
