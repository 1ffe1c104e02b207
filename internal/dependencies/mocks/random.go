package mocks

import (
	"fmt"

	"github.com/gridmatch/gridmatch/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing. Queued results
// are returned in order; once the queue is drained it falls back to a
// sequence counter so id generation stays unique without explicit setup.
type MockRandom struct {
	StringResults []string
	stringIndex   int
	fallbackSeq   int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// String returns the next queued result, or a generated sequential value
// when the queue is empty
func (r *MockRandom) String(length int, alphabet string) string {
	if r.stringIndex < len(r.StringResults) {
		result := r.StringResults[r.stringIndex]
		r.stringIndex++
		return result
	}
	r.fallbackSeq++
	return fmt.Sprintf("MOCK%08d", r.fallbackSeq)
}

// QueueString adds values to the result queue
func (r *MockRandom) QueueString(values ...string) {
	r.StringResults = append(r.StringResults, values...)
}
