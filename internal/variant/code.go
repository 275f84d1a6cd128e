package variant

import (
	"errors"
	"math/rand"
	"sync"
)

// codeAlphabet avoids confusable characters (0/O, 1/I/L) since codes are
// hand-written on answer sheets.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// ErrCodeSpaceExhausted means unique-code generation hit its retry bound.
// That is a capacity problem to be surfaced, not silently retried forever.
var ErrCodeSpaceExhausted = errors.New("variant code space exhausted")

// codeRegistry reserves codes against everything previously issued.
// Check-and-reserve is atomic per code, so generation may fan out across
// goroutines without a stale-check race.
type codeRegistry struct {
	mu          sync.Mutex
	used        map[string]struct{}
	length      int
	maxAttempts int
}

func newCodeRegistry(existing map[string]struct{}, length, maxAttempts int) *codeRegistry {
	if existing == nil {
		existing = map[string]struct{}{}
	}
	return &codeRegistry{used: existing, length: length, maxAttempts: maxAttempts}
}

func (r *codeRegistry) Issue(rng *rand.Rand) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i < r.maxAttempts; i++ {
		c := randomCode(rng, r.length)
		if _, dup := r.used[c]; dup {
			continue
		}
		r.used[c] = struct{}{}
		return c, nil
	}
	return "", ErrCodeSpaceExhausted
}

func randomCode(rng *rand.Rand, length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = codeAlphabet[rng.Intn(len(codeAlphabet))]
	}
	return string(b)
}
