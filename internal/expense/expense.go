package expense

import (
	"sync"
	"time"

	"github.com/frahmantamala/budget-ledger/internal/ledger"
)

// session is the single owner of one ledger. Its mutex serializes the
// HTTP requests that reach the ledger through it.
type session struct {
	id        string
	createdAt time.Time

	mu       sync.Mutex
	ledger   *ledger.Ledger
	lastSeen time.Time
	// closed is set under mu once the session has ended. A caller that
	// looked the session up before that must not touch the ledger.
	closed bool
}

func (s *session) touch(now time.Time) {
	s.lastSeen = now
}

func (s *session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
