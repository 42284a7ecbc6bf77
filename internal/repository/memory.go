package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/entity"
)

type memoryEntry struct {
	round     *entity.Round
	expiresAt time.Time
}

type memoryRound struct {
	ttl time.Duration
	now func() time.Time

	mu     sync.Mutex
	rounds map[string]memoryEntry
}

// NewMemoryRoundRepository - keeps rounds in process memory. Stored rounds are
// copied on the way in and out so callers never share a board with the store.
// Like the redis store, every write refreshes the expiry and a zero ttl keeps
// rounds until they are deleted.
func NewMemoryRoundRepository(ttl time.Duration) RoundRepository {
	return &memoryRound{
		ttl:    ttl,
		now:    time.Now,
		rounds: make(map[string]memoryEntry),
	}
}

func (that *memoryRound) CreateOrUpdate(_ context.Context, round *entity.Round) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	now := that.now()
	that.sweep(now)

	entry := memoryEntry{round: round.Clone()}
	if that.ttl > 0 {
		entry.expiresAt = now.Add(that.ttl)
	}

	that.rounds[round.ID] = entry

	return nil
}

func (that *memoryRound) GetByID(_ context.Context, id string) (*entity.Round, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.lookup(id, that.now())
	if !ok {
		return nil, apperror.ErrRoundNotFound
	}

	return entry.round.Clone(), nil
}

func (that *memoryRound) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.lookup(id, that.now()); !ok {
		return apperror.ErrRoundNotFound
	}

	delete(that.rounds, id)

	return nil
}

// lookup returns a live entry and drops it when it has expired.
func (that *memoryRound) lookup(id string, now time.Time) (memoryEntry, bool) {
	entry, ok := that.rounds[id]
	if !ok {
		return memoryEntry{}, false
	}

	if entry.expired(now) {
		delete(that.rounds, id)
		return memoryEntry{}, false
	}

	return entry, true
}

// sweep drops every expired round.
func (that *memoryRound) sweep(now time.Time) {
	for id, entry := range that.rounds {
		if entry.expired(now) {
			delete(that.rounds, id)
		}
	}
}

func (that memoryEntry) expired(now time.Time) bool {
	return !that.expiresAt.IsZero() && !now.Before(that.expiresAt)
}
