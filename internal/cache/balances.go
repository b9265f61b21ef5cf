package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"luxeprompt/internal/domain"
)

// KeyPrefix namespaces balance entries in a shared store.
const KeyPrefix = "credits:"

// readTimeout bounds a shared repository read, which outlives the caller that started it.
const readTimeout = 5 * time.Second

// Balances decorates a CreditRepository with a read-through cache.
// Concurrent misses for the same user share one repository read.
//
// A read only writes back when no write for the same user landed while it
// was in flight, so an invalidated entry is never refilled with older data.
type Balances struct {
	repo   domain.CreditRepository
	store  Store
	ttl    time.Duration
	logger zerolog.Logger
	group  singleflight.Group

	mu       sync.Mutex
	versions map[string]uint64
}

func NewBalances(repo domain.CreditRepository, store Store, ttl time.Duration, logger zerolog.Logger) *Balances {
	return &Balances{repo: repo, store: store, ttl: ttl, logger: logger, versions: map[string]uint64{}}
}

func (b *Balances) GetBalance(ctx context.Context, userID string) (domain.CreditBalance, error) {
	key := KeyPrefix + userID
	raw, ok, err := b.store.Get(ctx, key)
	if err != nil {
		b.logger.Warn().Err(err).Str("user_id", userID).Msg("balance cache read failed")
	}
	if ok {
		var cached domain.CreditBalance
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		b.logger.Warn().Str("user_id", userID).Msg("balance cache entry corrupt")
	}

	v, err, _ := b.group.Do(userID, func() (any, error) {
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), readTimeout)
		defer cancel()

		version := b.version(userID)
		bal, err := b.repo.GetBalance(readCtx, userID)
		if err != nil {
			return domain.CreditBalance{}, err
		}
		b.storeIfCurrent(readCtx, userID, version, bal)
		return bal, nil
	})
	if err != nil {
		return domain.CreditBalance{}, err
	}
	return v.(domain.CreditBalance), nil
}

func (b *Balances) Debit(ctx context.Context, userID string, amount int) (domain.CreditBalance, error) {
	defer b.Invalidate(ctx, userID)
	return b.repo.Debit(ctx, userID, amount)
}

func (b *Balances) Grant(ctx context.Context, userID string, amount int, reason string) (domain.CreditBalance, error) {
	defer b.Invalidate(ctx, userID)
	return b.repo.Grant(ctx, userID, amount, reason)
}

func (b *Balances) SetUnlimited(ctx context.Context, userID string, unlimited bool) (domain.CreditBalance, error) {
	defer b.Invalidate(ctx, userID)
	return b.repo.SetUnlimited(ctx, userID, unlimited)
}

func (b *Balances) ClaimFirstBonus(ctx context.Context, userID string, amount int) (domain.CreditBalance, error) {
	defer b.Invalidate(ctx, userID)
	return b.repo.ClaimFirstBonus(ctx, userID, amount)
}

// Invalidate drops the cached balance for userID. Reads already in flight
// for the user are detached so later callers start a fresh one.
func (b *Balances) Invalidate(ctx context.Context, userID string) {
	b.mu.Lock()
	b.versions[userID]++
	b.mu.Unlock()
	b.group.Forget(userID)

	if err := b.store.Delete(ctx, KeyPrefix+userID); err != nil {
		b.logger.Warn().Err(err).Str("user_id", userID).Msg("balance cache invalidate failed")
	}
}

func (b *Balances) version(userID string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.versions[userID]
}

// storeIfCurrent writes bal back unless userID was invalidated after version
// was taken. The check and the write share the lock Invalidate bumps under.
func (b *Balances) storeIfCurrent(ctx context.Context, userID string, version uint64, bal domain.CreditBalance) {
	payload, err := json.Marshal(bal)
	if err != nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.versions[userID] != version {
		return
	}
	if err := b.store.Set(ctx, KeyPrefix+userID, payload, b.ttl); err != nil {
		b.logger.Warn().Err(err).Str("user_id", userID).Msg("balance cache write failed")
	}
}

var _ domain.CreditRepository = (*Balances)(nil)
