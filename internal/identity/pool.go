package identity

import (
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/samber/lo"
)

var ErrEmptyPool = errors.New("identity pool must contain at least one identity")

// Pool is a fixed, non-empty collection of identities which can be sampled
// uniformly at random. The pool is immutable once constructed, so it is
// safe for concurrent use.
type Pool struct {
	identities []Identity

	rngMutex *sync.Mutex
	rng      *rand.Rand
}

// NewPool constructs a pool over a copy of the identities provided. The
// RNG may be nil, in which case the (concurrency safe) top-level
// math/rand/v2 functions are used. Tests should supply a seeded RNG to
// make sampling deterministic.
func NewPool(identities []Identity, rng *rand.Rand) (*Pool, error) {
	if len(identities) == 0 {
		return nil, ErrEmptyPool
	}

	return &Pool{
		identities: lo.Map(identities, func(id Identity, _ int) Identity { return id.clone() }),
		rngMutex:   &sync.Mutex{},
		rng:        rng,
	}, nil
}

// NewDefaultPool constructs a pool containing the DefaultIdentities.
func NewDefaultPool() *Pool {
	pool, err := NewPool(DefaultIdentities, nil)
	if err != nil {
		panic(err)
	}

	return pool
}

// Len returns the number of identities in the pool.
func (pool *Pool) Len() int { return len(pool.identities) }

// Sample selects an identity uniformly at random, with replacement. Two
// consecutive calls may return the same identity.
func (pool *Pool) Sample() Identity {
	return pool.identities[pool.intN(len(pool.identities))].clone()
}

// Rotation creates a per-request view of this pool, see Rotation.
func (pool *Pool) Rotation() *Rotation {
	return &Rotation{pool: pool}
}

func (pool *Pool) intN(n int) int {
	if pool.rng == nil {
		return rand.IntN(n)
	}

	pool.rngMutex.Lock()
	defer pool.rngMutex.Unlock()
	return pool.rng.IntN(n)
}

// Rotation draws identities from a Pool without reusing any identity
// until every identity in the pool has been drawn. Once exhausted, the
// rotation refills and reuse is permitted. A Rotation is intended to span
// a single logical request, and is not safe for concurrent use.
type Rotation struct {
	pool      *Pool
	remaining []int
}

// Next returns the next identity for this rotation.
func (r *Rotation) Next() Identity {
	if len(r.remaining) == 0 {
		r.remaining = lo.Range(len(r.pool.identities))
	}

	pick := r.pool.intN(len(r.remaining))
	idx := r.remaining[pick]
	r.remaining = append(r.remaining[:pick], r.remaining[pick+1:]...)

	return r.pool.identities[idx].clone()
}
