// Package dex defines the liquidity-source abstraction the router
// consumes, plus the concrete adapters for the Voi ecosystem. Each
// adapter exposes a pool snapshot for a token universe and a direct-pool
// lookup; everything else (candidate enumeration, pricing, tie-breaks) is
// the router's job.
package dex

import (
	"context"
	"errors"

	"github.com/allyswap/route-engine/internal/domain"
)

// ErrUnavailable marks a failed or timed-out pool fetch. Callers treat
// the source as returning no pools and keep routing on the rest.
var ErrUnavailable = errors.New("liquidity source unavailable")

// Adapter is the capability contract of one liquidity source.
type Adapter interface {
	// Name returns the DEX tag pools from this source carry.
	Name() domain.DexName

	// FetchPools returns the current reserve snapshot restricted to the
	// given token universe. Malformed entries are skipped, not fatal; an
	// unavailable source yields an error the router downgrades to an
	// empty set.
	FetchPools(ctx context.Context, universe []domain.TokenID) ([]*domain.Pool, error)

	// FindDirectPool returns the first pool in the set holding the pair,
	// in either orientation, or nil. Ties between multiple pools for the
	// same pair are the router's concern, not the adapter's.
	FindDirectPool(from, to domain.TokenID, pools []*domain.Pool) *domain.Pool
}

// FindDirectPool is the shared direction-agnostic lookup the concrete
// adapters delegate to.
func FindDirectPool(from, to domain.TokenID, pools []*domain.Pool) *domain.Pool {
	for _, p := range pools {
		if p != nil && p.HasPair(from, to) {
			return p
		}
	}
	return nil
}

// inUniverse reports whether the id appears in the universe. An empty
// universe means no restriction.
func inUniverse(id domain.TokenID, universe []domain.TokenID) bool {
	if len(universe) == 0 {
		return true
	}
	for _, u := range universe {
		if u == id {
			return true
		}
	}
	return false
}
