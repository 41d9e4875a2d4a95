package dex

import (
	"context"

	"github.com/allyswap/route-engine/internal/domain"
)

// StaticAdapter serves a fixed pool set. Used by tests and by offline
// mode, where pool fixtures come from configuration instead of an
// indexer.
type StaticAdapter struct {
	name  domain.DexName
	pools []*domain.Pool
}

func NewStaticAdapter(name domain.DexName, pools []*domain.Pool) *StaticAdapter {
	return &StaticAdapter{name: name, pools: pools}
}

func (a *StaticAdapter) Name() domain.DexName {
	return a.name
}

func (a *StaticAdapter) FetchPools(ctx context.Context, universe []domain.TokenID) ([]*domain.Pool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]*domain.Pool, 0, len(a.pools))
	for _, p := range a.pools {
		if p == nil {
			continue
		}
		if inUniverse(p.TokenA, universe) && inUniverse(p.TokenB, universe) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (a *StaticAdapter) FindDirectPool(from, to domain.TokenID, pools []*domain.Pool) *domain.Pool {
	return FindDirectPool(from, to, pools)
}
