package dex

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/allyswap/route-engine/internal/domain"
)

// NomadexAdapter reads pool snapshots from the Nomadex API. Nomadex uses
// snake_case fields and numeric balances that can exceed uint64, so
// balances arrive as strings here too.
type NomadexAdapter struct {
	baseURL string
	client  *http.Client
}

func NewNomadexAdapter(baseURL string) *NomadexAdapter {
	return &NomadexAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *NomadexAdapter) Name() domain.DexName {
	return domain.DexNomadex
}

type nomadexPoolEntry struct {
	ID       uint64 `json:"id"`
	AssetA   uint64 `json:"asset_a"`
	AssetB   uint64 `json:"asset_b"`
	ABalance string `json:"a_balance"`
	BBalance string `json:"b_balance"`
	FeeBps   uint16 `json:"fee_bps"`
	Round    uint64 `json:"round"`
}

func (a *NomadexAdapter) FetchPools(ctx context.Context, universe []domain.TokenID) ([]*domain.Pool, error) {
	url := a.baseURL + "/pools?assets=" + joinTokenIDs(universe)
	body, err := fetchBody(ctx, a.client, url)
	if err != nil {
		return nil, fmt.Errorf("%w: nomadex api: %v", ErrUnavailable, err)
	}

	// Nomadex returns a bare array.
	var entries []nomadexPoolEntry
	if err := sonic.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: nomadex api: %v", ErrUnavailable, err)
	}

	pools := make([]*domain.Pool, 0, len(entries))
	skipped := 0
	for _, entry := range entries {
		pool, ok := a.convert(entry, universe)
		if !ok {
			skipped++
			continue
		}
		pools = append(pools, pool)
	}
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Int("loaded", len(pools)).
			Msg("[nomadexAdapter] skipped malformed pool entries")
	}
	return pools, nil
}

func (a *NomadexAdapter) FindDirectPool(from, to domain.TokenID, pools []*domain.Pool) *domain.Pool {
	return FindDirectPool(from, to, pools)
}

func (a *NomadexAdapter) convert(entry nomadexPoolEntry, universe []domain.TokenID) (*domain.Pool, bool) {
	tokenA := domain.TokenID(entry.AssetA)
	tokenB := domain.TokenID(entry.AssetB)
	if tokenA == tokenB {
		return nil, false
	}
	if !inUniverse(tokenA, universe) || !inUniverse(tokenB, universe) {
		return nil, false
	}
	if entry.FeeBps >= 10000 {
		return nil, false
	}

	reserveA, okA := new(big.Int).SetString(entry.ABalance, 10)
	reserveB, okB := new(big.Int).SetString(entry.BBalance, 10)
	if !okA || !okB || reserveA.Sign() < 0 || reserveB.Sign() < 0 {
		return nil, false
	}

	pool := &domain.Pool{
		ID:               domain.PoolID(entry.ID),
		Dex:              domain.DexNomadex,
		TokenA:           tokenA,
		TokenB:           tokenB,
		FeeBps:           entry.FeeBps,
		LastUpdatedRound: entry.Round,
	}
	pool.SetReserves(reserveA, reserveB)
	return pool, true
}
