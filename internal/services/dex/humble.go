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

// HumbleAdapter reads pool snapshots from the HumbleSwap indexer.
type HumbleAdapter struct {
	baseURL string
	client  *http.Client
}

func NewHumbleAdapter(baseURL string) *HumbleAdapter {
	return &HumbleAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *HumbleAdapter) Name() domain.DexName {
	return domain.DexHumble
}

// humblePoolEntry mirrors one pool record of the indexer response.
// Balances are decimal strings because reserves can exceed uint64.
type humblePoolEntry struct {
	AppID    uint64 `json:"appId"`
	TokenAID uint64 `json:"tokenAId"`
	TokenBID uint64 `json:"tokenBId"`
	BalanceA string `json:"balanceA"`
	BalanceB string `json:"balanceB"`
	FeeBps   uint16 `json:"feeBps"`
	Round    uint64 `json:"round"`
}

type humblePoolsResponse struct {
	Pools []humblePoolEntry `json:"pools"`
}

func (a *HumbleAdapter) FetchPools(ctx context.Context, universe []domain.TokenID) ([]*domain.Pool, error) {
	url := a.baseURL + "/v1/pools?tokenIds=" + joinTokenIDs(universe)
	body, err := fetchBody(ctx, a.client, url)
	if err != nil {
		return nil, fmt.Errorf("%w: humble indexer: %v", ErrUnavailable, err)
	}

	var resp humblePoolsResponse
	if err := sonic.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: humble indexer: %v", ErrUnavailable, err)
	}

	pools := make([]*domain.Pool, 0, len(resp.Pools))
	skipped := 0
	for _, entry := range resp.Pools {
		pool, ok := a.convert(entry, universe)
		if !ok {
			skipped++
			continue
		}
		pools = append(pools, pool)
	}
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Int("loaded", len(pools)).
			Msg("[humbleAdapter] skipped malformed pool entries")
	}
	return pools, nil
}

func (a *HumbleAdapter) FindDirectPool(from, to domain.TokenID, pools []*domain.Pool) *domain.Pool {
	return FindDirectPool(from, to, pools)
}

func (a *HumbleAdapter) convert(entry humblePoolEntry, universe []domain.TokenID) (*domain.Pool, bool) {
	tokenA := domain.TokenID(entry.TokenAID)
	tokenB := domain.TokenID(entry.TokenBID)
	if tokenA == tokenB {
		return nil, false
	}
	if !inUniverse(tokenA, universe) || !inUniverse(tokenB, universe) {
		return nil, false
	}
	if entry.FeeBps >= 10000 {
		return nil, false
	}

	reserveA, okA := new(big.Int).SetString(entry.BalanceA, 10)
	reserveB, okB := new(big.Int).SetString(entry.BalanceB, 10)
	if !okA || !okB || reserveA.Sign() < 0 || reserveB.Sign() < 0 {
		return nil, false
	}

	pool := &domain.Pool{
		ID:               domain.PoolID(entry.AppID),
		Dex:              domain.DexHumble,
		TokenA:           tokenA,
		TokenB:           tokenB,
		FeeBps:           entry.FeeBps,
		LastUpdatedRound: entry.Round,
	}
	pool.SetReserves(reserveA, reserveB)
	return pool, true
}
