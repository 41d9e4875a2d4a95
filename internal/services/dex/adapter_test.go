package dex

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/allyswap/route-engine/internal/domain"
)

func TestHumbleFetchPools(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/pools" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("tokenIds"); got != "0,395614" {
			t.Errorf("tokenIds = %q, want 0,395614", got)
		}
		w.Write([]byte(`{"pools": [
			{"appId": 395553, "tokenAId": 0, "tokenBId": 395614, "balanceA": "1000000000000", "balanceB": "500000000000", "feeBps": 30, "round": 8412345},
			{"appId": 395554, "tokenAId": 0, "tokenBId": 0, "balanceA": "1", "balanceB": "1", "feeBps": 30, "round": 8412345},
			{"appId": 395555, "tokenAId": 0, "tokenBId": 999, "balanceA": "1", "balanceB": "1", "feeBps": 30, "round": 8412345},
			{"appId": 395556, "tokenAId": 0, "tokenBId": 395614, "balanceA": "not-a-number", "balanceB": "1", "feeBps": 30, "round": 8412345},
			{"appId": 395557, "tokenAId": 0, "tokenBId": 395614, "balanceA": "1", "balanceB": "1", "feeBps": 10000, "round": 8412345}
		]}`))
	}))
	defer srv.Close()

	a := NewHumbleAdapter(srv.URL)
	pools, err := a.FetchPools(context.Background(), []domain.TokenID{0, 395614})
	if err != nil {
		t.Fatalf("FetchPools() error = %v", err)
	}

	// Same-token, out-of-universe, malformed-balance, and full-fee
	// entries are all skipped.
	if len(pools) != 1 {
		t.Fatalf("loaded %d pools, want 1", len(pools))
	}
	p := pools[0]
	if p.ID != 395553 || p.Dex != domain.DexHumble || p.FeeBps != 30 {
		t.Errorf("pool = %+v", p)
	}
	if p.ReserveA.String() != "1000000000000" || p.ReserveB.String() != "500000000000" {
		t.Errorf("reserves = %s/%s", p.ReserveA, p.ReserveB)
	}
	if p.ReserveAU64 != 1_000_000_000_000 {
		t.Errorf("shadow reserve not synced: %d", p.ReserveAU64)
	}
	if p.LastUpdatedRound != 8412345 {
		t.Errorf("round = %d", p.LastUpdatedRound)
	}
}

func TestHumbleFetchPoolsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	a := NewHumbleAdapter(srv.URL)
	_, err := a.FetchPools(context.Background(), []domain.TokenID{0, 395614})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("got %v, want ErrUnavailable", err)
	}
}

func TestNomadexFetchPools(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pools" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[
			{"id": 7001, "asset_a": 0, "asset_b": 395614, "a_balance": "123456789012345678901234567890", "b_balance": "700", "fee_bps": 25, "round": 8412999},
			{"id": 7002, "asset_a": 5, "asset_b": 5, "a_balance": "1", "b_balance": "1", "fee_bps": 25, "round": 8412999}
		]`))
	}))
	defer srv.Close()

	a := NewNomadexAdapter(srv.URL)
	pools, err := a.FetchPools(context.Background(), []domain.TokenID{0, 395614})
	if err != nil {
		t.Fatalf("FetchPools() error = %v", err)
	}
	if len(pools) != 1 {
		t.Fatalf("loaded %d pools, want 1", len(pools))
	}
	p := pools[0]
	if p.ID != 7001 || p.Dex != domain.DexNomadex || p.FeeBps != 25 {
		t.Errorf("pool = %+v", p)
	}
	// Reserves beyond uint64 parse intact; the shadow field clamps.
	if p.ReserveA.String() != "123456789012345678901234567890" {
		t.Errorf("reserveA = %s", p.ReserveA)
	}
	if p.ReserveAU64 != ^uint64(0) {
		t.Errorf("oversized shadow reserve = %d, want clamp", p.ReserveAU64)
	}
}

func TestNomadexFetchPoolsContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := NewNomadexAdapter(srv.URL)
	if _, err := a.FetchPools(ctx, nil); !errors.Is(err, ErrUnavailable) {
		t.Errorf("got %v, want ErrUnavailable", err)
	}
}

func TestFindDirectPool(t *testing.T) {
	mk := func(id domain.PoolID, a, b domain.TokenID) *domain.Pool {
		return &domain.Pool{ID: id, TokenA: a, TokenB: b}
	}
	pools := []*domain.Pool{mk(1, 0, 100), mk(2, 100, 200), mk(3, 0, 100)}

	if p := FindDirectPool(0, 100, pools); p == nil || p.ID != 1 {
		t.Errorf("forward lookup: %+v", p)
	}
	// Reversed orientation matches the same pool.
	if p := FindDirectPool(100, 0, pools); p == nil || p.ID != 1 {
		t.Errorf("reverse lookup: %+v", p)
	}
	if p := FindDirectPool(0, 200, pools); p != nil {
		t.Errorf("pair without pool returned %+v", p)
	}
}
