package router

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/allyswap/route-engine/internal/domain"
	"github.com/allyswap/route-engine/internal/services/dex"
)

const (
	tokVOI   domain.TokenID = 0
	tokUSDC  domain.TokenID = 395614
	tokBUIDL domain.TokenID = 447148
)

type tokenMap map[domain.TokenID]domain.Token

func (m tokenMap) TokenByID(id domain.TokenID) (domain.Token, bool) {
	t, ok := m[id]
	return t, ok
}

var testTokens = tokenMap{
	tokVOI:   {ID: tokVOI, Symbol: "VOI", Name: "Voi", Decimals: 6},
	tokUSDC:  {ID: tokUSDC, Symbol: "aUSDC", Name: "Aramid USDC", Decimals: 6},
	tokBUIDL: {ID: tokBUIDL, Symbol: "BUIDL", Name: "Buidl", Decimals: 6},
}

func testPool(id domain.PoolID, dexName domain.DexName, a, b domain.TokenID, reserveA, reserveB string, feeBps uint16) *domain.Pool {
	p := &domain.Pool{ID: id, Dex: dexName, TokenA: a, TokenB: b, FeeBps: feeBps}
	p.SetReserves(bi(reserveA), bi(reserveB))
	return p
}

// failingAdapter simulates an indexer outage.
type failingAdapter struct{ name domain.DexName }

func (a *failingAdapter) Name() domain.DexName { return a.name }
func (a *failingAdapter) FetchPools(ctx context.Context, universe []domain.TokenID) ([]*domain.Pool, error) {
	return nil, dex.ErrUnavailable
}
func (a *failingAdapter) FindDirectPool(from, to domain.TokenID, pools []*domain.Pool) *domain.Pool {
	return dex.FindDirectPool(from, to, pools)
}

func newTestRouter(t *testing.T, adapters ...dex.Adapter) *Router {
	t.Helper()
	r, err := New(Config{
		Adapters:      adapters,
		Tokens:        testTokens,
		Intermediates: []domain.TokenID{tokVOI, tokUSDC},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func TestGetBestQuoteDirectPicksBetterDex(t *testing.T) {
	humble := dex.NewStaticAdapter(domain.DexHumble, []*domain.Pool{
		testPool(100, domain.DexHumble, tokVOI, tokUSDC, "1000000000000", "400000000000", 30),
	})
	nomadex := dex.NewStaticAdapter(domain.DexNomadex, []*domain.Pool{
		testPool(200, domain.DexNomadex, tokVOI, tokUSDC, "1000000000000", "500000000000", 30),
	})
	r := newTestRouter(t, humble, nomadex)

	quote, err := r.GetBestQuote(context.Background(), tokVOI, tokUSDC, "100", 50)
	if err != nil {
		t.Fatalf("GetBestQuote() error = %v", err)
	}

	if quote.RouteType != domain.RouteTypeDirect {
		t.Errorf("RouteType = %s, want DIRECT", quote.RouteType)
	}
	if len(quote.Path) != 1 {
		t.Fatalf("Path has %d steps, want 1", len(quote.Path))
	}
	if quote.Path[0].Dex != "Nomadex" {
		t.Errorf("best route on %s, want Nomadex (better rate)", quote.Path[0].Dex)
	}
	if quote.Path[0].From != "VOI" || quote.Path[0].To != "aUSDC" {
		t.Errorf("path step = %s->%s, want VOI->aUSDC", quote.Path[0].From, quote.Path[0].To)
	}
	if len(quote.ComparedRoutes) != 2 {
		t.Errorf("compared %d routes, want 2", len(quote.ComparedRoutes))
	}
	if len(quote.Warnings) != 0 {
		t.Errorf("unexpected warnings for small swap: %v", quote.Warnings)
	}
	if quote.Timestamp == 0 {
		t.Error("timestamp not set")
	}
}

func TestGetBestQuoteTwoHopWhenNoDirect(t *testing.T) {
	humble := dex.NewStaticAdapter(domain.DexHumble, []*domain.Pool{
		testPool(100, domain.DexHumble, tokVOI, tokUSDC, "1000000000000", "500000000000", 30),
		testPool(101, domain.DexHumble, tokUSDC, tokBUIDL, "500000000000", "250000000000", 30),
	})
	nomadex := dex.NewStaticAdapter(domain.DexNomadex, []*domain.Pool{
		testPool(200, domain.DexNomadex, tokVOI, tokUSDC, "900000000000", "450000000000", 25),
		testPool(201, domain.DexNomadex, tokUSDC, tokBUIDL, "400000000000", "200000000000", 25),
	})
	r := newTestRouter(t, humble, nomadex)

	quote, err := r.GetBestQuote(context.Background(), tokVOI, tokBUIDL, "50", 50)
	if err != nil {
		t.Fatalf("GetBestQuote() error = %v", err)
	}

	if quote.RouteType != domain.RouteTypeTwoHop {
		t.Errorf("RouteType = %s, want TWO_HOP", quote.RouteType)
	}
	if len(quote.Path) != 2 {
		t.Fatalf("Path has %d steps, want 2", len(quote.Path))
	}
	if quote.Path[0].To != "aUSDC" || quote.Path[1].From != "aUSDC" {
		t.Errorf("route does not pass through aUSDC: %+v", quote.Path)
	}
	// Two same-DEX and two cross-DEX combinations exist for this pair.
	if len(quote.ComparedRoutes) != 4 {
		t.Errorf("compared %d routes, want 4", len(quote.ComparedRoutes))
	}

	var hasHopWarning bool
	for _, w := range quote.Warnings {
		if w == "Route passes through an intermediate token; output compounds two pool fees" {
			hasHopWarning = true
		}
	}
	if !hasHopWarning {
		t.Errorf("missing multi-hop warning, got %v", quote.Warnings)
	}
}

func TestGetBestQuoteTwoHopBeatsThinDirect(t *testing.T) {
	humble := dex.NewStaticAdapter(domain.DexHumble, []*domain.Pool{
		// Direct pool exists but is nearly dry; any real size gets a
		// terrible rate.
		testPool(100, domain.DexHumble, tokVOI, tokBUIDL, "2000000", "1000000", 30),
		testPool(101, domain.DexHumble, tokVOI, tokUSDC, "1000000000000", "500000000000", 30),
		testPool(102, domain.DexHumble, tokUSDC, tokBUIDL, "500000000000", "250000000000", 30),
	})
	r := newTestRouter(t, humble)

	quote, err := r.GetBestQuote(context.Background(), tokVOI, tokBUIDL, "1000", 50)
	if err != nil {
		t.Fatalf("GetBestQuote() error = %v", err)
	}

	if quote.RouteType != domain.RouteTypeTwoHop {
		t.Errorf("RouteType = %s, want TWO_HOP (direct pool too thin)", quote.RouteType)
	}
	// The losing direct candidate still shows up in the comparison.
	var sawDirect bool
	for _, c := range quote.ComparedRoutes {
		if c.RouteType == domain.RouteTypeDirect {
			sawDirect = true
		}
	}
	if !sawDirect {
		t.Error("direct candidate missing from comparedRoutes")
	}
}

func TestGetBestQuoteTieBreakKeepsFirstAdapter(t *testing.T) {
	// Identical pools on both DEXes: equal output, first enumerated wins.
	humble := dex.NewStaticAdapter(domain.DexHumble, []*domain.Pool{
		testPool(100, domain.DexHumble, tokVOI, tokUSDC, "1000000000000", "500000000000", 30),
	})
	nomadex := dex.NewStaticAdapter(domain.DexNomadex, []*domain.Pool{
		testPool(200, domain.DexNomadex, tokVOI, tokUSDC, "1000000000000", "500000000000", 30),
	})
	r := newTestRouter(t, humble, nomadex)

	quote, err := r.GetBestQuote(context.Background(), tokVOI, tokUSDC, "100", 50)
	if err != nil {
		t.Fatalf("GetBestQuote() error = %v", err)
	}
	if quote.Path[0].Dex != "Humble" {
		t.Errorf("tie went to %s, want Humble (first adapter)", quote.Path[0].Dex)
	}
}

func TestGetBestQuoteSkipsZeroReservePool(t *testing.T) {
	humble := dex.NewStaticAdapter(domain.DexHumble, []*domain.Pool{
		testPool(100, domain.DexHumble, tokVOI, tokUSDC, "0", "500000000000", 30),
	})
	r := newTestRouter(t, humble)

	_, err := r.GetBestQuote(context.Background(), tokVOI, tokUSDC, "100", 50)
	if !errors.Is(err, ErrNoRouteFound) {
		t.Errorf("got %v, want ErrNoRouteFound", err)
	}
}

func TestGetBestQuoteNoPools(t *testing.T) {
	r := newTestRouter(t, dex.NewStaticAdapter(domain.DexHumble, nil))

	_, err := r.GetBestQuote(context.Background(), tokVOI, tokUSDC, "100", 50)
	if !errors.Is(err, ErrNoRouteFound) {
		t.Errorf("got %v, want ErrNoRouteFound", err)
	}
}

func TestGetBestQuoteInputValidation(t *testing.T) {
	r := newTestRouter(t, dex.NewStaticAdapter(domain.DexHumble, []*domain.Pool{
		testPool(100, domain.DexHumble, tokVOI, tokUSDC, "1000000000000", "500000000000", 30),
	}))
	ctx := context.Background()

	for _, amt := range []string{"abc", "-1", "0", ""} {
		if _, err := r.GetBestQuote(ctx, tokVOI, tokUSDC, amt, 50); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("amount %q: got %v, want ErrInvalidAmount", amt, err)
		}
	}

	if _, err := r.GetBestQuote(ctx, tokVOI, tokUSDC, "100", 10001); !errors.Is(err, ErrInvalidSlippage) {
		t.Errorf("slippage 10001: got %v, want ErrInvalidSlippage", err)
	}

	if _, err := r.GetBestQuote(ctx, tokVOI, domain.TokenID(999999999), "100", 50); !errors.Is(err, ErrUnknownToken) {
		t.Errorf("unknown token: got %v, want ErrUnknownToken", err)
	}

	if _, err := r.GetBestQuote(ctx, tokVOI, tokVOI, "100", 50); !errors.Is(err, ErrNoRouteFound) {
		t.Errorf("identical tokens: got %v, want ErrNoRouteFound", err)
	}
}

func TestGetBestQuoteSurvivesAdapterFailure(t *testing.T) {
	humble := dex.NewStaticAdapter(domain.DexHumble, []*domain.Pool{
		testPool(100, domain.DexHumble, tokVOI, tokUSDC, "1000000000000", "500000000000", 30),
	})
	broken := &failingAdapter{name: domain.DexNomadex}
	r := newTestRouter(t, humble, broken)

	quote, err := r.GetBestQuote(context.Background(), tokVOI, tokUSDC, "100", 50)
	if err != nil {
		t.Fatalf("GetBestQuote() error = %v", err)
	}
	if quote.Path[0].Dex != "Humble" {
		t.Errorf("routed via %s, want Humble", quote.Path[0].Dex)
	}
	if len(quote.ComparedRoutes) != 1 {
		t.Errorf("compared %d routes, want 1 (failed adapter contributes none)", len(quote.ComparedRoutes))
	}
}

func TestGetBestQuoteMinReceived(t *testing.T) {
	r := newTestRouter(t, dex.NewStaticAdapter(domain.DexHumble, []*domain.Pool{
		testPool(100, domain.DexHumble, tokVOI, tokUSDC, "1000000000000", "500000000000", 30),
	}))

	quote, err := r.GetBestQuote(context.Background(), tokVOI, tokUSDC, "1000", 100)
	if err != nil {
		t.Fatalf("GetBestQuote() error = %v", err)
	}
	minReceived, err := decimal.NewFromString(quote.MinReceived)
	if err != nil {
		t.Fatalf("minReceived %q not a decimal: %v", quote.MinReceived, err)
	}
	amountOut, err := decimal.NewFromString(quote.AmountOut)
	if err != nil {
		t.Fatalf("amountOut %q not a decimal: %v", quote.AmountOut, err)
	}
	if minReceived.GreaterThanOrEqual(amountOut) {
		t.Errorf("minReceived %s not below amountOut %s", quote.MinReceived, quote.AmountOut)
	}
	if quote.FeesEstimated.LpFeePct != "0.30" {
		t.Errorf("lpFeePct = %q, want 0.30", quote.FeesEstimated.LpFeePct)
	}
}

func TestQuotePricesFromShadowReserves(t *testing.T) {
	// Desync the shadows from the big.Int reserves: the quoted output must
	// come from the shadows, proving the fast path reads them.
	pool := testPool(1, domain.DexHumble, tokVOI, tokUSDC, "1000000000000", "500000000000", 30)
	pool.ReserveAU64 = 1_000_000_000
	pool.ReserveBU64 = 800_000_000

	out, err := quoteAmountOut(pool, tokVOI, tokUSDC, bi("1000"))
	if err != nil {
		t.Fatalf("quoteAmountOut() error = %v", err)
	}
	// 1000 in against shadows 1e9/8e8 at 30 bps; the big.Int reserves
	// would give 498 instead.
	if out.String() != "797" {
		t.Fatalf("amountOut = %s, want 797 (shadow-derived)", out)
	}

	humble := dex.NewStaticAdapter(domain.DexHumble, []*domain.Pool{pool})
	r := newTestRouter(t, humble)
	quote, err := r.GetBestQuote(context.Background(), tokVOI, tokUSDC, "0.001", 50)
	if err != nil {
		t.Fatalf("GetBestQuote() error = %v", err)
	}
	if quote.AmountOut != "0.000797" {
		t.Errorf("amountOut = %q, want 0.000797", quote.AmountOut)
	}
}

func TestQuoteBigReserveFallback(t *testing.T) {
	// Reserves past uint64 clamp the shadows; the big.Int path must price.
	pool := testPool(1, domain.DexHumble, tokVOI, tokUSDC,
		"100000000000000000000", "50000000000000000000", 30)

	out, err := quoteAmountOut(pool, tokVOI, tokUSDC, bi("1000000000000000000"))
	if err != nil {
		t.Fatalf("quoteAmountOut() error = %v", err)
	}
	if out.String() != "493579017198530649" {
		t.Fatalf("amountOut = %s, want 493579017198530649", out)
	}
}

func TestGetBestQuoteWarnsBelowModerateTier(t *testing.T) {
	humble := dex.NewStaticAdapter(domain.DexHumble, []*domain.Pool{
		testPool(1, domain.DexHumble, tokVOI, tokUSDC, "1000000000", "500000000", 30),
	})
	r, err := New(Config{
		Adapters:      []dex.Adapter{humble},
		Tokens:        testTokens,
		ImpactWarnBps: 100,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// 15 VOI against 1e9/5e8 lands at 176 bps, over the 100 bps threshold
	// but under the moderate tier, so the generic message applies.
	quote, err := r.GetBestQuote(context.Background(), tokVOI, tokUSDC, "15", 50)
	if err != nil {
		t.Fatalf("GetBestQuote() error = %v", err)
	}
	if quote.PriceImpactPct != "1.76" {
		t.Fatalf("priceImpactPct = %q, want 1.76", quote.PriceImpactPct)
	}
	want := "Price impact 1.76% exceeds the 1.00% warning threshold"
	if len(quote.Warnings) != 1 || quote.Warnings[0] != want {
		t.Errorf("warnings = %v, want [%q]", quote.Warnings, want)
	}
}

func TestNewRouterValidation(t *testing.T) {
	if _, err := New(Config{Tokens: testTokens}); err == nil {
		t.Error("expected error with no adapters")
	}
	if _, err := New(Config{Adapters: []dex.Adapter{dex.NewStaticAdapter(domain.DexHumble, nil)}}); err == nil {
		t.Error("expected error with no token source")
	}
}

func BenchmarkGetBestQuote(b *testing.B) {
	humble := dex.NewStaticAdapter(domain.DexHumble, []*domain.Pool{
		testPool(100, domain.DexHumble, tokVOI, tokUSDC, "1000000000000", "500000000000", 30),
		testPool(101, domain.DexHumble, tokUSDC, tokBUIDL, "500000000000", "250000000000", 30),
	})
	nomadex := dex.NewStaticAdapter(domain.DexNomadex, []*domain.Pool{
		testPool(200, domain.DexNomadex, tokVOI, tokUSDC, "900000000000", "450000000000", 25),
		testPool(201, domain.DexNomadex, tokUSDC, tokBUIDL, "400000000000", "200000000000", 25),
	})
	r, err := New(Config{
		Adapters:      []dex.Adapter{humble, nomadex},
		Tokens:        testTokens,
		Intermediates: []domain.TokenID{tokVOI, tokUSDC},
	})
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.GetBestQuote(ctx, tokVOI, tokBUIDL, "50", 50); err != nil {
			b.Fatal(err)
		}
	}
}
