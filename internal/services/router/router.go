package router

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/allyswap/route-engine/internal/amount"
	"github.com/allyswap/route-engine/internal/common"
	"github.com/allyswap/route-engine/internal/domain"
	"github.com/allyswap/route-engine/internal/metrics"
	"github.com/allyswap/route-engine/internal/services/dex"
)

const (
	defaultImpactWarnBps  = 500
	defaultAdapterTimeout = 3 * time.Second
	defaultSlippageBps    = 50
)

// TokenSource supplies token metadata. The router needs decimals before
// any scale/unscale and symbols for the quote path.
type TokenSource interface {
	TokenByID(id domain.TokenID) (domain.Token, bool)
}

// Config carries everything the router depends on but does not own: the
// adapter registry, the intermediate-token allow-list, and the token
// metadata source. Tests substitute mock adapters here instead of
// mutating globals.
type Config struct {
	Adapters       []dex.Adapter
	Tokens         TokenSource
	Intermediates  []domain.TokenID
	ImpactWarnBps  uint16        // 0 means the 5% default
	AdapterTimeout time.Duration // 0 means the 3s default
}

// Router finds the best of all direct and two-hop routes for a pair. It
// is stateless across calls: every GetBestQuote works on a freshly
// fetched pool snapshot and holds nothing back.
type Router struct {
	adapters       []dex.Adapter
	tokens         TokenSource
	intermediates  []domain.TokenID
	impactWarnBps  uint16
	adapterTimeout time.Duration
}

func New(cfg Config) (*Router, error) {
	if len(cfg.Adapters) == 0 {
		return nil, fmt.Errorf("router requires at least one adapter")
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("router requires a token source")
	}

	r := &Router{
		adapters:       cfg.Adapters,
		tokens:         cfg.Tokens,
		intermediates:  cfg.Intermediates,
		impactWarnBps:  cfg.ImpactWarnBps,
		adapterTimeout: cfg.AdapterTimeout,
	}
	if len(r.intermediates) == 0 {
		r.intermediates = common.DefaultIntermediates
	}
	if r.impactWarnBps == 0 {
		r.impactWarnBps = defaultImpactWarnBps
	}
	if r.adapterTimeout <= 0 {
		r.adapterTimeout = defaultAdapterTimeout
	}
	return r, nil
}

// candidate is one priced route plus its comparison label. Candidates are
// collected in enumeration order (direct, same-DEX two-hop, cross-DEX
// two-hop); that order is the documented tie-break when outputs are
// exactly equal.
type candidate struct {
	label string
	route domain.Route
}

// GetBestQuote prices every candidate route for the pair and returns the
// one with the strictly greatest output, alongside the full comparison
// set. amountIn is a human-readable decimal string in the from token's
// precision; slippageBps is the caller's tolerance in basis points.
func (r *Router) GetBestQuote(ctx context.Context, from, to domain.TokenID, amountIn string, slippageBps uint16) (*domain.Quote, error) {
	start := time.Now()
	quote, err := r.getBestQuote(ctx, from, to, amountIn, slippageBps)
	metrics.QuoteDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.QuoteRequests.WithLabelValues("none", "error").Inc()
		return nil, err
	}
	metrics.QuoteRequests.WithLabelValues(string(quote.RouteType), "ok").Inc()
	return quote, nil
}

func (r *Router) getBestQuote(ctx context.Context, from, to domain.TokenID, amountIn string, slippageBps uint16) (*domain.Quote, error) {
	if slippageBps > 10000 {
		return nil, ErrInvalidSlippage
	}
	if from == to {
		return nil, fmt.Errorf("%w: identical tokens", ErrNoRouteFound)
	}

	fromTok, ok := r.tokens.TokenByID(from)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownToken, from)
	}
	toTok, ok := r.tokens.TokenByID(to)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownToken, to)
	}

	baseIn, err := amount.ToBaseUnits(amountIn, fromTok.Decimals)
	if err != nil {
		return nil, err
	}
	if baseIn.Sign() == 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}

	poolsByAdapter := r.fetchAllPools(ctx, from, to)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates := r.enumerate(from, to, baseIn, poolsByAdapter)
	metrics.CandidatesConsidered.Observe(float64(len(candidates)))
	if len(candidates) == 0 {
		return nil, ErrNoRouteFound
	}

	// Strictly-greater comparison keeps the first candidate on ties, so
	// the enumeration order above doubles as the tie-break.
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.route.AmountOut.Cmp(best.route.AmountOut) > 0 {
			best = c
		}
	}

	return r.buildQuote(best, candidates, baseIn, fromTok, toTok, slippageBps)
}

// fetchAllPools fans out to every adapter, each bounded by the configured
// timeout. A failing adapter contributes an empty set; the rest still
// route.
func (r *Router) fetchAllPools(ctx context.Context, from, to domain.TokenID) [][]*domain.Pool {
	universe := make([]domain.TokenID, 0, 2+len(r.intermediates))
	universe = append(universe, from, to)
	for _, mid := range r.intermediates {
		if mid != from && mid != to {
			universe = append(universe, mid)
		}
	}

	results := make([][]*domain.Pool, len(r.adapters))
	var wg sync.WaitGroup
	for i, a := range r.adapters {
		wg.Add(1)
		go func(i int, a dex.Adapter) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, r.adapterTimeout)
			defer cancel()

			fetchStart := time.Now()
			pools, err := a.FetchPools(fetchCtx, universe)
			metrics.AdapterFetchDuration.WithLabelValues(string(a.Name())).Observe(time.Since(fetchStart).Seconds())
			if err != nil {
				metrics.AdapterErrors.WithLabelValues(string(a.Name())).Inc()
				log.Warn().Err(err).Str("dex", string(a.Name())).
					Msg("[router] adapter fetch failed, routing without it")
				return
			}
			results[i] = pools
		}(i, a)
	}
	wg.Wait()
	return results
}

// enumerate builds the candidate set in the fixed order: direct per
// adapter, same-DEX two-hop per adapter and intermediate, cross-DEX
// two-hop per ordered adapter pair and intermediate.
func (r *Router) enumerate(from, to domain.TokenID, baseIn *big.Int, poolsByAdapter [][]*domain.Pool) []candidate {
	var candidates []candidate

	for i, a := range r.adapters {
		pool := a.FindDirectPool(from, to, poolsByAdapter[i])
		if pool == nil || !pool.HasLiquidity() {
			continue
		}
		c, err := r.priceDirect(pool, from, to, baseIn)
		if err != nil {
			continue
		}
		c.label = fmt.Sprintf("%s Direct", a.Name())
		candidates = append(candidates, c)
	}

	for i, a := range r.adapters {
		for _, mid := range r.intermediates {
			if mid == from || mid == to {
				continue
			}
			p1 := a.FindDirectPool(from, mid, poolsByAdapter[i])
			p2 := a.FindDirectPool(mid, to, poolsByAdapter[i])
			c, err := r.priceTwoHop(p1, p2, from, mid, to, baseIn)
			if err != nil {
				continue
			}
			c.label = fmt.Sprintf("%s Two-Hop", a.Name())
			candidates = append(candidates, c)
		}
	}

	for i, ai := range r.adapters {
		for j, aj := range r.adapters {
			if i == j {
				continue
			}
			for _, mid := range r.intermediates {
				if mid == from || mid == to {
					continue
				}
				p1 := ai.FindDirectPool(from, mid, poolsByAdapter[i])
				p2 := aj.FindDirectPool(mid, to, poolsByAdapter[j])
				c, err := r.priceTwoHop(p1, p2, from, mid, to, baseIn)
				if err != nil {
					continue
				}
				c.label = fmt.Sprintf("Cross-DEX (%s → %s)", ai.Name(), aj.Name())
				candidates = append(candidates, c)
			}
		}
	}

	return candidates
}

// quoteAmountOut prices one hop. When the input fits in uint64 and the
// pool's shadow reserves are exact, the uint256 fast path runs on the
// shadows; otherwise the big.Int path. Both paths produce identical
// integers.
func quoteAmountOut(pool *domain.Pool, from, to domain.TokenID, amountIn *big.Int) (*big.Int, error) {
	if amountIn.IsUint64() {
		if rIn, rOut, ok := pool.ShadowReservesFor(from, to); ok {
			out, err := FastGetAmountOut(amountIn.Uint64(), rIn, rOut, pool.FeeBps)
			if err != nil {
				return nil, err
			}
			return new(big.Int).SetUint64(out), nil
		}
	}
	reserveIn, reserveOut, ok := pool.ReservesFor(from, to)
	if !ok {
		return nil, ErrInsufficientLiquidity
	}
	return GetAmountOut(amountIn, reserveIn, reserveOut, pool.FeeBps)
}

func (r *Router) priceDirect(pool *domain.Pool, from, to domain.TokenID, baseIn *big.Int) (candidate, error) {
	reserveIn, reserveOut, ok := pool.ReservesFor(from, to)
	if !ok {
		return candidate{}, ErrInsufficientLiquidity
	}

	out, err := quoteAmountOut(pool, from, to, baseIn)
	if err != nil {
		return candidate{}, err
	}
	impact, err := GetPriceImpactBps(baseIn, reserveIn, reserveOut, pool.FeeBps)
	if err != nil {
		return candidate{}, err
	}

	return candidate{route: domain.Route{
		Type: domain.RouteTypeDirect,
		Steps: []domain.RouteStep{
			{Pool: pool, From: from, To: to, AmountIn: baseIn, AmountOut: out},
		},
		AmountIn:  baseIn,
		AmountOut: out,
		ImpactBps: impact,
		LpFeeBps:  pool.FeeBps,
	}}, nil
}

func (r *Router) priceTwoHop(p1, p2 *domain.Pool, from, mid, to domain.TokenID, baseIn *big.Int) (candidate, error) {
	if p1 == nil || p2 == nil || !p1.HasLiquidity() || !p2.HasLiquidity() {
		return candidate{}, ErrInsufficientLiquidity
	}

	r1in, r1out, ok := p1.ReservesFor(from, mid)
	if !ok {
		return candidate{}, ErrInsufficientLiquidity
	}
	r2in, r2out, ok := p2.ReservesFor(mid, to)
	if !ok {
		return candidate{}, ErrInsufficientLiquidity
	}

	midOut, err := quoteAmountOut(p1, from, mid, baseIn)
	if err != nil {
		return candidate{}, err
	}
	finalOut, err := quoteAmountOut(p2, mid, to, midOut)
	if err != nil {
		return candidate{}, err
	}

	impact, err := TwoHopPriceImpactBps(baseIn,
		HopReserves{ReserveIn: r1in, ReserveOut: r1out, FeeBps: p1.FeeBps},
		HopReserves{ReserveIn: r2in, ReserveOut: r2out, FeeBps: p2.FeeBps})
	if err != nil {
		return candidate{}, err
	}

	return candidate{route: domain.Route{
		Type: domain.RouteTypeTwoHop,
		Steps: []domain.RouteStep{
			{Pool: p1, From: from, To: mid, AmountIn: baseIn, AmountOut: midOut},
			{Pool: p2, From: mid, To: to, AmountIn: midOut, AmountOut: finalOut},
		},
		AmountIn:  baseIn,
		AmountOut: finalOut,
		ImpactBps: impact,
		LpFeeBps:  BlendedFeeBps(p1.FeeBps, p2.FeeBps),
	}}, nil
}

func (r *Router) buildQuote(best candidate, all []candidate, baseIn *big.Int, fromTok, toTok domain.Token, slippageBps uint16) (*domain.Quote, error) {
	if slippageBps == 0 {
		slippageBps = defaultSlippageBps
	}
	minOut, err := ApplySlippage(best.route.AmountOut, slippageBps)
	if err != nil {
		return nil, err
	}

	path := make([]domain.PathStep, 0, len(best.route.Steps))
	for _, step := range best.route.Steps {
		path = append(path, domain.PathStep{
			Dex:    string(step.Pool.Dex),
			From:   r.symbolFor(step.From),
			To:     r.symbolFor(step.To),
			PoolID: step.Pool.ID.String(),
		})
	}

	compared := make([]domain.ComparedRoute, 0, len(all))
	for _, c := range all {
		compared = append(compared, domain.ComparedRoute{
			Label:     c.label,
			AmountOut: amount.FromBaseUnits(c.route.AmountOut, toTok.Decimals),
			RouteType: c.route.Type,
		})
	}

	var warnings []string
	if best.route.ImpactBps > r.impactWarnBps {
		w := GetPriceImpactWarning(best.route.ImpactBps)
		if w == "" {
			// Threshold configured below the moderate tier; the tier
			// table has no text yet, so say what was breached.
			w = fmt.Sprintf("Price impact %s%% exceeds the %s%% warning threshold",
				FormatBpsAsPct(best.route.ImpactBps), FormatBpsAsPct(r.impactWarnBps))
		}
		warnings = append(warnings, w)
	}
	if len(best.route.Steps) > 1 {
		warnings = append(warnings, "Route passes through an intermediate token; output compounds two pool fees")
	}

	return &domain.Quote{
		AmountIn:       amount.FromBaseUnits(baseIn, fromTok.Decimals),
		AmountOut:      amount.FromBaseUnits(best.route.AmountOut, toTok.Decimals),
		MinReceived:    amount.FromBaseUnits(minOut, toTok.Decimals),
		Path:           path,
		PriceImpactPct: FormatBpsAsPct(best.route.ImpactBps),
		FeesEstimated: domain.FeesEstimated{
			LpFeePct: FormatBpsAsPct(best.route.LpFeeBps),
		},
		Warnings:       warnings,
		RouteType:      best.route.Type,
		ComparedRoutes: compared,
		Timestamp:      time.Now().Unix(),
	}, nil
}

func (r *Router) symbolFor(id domain.TokenID) string {
	if tok, ok := r.tokens.TokenByID(id); ok {
		return tok.Symbol
	}
	return id.String()
}
