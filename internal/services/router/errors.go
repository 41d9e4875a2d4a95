package router

import (
	"errors"

	"github.com/allyswap/route-engine/internal/amount"
	"github.com/allyswap/route-engine/internal/services/dex"
)

var (
	// ErrInvalidAmount covers non-numeric, negative, or out-of-range
	// input amounts. Surfaced to the caller, never retried. Aliased to
	// the amount package's sentinel so errors.Is works on either.
	ErrInvalidAmount = amount.ErrInvalidAmount

	// ErrInsufficientLiquidity marks a pool with a zero reserve on the
	// required side. The candidate using it is dropped, not the request.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")

	// ErrNoRouteFound means no direct or two-hop candidate could be
	// priced for the requested pair.
	ErrNoRouteFound = errors.New("no route found")

	// ErrAdapterUnavailable marks a failed or timed-out pool fetch,
	// aliased from the dex package. The adapter is treated as returning
	// no pools; routing continues on the rest.
	ErrAdapterUnavailable = dex.ErrUnavailable

	// ErrInvalidSlippage marks a slippage tolerance outside 0..10000 bps.
	ErrInvalidSlippage = errors.New("invalid slippage tolerance")

	// ErrUnknownToken marks a token id with no registry entry; without
	// decimals the amount cannot be scaled.
	ErrUnknownToken = errors.New("unknown token")
)
