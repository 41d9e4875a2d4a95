package router

import (
	"math/big"
)

// Constant-product pricing primitives. All arithmetic is arbitrary
// precision; fees are basis points of the input amount (30 bps = 0.30%
// gives the conventional 997/1000 multiplier).

// HopReserves describes one pool leg oriented for a swap: reserves on the
// input and output side plus the pool fee.
type HopReserves struct {
	ReserveIn  *big.Int
	ReserveOut *big.Int
	FeeBps     uint16
}

// GetAmountOut computes the output of a constant-product swap:
//
//	effectiveIn = amountIn * (10000 - feeBps)
//	amountOut   = effectiveIn * reserveOut / (reserveIn*10000 + effectiveIn)
//
// The final division truncates; there are no fractional base units.
func GetAmountOut(amountIn, reserveIn, reserveOut *big.Int, feeBps uint16) (*big.Int, error) {
	if amountIn == nil || amountIn.Sign() < 0 {
		return nil, ErrInvalidAmount
	}
	if reserveIn == nil || reserveIn.Sign() <= 0 || reserveOut == nil || reserveOut.Sign() <= 0 {
		return nil, ErrInsufficientLiquidity
	}
	if amountIn.Sign() == 0 {
		return new(big.Int), nil
	}

	feeMul := GetBigInt()
	effectiveIn := GetBigInt()
	denom := GetBigInt()
	defer func() {
		PutBigInt(feeMul)
		PutBigInt(effectiveIn)
		PutBigInt(denom)
	}()

	feeMul.SetInt64(int64(10000 - feeBps))
	effectiveIn.Mul(amountIn, feeMul)

	denom.Mul(reserveIn, BPS_DENOM)
	denom.Add(denom, effectiveIn)

	out := new(big.Int).Mul(effectiveIn, reserveOut)
	return out.Div(out, denom), nil
}

// GetPriceImpactBps computes how far the executed price falls below the
// pool's fee-less mid price, in basis points:
//
//	midPrice    = reserveOut / reserveIn
//	actualPrice = amountOut / amountIn
//	impact      = (midPrice - actualPrice) / midPrice
//
// Evaluated entirely in integers as
// (amountIn*reserveOut - amountOut*reserveIn) * 10000 / (amountIn*reserveOut).
// Non-decreasing in amountIn for fixed reserves and fee; truncation to
// whole basis points flattens small inputs onto the fee floor.
func GetPriceImpactBps(amountIn, reserveIn, reserveOut *big.Int, feeBps uint16) (uint16, error) {
	if amountIn == nil || amountIn.Sign() < 0 {
		return 0, ErrInvalidAmount
	}
	if amountIn.Sign() == 0 {
		return 0, nil
	}

	amountOut, err := GetAmountOut(amountIn, reserveIn, reserveOut, feeBps)
	if err != nil {
		return 0, err
	}

	ideal := GetBigInt()
	actual := GetBigInt()
	diff := GetBigInt()
	defer func() {
		PutBigInt(ideal)
		PutBigInt(actual)
		PutBigInt(diff)
	}()

	ideal.Mul(amountIn, reserveOut)
	actual.Mul(amountOut, reserveIn)

	if actual.Cmp(ideal) >= 0 {
		return 0, nil
	}

	diff.Sub(ideal, actual)
	diff.Mul(diff, BPS_DENOM)
	diff.Div(diff, ideal)

	if !diff.IsUint64() || diff.Uint64() > 10000 {
		return 10000, nil
	}
	return uint16(diff.Uint64()), nil
}

// ApplySlippage returns the minimum acceptable output after the given
// slippage tolerance: amountOut * (10000 - slippageBps) / 10000,
// truncated. Display/guard only; nothing on-chain enforces it here.
func ApplySlippage(amountOut *big.Int, slippageBps uint16) (*big.Int, error) {
	if amountOut == nil || amountOut.Sign() < 0 {
		return nil, ErrInvalidAmount
	}
	if slippageBps > 10000 {
		return nil, ErrInvalidSlippage
	}

	mul := GetBigInt()
	defer PutBigInt(mul)

	mul.SetInt64(int64(10000 - slippageBps))
	min := new(big.Int).Mul(amountOut, mul)
	return min.Div(min, BPS_DENOM), nil
}

// TwoHopAmountOut chains GetAmountOut across two pools, feeding hop 1's
// output into hop 2. Each hop truncates naturally and the errors compound,
// matching on-chain sequential-swap behavior.
func TwoHopAmountOut(amountIn *big.Int, hop1, hop2 HopReserves) (*big.Int, error) {
	mid, err := GetAmountOut(amountIn, hop1.ReserveIn, hop1.ReserveOut, hop1.FeeBps)
	if err != nil {
		return nil, err
	}
	return GetAmountOut(mid, hop2.ReserveIn, hop2.ReserveOut, hop2.FeeBps)
}

// TwoHopPriceImpactBps derives impact across both hops against the
// combined mid price, which is the product of each hop's mid price:
//
//	combinedMid = (r1out/r1in) * (r2out/r2in)
//	actual      = finalOut / amountIn
//
// Evaluated in integers the same way as the single-hop case.
func TwoHopPriceImpactBps(amountIn *big.Int, hop1, hop2 HopReserves) (uint16, error) {
	if amountIn == nil || amountIn.Sign() < 0 {
		return 0, ErrInvalidAmount
	}
	if amountIn.Sign() == 0 {
		return 0, nil
	}

	finalOut, err := TwoHopAmountOut(amountIn, hop1, hop2)
	if err != nil {
		return 0, err
	}

	ideal := GetBigInt()
	actual := GetBigInt()
	diff := GetBigInt()
	defer func() {
		PutBigInt(ideal)
		PutBigInt(actual)
		PutBigInt(diff)
	}()

	// ideal = amountIn * r1out * r2out, actual = finalOut * r1in * r2in
	ideal.Mul(amountIn, hop1.ReserveOut)
	ideal.Mul(ideal, hop2.ReserveOut)
	actual.Mul(finalOut, hop1.ReserveIn)
	actual.Mul(actual, hop2.ReserveIn)

	if actual.Cmp(ideal) >= 0 {
		return 0, nil
	}

	diff.Sub(ideal, actual)
	diff.Mul(diff, BPS_DENOM)
	diff.Div(diff, ideal)

	if !diff.IsUint64() || diff.Uint64() > 10000 {
		return 10000, nil
	}
	return uint16(diff.Uint64()), nil
}

// BlendedFeeBps is the display fee for a two-hop route: the arithmetic
// mean of both hops' fees, not the compounded rate. Cosmetic only, never
// used in pricing.
func BlendedFeeBps(fee1, fee2 uint16) uint16 {
	return (fee1 + fee2) / 2
}
