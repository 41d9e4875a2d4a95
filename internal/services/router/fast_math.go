package router

// uint256 mirror of the big.Int pricing primitives, used when the input
// amount and both reserves fit in uint64. Intermediate products exceed 64
// bits, so the hot path still runs on 256-bit integers, just without heap
// allocation. Results are bit-identical to the big.Int path; parity is
// covered by tests.

// FastGetAmountOut is the uint64 fast path of GetAmountOut.
func FastGetAmountOut(amountIn, reserveIn, reserveOut uint64, feeBps uint16) (uint64, error) {
	if reserveIn == 0 || reserveOut == 0 {
		return 0, ErrInsufficientLiquidity
	}
	if amountIn == 0 {
		return 0, nil
	}

	effectiveIn := GetU256()
	denom := GetU256()
	out := GetU256()
	tmp := GetU256()
	defer func() {
		PutU256(effectiveIn)
		PutU256(denom)
		PutU256(out)
		PutU256(tmp)
	}()

	effectiveIn.SetUint64(amountIn)
	tmp.SetUint64(uint64(10000 - feeBps))
	effectiveIn.Mul(effectiveIn, tmp)

	denom.SetUint64(reserveIn)
	denom.Mul(denom, u256BpsDenom)
	denom.Add(denom, effectiveIn)

	out.SetUint64(reserveOut)
	out.Mul(out, effectiveIn)
	out.Div(out, denom)

	// Output is bounded by reserveOut, so it always fits.
	return out.Uint64(), nil
}

// FastPriceImpactBps is the uint64 fast path of GetPriceImpactBps.
func FastPriceImpactBps(amountIn, reserveIn, reserveOut uint64, feeBps uint16) (uint16, error) {
	if amountIn == 0 {
		return 0, nil
	}

	amountOut, err := FastGetAmountOut(amountIn, reserveIn, reserveOut, feeBps)
	if err != nil {
		return 0, err
	}

	ideal := GetU256()
	actual := GetU256()
	tmp := GetU256()
	defer func() {
		PutU256(ideal)
		PutU256(actual)
		PutU256(tmp)
	}()

	ideal.SetUint64(amountIn)
	tmp.SetUint64(reserveOut)
	ideal.Mul(ideal, tmp)

	actual.SetUint64(amountOut)
	tmp.SetUint64(reserveIn)
	actual.Mul(actual, tmp)

	if actual.Cmp(ideal) >= 0 {
		return 0, nil
	}

	tmp.Sub(ideal, actual)
	tmp.Mul(tmp, u256BpsDenom)
	tmp.Div(tmp, ideal)

	if !tmp.IsUint64() || tmp.Uint64() > 10000 {
		return 10000, nil
	}
	return uint16(tmp.Uint64()), nil
}
