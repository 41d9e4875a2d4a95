package domain

import (
	"math/big"
	"strconv"
)

// PoolID is the on-chain application id of an AMM pool contract.
type PoolID uint64

func (id PoolID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// DexName tags the liquidity source a pool belongs to. The set is open:
// adapters introduce their own tags at registration time.
type DexName string

const (
	DexHumble  DexName = "Humble"
	DexNomadex DexName = "Nomadex"
)

// Pool is an immutable reserve snapshot for one quote computation. The
// router never mutates a pool; each quote call works on a freshly fetched
// set.
type Pool struct {
	ID               PoolID   `json:"id"`
	Dex              DexName  `json:"dex"`
	TokenA           TokenID  `json:"tokenA"`
	TokenB           TokenID  `json:"tokenB"`
	ReserveA         *big.Int `json:"reserveA"`
	ReserveB         *big.Int `json:"reserveB"`
	FeeBps           uint16   `json:"feeBps"`
	LastUpdatedRound uint64   `json:"lastUpdatedRound"`

	// uint64 shadow fields for the zero-allocation fast quote path.
	// Kept in sync with ReserveA/ReserveB via SetReserves().
	ReserveAU64 uint64 `json:"-"`
	ReserveBU64 uint64 `json:"-"`
}

// HasLiquidity reports whether both reserves are strictly positive. A pool
// with a zero reserve on either side can never be priced and is excluded
// from candidate generation.
func (p *Pool) HasLiquidity() bool {
	return p.ReserveA != nil && p.ReserveA.Sign() > 0 &&
		p.ReserveB != nil && p.ReserveB.Sign() > 0
}

// HasPair reports whether the pool holds the given token pair in either
// orientation.
func (p *Pool) HasPair(from, to TokenID) bool {
	return (p.TokenA == from && p.TokenB == to) ||
		(p.TokenA == to && p.TokenB == from)
}

// ReservesFor returns (reserveIn, reserveOut) oriented for a swap that
// sends `from` into the pool. The second return is false when the pool
// does not hold the pair.
func (p *Pool) ReservesFor(from, to TokenID) (*big.Int, *big.Int, bool) {
	switch {
	case p.TokenA == from && p.TokenB == to:
		return p.ReserveA, p.ReserveB, true
	case p.TokenB == from && p.TokenA == to:
		return p.ReserveB, p.ReserveA, true
	default:
		return nil, nil, false
	}
}

// FitsUint64 reports whether both reserves fit in uint64, enabling the
// fast quote path.
func (p *Pool) FitsUint64() bool {
	return p.ReserveA != nil && p.ReserveA.IsUint64() &&
		p.ReserveB != nil && p.ReserveB.IsUint64()
}

// ShadowReservesFor returns (reserveIn, reserveOut) from the uint64
// shadows, oriented like ReservesFor. The third return is false when the
// pool does not hold the pair or either reserve exceeds uint64, in which
// case the shadows are clamped and cannot price exactly.
func (p *Pool) ShadowReservesFor(from, to TokenID) (uint64, uint64, bool) {
	if !p.FitsUint64() {
		return 0, 0, false
	}
	switch {
	case p.TokenA == from && p.TokenB == to:
		return p.ReserveAU64, p.ReserveBU64, true
	case p.TokenB == from && p.TokenA == to:
		return p.ReserveBU64, p.ReserveAU64, true
	default:
		return 0, 0, false
	}
}

// SetReserves updates both reserves and their uint64 shadows.
func (p *Pool) SetReserves(reserveA, reserveB *big.Int) {
	p.ReserveA = reserveA
	p.ReserveB = reserveB
	p.ReserveAU64 = clampU64(reserveA)
	p.ReserveBU64 = clampU64(reserveB)
}

// SyncU64Reserves refreshes the uint64 shadow fields from the big.Int
// reserves. Call after loading a pool from persistence or when reserves
// were assigned directly.
func (p *Pool) SyncU64Reserves() {
	p.ReserveAU64 = clampU64(p.ReserveA)
	p.ReserveBU64 = clampU64(p.ReserveB)
}

func clampU64(v *big.Int) uint64 {
	if v == nil {
		return 0
	}
	if v.IsUint64() {
		return v.Uint64()
	}
	// Clamp to max uint64 for very large reserves
	return ^uint64(0)
}
