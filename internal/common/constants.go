// Package common contains shared constants and utilities used across
// services.
package common

import "github.com/allyswap/route-engine/internal/domain"

// Well-known Voi token ids. VOI is the native token; the rest are ARC-200
// application ids on mainnet.
const (
	TokenVOI    domain.TokenID = 0
	TokenAUSDC  domain.TokenID = 395614
	TokenABUIDL domain.TokenID = 447148
	TokenWVOI   domain.TokenID = 24590
)

// DefaultIntermediates is the fallback allow-list of intermediate tokens
// for two-hop routing when none is configured: the base asset and the
// stable asset.
var DefaultIntermediates = []domain.TokenID{TokenVOI, TokenAUSDC}
