package domain

import "math/big"

// RouteType classifies the shape of a winning route.
type RouteType string

const (
	RouteTypeDirect RouteType = "DIRECT"
	RouteTypeTwoHop RouteType = "TWO_HOP"
)

// RouteStep is one priced hop through a single pool. Amounts are base
// units.
type RouteStep struct {
	Pool      *Pool
	From      TokenID
	To        TokenID
	AmountIn  *big.Int
	AmountOut *big.Int
}

// Route is an ordered sequence of one or two priced steps. Constructed
// fresh per quote request and discarded after use.
type Route struct {
	Type      RouteType
	Steps     []RouteStep
	AmountIn  *big.Int
	AmountOut *big.Int
	ImpactBps uint16
	// LpFeeBps is the display fee estimate: the single pool's fee for a
	// direct route, the arithmetic mean of both hops' fees for a two-hop
	// route. Not used in any pricing computation.
	LpFeeBps uint16
}

// PathStep is the serializable form of a RouteStep.
type PathStep struct {
	Dex    string `json:"dex"`
	From   string `json:"from"`
	To     string `json:"to"`
	PoolID string `json:"poolId"`
}

// FeesEstimated reports fee percentages for display. Percentages are
// decimal strings ("0.30" means 0.30%).
type FeesEstimated struct {
	LpFeePct       string `json:"lpFeePct"`
	ProtocolFeePct string `json:"protocolFeePct,omitempty"`
}

// ComparedRoute is one entry of the full candidate comparison set, winner
// included.
type ComparedRoute struct {
	Label     string    `json:"label"`
	AmountOut string    `json:"amountOut"`
	RouteType RouteType `json:"routeType"`
}

// Quote is the external result of a best-quote computation. AmountIn and
// AmountOut are normalized decimal strings in the from/to token's human
// precision.
type Quote struct {
	AmountIn       string          `json:"amountIn"`
	AmountOut      string          `json:"amountOut"`
	MinReceived    string          `json:"minReceived"`
	Path           []PathStep      `json:"path"`
	PriceImpactPct string          `json:"priceImpactPct"`
	FeesEstimated  FeesEstimated   `json:"feesEstimated"`
	Warnings       []string        `json:"warnings,omitempty"`
	RouteType      RouteType       `json:"routeType"`
	ComparedRoutes []ComparedRoute `json:"comparedRoutes"`
	Timestamp      int64           `json:"timestamp"`
}
