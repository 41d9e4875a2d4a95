package http

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/allyswap/route-engine/internal/domain"
	"github.com/allyswap/route-engine/internal/engine"
	"github.com/allyswap/route-engine/internal/http/httputil"
)

type QuoteHandler struct {
	engineSvc *engine.Service
}

func NewQuoteHandler(engineSvc *engine.Service) *QuoteHandler {
	return &QuoteHandler{engineSvc: engineSvc}
}

func (h *QuoteHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.getQuote)
}

func (h *QuoteHandler) Root() string {
	return "/quote"
}

// QuoteRequest represents the parameters for requesting a swap quote
type QuoteRequest struct {
	// Input token: numeric asset id or symbol. The native token is id 0
	// or symbol "VOI".
	From string `form:"from" binding:"required" example:"VOI"`

	// Output token: numeric asset id or symbol.
	// Example: "395614" (aUSDC)
	To string `form:"to" binding:"required" example:"aUSDC"`

	// Input amount as a human-readable decimal string in the input
	// token's precision, e.g. "12.5" VOI. Scaled internally using the
	// token's registered decimals.
	Amount string `form:"amount" binding:"required" example:"12.5"`

	// Slippage tolerance in basis points (1 bps = 0.01%)
	// Default: 50 bps (0.5%)
	SlippageBps uint16 `form:"slippageBps" example:"50"`
}

func (h *QuoteHandler) resolveToken(raw string) (domain.TokenID, bool) {
	if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
		return domain.TokenID(id), true
	}
	tok, ok := h.engineSvc.Tokens().TokenBySymbol(raw)
	if !ok {
		return 0, false
	}
	return tok.ID, true
}

// @Summary Get best swap quote
// @Description Find the best route for a token pair across every registered liquidity source.
// @Description The engine prices three kinds of candidates and returns the one with the greatest output:
// @Description - Direct swap on each DEX that has a pool for the pair
// @Description - Two-hop route through an intermediate token (VOI or aUSDC) on a single DEX
// @Description - Cross-DEX two-hop route entering one DEX and exiting another
// @Description
// @Description Every candidate considered appears in comparedRoutes so the caller can show the
// @Description comparison. Amounts in the response are human-readable decimal strings; minReceived
// @Description reflects the requested slippage tolerance.
// @Description
// @Description **Token identifiers:** numeric asset id or symbol. The native token is id 0.
// @Tags quote
// @Produce json
// @Param from query string true "Input token id or symbol" example(VOI)
// @Param to query string true "Output token id or symbol" example(aUSDC)
// @Param amount query string true "Input amount as a decimal string" example(12.5)
// @Param slippageBps query int false "Slippage tolerance in basis points. Default: 50 (0.5%)" default(50) example(50)
// @Success 200 {object} httputil.Response{data=domain.Quote} "Best quote with route comparison"
// @Failure 400 {object} httputil.Response "Invalid token, amount, or slippage"
// @Failure 404 {object} httputil.Response "No route exists for the pair"
// @Router /api/v1/quote [get]
func (h *QuoteHandler) getQuote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.HandleBadRequest(c, "invalid query parameters: "+err.Error())
		return
	}

	from, ok := h.resolveToken(req.From)
	if !ok {
		httputil.HandleBadRequest(c, "unknown input token: "+req.From)
		return
	}
	to, ok := h.resolveToken(req.To)
	if !ok {
		httputil.HandleBadRequest(c, "unknown output token: "+req.To)
		return
	}

	quote, err := h.engineSvc.GetBestQuote(c.Request.Context(), from, to, req.Amount, req.SlippageBps)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrInvalidAmount),
			errors.Is(err, engine.ErrInvalidSlippage),
			errors.Is(err, engine.ErrUnknownToken):
			httputil.HandleBadRequest(c, err.Error())
		case errors.Is(err, engine.ErrNoRouteFound),
			errors.Is(err, engine.ErrInsufficientLiquidity):
			httputil.HandleNotFound(c, err.Error())
		default:
			httputil.HandleInternalError(c, "quote failed: "+err.Error())
		}
		return
	}

	httputil.HandleSuccess(c, quote)
}
