package http

import (
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/allyswap/route-engine/internal/domain"
	"github.com/allyswap/route-engine/internal/engine"
	"github.com/allyswap/route-engine/internal/http/httputil"
)

type TokenHandler struct {
	engineSvc *engine.Service
}

func NewTokenHandler(engineSvc *engine.Service) *TokenHandler {
	return &TokenHandler{engineSvc: engineSvc}
}

func (h *TokenHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/list", h.listTokens)
	pub.GET("/:id", h.getToken)
}

func (h *TokenHandler) Root() string {
	return "/tokens"
}

// TokenInfo describes one registered token
type TokenInfo struct {
	// Asset id on chain (0 = native VOI)
	ID uint64 `json:"id" example:"395614"`

	Symbol string `json:"symbol" example:"aUSDC"`
	Name   string `json:"name" example:"Aramid USDC"`

	// Decimal places used when scaling human-readable amounts
	Decimals uint8 `json:"decimals" example:"6"`
}

func (h *TokenHandler) listTokens(c *gin.Context) {
	all := h.engineSvc.Tokens().All()
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	out := make([]TokenInfo, 0, len(all))
	for _, t := range all {
		out = append(out, TokenInfo{
			ID:       uint64(t.ID),
			Symbol:   t.Symbol,
			Name:     t.Name,
			Decimals: t.Decimals,
		})
	}
	httputil.HandleSuccess(c, out)
}

func (h *TokenHandler) getToken(c *gin.Context) {
	raw := c.Param("id")

	registry := h.engineSvc.Tokens()
	if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
		if t, ok := registry.TokenByID(domain.TokenID(id)); ok {
			httputil.HandleSuccess(c, TokenInfo{ID: uint64(t.ID), Symbol: t.Symbol, Name: t.Name, Decimals: t.Decimals})
			return
		}
	} else if t, ok := registry.TokenBySymbol(raw); ok {
		httputil.HandleSuccess(c, TokenInfo{ID: uint64(t.ID), Symbol: t.Symbol, Name: t.Name, Decimals: t.Decimals})
		return
	}

	httputil.HandleNotFound(c, "token not found: "+raw)
}
