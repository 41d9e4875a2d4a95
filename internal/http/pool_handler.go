package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/allyswap/route-engine/internal/domain"
	"github.com/allyswap/route-engine/internal/engine"
	"github.com/allyswap/route-engine/internal/http/httputil"
)

type PoolHandler struct {
	engineSvc *engine.Service
}

func NewPoolHandler(engineSvc *engine.Service) *PoolHandler {
	return &PoolHandler{engineSvc: engineSvc}
}

func (h *PoolHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/stats", h.getStats)
	pub.GET("/list", h.listPools)
	pub.GET("/:id", h.getPool)
}

func (h *PoolHandler) Root() string {
	return "/pools"
}

// PoolStatsResponse contains aggregated statistics about tracked pools
type PoolStatsResponse struct {
	// Number of pools in the latest background snapshot, across every
	// registered liquidity source
	PoolCount int `json:"pool_count" example:"42"`

	// Pool counts broken down per DEX
	ByDex map[string]int `json:"by_dex"`
}

func (h *PoolHandler) getStats(c *gin.Context) {
	pools := h.engineSvc.Pools()
	byDex := make(map[string]int)
	for _, p := range pools {
		byDex[string(p.Dex)]++
	}
	httputil.HandleSuccess(c, PoolStatsResponse{
		PoolCount: len(pools),
		ByDex:     byDex,
	})
}

// PoolInfo contains basic information about a liquidity pool
type PoolInfo struct {
	// Pool application id on chain
	ID uint64 `json:"id" example:"395553"`

	// Liquidity source name ("Humble" or "Nomadex")
	Dex string `json:"dex" example:"Humble"`

	// First asset id in the pair (0 = native VOI)
	TokenA uint64 `json:"token_a" example:"0"`

	// Second asset id in the pair
	TokenB uint64 `json:"token_b" example:"395614"`

	// Pool fee in basis points
	FeeBps uint16 `json:"fee_bps" example:"30"`
}

// PoolListResponse contains a paginated list of pools from the latest
// snapshot
type PoolListResponse struct {
	Pools []PoolInfo `json:"pools"`

	// Total number of pools across all pages
	Total int `json:"total" example:"42"`

	// Current page number (1-indexed)
	Page int `json:"page" example:"1"`

	// Number of pools per page (max 500)
	Limit int `json:"limit" example:"100"`

	// Total number of pages available
	Pages int `json:"pages" example:"1"`
}

func (h *PoolHandler) listPools(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}

	allPools := h.engineSvc.Pools()
	total := len(allPools)

	pages := (total + limit - 1) / limit
	offset := (page - 1) * limit
	end := offset + limit
	if offset > total {
		offset = total
	}
	if end > total {
		end = total
	}

	pools := make([]PoolInfo, 0, end-offset)
	for _, pool := range allPools[offset:end] {
		pools = append(pools, PoolInfo{
			ID:     uint64(pool.ID),
			Dex:    string(pool.Dex),
			TokenA: uint64(pool.TokenA),
			TokenB: uint64(pool.TokenB),
			FeeBps: pool.FeeBps,
		})
	}

	httputil.HandleSuccess(c, PoolListResponse{
		Pools: pools,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	})
}

// PoolDetailResponse contains the full reserve snapshot for one pool
type PoolDetailResponse struct {
	ID     uint64 `json:"id" example:"395553"`
	Dex    string `json:"dex" example:"Humble"`
	TokenA uint64 `json:"token_a" example:"0"`
	TokenB uint64 `json:"token_b" example:"395614"`

	// Reserves in smallest units, as decimal strings
	ReserveA string `json:"reserve_a" example:"1234567890123"`
	ReserveB string `json:"reserve_b" example:"9876543210987"`

	FeeBps uint16 `json:"fee_bps" example:"30"`

	// Voi round when the snapshot was taken
	LastUpdatedRound uint64 `json:"last_updated_round" example:"8412345"`
}

func (h *PoolHandler) getPool(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httputil.HandleBadRequest(c, "invalid pool id")
		return
	}

	var pool *domain.Pool
	for _, p := range h.engineSvc.Pools() {
		if p.ID == domain.PoolID(id) {
			pool = p
			break
		}
	}
	if pool == nil {
		httputil.HandleNotFound(c, "pool not found")
		return
	}

	c.JSON(http.StatusOK, PoolDetailResponse{
		ID:               uint64(pool.ID),
		Dex:              string(pool.Dex),
		TokenA:           uint64(pool.TokenA),
		TokenB:           uint64(pool.TokenB),
		ReserveA:         pool.ReserveA.String(),
		ReserveB:         pool.ReserveB.String(),
		FeeBps:           pool.FeeBps,
		LastUpdatedRound: pool.LastUpdatedRound,
	})
}
