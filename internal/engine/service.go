package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/allyswap/route-engine/internal/adapters/persistence"
	"github.com/allyswap/route-engine/internal/config"
	"github.com/allyswap/route-engine/internal/domain"
	"github.com/allyswap/route-engine/internal/metrics"
	"github.com/allyswap/route-engine/internal/services"
	"github.com/allyswap/route-engine/internal/services/dex"
	"github.com/allyswap/route-engine/internal/services/router"
	"github.com/allyswap/route-engine/internal/tokens"
)

const ENGINE_SERVICE = "engine-service"

// Error aliases so HTTP handlers depend on one package.
var (
	ErrInvalidAmount         = router.ErrInvalidAmount
	ErrInvalidSlippage       = router.ErrInvalidSlippage
	ErrInsufficientLiquidity = router.ErrInsufficientLiquidity
	ErrNoRouteFound          = router.ErrNoRouteFound
	ErrAdapterUnavailable    = router.ErrAdapterUnavailable
	ErrUnknownToken          = router.ErrUnknownToken
)

// Service owns the router, the token registry, and the background pool
// refresher. Quotes always price against freshly fetched reserves; the
// refresher feeds only the browse endpoints and the warm-start snapshot
// on disk.
type Service struct {
	container.BaseDIInstance
	logger *services.ServiceLogger

	routerCfg *config.RouterConfig
	dexCfg    *config.DexConfig
	engineCfg *config.EngineConfig

	registry *tokens.Registry
	adapters []dex.Adapter
	router   *router.Router
	storage  *persistence.Storage

	mu       sync.RWMutex
	snapshot []*domain.Pool

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func (svc *Service) ID() string {
	return ENGINE_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	svc.logger = services.NewServiceLogger(svc)
	svc.routerCfg = c.GetConfig(config.ROUTER_CONFIG_KEY).(*config.RouterConfig)
	svc.dexCfg = c.GetConfig(config.DEX_CONFIG_KEY).(*config.DexConfig)
	svc.engineCfg = c.GetConfig(config.ENGINE_CONFIG_KEY).(*config.EngineConfig)

	svc.registry = tokens.NewRegistry()
	if path := svc.engineCfg.TokenListPath; path != "" {
		if err := svc.registry.LoadFile(path); err != nil {
			return err
		}
	}

	if svc.dexCfg.IsEnabled(string(domain.DexHumble)) {
		svc.adapters = append(svc.adapters, dex.NewHumbleAdapter(svc.dexCfg.HumbleIndexerURL))
	}
	if svc.dexCfg.IsEnabled(string(domain.DexNomadex)) {
		svc.adapters = append(svc.adapters, dex.NewNomadexAdapter(svc.dexCfg.NomadexIndexerURL))
	}

	r, err := router.New(router.Config{
		Adapters:       svc.adapters,
		Tokens:         svc.registry,
		Intermediates:  svc.routerCfg.Intermediates,
		ImpactWarnBps:  svc.routerCfg.ImpactWarnBps,
		AdapterTimeout: svc.routerCfg.AdapterTimeout,
	})
	if err != nil {
		return err
	}
	svc.router = r

	if svc.engineCfg.PersistenceEnabled {
		storage, err := persistence.NewStorage(svc.engineCfg.DBPath)
		if err != nil {
			return err
		}
		svc.storage = storage
	}

	svc.stopCh = make(chan struct{})
	return nil
}

func (svc *Service) Start() error {
	if svc.storage != nil {
		pools, err := svc.storage.LoadAllPools()
		if err != nil {
			svc.logger.Warn().Err(err).Msg("warm start skipped, could not load persisted pools")
		} else if len(pools) > 0 {
			svc.setSnapshot(pools)
			svc.logger.Info().Int("pools", len(pools)).Msg("warm start from persisted snapshot")
		}
	}

	interval := time.Duration(svc.engineCfg.RefreshInterval) * time.Second
	if interval > 0 {
		svc.wg.Add(1)
		go svc.refreshLoop(interval)
	}

	svc.logger.Info().
		Int("adapters", len(svc.adapters)).
		Int("tokens", svc.registry.Count()).
		Msg("engine started")
	return nil
}

func (svc *Service) Stop() error {
	close(svc.stopCh)
	svc.wg.Wait()
	if svc.storage != nil {
		return svc.storage.Close()
	}
	return nil
}

// GetBestQuote prices the pair against live reserves.
func (svc *Service) GetBestQuote(ctx context.Context, from, to domain.TokenID, amountIn string, slippageBps uint16) (*domain.Quote, error) {
	return svc.router.GetBestQuote(ctx, from, to, amountIn, slippageBps)
}

func (svc *Service) Tokens() *tokens.Registry {
	return svc.registry
}

// Pools returns the latest refreshed snapshot for the browse endpoints.
// It can be stale by up to one refresh interval and empty before the
// first refresh completes.
func (svc *Service) Pools() []*domain.Pool {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.snapshot
}

func (svc *Service) refreshLoop(interval time.Duration) {
	defer svc.wg.Done()

	// Populate immediately instead of waiting a full interval.
	svc.refresh()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			svc.refresh()
		case <-svc.stopCh:
			return
		}
	}
}

func (svc *Service) refresh() {
	universe := make([]domain.TokenID, 0, svc.registry.Count())
	for _, t := range svc.registry.All() {
		universe = append(universe, t.ID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), svc.routerCfg.AdapterTimeout)
	defer cancel()

	var all []*domain.Pool
	for _, a := range svc.adapters {
		pools, err := a.FetchPools(ctx, universe)
		if err != nil {
			metrics.AdapterErrors.WithLabelValues(string(a.Name())).Inc()
			log.Warn().Err(err).Str("dex", string(a.Name())).Msg("[engineService] snapshot refresh fetch failed")
			continue
		}
		metrics.PoolCount.WithLabelValues(string(a.Name())).Set(float64(len(pools)))
		all = append(all, pools...)
	}

	if len(all) == 0 {
		return
	}

	svc.setSnapshot(all)
	metrics.SnapshotRefreshes.Inc()

	if svc.storage != nil {
		if err := svc.storage.SavePoolBatch(all); err != nil {
			log.Error().Err(err).Msg("[engineService] failed to persist pool snapshot")
		}
	}
}

func (svc *Service) setSnapshot(pools []*domain.Pool) {
	svc.mu.Lock()
	svc.snapshot = pools
	svc.mu.Unlock()
}
