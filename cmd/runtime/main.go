package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/allyswap/route-engine/internal/common"
	"github.com/allyswap/route-engine/internal/config"
	"github.com/allyswap/route-engine/internal/engine"
	"github.com/allyswap/route-engine/internal/http"
)

// @title Ally Route Engine API
// @version 1.0
// @description Best-price swap routing for the Voi network. Finds the optimal route for a token pair across every supported DEX and returns a full quote with route comparison.
// @description
// @description ## - Features
// @description - **Multi-DEX Routing**: Prices direct swaps on HumbleSwap and Nomadex side by side
// @description - **Two-Hop Routes**: Routes through VOI or aUSDC when no direct pool exists or a split path pays more
// @description - **Cross-DEX Routes**: Enters one DEX and exits another when that beats any single-DEX route
// @description - **Route Comparison**: Every candidate considered is returned in comparedRoutes
// @description - **Price Impact Analysis**: Integer basis-point impact with severity warnings
// @description - **Slippage Protection**: minReceived reflects the caller's tolerance
// @description
// @description ## - Amounts
// @description - Request amounts are human-readable decimal strings ("12.5" VOI)
// @description - The engine scales them with the token's registered decimals; VOI has 6
// @description - Pricing is arbitrary precision end to end, no floating point
// @description
// @description ## - API Status
// @description - **Network**: Voi Mainnet
// @description - **Rate Limit**: 10 requests/second (burst: 20)
// @host localhost:8080
// @BasePath /
// @schemes http https
// @tag.name quote
// @tag.description Get the best swap quote with price impact analysis and route comparison
// @tag.name pools
// @tag.description Browse the latest pool snapshots per liquidity source
// @tag.name tokens
// @tag.description Look up registered token metadata

func main() {
	common.InitRuntime()

	// load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file, using process environment")
	}

	common.InitLogger(os.Getenv("LOG_LEVEL"), os.Getenv("ENV"))

	// di container config
	conf := container.NewConf(
		&config.GeneralConfig{},
		&config.RouterConfig{},
		&config.DexConfig{},
		&config.EngineConfig{},
	)

	// di container
	dic, err := container.New(
		conf,

		&engine.Service{},
		&http.HTTPService{},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create di container")
		return
	}

	if err := dic.Run(); err != nil {
		log.Error().Err(err).Msg("failed to run di container")
		return
	}

	log.Info().Msg("Shutting down services...")
	if err := dic.Stop(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("Shutdown complete")
}
