package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/allyswap/route-engine/internal/domain"
)

type RouterConfig struct {
	// Intermediates is the allow-list of tokens usable as the middle leg
	// of a two-hop route. Comma-separated token ids in the environment.
	// Default: VOI (0) and aUSDC.
	Intermediates []domain.TokenID

	// ImpactWarnBps is the price-impact threshold above which a quote
	// carries a warning. Default: 500 (5%).
	ImpactWarnBps uint16

	// AdapterTimeout bounds each adapter's pool fetch. An adapter that
	// exceeds it is treated as returning no pools. Default: 3s.
	AdapterTimeout time.Duration
}

func (c *RouterConfig) Key() string {
	return ROUTER_CONFIG_KEY
}

func (c *RouterConfig) Load() error {
	raw := getString("ROUTER_INTERMEDIATES", "0,395614")
	c.Intermediates = c.Intermediates[:0]
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return errors.New("invalid ROUTER_INTERMEDIATES entry: " + part)
		}
		c.Intermediates = append(c.Intermediates, domain.TokenID(id))
	}

	warn := getInt("ROUTER_IMPACT_WARN_BPS", 500)
	if warn < 0 || warn > 10000 {
		return errors.New("ROUTER_IMPACT_WARN_BPS out of range")
	}
	c.ImpactWarnBps = uint16(warn)

	c.AdapterTimeout = time.Duration(getInt("ROUTER_ADAPTER_TIMEOUT_MS", 3000)) * time.Millisecond
	return c.Validate()
}

func (c *RouterConfig) Validate() error {
	if len(c.Intermediates) == 0 {
		return errors.New("router config requires at least one intermediate token")
	}
	if c.AdapterTimeout <= 0 {
		return errors.New("adapter timeout must be positive")
	}
	return nil
}
