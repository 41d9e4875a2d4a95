package config

import (
	"errors"
	"strings"
)

type DexConfig struct {
	// HumbleIndexerURL is the base URL of the HumbleSwap pool indexer.
	HumbleIndexerURL string

	// NomadexIndexerURL is the base URL of the Nomadex pool indexer.
	NomadexIndexerURL string

	// Enabled lists the liquidity sources to register, comma-separated.
	// Default: both.
	Enabled []string
}

func (c *DexConfig) Key() string {
	return DEX_CONFIG_KEY
}

func (c *DexConfig) Load() error {
	c.HumbleIndexerURL = getString("DEX_HUMBLE_INDEXER_URL", "https://indexer.humble.sh")
	c.NomadexIndexerURL = getString("DEX_NOMADEX_INDEXER_URL", "https://api.nomadex.app")

	c.Enabled = c.Enabled[:0]
	for _, name := range strings.Split(getString("DEX_ENABLED", "Humble,Nomadex"), ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			c.Enabled = append(c.Enabled, name)
		}
	}
	return c.Validate()
}

func (c *DexConfig) IsEnabled(name string) bool {
	for _, n := range c.Enabled {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

func (c *DexConfig) Validate() error {
	if len(c.Enabled) == 0 {
		return errors.New("dex config requires at least one enabled source")
	}
	return nil
}
