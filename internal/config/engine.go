package config

type EngineConfig struct {
	// DBPath is the path to the BoltDB file for pool snapshot persistence.
	// Default: "./data/ally-engine.db"
	DBPath string

	// PersistenceEnabled controls whether refreshed snapshots are written
	// to disk. Default: true
	PersistenceEnabled bool

	// RefreshInterval is how often the background refresher re-fetches
	// pool snapshots from all adapters (in seconds). It feeds the pool
	// browse endpoints only; quotes always fetch fresh. Default: 30
	RefreshInterval int

	// TokenListPath optionally points at a JSON token-list file merged
	// over the built-in token metadata.
	TokenListPath string
}

func (c *EngineConfig) Key() string {
	return ENGINE_CONFIG_KEY
}

func (c *EngineConfig) Load() error {
	c.DBPath = getString("ENGINE_DB_PATH", "./data/ally-engine.db")
	c.PersistenceEnabled = getBool("ENGINE_PERSISTENCE_ENABLED", true)
	c.RefreshInterval = getInt("ENGINE_REFRESH_INTERVAL", 30)
	c.TokenListPath = getString("ENGINE_TOKEN_LIST_PATH", "")
	return nil
}

func (c *EngineConfig) Validate() error {
	return nil
}
