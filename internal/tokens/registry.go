package tokens

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/allyswap/route-engine/internal/common"
	"github.com/allyswap/route-engine/internal/domain"
)

// Registry holds token metadata keyed by asset id. It ships with the
// well-known Voi assets built in and can be extended from a JSON token
// list at startup.
type Registry struct {
	mu       sync.RWMutex
	byID     map[domain.TokenID]domain.Token
	bySymbol map[string]domain.TokenID
}

func NewRegistry() *Registry {
	r := &Registry{
		byID:     make(map[domain.TokenID]domain.Token),
		bySymbol: make(map[string]domain.TokenID),
	}
	for _, t := range builtinTokens {
		r.put(t)
	}
	return r
}

var builtinTokens = []domain.Token{
	{ID: common.TokenVOI, Symbol: "VOI", Name: "Voi", Decimals: 6},
	{ID: common.TokenAUSDC, Symbol: "aUSDC", Name: "Aramid USDC", Decimals: 6},
	{ID: common.TokenABUIDL, Symbol: "BUIDL", Name: "Buidl", Decimals: 6},
	{ID: common.TokenWVOI, Symbol: "wVOI", Name: "Wrapped Voi", Decimals: 6},
}

// LoadFile merges a JSON token list into the registry. The file is an
// array of token objects; entries replace built-ins with the same id.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read token list: %w", err)
	}

	var list []domain.Token
	if err := sonic.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("parse token list: %w", err)
	}

	r.mu.Lock()
	for _, t := range list {
		if t.Symbol == "" {
			log.Warn().Uint64("id", uint64(t.ID)).Msg("[tokens] skipping list entry without symbol")
			continue
		}
		r.put(t)
	}
	r.mu.Unlock()

	log.Info().Int("count", len(list)).Str("path", path).Msg("[tokens] token list loaded")
	return nil
}

// put assumes the caller holds the write lock (or exclusive access
// during construction).
func (r *Registry) put(t domain.Token) {
	r.byID[t.ID] = t
	r.bySymbol[strings.ToUpper(t.Symbol)] = t.ID
}

// TokenByID satisfies the router's token source.
func (r *Registry) TokenByID(id domain.TokenID) (domain.Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	return t, ok
}

// TokenBySymbol resolves a symbol case-insensitively.
func (r *Registry) TokenBySymbol(symbol string) (domain.Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.bySymbol[strings.ToUpper(symbol)]
	if !ok {
		return domain.Token{}, false
	}
	return r.byID[id], true
}

// All returns a snapshot of every registered token.
func (r *Registry) All() []domain.Token {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Token, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, t)
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
