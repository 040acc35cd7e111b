package finnhub

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/wonny/tickernews/internal/domain/news"
)

// SymbolLister loads the full symbol list from upstream
type SymbolLister interface {
	FetchSymbols(ctx context.Context) ([]news.Symbol, error)
}

// SymbolCache holds the symbol list for the lifetime of its owner.
// It loads lazily on first use and is never invalidated. An empty
// result is not kept, so the next call loads again.
type SymbolCache struct {
	lister SymbolLister

	mu      sync.RWMutex
	symbols []news.Symbol
	index   map[string]bool
}

// NewSymbolCache creates an empty cache backed by lister
func NewSymbolCache(lister SymbolLister) *SymbolCache {
	return &SymbolCache{lister: lister}
}

// List returns all cached symbols, loading them on first use
func (c *SymbolCache) List(ctx context.Context) ([]news.Symbol, error) {
	c.mu.RLock()
	symbols := c.symbols
	c.mu.RUnlock()

	if len(symbols) > 0 {
		return symbols, nil
	}

	loaded, err := c.lister.FetchSymbols(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]bool, len(loaded))
	for _, s := range loaded {
		index[news.NormalizeTicker(s.Symbol)] = true
	}

	// concurrent first loads overwrite each other with the same data
	c.mu.Lock()
	c.symbols = loaded
	c.index = index
	c.mu.Unlock()

	log.Info().Int("symbols", len(loaded)).Msg("Symbol cache loaded")
	return loaded, nil
}

// IsValid reports whether ticker is a known symbol (case-insensitive)
func (c *SymbolCache) IsValid(ctx context.Context, ticker string) (bool, error) {
	if _, err := c.List(ctx); err != nil {
		return false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index[news.NormalizeTicker(ticker)], nil
}
