package rest

import (
	"context"
	"strings"
	"sync"
	"time"

	"nakula/internal/sign"
	"nakula/pkg/core"
)

// rulesTTL is how long a trading-rules snapshot stays usable. The exchange
// republishes exchangeInfo continuously; ten minutes keeps filter data close
// enough for order sizing without hammering the heaviest public endpoint.
const rulesTTL = 600 * time.Second

// RulesCache holds the most recent trading-rules snapshot with its fetch
// time. Reads never trigger a fetch; the owner decides when to Refresh.
type RulesCache struct {
	mu        sync.RWMutex
	now       sign.Clock
	info      *ExchangeInfo
	fetchedAt time.Time
}

// NewRulesCache returns an empty cache using the wall clock.
func NewRulesCache() *RulesCache {
	return &RulesCache{now: time.Now}
}

// SetClock overrides the time source used for freshness checks.
func (rc *RulesCache) SetClock(now sign.Clock) {
	rc.mu.Lock()
	rc.now = now
	rc.mu.Unlock()
}

// Store replaces the snapshot and restamps the fetch time.
func (rc *RulesCache) Store(info *ExchangeInfo) {
	rc.mu.Lock()
	rc.info = info
	rc.fetchedAt = rc.now()
	rc.mu.Unlock()
}

// Fresh reports whether a snapshot exists and is younger than the TTL.
func (rc *RulesCache) Fresh() bool {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.freshLocked()
}

func (rc *RulesCache) freshLocked() bool {
	return rc.info != nil && rc.now().Sub(rc.fetchedAt) < rulesTTL
}

// Snapshot returns the cached rules. A missing or expired snapshot yields
// core.ErrNoCache; it never fetches.
func (rc *RulesCache) Snapshot() (*ExchangeInfo, error) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	if !rc.freshLocked() {
		return nil, core.ErrNoCache
	}
	return rc.info, nil
}

// LookupSymbol finds one symbol's rules in the cached snapshot. The lookup is
// case-insensitive; symbols are stored uppercase.
func (rc *RulesCache) LookupSymbol(symbol string) (Symbol, error) {
	info, err := rc.Snapshot()
	if err != nil {
		return Symbol{}, err
	}
	upper := strings.ToUpper(symbol)
	for _, s := range info.Symbols {
		if s.Symbol == upper {
			return s, nil
		}
	}
	return Symbol{}, core.ErrSymbolNotFound
}

// General covers the public connectivity and metadata endpoints and owns the
// trading-rules cache.
type General struct {
	client *Client
	rules  *RulesCache
}

// NewGeneral wraps a dispatcher.
func NewGeneral(client *Client) *General {
	return &General{client: client, rules: NewRulesCache()}
}

// Rules exposes the cache for direct snapshot access.
func (g *General) Rules() *RulesCache {
	return g.rules
}

// Ping tests REST connectivity.
func (g *General) Ping(ctx context.Context) error {
	_, err := g.client.Get(ctx, SpotPing, nil)
	return err
}

// ServerTime returns the exchange clock.
func (g *General) ServerTime(ctx context.Context) (ServerTime, error) {
	body, err := g.client.Get(ctx, SpotTime, nil)
	if err != nil {
		return ServerTime{}, err
	}
	return decodeInto[ServerTime](body, "server time")
}

// ExchangeInfo fetches the full trading-rules snapshot without touching the
// cache.
func (g *General) ExchangeInfo(ctx context.Context) (ExchangeInfo, error) {
	body, err := g.client.Get(ctx, SpotExchangeInfo, nil)
	if err != nil {
		return ExchangeInfo{}, err
	}
	return decodeInto[ExchangeInfo](body, "exchange info")
}

// RefreshRules fetches exchangeInfo and installs it as the cached snapshot.
func (g *General) RefreshRules(ctx context.Context) (*ExchangeInfo, error) {
	info, err := g.ExchangeInfo(ctx)
	if err != nil {
		return nil, err
	}
	g.rules.Store(&info)
	return &info, nil
}

// SymbolInfo looks one symbol up in the cached snapshot, refreshing first if
// the snapshot is missing or expired.
func (g *General) SymbolInfo(ctx context.Context, symbol string) (Symbol, error) {
	if !g.rules.Fresh() {
		if _, err := g.RefreshRules(ctx); err != nil {
			return Symbol{}, err
		}
	}
	return g.rules.LookupSymbol(symbol)
}
