package rest

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nakula/pkg/core"
)

const exchangeInfoFixture = `{
	"timezone": "UTC",
	"serverTime": 1508631584636,
	"rateLimits": [
		{"rateLimitType":"REQUEST_WEIGHT","interval":"MINUTE","intervalNum":1,"limit":6000}
	],
	"symbols": [
		{
			"symbol": "BNBBTC",
			"status": "TRADING",
			"baseAsset": "BNB",
			"baseAssetPrecision": 8,
			"quoteAsset": "BTC",
			"quotePrecision": 8,
			"orderTypes": ["LIMIT","MARKET"],
			"icebergAllowed": true,
			"isSpotTradingAllowed": true,
			"isMarginTradingAllowed": false,
			"filters": [
				{"filterType":"PRICE_FILTER","minPrice":"0.00000010","maxPrice":"100000.00000000","tickSize":"0.00000010"},
				{"filterType":"LOT_SIZE","minQty":"0.00100000","maxQty":"100000.00000000","stepSize":"0.00100000"}
			]
		}
	]
}`

func TestRulesCache_EmptyErrsNoCache(t *testing.T) {
	rc := NewRulesCache()

	_, err := rc.Snapshot()
	assert.True(t, errors.Is(err, core.ErrNoCache))

	_, err = rc.LookupSymbol("BNBBTC")
	assert.True(t, errors.Is(err, core.ErrNoCache))
}

func TestRulesCache_ExpiresAfterTTL(t *testing.T) {
	at := time.Unix(1_700_000_000, 0)
	rc := NewRulesCache()
	rc.SetClock(func() time.Time { return at })
	rc.Store(&ExchangeInfo{})

	assert.True(t, rc.Fresh())

	at = at.Add(599 * time.Second)
	assert.True(t, rc.Fresh())

	at = at.Add(2 * time.Second)
	assert.False(t, rc.Fresh())

	_, err := rc.Snapshot()
	assert.True(t, errors.Is(err, core.ErrNoCache))
}

func TestRulesCache_StoreRestampsFreshness(t *testing.T) {
	at := time.Unix(1_700_000_000, 0)
	rc := NewRulesCache()
	rc.SetClock(func() time.Time { return at })
	rc.Store(&ExchangeInfo{})

	at = at.Add(700 * time.Second)
	require.False(t, rc.Fresh())

	rc.Store(&ExchangeInfo{})
	assert.True(t, rc.Fresh())
}

func TestRulesCache_LookupIsCaseInsensitive(t *testing.T) {
	rc := NewRulesCache()
	rc.Store(&ExchangeInfo{Symbols: []Symbol{{Symbol: "BNBBTC", Status: "TRADING"}}})

	s, err := rc.LookupSymbol("bnbbtc")

	require.NoError(t, err)
	assert.Equal(t, "BNBBTC", s.Symbol)

	_, err = rc.LookupSymbol("DOGEBTC")
	assert.True(t, errors.Is(err, core.ErrSymbolNotFound))
}

func TestGeneral_RefreshThenLookup(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/exchangeInfo", r.URL.Path)
		_, _ = w.Write([]byte(exchangeInfoFixture))
	})
	general := NewGeneral(client)

	info, err := general.RefreshRules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1508631584636), info.ServerTime)

	s, err := general.Rules().LookupSymbol("bnbbtc")
	require.NoError(t, err)
	assert.Equal(t, "BNBBTC", s.Symbol)
	assert.Equal(t, "TRADING", s.Status)

	pf, ok := s.PriceFilter()
	require.True(t, ok)
	assert.Equal(t, "0.00000010", pf.TickSize)
}

func TestGeneral_SymbolInfoRefreshesOnlyWhenStale(t *testing.T) {
	var hits atomic.Int64
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(exchangeInfoFixture))
	})
	general := NewGeneral(client)

	_, err := general.SymbolInfo(context.Background(), "BNBBTC")
	require.NoError(t, err)
	_, err = general.SymbolInfo(context.Background(), "BNBBTC")
	require.NoError(t, err)

	assert.Equal(t, int64(1), hits.Load())
}

func TestGeneral_ServerTime(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/time", r.URL.Path)
		_, _ = w.Write([]byte(`{"serverTime":1499827319559}`))
	})

	st, err := NewGeneral(client).ServerTime(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(1499827319559), st.ServerTime)
}

func TestGeneral_Ping(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	assert.NoError(t, NewGeneral(client).Ping(context.Background()))
}
