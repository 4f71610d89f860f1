package rest

import (
	"context"
	"strconv"
	"strings"

	"nakula/internal/sign"
)

// Market covers the public spot market-data endpoints. Zero-valued optional
// arguments are omitted from the request.
type Market struct {
	client *Client
}

// NewMarket wraps a dispatcher.
func NewMarket(client *Client) *Market {
	return &Market{client: client}
}

func symbolParams(symbol string) sign.Params {
	return sign.Params{"symbol": strings.ToUpper(symbol)}
}

// Depth returns the order book at the default depth.
func (m *Market) Depth(ctx context.Context, symbol string) (OrderBook, error) {
	return m.CustomDepth(ctx, symbol, 0)
}

// CustomDepth returns the order book limited to the given number of levels.
func (m *Market) CustomDepth(ctx context.Context, symbol string, limit int) (OrderBook, error) {
	params := symbolParams(symbol)
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	body, err := m.client.Get(ctx, SpotDepth, params)
	if err != nil {
		return OrderBook{}, err
	}
	return decodeInto[OrderBook](body, "order book")
}

// Price returns the latest price for one symbol.
func (m *Market) Price(ctx context.Context, symbol string) (SymbolPrice, error) {
	body, err := m.client.Get(ctx, SpotPrice, symbolParams(symbol))
	if err != nil {
		return SymbolPrice{}, err
	}
	return decodeInto[SymbolPrice](body, "symbol price")
}

// AllPrices returns the latest price for every symbol.
func (m *Market) AllPrices(ctx context.Context) ([]SymbolPrice, error) {
	body, err := m.client.Get(ctx, SpotPrice, nil)
	if err != nil {
		return nil, err
	}
	return decodeInto[[]SymbolPrice](body, "symbol prices")
}

// AveragePrice returns the rolling average price for one symbol.
func (m *Market) AveragePrice(ctx context.Context, symbol string) (AveragePrice, error) {
	body, err := m.client.Get(ctx, SpotAvgPrice, symbolParams(symbol))
	if err != nil {
		return AveragePrice{}, err
	}
	return decodeInto[AveragePrice](body, "average price")
}

// BookTicker returns the best bid/ask for one symbol.
func (m *Market) BookTicker(ctx context.Context, symbol string) (BookTicker, error) {
	body, err := m.client.Get(ctx, SpotBookTicker, symbolParams(symbol))
	if err != nil {
		return BookTicker{}, err
	}
	return decodeInto[BookTicker](body, "book ticker")
}

// AllBookTickers returns the best bid/ask for every symbol.
func (m *Market) AllBookTickers(ctx context.Context) ([]BookTicker, error) {
	body, err := m.client.Get(ctx, SpotBookTicker, nil)
	if err != nil {
		return nil, err
	}
	return decodeInto[[]BookTicker](body, "book tickers")
}

// PriceStats returns the 24hr rolling statistics for one symbol.
func (m *Market) PriceStats(ctx context.Context, symbol string) (PriceStats, error) {
	body, err := m.client.Get(ctx, SpotTicker24hr, symbolParams(symbol))
	if err != nil {
		return PriceStats{}, err
	}
	return decodeInto[PriceStats](body, "price stats")
}

// AllPriceStats returns the 24hr rolling statistics for every symbol. Heavy;
// the exchange weights it accordingly.
func (m *Market) AllPriceStats(ctx context.Context) ([]PriceStats, error) {
	body, err := m.client.Get(ctx, SpotTicker24hr, nil)
	if err != nil {
		return nil, err
	}
	return decodeInto[[]PriceStats](body, "price stats list")
}

// Trades returns the most recent public trades for a symbol.
func (m *Market) Trades(ctx context.Context, symbol string, limit int) ([]TradeRecord, error) {
	params := symbolParams(symbol)
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	body, err := m.client.Get(ctx, SpotTrades, params)
	if err != nil {
		return nil, err
	}
	return decodeInto[[]TradeRecord](body, "trades")
}

// AggTrades returns aggregated trades. fromID, startTime, endTime and limit
// are omitted when zero.
func (m *Market) AggTrades(ctx context.Context, symbol string, fromID, startTime, endTime int64, limit int) ([]AggTrade, error) {
	params := symbolParams(symbol)
	if fromID > 0 {
		params["fromId"] = strconv.FormatInt(fromID, 10)
	}
	if startTime > 0 {
		params["startTime"] = strconv.FormatInt(startTime, 10)
	}
	if endTime > 0 {
		params["endTime"] = strconv.FormatInt(endTime, 10)
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	body, err := m.client.Get(ctx, SpotAggTrades, params)
	if err != nil {
		return nil, err
	}
	return decodeInto[[]AggTrade](body, "agg trades")
}

// Klines returns candlesticks for a symbol and interval. startTime, endTime
// and limit are omitted when zero.
func (m *Market) Klines(ctx context.Context, symbol, interval string, limit int, startTime, endTime int64) ([]KlineSummary, error) {
	params := symbolParams(symbol)
	params["interval"] = interval
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	if startTime > 0 {
		params["startTime"] = strconv.FormatInt(startTime, 10)
	}
	if endTime > 0 {
		params["endTime"] = strconv.FormatInt(endTime, 10)
	}
	body, err := m.client.Get(ctx, SpotKlines, params)
	if err != nil {
		return nil, err
	}
	return decodeInto[[]KlineSummary](body, "klines")
}
