package stream

import (
	"fmt"
	"strings"
)

// Stream name builders. Symbols are lowercased because the exchange's stream
// grammar is lowercase; the ! forms address every market at once.

// TradeStream subscribes to raw trades for one symbol.
func TradeStream(symbol string) string {
	return strings.ToLower(symbol) + "@trade"
}

// AggTradeStream subscribes to aggregated trades for one symbol.
func AggTradeStream(symbol string) string {
	return strings.ToLower(symbol) + "@aggTrade"
}

// KlineStream subscribes to candles for one symbol and interval.
func KlineStream(symbol, interval string) string {
	return fmt.Sprintf("%s@kline_%s", strings.ToLower(symbol), interval)
}

// ContinuousKlineStream subscribes to futures continuous-contract candles.
func ContinuousKlineStream(pair, contractType, interval string) string {
	return fmt.Sprintf("%s_%s@continuousKline_%s",
		strings.ToLower(pair), strings.ToLower(contractType), interval)
}

// IndexKlineStream subscribes to futures index-price candles.
func IndexKlineStream(pair, interval string) string {
	return fmt.Sprintf("%s@indexPriceKline_%s", strings.ToLower(pair), interval)
}

// TickerStream subscribes to the 24hr rolling statistics for one symbol.
func TickerStream(symbol string) string {
	return strings.ToLower(symbol) + "@ticker"
}

// AllTickerStream subscribes to the all-market 24hr rolling batch.
func AllTickerStream() string {
	return "!ticker@arr"
}

// MiniTickerStream subscribes to the mini ticker for one symbol.
func MiniTickerStream(symbol string) string {
	return strings.ToLower(symbol) + "@miniTicker"
}

// AllMiniTickerStream subscribes to the all-market mini ticker batch.
func AllMiniTickerStream() string {
	return "!miniTicker@arr"
}

// BookTickerStream subscribes to best bid/ask updates for one symbol.
func BookTickerStream(symbol string) string {
	return strings.ToLower(symbol) + "@bookTicker"
}

// AllBookTickerStream subscribes to best bid/ask updates for every symbol.
func AllBookTickerStream() string {
	return "!bookTicker"
}

// DepthStream subscribes to incremental order-book diffs.
func DepthStream(symbol string) string {
	return strings.ToLower(symbol) + "@depth"
}

// PartialDepthStream subscribes to top-of-book snapshots at the given number
// of levels (5, 10 or 20).
func PartialDepthStream(symbol string, levels int) string {
	return fmt.Sprintf("%s@depth%d", strings.ToLower(symbol), levels)
}

// MarkPriceStream subscribes to futures mark price updates for one symbol.
func MarkPriceStream(symbol string) string {
	return strings.ToLower(symbol) + "@markPrice"
}

// AllMarkPriceStream subscribes to the all-market mark price batch.
func AllMarkPriceStream() string {
	return "!markPrice@arr"
}

// IndexPriceStream subscribes to futures index price updates for one pair.
func IndexPriceStream(pair string) string {
	return strings.ToLower(pair) + "@indexPrice"
}

// LiquidationStream subscribes to forced liquidations for one symbol.
func LiquidationStream(symbol string) string {
	return strings.ToLower(symbol) + "@forceOrder"
}

// AllLiquidationStream subscribes to forced liquidations for every symbol.
func AllLiquidationStream() string {
	return "!forceOrder@arr"
}
