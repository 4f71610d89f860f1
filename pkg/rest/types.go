package rest

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/apd/v3"
)

// Float decodes from either a JSON number or a numeric string; the exchange
// mixes both for price-like fields. "INF" maps to +Inf.
type Float float64

func (f *Float) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := sonic.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "INF" {
			*f = Float(math.Inf(1))
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("parse %q as float: %w", s, err)
		}
		*f = Float(v)
		return nil
	}
	var v float64
	if err := sonic.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// Empty is the body of endpoints that answer {}.
type Empty struct{}

// ServerTime is the /time response.
type ServerTime struct {
	ServerTime int64 `json:"serverTime"`
}

// RateLimit describes one of the exchange's request weight windows.
type RateLimit struct {
	RateLimitType string `json:"rateLimitType"`
	Interval      string `json:"interval"`
	IntervalNum   int    `json:"intervalNum"`
	Limit         int64  `json:"limit"`
}

// ExchangeInfo is the trading-rules snapshot: server time, weight windows and
// per-symbol rules.
type ExchangeInfo struct {
	Timezone   string      `json:"timezone"`
	ServerTime int64       `json:"serverTime"`
	RateLimits []RateLimit `json:"rateLimits"`
	Symbols    []Symbol    `json:"symbols"`
}

// Symbol carries one market's trading status, precision and filter rules.
type Symbol struct {
	Symbol                 string   `json:"symbol"`
	Status                 string   `json:"status"`
	BaseAsset              string   `json:"baseAsset"`
	BaseAssetPrecision     int      `json:"baseAssetPrecision"`
	QuoteAsset             string   `json:"quoteAsset"`
	QuotePrecision         int      `json:"quotePrecision"`
	OrderTypes             []string `json:"orderTypes"`
	IcebergAllowed         bool     `json:"icebergAllowed"`
	IsSpotTradingAllowed   bool     `json:"isSpotTradingAllowed"`
	IsMarginTradingAllowed bool     `json:"isMarginTradingAllowed"`
	Filters                Filters  `json:"filters"`
}

// PriceFilter returns the PRICE_FILTER rule if the symbol carries one.
func (s *Symbol) PriceFilter() (*PriceFilter, bool) {
	for _, f := range s.Filters {
		if pf, ok := f.(*PriceFilter); ok {
			return pf, true
		}
	}
	return nil, false
}

// LotSizeFilter returns the LOT_SIZE rule if the symbol carries one.
func (s *Symbol) LotSizeFilter() (*LotSizeFilter, bool) {
	for _, f := range s.Filters {
		if lf, ok := f.(*LotSizeFilter); ok {
			return lf, true
		}
	}
	return nil, false
}

// Filter is one tagged trading rule from a symbol's filter list.
type Filter interface {
	FilterType() string
}

// PriceFilter bounds order prices and the tick size.
type PriceFilter struct {
	MinPrice string `json:"minPrice"`
	MaxPrice string `json:"maxPrice"`
	TickSize string `json:"tickSize"`
}

func (*PriceFilter) FilterType() string { return "PRICE_FILTER" }

// PercentPriceFilter bounds prices relative to the rolling average price.
type PercentPriceFilter struct {
	MultiplierUp   string  `json:"multiplierUp"`
	MultiplierDown string  `json:"multiplierDown"`
	AvgPriceMins   float64 `json:"avgPriceMins"`
}

func (*PercentPriceFilter) FilterType() string { return "PERCENT_PRICE" }

// PercentPriceBySideFilter is the per-side variant of PercentPriceFilter.
type PercentPriceBySideFilter struct {
	BidMultiplierUp   string  `json:"bidMultiplierUp"`
	BidMultiplierDown string  `json:"bidMultiplierDown"`
	AskMultiplierUp   string  `json:"askMultiplierUp"`
	AskMultiplierDown string  `json:"askMultiplierDown"`
	AvgPriceMins      float64 `json:"avgPriceMins"`
}

func (*PercentPriceBySideFilter) FilterType() string { return "PERCENT_PRICE_BY_SIDE" }

// LotSizeFilter bounds order quantity and the step size.
type LotSizeFilter struct {
	MinQty   string `json:"minQty"`
	MaxQty   string `json:"maxQty"`
	StepSize string `json:"stepSize"`
}

func (*LotSizeFilter) FilterType() string { return "LOT_SIZE" }

// MarketLotSizeFilter bounds market-order quantity.
type MarketLotSizeFilter struct {
	MinQty   string `json:"minQty"`
	MaxQty   string `json:"maxQty"`
	StepSize string `json:"stepSize"`
}

func (*MarketLotSizeFilter) FilterType() string { return "MARKET_LOT_SIZE" }

// NotionalFilter bounds the order's price*quantity. Covers both the NOTIONAL
// and legacy MIN_NOTIONAL tags.
type NotionalFilter struct {
	Tag           string  `json:"-"`
	Notional      string  `json:"notional"`
	MinNotional   string  `json:"minNotional"`
	ApplyToMarket bool    `json:"applyToMarket"`
	AvgPriceMins  float64 `json:"avgPriceMins"`
}

func (f *NotionalFilter) FilterType() string { return f.Tag }

// IcebergPartsFilter limits the number of iceberg order parts.
type IcebergPartsFilter struct {
	Limit int `json:"limit"`
}

func (*IcebergPartsFilter) FilterType() string { return "ICEBERG_PARTS" }

// MaxNumOrdersFilter limits the open order count.
type MaxNumOrdersFilter struct {
	MaxNumOrders int `json:"maxNumOrders"`
}

func (*MaxNumOrdersFilter) FilterType() string { return "MAX_NUM_ORDERS" }

// MaxNumAlgoOrdersFilter limits the open algo order count.
type MaxNumAlgoOrdersFilter struct {
	MaxNumAlgoOrders int `json:"maxNumAlgoOrders"`
}

func (*MaxNumAlgoOrdersFilter) FilterType() string { return "MAX_NUM_ALGO_ORDERS" }

// MaxPositionFilter limits the accumulated position.
type MaxPositionFilter struct {
	MaxPosition string `json:"maxPosition"`
}

func (*MaxPositionFilter) FilterType() string { return "MAX_POSITION" }

// TrailingDeltaFilter bounds trailing-stop deltas.
type TrailingDeltaFilter struct {
	MinTrailingAboveDelta int `json:"minTrailingAboveDelta"`
	MaxTrailingAboveDelta int `json:"maxTrailingAboveDelta"`
	MinTrailingBelowDelta int `json:"minTrailingBelowDelta"`
	MaxTrailingBelowDelta int `json:"maxTrailingBelowDelta"`
}

func (*TrailingDeltaFilter) FilterType() string { return "TRAILING_DELTA" }

// UnknownFilter preserves filter tags this client does not model, so new
// exchange rules never break the snapshot decode.
type UnknownFilter struct {
	Tag string
}

func (f *UnknownFilter) FilterType() string { return f.Tag }

// Filters decodes the tagged filter list, dispatching each element on its
// filterType discriminator.
type Filters []Filter

func (fs *Filters) UnmarshalJSON(b []byte) error {
	var raws []json.RawMessage
	if err := sonic.Unmarshal(b, &raws); err != nil {
		return err
	}
	out := make(Filters, 0, len(raws))
	for _, raw := range raws {
		var tag struct {
			FilterType string `json:"filterType"`
		}
		if err := sonic.Unmarshal(raw, &tag); err != nil {
			return err
		}
		f, err := decodeFilter(tag.FilterType, raw)
		if err != nil {
			return err
		}
		out = append(out, f)
	}
	*fs = out
	return nil
}

func decodeFilter(tag string, raw []byte) (Filter, error) {
	switch tag {
	case "PRICE_FILTER":
		return decodeFilterAs[PriceFilter](raw)
	case "PERCENT_PRICE":
		return decodeFilterAs[PercentPriceFilter](raw)
	case "PERCENT_PRICE_BY_SIDE":
		return decodeFilterAs[PercentPriceBySideFilter](raw)
	case "LOT_SIZE":
		return decodeFilterAs[LotSizeFilter](raw)
	case "MARKET_LOT_SIZE":
		return decodeFilterAs[MarketLotSizeFilter](raw)
	case "NOTIONAL", "MIN_NOTIONAL":
		f, err := decodeFilterAs[NotionalFilter](raw)
		if err != nil {
			return nil, err
		}
		f.Tag = tag
		return f, nil
	case "ICEBERG_PARTS":
		return decodeFilterAs[IcebergPartsFilter](raw)
	case "MAX_NUM_ORDERS":
		return decodeFilterAs[MaxNumOrdersFilter](raw)
	case "MAX_NUM_ALGO_ORDERS":
		return decodeFilterAs[MaxNumAlgoOrdersFilter](raw)
	case "MAX_POSITION":
		return decodeFilterAs[MaxPositionFilter](raw)
	case "TRAILING_DELTA":
		return decodeFilterAs[TrailingDeltaFilter](raw)
	default:
		return &UnknownFilter{Tag: tag}, nil
	}
}

func decodeFilterAs[T any](raw []byte) (*T, error) {
	var v T
	if err := sonic.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Level is one order-book price level, decoded from the exchange's
// ["price","qty"] pair form.
type Level struct {
	Price apd.Decimal
	Qty   apd.Decimal
}

func (l *Level) UnmarshalJSON(b []byte) error {
	var pair [2]string
	if err := sonic.Unmarshal(b, &pair); err != nil {
		return err
	}
	if _, _, err := l.Price.SetString(pair[0]); err != nil {
		return fmt.Errorf("parse price %q: %w", pair[0], err)
	}
	if _, _, err := l.Qty.SetString(pair[1]); err != nil {
		return fmt.Errorf("parse qty %q: %w", pair[1], err)
	}
	return nil
}

// OrderBook is the /depth response.
type OrderBook struct {
	LastUpdateID int64   `json:"lastUpdateId"`
	Bids         []Level `json:"bids"`
	Asks         []Level `json:"asks"`
}

// SymbolPrice is the latest price for one symbol.
type SymbolPrice struct {
	Symbol string `json:"symbol"`
	Price  Float  `json:"price"`
}

// AveragePrice is the rolling average price for one symbol.
type AveragePrice struct {
	Mins  int64 `json:"mins"`
	Price Float `json:"price"`
}

// BookTicker is the best bid/ask for one symbol.
type BookTicker struct {
	Symbol   string `json:"symbol"`
	BidPrice Float  `json:"bidPrice"`
	BidQty   Float  `json:"bidQty"`
	AskPrice Float  `json:"askPrice"`
	AskQty   Float  `json:"askQty"`
}

// PriceStats is the 24hr rolling window price change statistics.
type PriceStats struct {
	Symbol             string `json:"symbol"`
	PriceChange        string `json:"priceChange"`
	PriceChangePercent string `json:"priceChangePercent"`
	WeightedAvgPrice   string `json:"weightedAvgPrice"`
	PrevClosePrice     Float  `json:"prevClosePrice"`
	LastPrice          Float  `json:"lastPrice"`
	BidPrice           Float  `json:"bidPrice"`
	AskPrice           Float  `json:"askPrice"`
	OpenPrice          Float  `json:"openPrice"`
	HighPrice          Float  `json:"highPrice"`
	LowPrice           Float  `json:"lowPrice"`
	Volume             Float  `json:"volume"`
	OpenTime           int64  `json:"openTime"`
	CloseTime          int64  `json:"closeTime"`
	FirstID            int64  `json:"firstId"`
	LastID             int64  `json:"lastId"`
	Count              int64  `json:"count"`
}

// TradeRecord is one public trade from /trades.
type TradeRecord struct {
	ID           int64  `json:"id"`
	Price        Float  `json:"price"`
	Qty          Float  `json:"qty"`
	QuoteQty     Float  `json:"quoteQty"`
	Time         int64  `json:"time"`
	IsBuyerMaker bool   `json:"isBuyerMaker"`
	IsBestMatch  bool   `json:"isBestMatch"`
}

// AggTrade is one aggregated trade from /aggTrades.
type AggTrade struct {
	AggID        int64 `json:"a"`
	Price        Float `json:"p"`
	Qty          Float `json:"q"`
	FirstTradeID int64 `json:"f"`
	LastTradeID  int64 `json:"l"`
	Time         int64 `json:"T"`
	IsBuyerMaker bool  `json:"m"`
	IsBestMatch  bool  `json:"M"`
}

// KlineSummary is one candlestick, decoded from the exchange's positional
// array row.
type KlineSummary struct {
	OpenTime                 int64
	Open                     string
	High                     string
	Low                      string
	Close                    string
	Volume                   string
	CloseTime                int64
	QuoteAssetVolume         string
	NumberOfTrades           int64
	TakerBuyBaseAssetVolume  string
	TakerBuyQuoteAssetVolume string
}

func (k *KlineSummary) UnmarshalJSON(b []byte) error {
	var row []any
	if err := sonic.Unmarshal(b, &row); err != nil {
		return err
	}
	if len(row) < 11 {
		return fmt.Errorf("kline row has %d fields, want at least 11", len(row))
	}
	var err error
	if k.OpenTime, err = rowInt(row, 0, "open time"); err != nil {
		return err
	}
	if k.Open, err = rowString(row, 1, "open"); err != nil {
		return err
	}
	if k.High, err = rowString(row, 2, "high"); err != nil {
		return err
	}
	if k.Low, err = rowString(row, 3, "low"); err != nil {
		return err
	}
	if k.Close, err = rowString(row, 4, "close"); err != nil {
		return err
	}
	if k.Volume, err = rowString(row, 5, "volume"); err != nil {
		return err
	}
	if k.CloseTime, err = rowInt(row, 6, "close time"); err != nil {
		return err
	}
	if k.QuoteAssetVolume, err = rowString(row, 7, "quote asset volume"); err != nil {
		return err
	}
	if k.NumberOfTrades, err = rowInt(row, 8, "number of trades"); err != nil {
		return err
	}
	if k.TakerBuyBaseAssetVolume, err = rowString(row, 9, "taker buy base volume"); err != nil {
		return err
	}
	if k.TakerBuyQuoteAssetVolume, err = rowString(row, 10, "taker buy quote volume"); err != nil {
		return err
	}
	return nil
}

func rowInt(row []any, i int, name string) (int64, error) {
	v, ok := row[i].(float64)
	if !ok {
		return 0, fmt.Errorf("kline field %s: want number, got %T", name, row[i])
	}
	return int64(v), nil
}

func rowString(row []any, i int, name string) (string, error) {
	v, ok := row[i].(string)
	if !ok {
		return "", fmt.Errorf("kline field %s: want string, got %T", name, row[i])
	}
	return v, nil
}

// Order is one resting or historical order.
type Order struct {
	Symbol              string `json:"symbol"`
	OrderID             int64  `json:"orderId"`
	OrderListID         int64  `json:"orderListId"`
	ClientOrderID       string `json:"clientOrderId"`
	Price               Float  `json:"price"`
	OrigQty             string `json:"origQty"`
	ExecutedQty         string `json:"executedQty"`
	CummulativeQuoteQty string `json:"cummulativeQuoteQty"`
	Status              string `json:"status"`
	TimeInForce         string `json:"timeInForce"`
	Type                string `json:"type"`
	Side                string `json:"side"`
	StopPrice           Float  `json:"stopPrice"`
	IcebergQty          string `json:"icebergQty"`
	Time                int64  `json:"time"`
	UpdateTime          int64  `json:"updateTime"`
	IsWorking           bool   `json:"isWorking"`
	OrigQuoteOrderQty   string `json:"origQuoteOrderQty"`
}

// OrderCanceled is the cancel-order acknowledgement.
type OrderCanceled struct {
	Symbol            string `json:"symbol"`
	OrigClientOrderID string `json:"origClientOrderId"`
	OrderID           int64  `json:"orderId"`
	ClientOrderID     string `json:"clientOrderId"`
}

// Fill is one execution that filled part of a new order.
type Fill struct {
	Price           Float  `json:"price"`
	Qty             Float  `json:"qty"`
	Commission      Float  `json:"commission"`
	CommissionAsset string `json:"commissionAsset"`
	TradeID         int64  `json:"tradeId"`
}

// Transaction is the new-order acknowledgement.
type Transaction struct {
	Symbol              string `json:"symbol"`
	OrderID             int64  `json:"orderId"`
	OrderListID         int64  `json:"orderListId"`
	ClientOrderID       string `json:"clientOrderId"`
	TransactTime        int64  `json:"transactTime"`
	Price               Float  `json:"price"`
	OrigQty             Float  `json:"origQty"`
	ExecutedQty         Float  `json:"executedQty"`
	CummulativeQuoteQty Float  `json:"cummulativeQuoteQty"`
	StopPrice           Float  `json:"stopPrice"`
	Status              string `json:"status"`
	TimeInForce         string `json:"timeInForce"`
	Type                string `json:"type"`
	Side                string `json:"side"`
	Fills               []Fill `json:"fills"`
}

// Balance is one asset balance in the account snapshot.
type Balance struct {
	Asset  string `json:"asset"`
	Free   string `json:"free"`
	Locked string `json:"locked"`
}

// AccountInformation is the /account response.
type AccountInformation struct {
	MakerCommission  float64   `json:"makerCommission"`
	TakerCommission  float64   `json:"takerCommission"`
	BuyerCommission  float64   `json:"buyerCommission"`
	SellerCommission float64   `json:"sellerCommission"`
	CanTrade         bool      `json:"canTrade"`
	CanWithdraw      bool      `json:"canWithdraw"`
	CanDeposit       bool      `json:"canDeposit"`
	Balances         []Balance `json:"balances"`
}

// TradeHistory is one of the caller's own fills from /myTrades.
type TradeHistory struct {
	ID              int64  `json:"id"`
	OrderID         int64  `json:"orderId"`
	Symbol          string `json:"symbol"`
	Price           Float  `json:"price"`
	Qty             Float  `json:"qty"`
	Commission      string `json:"commission"`
	CommissionAsset string `json:"commissionAsset"`
	Time            int64  `json:"time"`
	IsBuyer         bool   `json:"isBuyer"`
	IsMaker         bool   `json:"isMaker"`
	IsBestMatch     bool   `json:"isBestMatch"`
}

// ListenKey identifies a private user data stream subscription.
type ListenKey struct {
	ListenKey string `json:"listenKey"`
}

// PremiumIndex is the futures mark price and funding data for one symbol.
type PremiumIndex struct {
	Symbol          string `json:"symbol"`
	MarkPrice       Float  `json:"markPrice"`
	IndexPrice      Float  `json:"indexPrice"`
	LastFundingRate Float  `json:"lastFundingRate"`
	NextFundingTime int64  `json:"nextFundingTime"`
	InterestRate    Float  `json:"interestRate"`
	Time            int64  `json:"time"`
}

// FundingRate is one historical funding-rate sample.
type FundingRate struct {
	Symbol      string `json:"symbol"`
	FundingRate Float  `json:"fundingRate"`
	FundingTime int64  `json:"fundingTime"`
}

// OpenInterest is the current futures open interest for one symbol.
type OpenInterest struct {
	Symbol       string `json:"symbol"`
	OpenInterest Float  `json:"openInterest"`
	Time         int64  `json:"time"`
}

// HistDataID is the acknowledgement of a historical-data download request.
type HistDataID struct {
	ID int64 `json:"id"`
}

// HistDataLink resolves a download id to an out-of-band absolute URL.
type HistDataLink struct {
	Link string `json:"link"`
}
