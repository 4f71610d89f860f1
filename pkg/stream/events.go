// Package stream implements the websocket half of the client: typed market
// and account events, the payload decoder and the blocking receive session.
package stream

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/apd/v3"
)

// Event is the closed set of payloads a session can yield. Every variant is a
// pointer to one of the concrete event types below.
type Event interface {
	event()
}

// Level is one price level, decoded from the exchange's ["price","qty"] pair
// form used in depth payloads.
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

// AggTradeEvent is one aggregated public trade.
type AggTradeEvent struct {
	EventType    string      `json:"e"`
	EventTime    int64       `json:"E"`
	Symbol       string      `json:"s"`
	AggID        int64       `json:"a"`
	Price        apd.Decimal `json:"p"`
	Qty          apd.Decimal `json:"q"`
	FirstTradeID int64       `json:"f"`
	LastTradeID  int64       `json:"l"`
	TradeTime    int64       `json:"T"`
	IsBuyerMaker bool        `json:"m"`
	IsBestMatch  bool        `json:"M"`
}

func (*AggTradeEvent) event() {}

// TradeEvent is one raw public trade.
type TradeEvent struct {
	EventType     string      `json:"e"`
	EventTime     int64       `json:"E"`
	Symbol        string      `json:"s"`
	TradeID       int64       `json:"t"`
	Price         apd.Decimal `json:"p"`
	Qty           apd.Decimal `json:"q"`
	BuyerOrderID  int64       `json:"b"`
	SellerOrderID int64       `json:"a"`
	TradeTime     int64       `json:"T"`
	IsBuyerMaker  bool        `json:"m"`
	IsBestMatch   bool        `json:"M"`
}

func (*TradeEvent) event() {}

// Kline is the candle body shared by the kline event family.
type Kline struct {
	StartTime            int64       `json:"t"`
	EndTime              int64       `json:"T"`
	Symbol               string      `json:"s"`
	Interval             string      `json:"i"`
	FirstTradeID         int64       `json:"f"`
	LastTradeID          int64       `json:"L"`
	Open                 apd.Decimal `json:"o"`
	Close                apd.Decimal `json:"c"`
	High                 apd.Decimal `json:"h"`
	Low                  apd.Decimal `json:"l"`
	Volume               apd.Decimal `json:"v"`
	NumberOfTrades       int64       `json:"n"`
	IsFinal              bool        `json:"x"`
	QuoteVolume          apd.Decimal `json:"q"`
	ActiveBuyVolume      apd.Decimal `json:"V"`
	ActiveBuyQuoteVolume apd.Decimal `json:"Q"`
}

// KlineEvent carries one candle update for a symbol stream.
type KlineEvent struct {
	EventType string `json:"e"`
	EventTime int64  `json:"E"`
	Symbol    string `json:"s"`
	Kline     Kline  `json:"k"`
}

func (*KlineEvent) event() {}

// ContinuousKlineEvent is the futures continuous-contract candle update.
type ContinuousKlineEvent struct {
	EventType    string `json:"e"`
	EventTime    int64  `json:"E"`
	Pair         string `json:"ps"`
	ContractType string `json:"ct"`
	Kline        Kline  `json:"k"`
}

func (*ContinuousKlineEvent) event() {}

// IndexKlineEvent is the futures index-price candle update.
type IndexKlineEvent struct {
	EventType string `json:"e"`
	EventTime int64  `json:"E"`
	Pair      string `json:"ps"`
	Kline     Kline  `json:"k"`
}

func (*IndexKlineEvent) event() {}

// DayTickerEvent is the rolling 24hr statistics for one symbol.
type DayTickerEvent struct {
	EventType          string      `json:"e"`
	EventTime          int64       `json:"E"`
	Symbol             string      `json:"s"`
	PriceChange        apd.Decimal `json:"p"`
	PriceChangePercent apd.Decimal `json:"P"`
	WeightedAvgPrice   apd.Decimal `json:"w"`
	PrevClose          apd.Decimal `json:"x"`
	CurrentClose       apd.Decimal `json:"c"`
	CurrentCloseQty    apd.Decimal `json:"Q"`
	BestBid            apd.Decimal `json:"b"`
	BestBidQty         apd.Decimal `json:"B"`
	BestAsk            apd.Decimal `json:"a"`
	BestAskQty         apd.Decimal `json:"A"`
	Open               apd.Decimal `json:"o"`
	High               apd.Decimal `json:"h"`
	Low                apd.Decimal `json:"l"`
	Volume             apd.Decimal `json:"v"`
	QuoteVolume        apd.Decimal `json:"q"`
	OpenTime           int64       `json:"O"`
	CloseTime          int64       `json:"C"`
	FirstTradeID       int64       `json:"F"`
	LastTradeID        int64       `json:"L"`
	NumTrades          int64       `json:"n"`
}

func (*DayTickerEvent) event() {}

// DayTickerAllEvent is the all-market rolling 24hr batch.
type DayTickerAllEvent struct {
	Tickers []DayTickerEvent
}

func (*DayTickerAllEvent) event() {}

// MiniTickerEvent is the reduced rolling 24hr statistics for one symbol.
type MiniTickerEvent struct {
	EventType   string      `json:"e"`
	EventTime   int64       `json:"E"`
	Symbol      string      `json:"s"`
	Close       apd.Decimal `json:"c"`
	Open        apd.Decimal `json:"o"`
	High        apd.Decimal `json:"h"`
	Low         apd.Decimal `json:"l"`
	Volume      apd.Decimal `json:"v"`
	QuoteVolume apd.Decimal `json:"q"`
}

func (*MiniTickerEvent) event() {}

// MiniTickerAllEvent is the all-market mini ticker batch.
type MiniTickerAllEvent struct {
	Tickers []MiniTickerEvent
}

func (*MiniTickerAllEvent) event() {}

// IndexPriceEvent is the futures index price update.
type IndexPriceEvent struct {
	EventType string      `json:"e"`
	EventTime int64       `json:"E"`
	Pair      string      `json:"i"`
	Price     apd.Decimal `json:"p"`
}

func (*IndexPriceEvent) event() {}

// MarkPriceEvent is the futures mark price and funding update.
type MarkPriceEvent struct {
	EventType            string      `json:"e"`
	EventTime            int64       `json:"E"`
	Symbol               string      `json:"s"`
	MarkPrice            apd.Decimal `json:"p"`
	IndexPrice           apd.Decimal `json:"i"`
	EstimatedSettlePrice apd.Decimal `json:"P"`
	FundingRate          apd.Decimal `json:"r"`
	NextFundingTime      int64       `json:"T"`
}

func (*MarkPriceEvent) event() {}

// MarkPriceAllEvent is the all-market mark price batch.
type MarkPriceAllEvent struct {
	Prices []MarkPriceEvent
}

func (*MarkPriceAllEvent) event() {}

// LiquidationOrder is the order body inside a liquidation event.
type LiquidationOrder struct {
	Symbol        string      `json:"s"`
	Side          string      `json:"S"`
	OrderType     string      `json:"o"`
	TimeInForce   string      `json:"f"`
	Qty           apd.Decimal `json:"q"`
	Price         apd.Decimal `json:"p"`
	AvgPrice      apd.Decimal `json:"ap"`
	Status        string      `json:"X"`
	LastFilledQty apd.Decimal `json:"l"`
	AccumQty      apd.Decimal `json:"z"`
	TradeTime     int64       `json:"T"`
}

// LiquidationEvent is a futures forced liquidation.
type LiquidationEvent struct {
	EventType string           `json:"e"`
	EventTime int64            `json:"E"`
	Order     LiquidationOrder `json:"o"`
}

func (*LiquidationEvent) event() {}

// DepthUpdateEvent is an incremental order-book diff.
type DepthUpdateEvent struct {
	EventType     string  `json:"e"`
	EventTime     int64   `json:"E"`
	Symbol        string  `json:"s"`
	FirstUpdateID int64   `json:"U"`
	FinalUpdateID int64   `json:"u"`
	Bids          []Level `json:"b"`
	Asks          []Level `json:"a"`
}

func (*DepthUpdateEvent) event() {}

// PartialDepthEvent is the untagged top-of-book snapshot pushed by partial
// depth streams.
type PartialDepthEvent struct {
	LastUpdateID int64   `json:"lastUpdateId"`
	Bids         []Level `json:"bids"`
	Asks         []Level `json:"asks"`
}

func (*PartialDepthEvent) event() {}

// BookTickerEvent is the untagged best bid/ask update.
type BookTickerEvent struct {
	UpdateID int64       `json:"u"`
	Symbol   string      `json:"s"`
	BidPrice apd.Decimal `json:"b"`
	BidQty   apd.Decimal `json:"B"`
	AskPrice apd.Decimal `json:"a"`
	AskQty   apd.Decimal `json:"A"`
}

func (*BookTickerEvent) event() {}

// EventBalance is one asset balance inside an account update.
type EventBalance struct {
	Asset  string      `json:"a"`
	Free   apd.Decimal `json:"f"`
	Locked apd.Decimal `json:"l"`
}

// AccountUpdateEvent is the private account position snapshot.
type AccountUpdateEvent struct {
	EventType  string         `json:"e"`
	EventTime  int64          `json:"E"`
	LastUpdate int64          `json:"u"`
	Balances   []EventBalance `json:"B"`
}

func (*AccountUpdateEvent) event() {}

// BalanceUpdateEvent is a private single-asset balance delta.
type BalanceUpdateEvent struct {
	EventType string      `json:"e"`
	EventTime int64       `json:"E"`
	Asset     string      `json:"a"`
	Delta     apd.Decimal `json:"d"`
	ClearTime int64       `json:"T"`
}

func (*BalanceUpdateEvent) event() {}

// OrderTradeEvent is the private execution report for one of the caller's
// orders.
type OrderTradeEvent struct {
	EventType         string      `json:"e"`
	EventTime         int64       `json:"E"`
	Symbol            string      `json:"s"`
	ClientOrderID     string      `json:"c"`
	Side              string      `json:"S"`
	OrderType         string      `json:"o"`
	TimeInForce       string      `json:"f"`
	Qty               apd.Decimal `json:"q"`
	Price             apd.Decimal `json:"p"`
	StopPrice         apd.Decimal `json:"P"`
	IcebergQty        apd.Decimal `json:"F"`
	OrderListID       int64       `json:"g"`
	OrigClientOrderID string      `json:"C"`
	ExecutionType     string      `json:"x"`
	OrderStatus       string      `json:"X"`
	RejectReason      string      `json:"r"`
	OrderID           int64       `json:"i"`
	LastFilledQty     apd.Decimal `json:"l"`
	AccumFilledQty    apd.Decimal `json:"z"`
	LastFilledPrice   apd.Decimal `json:"L"`
	Commission        apd.Decimal `json:"n"`
	CommissionAsset   string      `json:"N"`
	TradeTime         int64       `json:"T"`
	TradeID           int64       `json:"t"`

	// Reserved wire slots; bound so they cannot fold into i and m.
	ReservedI int64 `json:"I"`
	ReservedM bool  `json:"M"`

	IsWorking     bool        `json:"w"`
	IsBuyerMaker  bool        `json:"m"`
	CreationTime  int64       `json:"O"`
	AccumQuoteQty apd.Decimal `json:"Z"`
	LastQuoteQty  apd.Decimal `json:"Y"`
	QuoteOrderQty apd.Decimal `json:"Q"`
}

func (*OrderTradeEvent) event() {}

// UserDataStreamExpiredEvent signals that the listen key lapsed and the
// private stream must be restarted.
type UserDataStreamExpiredEvent struct {
	EventType string `json:"e"`
	EventTime int64  `json:"E"`
}

func (*UserDataStreamExpiredEvent) event() {}
