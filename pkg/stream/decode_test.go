package stream

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nakula/pkg/core"
)

func TestDecode_AggTrade(t *testing.T) {
	payload := `{
		"e": "aggTrade", "E": 1591261134288, "s": "BTCUSDT",
		"a": 424951, "p": "9643.5", "q": "2.358",
		"f": 510417, "l": 510418, "T": 1591261134199, "m": false, "M": true
	}`

	event, err := Decode([]byte(payload))

	require.NoError(t, err)
	trade, ok := event.(*AggTradeEvent)
	require.True(t, ok)
	assert.Equal(t, "aggTrade", trade.EventType)
	assert.Equal(t, int64(1591261134288), trade.EventTime)
	assert.Equal(t, "BTCUSDT", trade.Symbol)
	assert.Equal(t, int64(424951), trade.AggID)
	assert.Equal(t, "9643.5", trade.Price.String())
	assert.Equal(t, "2.358", trade.Qty.String())
	assert.False(t, trade.IsBuyerMaker)
	assert.True(t, trade.IsBestMatch)
}

func TestDecode_Trade(t *testing.T) {
	payload := `{"e":"trade","E":1591677041986,"s":"BNBBTC","t":12345,"p":"0.001","q":"100","b":88,"a":50,"T":1591677041984,"m":true,"M":true}`

	event, err := Decode([]byte(payload))

	require.NoError(t, err)
	trade, ok := event.(*TradeEvent)
	require.True(t, ok)
	assert.Equal(t, int64(12345), trade.TradeID)
	assert.Equal(t, int64(88), trade.BuyerOrderID)
	assert.Equal(t, int64(50), trade.SellerOrderID)
	assert.True(t, trade.IsBuyerMaker)
}

func TestDecode_Kline(t *testing.T) {
	payload := `{
		"e": "kline", "E": 1591261542539, "s": "BNBBTC",
		"k": {
			"t": 1591261500000, "T": 1591261559999, "s": "BNBBTC", "i": "1m",
			"f": 83919, "L": 83942,
			"o": "0.00159400", "c": "0.00159210", "h": "0.00159400", "l": "0.00159090",
			"v": "1057.00000000", "n": 24, "x": false,
			"q": "1.68386862", "V": "409.00000000", "Q": "0.65126065"
		}
	}`

	event, err := Decode([]byte(payload))

	require.NoError(t, err)
	kline, ok := event.(*KlineEvent)
	require.True(t, ok)
	assert.Equal(t, "1m", kline.Kline.Interval)
	assert.Equal(t, "0.00159400", kline.Kline.Open.String())
	assert.False(t, kline.Kline.IsFinal)
	assert.Equal(t, int64(24), kline.Kline.NumberOfTrades)
}

func TestDecode_DayTicker(t *testing.T) {
	payload := `{
		"e": "24hrTicker", "E": 1591268262453, "s": "BNBBTC",
		"p": "0.00008700", "P": "5.839", "w": "0.00153827", "x": "0.00148990",
		"c": "0.00157690", "Q": "2.00000000",
		"b": "0.00157620", "B": "14.00000000", "a": "0.00157690", "A": "1.00000000",
		"o": "0.00148990", "h": "0.00158380", "l": "0.00148020",
		"v": "246677.04000000", "q": "379.47167083",
		"O": 1591181862453, "C": 1591268262453, "F": 71488, "L": 83984, "n": 12497
	}`

	event, err := Decode([]byte(payload))

	require.NoError(t, err)
	ticker, ok := event.(*DayTickerEvent)
	require.True(t, ok)
	assert.Equal(t, "5.839", ticker.PriceChangePercent.String())
	assert.Equal(t, int64(12497), ticker.NumTrades)
}

func TestDecode_AllMarketTickerBatch(t *testing.T) {
	payload := `[
		{"e":"24hrTicker","E":1,"s":"BNBBTC","c":"0.0015"},
		{"e":"24hrTicker","E":1,"s":"ETHBTC","c":"0.025"}
	]`

	event, err := Decode([]byte(payload))

	require.NoError(t, err)
	all, ok := event.(*DayTickerAllEvent)
	require.True(t, ok)
	require.Len(t, all.Tickers, 2)
	assert.Equal(t, "ETHBTC", all.Tickers[1].Symbol)
}

func TestDecode_MiniTickerAndBatch(t *testing.T) {
	single := `{"e":"24hrMiniTicker","E":1,"s":"BNBBTC","c":"0.0015","o":"0.0010","h":"0.0025","l":"0.0010","v":"10000","q":"18"}`

	event, err := Decode([]byte(single))
	require.NoError(t, err)
	mini, ok := event.(*MiniTickerEvent)
	require.True(t, ok)
	assert.Equal(t, "0.0015", mini.Close.String())

	batch := `[{"e":"24hrMiniTicker","E":1,"s":"BNBBTC","c":"0.0015"}]`
	event, err = Decode([]byte(batch))
	require.NoError(t, err)
	all, ok := event.(*MiniTickerAllEvent)
	require.True(t, ok)
	assert.Len(t, all.Tickers, 1)
}

func TestDecode_MarkPriceAndBatch(t *testing.T) {
	single := `{"e":"markPriceUpdate","E":1562305380000,"s":"BTCUSDT","p":"11794.15000000","i":"11784.62659091","P":"11784.25641265","r":"0.00038167","T":1562306400000}`

	event, err := Decode([]byte(single))
	require.NoError(t, err)
	mp, ok := event.(*MarkPriceEvent)
	require.True(t, ok)
	assert.Equal(t, "0.00038167", mp.FundingRate.String())
	// p and P are distinct wire fields and must not bleed into each other.
	assert.Equal(t, "11794.15000000", mp.MarkPrice.String())
	assert.Equal(t, "11784.25641265", mp.EstimatedSettlePrice.String())

	batch := `[{"e":"markPriceUpdate","E":1,"s":"BTCUSDT","p":"11794.15"}]`
	event, err = Decode([]byte(batch))
	require.NoError(t, err)
	all, ok := event.(*MarkPriceAllEvent)
	require.True(t, ok)
	assert.Len(t, all.Prices, 1)
}

func TestDecode_IndexPrice(t *testing.T) {
	payload := `{"e":"indexPriceUpdate","E":1591261236000,"i":"BTCUSD","p":"9636.57860000"}`

	event, err := Decode([]byte(payload))

	require.NoError(t, err)
	ip, ok := event.(*IndexPriceEvent)
	require.True(t, ok)
	assert.Equal(t, "BTCUSD", ip.Pair)
}

func TestDecode_ContinuousAndIndexKline(t *testing.T) {
	cont := `{"e":"continuous_kline","E":1,"ps":"BTCUSDT","ct":"PERPETUAL","k":{"i":"1m","o":"9500","c":"9510","h":"9520","l":"9490","v":"100"}}`

	event, err := Decode([]byte(cont))
	require.NoError(t, err)
	ck, ok := event.(*ContinuousKlineEvent)
	require.True(t, ok)
	assert.Equal(t, "PERPETUAL", ck.ContractType)

	idx := `{"e":"indexPrice_kline","E":1,"ps":"BTCUSD","k":{"i":"1m","o":"9500","c":"9510","h":"9520","l":"9490","v":"0"}}`
	event, err = Decode([]byte(idx))
	require.NoError(t, err)
	ik, ok := event.(*IndexKlineEvent)
	require.True(t, ok)
	assert.Equal(t, "BTCUSD", ik.Pair)
}

func TestDecode_Liquidation(t *testing.T) {
	payload := `{
		"e": "forceOrder", "E": 1591154240950,
		"o": {
			"s": "BTCUSDT", "S": "SELL", "o": "LIMIT", "f": "IOC",
			"q": "0.014", "p": "9910", "ap": "9910", "X": "FILLED",
			"l": "0.014", "z": "0.014", "T": 1591154240949
		}
	}`

	event, err := Decode([]byte(payload))

	require.NoError(t, err)
	liq, ok := event.(*LiquidationEvent)
	require.True(t, ok)
	assert.Equal(t, "SELL", liq.Order.Side)
	assert.Equal(t, "0.014", liq.Order.Qty.String())
}

func TestDecode_DepthUpdate(t *testing.T) {
	payload := `{
		"e": "depthUpdate", "E": 1591270260907, "s": "BNBBTC",
		"U": 2960892186, "u": 2960892191,
		"b": [["0.00157200","146.00000000"]],
		"a": [["0.00157700","21.00000000"],["0.00157800","12.00000000"]]
	}`

	event, err := Decode([]byte(payload))

	require.NoError(t, err)
	depth, ok := event.(*DepthUpdateEvent)
	require.True(t, ok)
	assert.Equal(t, int64(2960892186), depth.FirstUpdateID)
	require.Len(t, depth.Asks, 2)
	assert.Equal(t, "0.00157700", depth.Asks[0].Price.String())
}

func TestDecode_UntaggedPartialDepth(t *testing.T) {
	payload := `{
		"lastUpdateId": 160,
		"bids": [["0.0024","10"]],
		"asks": [["0.0026","100"]]
	}`

	event, err := Decode([]byte(payload))

	require.NoError(t, err)
	pd, ok := event.(*PartialDepthEvent)
	require.True(t, ok)
	assert.Equal(t, int64(160), pd.LastUpdateID)
	assert.Equal(t, "0.0024", pd.Bids[0].Price.String())
}

func TestDecode_UntaggedBookTicker(t *testing.T) {
	payload := `{"u":400900217,"s":"BNBUSDT","b":"25.35190000","B":"31.21000000","a":"25.36520000","A":"40.66000000"}`

	event, err := Decode([]byte(payload))

	require.NoError(t, err)
	bt, ok := event.(*BookTickerEvent)
	require.True(t, ok)
	assert.Equal(t, int64(400900217), bt.UpdateID)
	assert.Equal(t, "25.35190000", bt.BidPrice.String())
}

func TestDecode_AccountUpdate(t *testing.T) {
	payload := `{
		"e": "outboundAccountPosition", "E": 1591696384507, "u": 1591696384506,
		"B": [{"a":"BTC","f":"0.10000000","l":"0.00000000"}]
	}`

	event, err := Decode([]byte(payload))

	require.NoError(t, err)
	acct, ok := event.(*AccountUpdateEvent)
	require.True(t, ok)
	require.Len(t, acct.Balances, 1)
	assert.Equal(t, "BTC", acct.Balances[0].Asset)
	assert.Equal(t, "0.10000000", acct.Balances[0].Free.String())
}

func TestDecode_BalanceUpdate(t *testing.T) {
	payload := `{"e":"balanceUpdate","E":1573200697110,"a":"BTC","d":"100.00000000","T":1573200697068}`

	event, err := Decode([]byte(payload))

	require.NoError(t, err)
	bu, ok := event.(*BalanceUpdateEvent)
	require.True(t, ok)
	assert.Equal(t, "100.00000000", bu.Delta.String())
}

func TestDecode_ExecutionReport(t *testing.T) {
	payload := `{
		"e": "executionReport", "E": 1591696384507, "s": "BNBBTC",
		"c": "web_abc123", "S": "BUY", "o": "LIMIT", "f": "GTC",
		"q": "10.00000000", "p": "0.00157000", "g": -1,
		"x": "TRADE", "X": "FILLED", "r": "NONE",
		"i": 4368385, "l": "10.00000000", "z": "10.00000000", "L": "0.00157000",
		"n": "0.00000157", "N": "BTC", "T": 1591696384506, "t": 162632,
		"I": 8641984, "w": false, "m": true, "M": false, "O": 1591696383637,
		"Z": "0.01570000", "Y": "0.01570000", "Q": "0.00000000"
	}`

	event, err := Decode([]byte(payload))

	require.NoError(t, err)
	report, ok := event.(*OrderTradeEvent)
	require.True(t, ok)
	assert.Equal(t, "FILLED", report.OrderStatus)
	assert.Equal(t, "0.00000157", report.Commission.String())
	assert.Equal(t, "BTC", report.CommissionAsset)
	// The reserved I and M slots must not clobber i and m.
	assert.Equal(t, int64(4368385), report.OrderID)
	assert.True(t, report.IsBuyerMaker)
	assert.Equal(t, int64(-1), report.OrderListID)
}

func TestDecode_ListenKeyExpired(t *testing.T) {
	payload := `{"e":"listenKeyExpired","E":1576653824250}`

	event, err := Decode([]byte(payload))

	require.NoError(t, err)
	expired, ok := event.(*UserDataStreamExpiredEvent)
	require.True(t, ok)
	assert.Equal(t, int64(1576653824250), expired.EventTime)
}

func TestDecode_CombinedStreamEnvelope(t *testing.T) {
	payload := `{
		"stream": "bnbbtc@trade",
		"data": {"e":"trade","E":1,"s":"BNBBTC","t":7,"p":"0.001","q":"5","T":1,"m":false}
	}`

	event, err := Decode([]byte(payload))

	require.NoError(t, err)
	trade, ok := event.(*TradeEvent)
	require.True(t, ok)
	assert.Equal(t, int64(7), trade.TradeID)
}

func TestDecode_EnvelopeRecursionCapped(t *testing.T) {
	inner := `{"e":"trade","E":1,"s":"BNBBTC","t":7,"p":"0.001","q":"5","T":1,"m":false}`
	payload := inner
	for i := 0; i < 6; i++ {
		payload = fmt.Sprintf(`{"stream":"x","data":%s}`, payload)
	}

	_, err := Decode([]byte(payload))

	var ue *core.UnrecognizedEventError
	assert.True(t, errors.As(err, &ue))
}

func TestDecode_UnknownTagPreservesRaw(t *testing.T) {
	payload := `{"e":"somethingNew","E":1,"s":"BNBBTC"}`

	_, err := Decode([]byte(payload))

	var ue *core.UnrecognizedEventError
	require.True(t, errors.As(err, &ue))
	assert.Contains(t, ue.Raw, "somethingNew")
}

func TestDecode_UnknownShapePreservesRaw(t *testing.T) {
	payload := `{"hello":"world"}`

	_, err := Decode([]byte(payload))

	var ue *core.UnrecognizedEventError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, payload, ue.Raw)
}

func TestDecode_MalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`{"e":"trade",`))

	var de *core.DecodeError
	assert.True(t, errors.As(err, &de))
}

func TestDecode_EmptyBatch(t *testing.T) {
	_, err := Decode([]byte(`[]`))

	var ue *core.UnrecognizedEventError
	assert.True(t, errors.As(err, &ue))
}
