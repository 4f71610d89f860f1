package stream

import (
	"bytes"
	"encoding/json"

	"github.com/bytedance/sonic"

	"nakula/pkg/core"
)

// maxEnvelopeDepth caps {stream,data} unwrapping so a malicious payload of
// nested envelopes cannot recurse unboundedly.
const maxEnvelopeDepth = 4

// Decode parses one text payload into its typed event. Combined-stream
// envelopes are unwrapped before discrimination; payloads that match no known
// shape fail with core.UnrecognizedEventError carrying the raw text.
func Decode(data []byte) (Event, error) {
	return decode(data, 0)
}

func decode(data []byte, depth int) (Event, error) {
	if depth > maxEnvelopeDepth {
		return nil, &core.UnrecognizedEventError{Raw: string(data)}
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, &core.UnrecognizedEventError{Raw: string(data)}
	}
	if trimmed[0] == '[' {
		return decodeBatch(trimmed)
	}

	var probe struct {
		EventType string `json:"e"`
		// EventTime binds the E key so it cannot fold into e: sonic, like
		// encoding/json, falls back to case-insensitive field matching.
		EventTime int64           `json:"E"`
		Stream    string          `json:"stream"`
		Data      json.RawMessage `json:"data"`
	}
	if err := sonic.Unmarshal(trimmed, &probe); err != nil {
		return nil, &core.DecodeError{What: "stream payload", Err: err}
	}

	if probe.Stream != "" && len(probe.Data) > 0 {
		return decode(probe.Data, depth+1)
	}
	if probe.EventType != "" {
		return decodeTagged(probe.EventType, trimmed)
	}
	return decodeUntagged(trimmed)
}

func decodeTagged(tag string, data []byte) (Event, error) {
	switch tag {
	case "aggTrade":
		return decodeEventAs[AggTradeEvent](data)
	case "trade":
		return decodeEventAs[TradeEvent](data)
	case "kline":
		return decodeEventAs[KlineEvent](data)
	case "continuous_kline":
		return decodeEventAs[ContinuousKlineEvent](data)
	case "indexPrice_kline":
		return decodeEventAs[IndexKlineEvent](data)
	case "24hrTicker":
		return decodeEventAs[DayTickerEvent](data)
	case "24hrMiniTicker":
		return decodeEventAs[MiniTickerEvent](data)
	case "indexPriceUpdate":
		return decodeEventAs[IndexPriceEvent](data)
	case "markPriceUpdate":
		return decodeEventAs[MarkPriceEvent](data)
	case "forceOrder":
		return decodeEventAs[LiquidationEvent](data)
	case "depthUpdate":
		return decodeEventAs[DepthUpdateEvent](data)
	case "outboundAccountPosition":
		return decodeEventAs[AccountUpdateEvent](data)
	case "balanceUpdate":
		return decodeEventAs[BalanceUpdateEvent](data)
	case "executionReport":
		return decodeEventAs[OrderTradeEvent](data)
	case "listenKeyExpired":
		return decodeEventAs[UserDataStreamExpiredEvent](data)
	default:
		return nil, &core.UnrecognizedEventError{Raw: string(data)}
	}
}

// decodeUntagged handles the two payload shapes the exchange sends without an
// event-type tag: book ticker updates and partial depth snapshots.
func decodeUntagged(data []byte) (Event, error) {
	var bt BookTickerEvent
	if err := sonic.Unmarshal(data, &bt); err == nil && bt.Symbol != "" && bt.UpdateID != 0 {
		return &bt, nil
	}

	var pd PartialDepthEvent
	if err := sonic.Unmarshal(data, &pd); err == nil && pd.LastUpdateID != 0 {
		return &pd, nil
	}

	return nil, &core.UnrecognizedEventError{Raw: string(data)}
}

// decodeBatch handles the !...@arr all-market streams, discriminated on the
// tag of the first element.
func decodeBatch(data []byte) (Event, error) {
	var elems []json.RawMessage
	if err := sonic.Unmarshal(data, &elems); err != nil {
		return nil, &core.DecodeError{What: "stream batch", Err: err}
	}
	if len(elems) == 0 {
		return nil, &core.UnrecognizedEventError{Raw: string(data)}
	}

	var tag struct {
		EventType string `json:"e"`
		EventTime int64  `json:"E"`
	}
	if err := sonic.Unmarshal(elems[0], &tag); err != nil {
		return nil, &core.DecodeError{What: "stream batch element", Err: err}
	}

	switch tag.EventType {
	case "24hrTicker":
		tickers, err := decodeSliceAs[DayTickerEvent](data)
		if err != nil {
			return nil, err
		}
		return &DayTickerAllEvent{Tickers: tickers}, nil
	case "24hrMiniTicker":
		tickers, err := decodeSliceAs[MiniTickerEvent](data)
		if err != nil {
			return nil, err
		}
		return &MiniTickerAllEvent{Tickers: tickers}, nil
	case "markPriceUpdate":
		prices, err := decodeSliceAs[MarkPriceEvent](data)
		if err != nil {
			return nil, err
		}
		return &MarkPriceAllEvent{Prices: prices}, nil
	default:
		return nil, &core.UnrecognizedEventError{Raw: string(data)}
	}
}

func decodeEventAs[T any, PT interface {
	*T
	Event
}](data []byte) (Event, error) {
	var v T
	if err := sonic.Unmarshal(data, &v); err != nil {
		return nil, &core.DecodeError{What: "stream event", Err: err}
	}
	return PT(&v), nil
}

func decodeSliceAs[T any](data []byte) ([]T, error) {
	var v []T
	if err := sonic.Unmarshal(data, &v); err != nil {
		return nil, &core.DecodeError{What: "stream batch", Err: err}
	}
	return v, nil
}
