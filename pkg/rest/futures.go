package rest

import (
	"context"
	"strconv"

	"nakula/internal/sign"
)

// Futures covers the USD-M futures market-data endpoints plus the
// historical-data download flow.
type Futures struct {
	client *Client
}

// NewFutures wraps a dispatcher.
func NewFutures(client *Client) *Futures {
	return &Futures{client: client}
}

// Ping tests futures REST connectivity.
func (f *Futures) Ping(ctx context.Context) error {
	_, err := f.client.Get(ctx, FuturesPing, nil)
	return err
}

// ServerTime returns the futures exchange clock.
func (f *Futures) ServerTime(ctx context.Context) (ServerTime, error) {
	body, err := f.client.Get(ctx, FuturesTime, nil)
	if err != nil {
		return ServerTime{}, err
	}
	return decodeInto[ServerTime](body, "server time")
}

// ExchangeInfo returns the futures trading rules.
func (f *Futures) ExchangeInfo(ctx context.Context) (ExchangeInfo, error) {
	body, err := f.client.Get(ctx, FuturesExchangeInfo, nil)
	if err != nil {
		return ExchangeInfo{}, err
	}
	return decodeInto[ExchangeInfo](body, "exchange info")
}

// Depth returns the futures order book; limit is omitted when zero.
func (f *Futures) Depth(ctx context.Context, symbol string, limit int) (OrderBook, error) {
	params := symbolParams(symbol)
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	body, err := f.client.Get(ctx, FuturesDepth, params)
	if err != nil {
		return OrderBook{}, err
	}
	return decodeInto[OrderBook](body, "order book")
}

// MarkPrice returns the mark price and funding data for one symbol.
func (f *Futures) MarkPrice(ctx context.Context, symbol string) (PremiumIndex, error) {
	body, err := f.client.Get(ctx, FuturesPremiumIndex, symbolParams(symbol))
	if err != nil {
		return PremiumIndex{}, err
	}
	return decodeInto[PremiumIndex](body, "premium index")
}

// AllMarkPrices returns the mark price for every futures symbol.
func (f *Futures) AllMarkPrices(ctx context.Context) ([]PremiumIndex, error) {
	body, err := f.client.Get(ctx, FuturesPremiumIndex, nil)
	if err != nil {
		return nil, err
	}
	return decodeInto[[]PremiumIndex](body, "premium indexes")
}

// FundingRate returns historical funding-rate samples; limit is omitted when
// zero.
func (f *Futures) FundingRate(ctx context.Context, symbol string, limit int) ([]FundingRate, error) {
	params := symbolParams(symbol)
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	body, err := f.client.Get(ctx, FuturesFundingRate, params)
	if err != nil {
		return nil, err
	}
	return decodeInto[[]FundingRate](body, "funding rates")
}

// OpenInterest returns the current open interest for one symbol.
func (f *Futures) OpenInterest(ctx context.Context, symbol string) (OpenInterest, error) {
	body, err := f.client.Get(ctx, FuturesOpenInterest, symbolParams(symbol))
	if err != nil {
		return OpenInterest{}, err
	}
	return decodeInto[OpenInterest](body, "open interest")
}

// RequestHistData asks the exchange to prepare a historical-data archive and
// returns the request id to poll with HistDataLink.
func (f *Futures) RequestHistData(ctx context.Context, symbol, dataType string, startTime, endTime int64) (HistDataID, error) {
	params := symbolParams(symbol)
	params["dataType"] = dataType
	params["startTime"] = strconv.FormatInt(startTime, 10)
	params["endTime"] = strconv.FormatInt(endTime, 10)
	body, err := f.client.PostSigned(ctx, FuturesHistDataID, params)
	if err != nil {
		return HistDataID{}, err
	}
	return decodeInto[HistDataID](body, "hist data id")
}

// HistDataLink resolves a download request id to an absolute URL. The link is
// empty until the archive is ready.
func (f *Futures) HistDataLink(ctx context.Context, downloadID int64) (HistDataLink, error) {
	body, err := f.client.GetSigned(ctx, FuturesHistDataLink, sign.Params{
		"downloadId": strconv.FormatInt(downloadID, 10),
	})
	if err != nil {
		return HistDataLink{}, err
	}
	return decodeInto[HistDataLink](body, "hist data link")
}

// Download fetches a prepared archive from its absolute link, bypassing host
// resolution but keeping status classification.
func (f *Futures) Download(ctx context.Context, link string) ([]byte, error) {
	return f.client.GetSignedBytes(ctx, DownloadLink(link), nil)
}
