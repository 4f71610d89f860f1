package rest

// route is the closed set of symbolic identifiers for exchange REST routes.
type route int

const (
	routeUnknown route = iota

	spotPing
	spotTime
	spotExchangeInfo
	spotDepth
	spotTrades
	spotHistoricalTrades
	spotAggTrades
	spotKlines
	spotAvgPrice
	spotTicker24hr
	spotPrice
	spotBookTicker
	spotOrder
	spotOrderTest
	spotOpenOrders
	spotAllOrders
	spotAccount
	spotMyTrades
	spotUserDataStream

	futuresPing
	futuresTime
	futuresExchangeInfo
	futuresDepth
	futuresTrades
	futuresAggTrades
	futuresKlines
	futuresPremiumIndex
	futuresFundingRate
	futuresTicker24hr
	futuresTickerPrice
	futuresBookTicker
	futuresOpenInterest
	futuresUserDataStream
	futuresHistDataID
	futuresHistDataLink

	downloadLink
)

// Endpoint identifies one REST route. The zero value is invalid. The
// DownloadLink variant carries an absolute URL that the dispatcher uses
// verbatim instead of prefixing the configured host.
type Endpoint struct {
	route    route
	override string
}

// Spot API endpoints.
var (
	SpotPing             = Endpoint{route: spotPing}
	SpotTime             = Endpoint{route: spotTime}
	SpotExchangeInfo     = Endpoint{route: spotExchangeInfo}
	SpotDepth            = Endpoint{route: spotDepth}
	SpotTrades           = Endpoint{route: spotTrades}
	SpotHistoricalTrades = Endpoint{route: spotHistoricalTrades}
	SpotAggTrades        = Endpoint{route: spotAggTrades}
	SpotKlines           = Endpoint{route: spotKlines}
	SpotAvgPrice         = Endpoint{route: spotAvgPrice}
	SpotTicker24hr       = Endpoint{route: spotTicker24hr}
	SpotPrice            = Endpoint{route: spotPrice}
	SpotBookTicker       = Endpoint{route: spotBookTicker}
	SpotOrder            = Endpoint{route: spotOrder}
	SpotOrderTest        = Endpoint{route: spotOrderTest}
	SpotOpenOrders       = Endpoint{route: spotOpenOrders}
	SpotAllOrders        = Endpoint{route: spotAllOrders}
	SpotAccount          = Endpoint{route: spotAccount}
	SpotMyTrades         = Endpoint{route: spotMyTrades}
	SpotUserDataStream   = Endpoint{route: spotUserDataStream}
)

// USD-M futures API endpoints.
var (
	FuturesPing           = Endpoint{route: futuresPing}
	FuturesTime           = Endpoint{route: futuresTime}
	FuturesExchangeInfo   = Endpoint{route: futuresExchangeInfo}
	FuturesDepth          = Endpoint{route: futuresDepth}
	FuturesTrades         = Endpoint{route: futuresTrades}
	FuturesAggTrades      = Endpoint{route: futuresAggTrades}
	FuturesKlines         = Endpoint{route: futuresKlines}
	FuturesPremiumIndex   = Endpoint{route: futuresPremiumIndex}
	FuturesFundingRate    = Endpoint{route: futuresFundingRate}
	FuturesTicker24hr     = Endpoint{route: futuresTicker24hr}
	FuturesTickerPrice    = Endpoint{route: futuresTickerPrice}
	FuturesBookTicker     = Endpoint{route: futuresBookTicker}
	FuturesOpenInterest   = Endpoint{route: futuresOpenInterest}
	FuturesUserDataStream = Endpoint{route: futuresUserDataStream}
	FuturesHistDataID     = Endpoint{route: futuresHistDataID}
	FuturesHistDataLink   = Endpoint{route: futuresHistDataLink}
)

// DownloadLink wraps an out-of-band absolute URL, such as the historical-data
// download links the exchange hands back, so it can be fetched through the
// same dispatch pipeline.
func DownloadLink(url string) Endpoint {
	return Endpoint{route: downloadLink, override: url}
}

// Absolute reports whether the endpoint resolves to a full URL that must not
// be prefixed with the configured host.
func (e Endpoint) Absolute() bool {
	return e.route == downloadLink
}

// Path returns the route's path template, or the override URL for the
// DownloadLink variant. The mapping is total over the closed route set.
func (e Endpoint) Path() string {
	switch e.route {
	case spotPing:
		return "/api/v3/ping"
	case spotTime:
		return "/api/v3/time"
	case spotExchangeInfo:
		return "/api/v3/exchangeInfo"
	case spotDepth:
		return "/api/v3/depth"
	case spotTrades:
		return "/api/v3/trades"
	case spotHistoricalTrades:
		return "/api/v3/historicalTrades"
	case spotAggTrades:
		return "/api/v3/aggTrades"
	case spotKlines:
		return "/api/v3/klines"
	case spotAvgPrice:
		return "/api/v3/avgPrice"
	case spotTicker24hr:
		return "/api/v3/ticker/24hr"
	case spotPrice:
		return "/api/v3/ticker/price"
	case spotBookTicker:
		return "/api/v3/ticker/bookTicker"
	case spotOrder:
		return "/api/v3/order"
	case spotOrderTest:
		return "/api/v3/order/test"
	case spotOpenOrders:
		return "/api/v3/openOrders"
	case spotAllOrders:
		return "/api/v3/allOrders"
	case spotAccount:
		return "/api/v3/account"
	case spotMyTrades:
		return "/api/v3/myTrades"
	case spotUserDataStream:
		return "/api/v3/userDataStream"
	case futuresPing:
		return "/fapi/v1/ping"
	case futuresTime:
		return "/fapi/v1/time"
	case futuresExchangeInfo:
		return "/fapi/v1/exchangeInfo"
	case futuresDepth:
		return "/fapi/v1/depth"
	case futuresTrades:
		return "/fapi/v1/trades"
	case futuresAggTrades:
		return "/fapi/v1/aggTrades"
	case futuresKlines:
		return "/fapi/v1/klines"
	case futuresPremiumIndex:
		return "/fapi/v1/premiumIndex"
	case futuresFundingRate:
		return "/fapi/v1/fundingRate"
	case futuresTicker24hr:
		return "/fapi/v1/ticker/24hr"
	case futuresTickerPrice:
		return "/fapi/v1/ticker/price"
	case futuresBookTicker:
		return "/fapi/v1/ticker/bookTicker"
	case futuresOpenInterest:
		return "/fapi/v1/openInterest"
	case futuresUserDataStream:
		return "/fapi/v1/listenKey"
	case futuresHistDataID:
		return "/sapi/v1/futuresHistDataId"
	case futuresHistDataLink:
		return "/sapi/v1/downloadLink"
	case downloadLink:
		return e.override
	default:
		return ""
	}
}
