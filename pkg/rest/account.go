package rest

import (
	"context"
	"strconv"
	"strings"

	"nakula/internal/sign"
	"nakula/pkg/core"
)

// Order sides, types and time-in-force values accepted by the exchange.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"

	OrderTypeLimit           = "LIMIT"
	OrderTypeMarket          = "MARKET"
	OrderTypeStopLoss        = "STOP_LOSS"
	OrderTypeStopLossLimit   = "STOP_LOSS_LIMIT"
	OrderTypeTakeProfit      = "TAKE_PROFIT"
	OrderTypeTakeProfitLimit = "TAKE_PROFIT_LIMIT"
	OrderTypeLimitMaker      = "LIMIT_MAKER"

	TimeInForceGTC = "GTC"
	TimeInForceIOC = "IOC"
	TimeInForceFOK = "FOK"
)

// OrderRequest describes a new order. Quantities and prices are decimal
// strings so caller-chosen precision reaches the wire unchanged; empty
// optional fields are omitted.
type OrderRequest struct {
	Symbol           string
	Side             string
	Type             string
	TimeInForce      string
	Quantity         string
	QuoteOrderQty    string
	Price            string
	NewClientOrderID string
	StopPrice        string
	IcebergQty       string
}

func (r OrderRequest) params() sign.Params {
	params := sign.Params{
		"symbol": strings.ToUpper(r.Symbol),
		"side":   r.Side,
		"type":   r.Type,
	}
	if r.TimeInForce != "" {
		params["timeInForce"] = r.TimeInForce
	}
	if r.Quantity != "" {
		params["quantity"] = r.Quantity
	}
	if r.QuoteOrderQty != "" {
		params["quoteOrderQty"] = r.QuoteOrderQty
	}
	if r.Price != "" {
		params["price"] = r.Price
	}
	if r.NewClientOrderID != "" {
		params["newClientOrderId"] = r.NewClientOrderID
	}
	if r.StopPrice != "" {
		params["stopPrice"] = r.StopPrice
	}
	if r.IcebergQty != "" {
		params["icebergQty"] = r.IcebergQty
	}
	return params
}

// Account covers the authenticated spot trading and account endpoints. All
// calls require credentials with a valid secret.
type Account struct {
	client *Client
}

// NewAccount wraps a dispatcher.
func NewAccount(client *Client) *Account {
	return &Account{client: client}
}

// Information returns the account snapshot: commissions, permissions and
// balances.
func (a *Account) Information(ctx context.Context) (AccountInformation, error) {
	body, err := a.client.GetSigned(ctx, SpotAccount, nil)
	if err != nil {
		return AccountInformation{}, err
	}
	return decodeInto[AccountInformation](body, "account information")
}

// Balance returns one asset's balance from the account snapshot.
func (a *Account) Balance(ctx context.Context, asset string) (Balance, error) {
	info, err := a.Information(ctx)
	if err != nil {
		return Balance{}, err
	}
	upper := strings.ToUpper(asset)
	for _, b := range info.Balances {
		if b.Asset == upper {
			return b, nil
		}
	}
	return Balance{}, core.ErrAssetNotFound
}

// OpenOrders returns the resting orders for one symbol.
func (a *Account) OpenOrders(ctx context.Context, symbol string) ([]Order, error) {
	body, err := a.client.GetSigned(ctx, SpotOpenOrders, symbolParams(symbol))
	if err != nil {
		return nil, err
	}
	return decodeInto[[]Order](body, "open orders")
}

// AllOpenOrders returns every resting order across all symbols. Weighted
// heavily by the exchange.
func (a *Account) AllOpenOrders(ctx context.Context) ([]Order, error) {
	body, err := a.client.GetSigned(ctx, SpotOpenOrders, nil)
	if err != nil {
		return nil, err
	}
	return decodeInto[[]Order](body, "open orders")
}

// AllOrders returns the order history for one symbol; limit is omitted when
// zero.
func (a *Account) AllOrders(ctx context.Context, symbol string, limit int) ([]Order, error) {
	params := symbolParams(symbol)
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	body, err := a.client.GetSigned(ctx, SpotAllOrders, params)
	if err != nil {
		return nil, err
	}
	return decodeInto[[]Order](body, "orders")
}

// OrderStatus returns one order by exchange-assigned id.
func (a *Account) OrderStatus(ctx context.Context, symbol string, orderID int64) (Order, error) {
	params := symbolParams(symbol)
	params["orderId"] = strconv.FormatInt(orderID, 10)
	body, err := a.client.GetSigned(ctx, SpotOrder, params)
	if err != nil {
		return Order{}, err
	}
	return decodeInto[Order](body, "order")
}

// LimitBuy places a GTC limit buy.
func (a *Account) LimitBuy(ctx context.Context, symbol, qty, price string) (Transaction, error) {
	return a.PlaceOrder(ctx, OrderRequest{
		Symbol:      symbol,
		Side:        SideBuy,
		Type:        OrderTypeLimit,
		TimeInForce: TimeInForceGTC,
		Quantity:    qty,
		Price:       price,
	})
}

// LimitSell places a GTC limit sell.
func (a *Account) LimitSell(ctx context.Context, symbol, qty, price string) (Transaction, error) {
	return a.PlaceOrder(ctx, OrderRequest{
		Symbol:      symbol,
		Side:        SideSell,
		Type:        OrderTypeLimit,
		TimeInForce: TimeInForceGTC,
		Quantity:    qty,
		Price:       price,
	})
}

// MarketBuy places a market buy sized in the base asset.
func (a *Account) MarketBuy(ctx context.Context, symbol, qty string) (Transaction, error) {
	return a.PlaceOrder(ctx, OrderRequest{
		Symbol:   symbol,
		Side:     SideBuy,
		Type:     OrderTypeMarket,
		Quantity: qty,
	})
}

// MarketSell places a market sell sized in the base asset.
func (a *Account) MarketSell(ctx context.Context, symbol, qty string) (Transaction, error) {
	return a.PlaceOrder(ctx, OrderRequest{
		Symbol:   symbol,
		Side:     SideSell,
		Type:     OrderTypeMarket,
		Quantity: qty,
	})
}

// MarketBuyWithQuoteQty places a market buy sized in the quote asset.
func (a *Account) MarketBuyWithQuoteQty(ctx context.Context, symbol, quoteQty string) (Transaction, error) {
	return a.PlaceOrder(ctx, OrderRequest{
		Symbol:        symbol,
		Side:          SideBuy,
		Type:          OrderTypeMarket,
		QuoteOrderQty: quoteQty,
	})
}

// MarketSellWithQuoteQty places a market sell sized in the quote asset.
func (a *Account) MarketSellWithQuoteQty(ctx context.Context, symbol, quoteQty string) (Transaction, error) {
	return a.PlaceOrder(ctx, OrderRequest{
		Symbol:        symbol,
		Side:          SideSell,
		Type:          OrderTypeMarket,
		QuoteOrderQty: quoteQty,
	})
}

// PlaceOrder submits a fully specified order.
func (a *Account) PlaceOrder(ctx context.Context, req OrderRequest) (Transaction, error) {
	body, err := a.client.PostSigned(ctx, SpotOrder, req.params())
	if err != nil {
		return Transaction{}, err
	}
	return decodeInto[Transaction](body, "transaction")
}

// TestOrder validates an order against the exchange's rules and signature
// checks without placing it.
func (a *Account) TestOrder(ctx context.Context, req OrderRequest) error {
	_, err := a.client.PostSigned(ctx, SpotOrderTest, req.params())
	return err
}

// CancelOrder cancels by exchange-assigned id.
func (a *Account) CancelOrder(ctx context.Context, symbol string, orderID int64) (OrderCanceled, error) {
	params := symbolParams(symbol)
	params["orderId"] = strconv.FormatInt(orderID, 10)
	return a.cancel(ctx, params)
}

// CancelOrderWithClientID cancels by the caller-assigned client order id.
func (a *Account) CancelOrderWithClientID(ctx context.Context, symbol, clientOrderID string) (OrderCanceled, error) {
	params := symbolParams(symbol)
	params["origClientOrderId"] = clientOrderID
	return a.cancel(ctx, params)
}

func (a *Account) cancel(ctx context.Context, params sign.Params) (OrderCanceled, error) {
	body, err := a.client.DeleteSigned(ctx, SpotOrder, params)
	if err != nil {
		return OrderCanceled{}, err
	}
	return decodeInto[OrderCanceled](body, "order cancel")
}

// TradeHistory returns the caller's own fills for one symbol.
func (a *Account) TradeHistory(ctx context.Context, symbol string) ([]TradeHistory, error) {
	body, err := a.client.GetSigned(ctx, SpotMyTrades, symbolParams(symbol))
	if err != nil {
		return nil, err
	}
	return decodeInto[[]TradeHistory](body, "trade history")
}
