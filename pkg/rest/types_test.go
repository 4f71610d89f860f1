package rest

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat_DecodesStringAndNumber(t *testing.T) {
	var v struct {
		A Float `json:"a"`
		B Float `json:"b"`
	}

	require.NoError(t, sonic.Unmarshal([]byte(`{"a":"0.00345600","b":12.5}`), &v))

	assert.InDelta(t, 0.003456, float64(v.A), 1e-12)
	assert.InDelta(t, 12.5, float64(v.B), 1e-12)
}

func TestFloat_RejectsGarbage(t *testing.T) {
	var f Float

	assert.Error(t, f.UnmarshalJSON([]byte(`"not-a-number"`)))
}

func TestFilters_DecodesTaggedVariants(t *testing.T) {
	raw := `[
		{"filterType":"PRICE_FILTER","minPrice":"0.00000010","maxPrice":"100000.00000000","tickSize":"0.00000010"},
		{"filterType":"LOT_SIZE","minQty":"0.00100000","maxQty":"100000.00000000","stepSize":"0.00100000"},
		{"filterType":"NOTIONAL","notional":"10.00000000","applyToMarket":true,"avgPriceMins":5},
		{"filterType":"ICEBERG_PARTS","limit":10},
		{"filterType":"SOME_FUTURE_RULE","whatever":1}
	]`

	var fs Filters
	require.NoError(t, sonic.Unmarshal([]byte(raw), &fs))
	require.Len(t, fs, 5)

	pf, ok := fs[0].(*PriceFilter)
	require.True(t, ok)
	assert.Equal(t, "0.00000010", pf.TickSize)

	lf, ok := fs[1].(*LotSizeFilter)
	require.True(t, ok)
	assert.Equal(t, "0.00100000", lf.StepSize)

	nf, ok := fs[2].(*NotionalFilter)
	require.True(t, ok)
	assert.Equal(t, "NOTIONAL", nf.FilterType())
	assert.True(t, nf.ApplyToMarket)

	ip, ok := fs[3].(*IcebergPartsFilter)
	require.True(t, ok)
	assert.Equal(t, 10, ip.Limit)

	uf, ok := fs[4].(*UnknownFilter)
	require.True(t, ok)
	assert.Equal(t, "SOME_FUTURE_RULE", uf.FilterType())
}

func TestFilters_LegacyMinNotionalTagPreserved(t *testing.T) {
	raw := `[{"filterType":"MIN_NOTIONAL","minNotional":"0.00100000"}]`

	var fs Filters
	require.NoError(t, sonic.Unmarshal([]byte(raw), &fs))

	nf, ok := fs[0].(*NotionalFilter)
	require.True(t, ok)
	assert.Equal(t, "MIN_NOTIONAL", nf.FilterType())
	assert.Equal(t, "0.00100000", nf.MinNotional)
}

func TestSymbol_FilterAccessors(t *testing.T) {
	s := Symbol{Filters: Filters{
		&PriceFilter{TickSize: "0.01"},
		&LotSizeFilter{StepSize: "0.001"},
	}}

	pf, ok := s.PriceFilter()
	require.True(t, ok)
	assert.Equal(t, "0.01", pf.TickSize)

	lf, ok := s.LotSizeFilter()
	require.True(t, ok)
	assert.Equal(t, "0.001", lf.StepSize)

	var bare Symbol
	_, ok = bare.PriceFilter()
	assert.False(t, ok)
}

func TestOrderBook_DecodesLevels(t *testing.T) {
	raw := `{
		"lastUpdateId": 1027024,
		"bids": [["4.00000000","431.00000000"]],
		"asks": [["4.00000200","12.00000000"],["4.00000300","3.00000000"]]
	}`

	var book OrderBook
	require.NoError(t, sonic.Unmarshal([]byte(raw), &book))

	assert.Equal(t, int64(1027024), book.LastUpdateID)
	require.Len(t, book.Bids, 1)
	require.Len(t, book.Asks, 2)
	assert.Equal(t, "4.00000000", book.Bids[0].Price.String())
	assert.Equal(t, "431.00000000", book.Bids[0].Qty.String())
	assert.Equal(t, "4.00000300", book.Asks[1].Price.String())
}

func TestLevel_RejectsMalformedPair(t *testing.T) {
	var l Level

	assert.Error(t, l.UnmarshalJSON([]byte(`["abc","1.0"]`)))
	assert.Error(t, l.UnmarshalJSON([]byte(`"4.0"`)))
}

func TestKlineSummary_DecodesArrayRow(t *testing.T) {
	raw := `[
		1499040000000,
		"0.01634790",
		"0.80000000",
		"0.01575800",
		"0.01577100",
		"148976.11427815",
		1499644799999,
		"2434.19055334",
		308,
		"1756.87402397",
		"28.46694368",
		"17928899.62484339"
	]`

	var k KlineSummary
	require.NoError(t, sonic.Unmarshal([]byte(raw), &k))

	assert.Equal(t, int64(1499040000000), k.OpenTime)
	assert.Equal(t, "0.01634790", k.Open)
	assert.Equal(t, "0.80000000", k.High)
	assert.Equal(t, "0.01577100", k.Close)
	assert.Equal(t, int64(1499644799999), k.CloseTime)
	assert.Equal(t, int64(308), k.NumberOfTrades)
	assert.Equal(t, "28.46694368", k.TakerBuyQuoteAssetVolume)
}

func TestKlineSummary_RejectsShortRow(t *testing.T) {
	var k KlineSummary

	assert.Error(t, sonic.Unmarshal([]byte(`[1499040000000,"0.1"]`), &k))
}
