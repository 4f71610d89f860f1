// Package book maintains a local order book from depth stream events and
// derives spread and volume statistics with exact decimal arithmetic.
package book

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cockroachdb/apd/v3"
	"github.com/rs/zerolog"

	"nakula/pkg/stream"
)

// decCtx bounds all book arithmetic; 50 digits comfortably exceeds any
// exchange tick or lot precision.
var decCtx = apd.Context{
	Precision:   50,
	MaxExponent: apd.MaxExponent,
	MinExponent: apd.MinExponent,
	Rounding:    apd.RoundHalfUp,
}

// Level is one aggregated price level.
type Level struct {
	Price apd.Decimal `json:"price"`
	Qty   apd.Decimal `json:"qty"`
}

// Book is a thread-safe order book for one symbol. It is seeded with a
// snapshot and kept current by applying incremental diffs; diffs older than
// the book's sequence number are ignored.
type Book struct {
	symbol string
	logger zerolog.Logger

	mu           sync.RWMutex
	bids         map[string]*apd.Decimal
	asks         map[string]*apd.Decimal
	lastUpdateID int64
}

// New creates an empty book for symbol.
func New(symbol string) *Book {
	return &Book{
		symbol: symbol,
		logger: zerolog.Nop(),
		bids:   make(map[string]*apd.Decimal),
		asks:   make(map[string]*apd.Decimal),
	}
}

// SetLogger installs a logger; the default discards everything.
func (b *Book) SetLogger(logger zerolog.Logger) {
	b.logger = logger
}

// Symbol returns the symbol this book tracks.
func (b *Book) Symbol() string {
	return b.symbol
}

// LastUpdateID returns the book's current sequence number.
func (b *Book) LastUpdateID() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastUpdateID
}

// Apply routes a stream event into the book. Snapshot events replace the
// book, diff events update it; anything else is ignored. Returns true if the
// event changed the book.
func (b *Book) Apply(event stream.Event) bool {
	switch e := event.(type) {
	case *stream.PartialDepthEvent:
		b.ApplySnapshot(e)
		return true
	case *stream.DepthUpdateEvent:
		return b.ApplyDiff(e)
	default:
		return false
	}
}

// ApplySnapshot replaces the book's contents with the snapshot.
func (b *Book) ApplySnapshot(e *stream.PartialDepthEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.bids = make(map[string]*apd.Decimal, len(e.Bids))
	b.asks = make(map[string]*apd.Decimal, len(e.Asks))
	for i := range e.Bids {
		setLevel(b.bids, &e.Bids[i])
	}
	for i := range e.Asks {
		setLevel(b.asks, &e.Asks[i])
	}
	b.lastUpdateID = e.LastUpdateID

	b.logger.Debug().
		Str("symbol", b.symbol).
		Int64("last_update_id", e.LastUpdateID).
		Msg("order book snapshot applied")
}

// ApplyDiff applies an incremental update. A zero quantity removes the level.
// Diffs whose final sequence number is not beyond the book's are stale and
// are dropped; returns true if the diff was applied.
func (b *Book) ApplyDiff(e *stream.DepthUpdateEvent) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if e.FinalUpdateID <= b.lastUpdateID {
		b.logger.Debug().
			Str("symbol", b.symbol).
			Int64("final_update_id", e.FinalUpdateID).
			Int64("last_update_id", b.lastUpdateID).
			Msg("stale depth diff dropped")
		return false
	}

	for i := range e.Bids {
		setLevel(b.bids, &e.Bids[i])
	}
	for i := range e.Asks {
		setLevel(b.asks, &e.Asks[i])
	}
	b.lastUpdateID = e.FinalUpdateID
	return true
}

func setLevel(side map[string]*apd.Decimal, l *stream.Level) {
	key := l.Price.String()
	if l.Qty.IsZero() {
		delete(side, key)
		return
	}
	var qty apd.Decimal
	qty.Set(&l.Qty)
	side[key] = &qty
}

// BestBid returns the highest bid, if any.
func (b *Book) BestBid() (Level, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return bestLevel(b.bids, func(candidate, best *apd.Decimal) bool {
		return candidate.Cmp(best) > 0
	})
}

// BestAsk returns the lowest ask, if any.
func (b *Book) BestAsk() (Level, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return bestLevel(b.asks, func(candidate, best *apd.Decimal) bool {
		return candidate.Cmp(best) < 0
	})
}

func bestLevel(side map[string]*apd.Decimal, better func(candidate, best *apd.Decimal) bool) (Level, bool) {
	var best Level
	found := false
	for priceStr, qty := range side {
		var price apd.Decimal
		if _, _, err := price.SetString(priceStr); err != nil {
			continue
		}
		if !found || better(&price, &best.Price) {
			best.Price = price
			best.Qty.Set(qty)
			found = true
		}
	}
	return best, found
}

// Spread returns the best ask minus the best bid. False when either side is
// empty.
func (b *Book) Spread() (apd.Decimal, bool) {
	bid, okBid := b.BestBid()
	ask, okAsk := b.BestAsk()

	var spread apd.Decimal
	if !okBid || !okAsk {
		return spread, false
	}
	if _, err := decCtx.Sub(&spread, &ask.Price, &bid.Price); err != nil {
		return spread, false
	}
	return spread, true
}

// Snapshot returns both sides sorted by price, bids descending and asks
// ascending, truncated to depth levels per side when depth is positive.
func (b *Book) Snapshot(depth int) (bids, asks []Level) {
	b.mu.RLock()
	bids = collectLevels(b.bids)
	asks = collectLevels(b.asks)
	b.mu.RUnlock()

	sort.Slice(bids, func(i, j int) bool {
		return bids[i].Price.Cmp(&bids[j].Price) > 0
	})
	sort.Slice(asks, func(i, j int) bool {
		return asks[i].Price.Cmp(&asks[j].Price) < 0
	})

	if depth > 0 {
		if len(bids) > depth {
			bids = bids[:depth]
		}
		if len(asks) > depth {
			asks = asks[:depth]
		}
	}
	return bids, asks
}

func collectLevels(side map[string]*apd.Decimal) []Level {
	levels := make([]Level, 0, len(side))
	for priceStr, qty := range side {
		var price apd.Decimal
		if _, _, err := price.SetString(priceStr); err != nil {
			continue
		}
		var l Level
		l.Price = price
		l.Qty.Set(qty)
		levels = append(levels, l)
	}
	return levels
}

// VWAP computes the volume-weighted average price over the top depth levels
// of both sides. Fails when the book holds no volume.
func (b *Book) VWAP(depth int) (apd.Decimal, error) {
	bids, asks := b.Snapshot(depth)

	var totalValue, totalVolume apd.Decimal
	accumulate := func(levels []Level) error {
		for i := range levels {
			var value apd.Decimal
			if _, err := decCtx.Mul(&value, &levels[i].Price, &levels[i].Qty); err != nil {
				return err
			}
			if _, err := decCtx.Add(&totalValue, &totalValue, &value); err != nil {
				return err
			}
			if _, err := decCtx.Add(&totalVolume, &totalVolume, &levels[i].Qty); err != nil {
				return err
			}
		}
		return nil
	}

	var vwap apd.Decimal
	if err := accumulate(bids); err != nil {
		return vwap, fmt.Errorf("accumulate bids: %w", err)
	}
	if err := accumulate(asks); err != nil {
		return vwap, fmt.Errorf("accumulate asks: %w", err)
	}
	if totalVolume.IsZero() {
		return vwap, fmt.Errorf("no volume in order book for %s", b.symbol)
	}
	if _, err := decCtx.Quo(&vwap, &totalValue, &totalVolume); err != nil {
		return vwap, fmt.Errorf("calculate vwap: %w", err)
	}
	// Quo pads the quotient to full precision; strip the trailing zeros.
	vwap.Reduce(&vwap)
	return vwap, nil
}
