package book

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestOneSidedBook_BestPriceBidDescAskAsc(t *testing.T) {
	bids := NewOneSidedBook(Buy)
	bids.Insert(&Order{ID: 1, Side: Buy, Size: dec(10), Price: dec(99)})
	bids.Insert(&Order{ID: 2, Side: Buy, Size: dec(10), Price: dec(101)})
	bids.Insert(&Order{ID: 3, Side: Buy, Size: dec(10), Price: dec(100)})

	p, ok := bids.BestPrice()
	assert.True(t, ok)
	assert.True(t, p.Equal(dec(101)), "bid best price should be the maximum")

	asks := NewOneSidedBook(Sell)
	asks.Insert(&Order{ID: 1, Side: Sell, Size: dec(10), Price: dec(99)})
	asks.Insert(&Order{ID: 2, Side: Sell, Size: dec(10), Price: dec(101)})
	asks.Insert(&Order{ID: 3, Side: Sell, Size: dec(10), Price: dec(100)})

	p, ok = asks.BestPrice()
	assert.True(t, ok)
	assert.True(t, p.Equal(dec(99)), "ask best price should be the minimum")
}

func TestOneSidedBook_InsertAppendsSameLevel(t *testing.T) {
	bids := NewOneSidedBook(Buy)
	bids.Insert(&Order{ID: 1, Side: Buy, Size: dec(10), Price: dec(100)})
	bids.Insert(&Order{ID: 2, Side: Buy, Size: dec(5), Price: dec(100)})

	assert.Equal(t, 2, bids.NumOrders())
	assert.True(t, bids.Volume().Equal(dec(15)))

	lvl, ok := bids.Top()
	assert.True(t, ok)
	assert.Equal(t, 2, lvl.queue.Len())
}

func TestOneSidedBook_RemoveEmptiesLevelAndRecomputesBest(t *testing.T) {
	bids := NewOneSidedBook(Buy)
	bids.Insert(&Order{ID: 1, Side: Buy, Size: dec(10), Price: dec(101)})
	bids.Insert(&Order{ID: 2, Side: Buy, Size: dec(10), Price: dec(100)})

	removed, ok := bids.Remove(dec(101), 1)
	assert.True(t, ok)
	assert.Equal(t, OrderID(1), removed.ID)

	p, ok := bids.BestPrice()
	assert.True(t, ok)
	assert.True(t, p.Equal(dec(100)), "best price should fall back to the remaining level")
	assert.Equal(t, 1, bids.NumOrders())

	_, ok = bids.Remove(dec(100), 2)
	assert.True(t, ok)
	_, ok = bids.BestPrice()
	assert.False(t, ok, "side should report no best price once empty")
}

func TestOneSidedBook_DepthInfoOrdering(t *testing.T) {
	asks := NewOneSidedBook(Sell)
	asks.Insert(&Order{ID: 1, Side: Sell, Size: dec(10), Price: dec(101)})
	asks.Insert(&Order{ID: 2, Side: Sell, Size: dec(5), Price: dec(100)})

	depth := asks.DepthInfo(10)
	assert.Len(t, depth, 2)
	assert.True(t, depth[0].Price.Equal(dec(100)))
	assert.True(t, depth[1].Price.Equal(dec(101)))
}
