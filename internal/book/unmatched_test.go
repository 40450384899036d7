package book

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUnmatchedOrderBook_PopsBestPriceFirst(t *testing.T) {
	u := NewUnmatchedOrderBook()
	now := time.Now()

	// Buy side: best = highest price.
	u.InsertUnmatched(Buy, Priority{OrderID: 1, Price: dec(99), CreatedAt: now})
	u.InsertUnmatched(Buy, Priority{OrderID: 2, Price: dec(101), CreatedAt: now.Add(time.Second)})
	u.InsertUnmatched(Buy, Priority{OrderID: 3, Price: dec(101), CreatedAt: now})

	p, ok := u.PopUnmatchedWithFilter(Buy, func(Priority) bool { return true })
	assert.True(t, ok)
	assert.Equal(t, OrderID(3), p.OrderID, "same price: oldest arrival wins")

	p, ok = u.PopUnmatchedWithFilter(Buy, func(Priority) bool { return true })
	assert.True(t, ok)
	assert.Equal(t, OrderID(2), p.OrderID)

	assert.Equal(t, 1, u.Len(Buy))
}

func TestUnmatchedOrderBook_FilterSkipsNonMatching(t *testing.T) {
	u := NewUnmatchedOrderBook()
	u.InsertUnmatched(Sell, Priority{OrderID: 1, Price: dec(100), AcctID: acctPtr(1)})
	u.InsertUnmatched(Sell, Priority{OrderID: 2, Price: dec(101), AcctID: acctPtr(2)})

	p, ok := u.PopUnmatchedWithFilter(Sell, func(p Priority) bool {
		return p.AcctID != nil && *p.AcctID == 2
	})
	assert.True(t, ok)
	assert.Equal(t, OrderID(2), p.OrderID)
	assert.Equal(t, 1, u.Len(Sell))
}

func TestUnmatchedOrderBook_DuplicateOrderIDIgnored(t *testing.T) {
	u := NewUnmatchedOrderBook()
	u.InsertUnmatched(Buy, Priority{OrderID: 1, Price: dec(100)})
	u.InsertUnmatched(Buy, Priority{OrderID: 1, Price: dec(105)})
	assert.Equal(t, 1, u.Len(Buy))
}

func TestUnmatchedOrderBook_PopOnEmptyReturnsFalse(t *testing.T) {
	u := NewUnmatchedOrderBook()
	_, ok := u.PopUnmatchedWithFilter(Buy, func(Priority) bool { return true })
	assert.False(t, ok)
}
