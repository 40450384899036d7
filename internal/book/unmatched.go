package book

import (
	"time"

	"github.com/huandu/skiplist"
	"github.com/shopspring/decimal"
)

// Priority is a C6 element: enough information about an order that did not
// (fully) rest on C2 to later notify or re-evaluate it. Totally ordered by
// (price, created_at, order_id), with price priority read relative to the
// side it sits on.
type Priority struct {
	Size      decimal.Decimal
	Price     decimal.Decimal
	OrderID   OrderID
	AcctID    *AcctID
	CreatedAt time.Time
	IP        string
	Port      int
}

// priorityComparator orders Priority records best-price-first for side,
// then oldest-arrival-first, then smallest-order-id-first.
type priorityComparator struct{ side Side }

func (c priorityComparator) Compare(lhs, rhs any) int {
	a, b := lhs.(Priority), rhs.(Priority)

	if !a.Price.Equal(b.Price) {
		better := a.Price.GreaterThan(b.Price)
		if c.side == Sell {
			better = a.Price.LessThan(b.Price)
		}
		if better {
			return -1
		}
		return 1
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		if a.CreatedAt.Before(b.CreatedAt) {
			return -1
		}
		return 1
	}
	switch {
	case a.OrderID == b.OrderID:
		return 0
	case a.OrderID < b.OrderID:
		return -1
	default:
		return 1
	}
}

func (c priorityComparator) CalcScore(key any) float64 {
	p := key.(Priority)
	f, _ := p.Price.Float64()
	if c.side == Buy {
		return -f
	}
	return f
}

// UnmatchedOrderBook (C6) is an auxiliary set of orders that did not rest
// (e.g. IOC remainders), kept priority-sorted per side so a filtered pop
// walks best-price/oldest-first and returns the first match.
type UnmatchedOrderBook struct {
	lists map[Side]*skiplist.SkipList
	ids   map[Side]map[OrderID]struct{}
}

// NewUnmatchedOrderBook returns an empty C6.
func NewUnmatchedOrderBook() *UnmatchedOrderBook {
	return &UnmatchedOrderBook{
		lists: map[Side]*skiplist.SkipList{
			Buy:  skiplist.New(priorityComparator{side: Buy}),
			Sell: skiplist.New(priorityComparator{side: Sell}),
		},
		ids: map[Side]map[OrderID]struct{}{
			Buy:  make(map[OrderID]struct{}),
			Sell: make(map[OrderID]struct{}),
		},
	}
}

// InsertUnmatched adds p to side's set. A no-op if p.OrderID is already
// present, preserving the "unique by order_id" invariant.
func (u *UnmatchedOrderBook) InsertUnmatched(side Side, p Priority) {
	if _, exists := u.ids[side][p.OrderID]; exists {
		return
	}
	u.lists[side].Set(p, p)
	u.ids[side][p.OrderID] = struct{}{}
}

// PopUnmatchedWithFilter walks side's set in priority order and removes and
// returns the first element for which predicate holds.
func (u *UnmatchedOrderBook) PopUnmatchedWithFilter(side Side, predicate func(Priority) bool) (Priority, bool) {
	list := u.lists[side]
	for elem := list.Front(); elem != nil; elem = elem.Next() {
		p := elem.Value.(Priority)
		if predicate(p) {
			list.Remove(p)
			delete(u.ids[side], p.OrderID)
			return p, true
		}
	}
	return Priority{}, false
}

// Len returns the number of pending elements on side.
func (u *UnmatchedOrderBook) Len(side Side) int {
	return u.lists[side].Len()
}
