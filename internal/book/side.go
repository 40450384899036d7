package book

import (
	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"
)

// priceLevel is the unit stored in a OneSidedBook's ordered map: a price and
// the FIFO queue resting at it.
type priceLevel struct {
	price decimal.Decimal
	queue *OrderQueue
}

// priceLevels is the ordered map backing one side of the book.
type priceLevels = btree.BTreeG[*priceLevel]

// DepthLevel is one row of a book_depth_info report.
type DepthLevel struct {
	Price  decimal.Decimal
	Volume decimal.Decimal
	Count  int
}

// OneSidedBook (C2) is a price-indexed ordered map of OrderQueues. Its best
// price is the extremum of its side: the maximum for bids, the minimum for
// asks.
type OneSidedBook struct {
	side Side

	less   func(a, b *priceLevel) bool
	levels *priceLevels

	totalVolume      decimal.Decimal
	totalVolumeFunds float64 // display-only accumulator, never fed back into sizing
	numOrders        int
	bestPrice        *decimal.Decimal
}

// NewOneSidedBook constructs an empty side. For bids, traversal from best
// goes in descending price; for asks, ascending.
func NewOneSidedBook(side Side) *OneSidedBook {
	var less func(a, b *priceLevel) bool
	if side == Buy {
		less = func(a, b *priceLevel) bool { return a.price.GreaterThan(b.price) }
	} else {
		less = func(a, b *priceLevel) bool { return a.price.LessThan(b.price) }
	}
	return &OneSidedBook{
		side:        side,
		less:        less,
		levels:      btree.NewBTreeG(less),
		totalVolume: decimal.Zero,
	}
}

// Side reports which side of the book this is.
func (b *OneSidedBook) Side() Side { return b.side }

// BestPrice returns the current extremum, or false if the side is empty.
func (b *OneSidedBook) BestPrice() (decimal.Decimal, bool) {
	if b.bestPrice == nil {
		return decimal.Decimal{}, false
	}
	return *b.bestPrice, true
}

// Volume returns the cached sum of resting sizes across every level.
func (b *OneSidedBook) Volume() decimal.Decimal { return b.totalVolume }

// NumOrders returns the cached count of resting orders across every level.
func (b *OneSidedBook) NumOrders() int { return b.numOrders }

// isBetter reports whether price p would become the new best price,
// comparing against the current extremum.
func (b *OneSidedBook) isBetter(p decimal.Decimal) bool {
	if b.bestPrice == nil {
		return true
	}
	if b.side == Buy {
		return p.GreaterThan(*b.bestPrice)
	}
	return p.LessThan(*b.bestPrice)
}

// Insert appends order to the queue at its price, creating the level if
// necessary, and updates cached totals and the best-price cache.
func (b *OneSidedBook) Insert(o *Order) {
	lvl, ok := b.levels.GetMut(&priceLevel{price: o.Price})
	if !ok {
		lvl = &priceLevel{price: o.Price, queue: NewOrderQueue()}
		b.levels.Set(lvl)
	}
	lvl.queue.PushBack(o)

	b.totalVolume = b.totalVolume.Add(o.Size)
	b.totalVolumeFunds += priceFloat(o.Price) * sizeFloat(o.Size)
	b.numOrders++

	if b.isBetter(o.Price) {
		p := o.Price
		b.bestPrice = &p
	}
}

// Remove locates the queue at price, pops the order by id, and — if that
// empties the queue — erases the level and recomputes best price. Empty-
// level cleanup happens before best price is recomputed, per spec §4.5.5.
func (b *OneSidedBook) Remove(price decimal.Decimal, id OrderID) (*Order, bool) {
	lvl, ok := b.levels.GetMut(&priceLevel{price: price})
	if !ok {
		return nil, false
	}
	o, ok := lvl.queue.PopByID(id)
	if !ok {
		return nil, false
	}

	b.totalVolume = b.totalVolume.Sub(o.Size)
	b.totalVolumeFunds -= priceFloat(o.Price) * sizeFloat(o.Size)
	b.numOrders--

	if lvl.queue.IsEmpty() {
		b.levels.Delete(lvl)
		b.recomputeBestPrice()
	}
	return o, true
}

// recomputeBestPrice derives best price from the extremum of the map. It is
// never updated incrementally on partial fills — only when a level empties
// — since it is a derived view, not a source of truth.
func (b *OneSidedBook) recomputeBestPrice() {
	top, ok := b.levels.Min()
	if !ok {
		b.bestPrice = nil
		return
	}
	p := top.price
	b.bestPrice = &p
}

// Top returns the best-priced level without removing it, or false if the
// side is empty.
func (b *OneSidedBook) Top() (*priceLevel, bool) {
	return b.levels.Min()
}

// DeleteLevel erases lvl from the map (used by the matching walk once a
// level's queue has been drained) and recomputes the best price.
func (b *OneSidedBook) DeleteLevel(lvl *priceLevel) {
	b.levels.Delete(lvl)
	b.recomputeBestPrice()
}

// AdjustAfterMatch updates cached aggregates after the matching walk has
// mutated a resting order's size directly (decrementing by traded).
func (b *OneSidedBook) AdjustAfterMatch(traded decimal.Decimal, price decimal.Decimal) {
	b.totalVolume = b.totalVolume.Sub(traded)
	b.totalVolumeFunds -= priceFloat(price) * sizeFloat(traded)
}

// RemoveFullyFilled decrements the order count after a resting order is
// fully consumed by the matching walk (size driven to zero).
func (b *OneSidedBook) RemoveFullyFilled() { b.numOrders-- }

// AvailableUpTo sums resting volume over levels for which crossFn holds,
// from best price outward, stopping once the running sum reaches target
// (or eligible levels run out). Used by the all-or-none precheck; never
// mutates the book.
func (b *OneSidedBook) AvailableUpTo(crossFn func(levelPrice decimal.Decimal) bool, target decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	b.levels.Scan(func(lvl *priceLevel) bool {
		if !crossFn(lvl.price) {
			return false
		}
		sum = sum.Add(lvl.queue.TotalVolume())
		return sum.LessThan(target)
	})
	return sum
}

// ClearAll removes every order from the side and returns them in level,
// then-FIFO order.
func (b *OneSidedBook) ClearAll() []*Order {
	var removed []*Order
	b.levels.Scan(func(lvl *priceLevel) bool {
		removed = append(removed, lvl.queue.Orders()...)
		return true
	})
	b.levels = btree.NewBTreeG(b.less)
	b.totalVolume = decimal.Zero
	b.totalVolumeFunds = 0
	b.numOrders = 0
	b.bestPrice = nil
	return removed
}

// DepthInfo returns up to n levels from best price outward as
// (price, volume, count) rows.
func (b *OneSidedBook) DepthInfo(n int) []DepthLevel {
	var out []DepthLevel
	b.levels.Scan(func(lvl *priceLevel) bool {
		if len(out) >= n {
			return false
		}
		out = append(out, DepthLevel{
			Price:  lvl.price,
			Volume: lvl.queue.TotalVolume(),
			Count:  lvl.queue.Len(),
		})
		return true
	})
	return out
}

// AllOrders returns every resting order on this side, in level (best price
// first) then-FIFO order, without mutating anything. Used by snapshotting.
func (b *OneSidedBook) AllOrders() []*Order {
	var out []*Order
	b.levels.Scan(func(lvl *priceLevel) bool {
		out = append(out, lvl.queue.Orders()...)
		return true
	})
	return out
}

func priceFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func sizeFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
