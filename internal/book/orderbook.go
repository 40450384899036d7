package book

import "github.com/shopspring/decimal"

// Fill records one match produced by a submit call: incoming order id,
// resting order id, the price it traded at (the resting order's price),
// and the traded size.
type Fill struct {
	IncomingID OrderID
	RestingID  OrderID
	Price      decimal.Decimal
	Size       decimal.Decimal
}

// LimitOrderResult is the return value of SubmitLimitOrder.
type LimitOrderResult struct {
	Fills         []Fill
	ResidualSize  decimal.Decimal
	ResidualRests bool
}

// MarketOrderResult is the return value of SubmitMarketOrder.
type MarketOrderResult struct {
	Fills        []Fill
	UnfilledSize decimal.Decimal
}

// MarketOrderByFundsResult is the return value of SubmitMarketOrderByFunds.
type MarketOrderByFundsResult struct {
	Fills         []Fill
	UnfilledFunds decimal.Decimal
}

// OrderBook (C4) composes a bid side, an ask side, and an account index,
// and exposes the submit/cancel/query contract. It performs no locking of
// its own — per spec §5 callers wanting concurrency serialize mutations
// through a single owner.
type OrderBook struct {
	bids *OneSidedBook
	asks *OneSidedBook

	accounts  *AccountIndex
	unmatched *UnmatchedOrderBook

	// activeIDs tracks which side each currently-resting order id sits on.
	// It exists only to answer "does this id exist, and on which side" for
	// DuplicateOrderId/SideMismatch checks; per §4.5.6 the book remains
	// otherwise unindexed by order id — cancel still needs (side, price).
	activeIDs map[OrderID]Side

	// Flags is a free-form, display-only bag (e.g. plot-tick counts); the
	// core never reads it.
	Flags map[string]any
}

// NewOrderBook returns an empty book.
func NewOrderBook() *OrderBook {
	return &OrderBook{
		bids:      NewOneSidedBook(Buy),
		asks:      NewOneSidedBook(Sell),
		accounts:  NewAccountIndex(),
		unmatched: NewUnmatchedOrderBook(),
		activeIDs: make(map[OrderID]Side),
		Flags:     make(map[string]any),
	}
}

func (ob *OrderBook) sideBook(side Side) *OneSidedBook {
	if side == Buy {
		return ob.bids
	}
	return ob.asks
}

func (ob *OrderBook) oppositeSideBook(side Side) *OneSidedBook {
	if side == Buy {
		return ob.asks
	}
	return ob.bids
}

// Unmatched exposes C6 so a notification dispatcher can pop candidates
// after a submit returns; the core never reads from it itself.
func (ob *OrderBook) Unmatched() *UnmatchedOrderBook { return ob.unmatched }

// CancelOrder locates the queue at price on side, pops by id, and — on
// success — removes the order from the account index and returns it.
func (ob *OrderBook) CancelOrder(id OrderID, side Side, price decimal.Decimal, _ *AcctID) (*Order, error) {
	if actualSide, tracked := ob.activeIDs[id]; tracked && actualSide != side {
		return nil, ErrSideMismatch
	}

	own := ob.sideBook(side)
	o, ok := own.Remove(price, id)
	if !ok {
		return nil, ErrUnknownOrder
	}

	ob.accounts.Unregister(o.AcctID, o.ID)
	delete(ob.activeIDs, id)
	return o, nil
}

// ClearBook removes every resting order from both sides and the account
// index, returning everything that was removed.
func (ob *OrderBook) ClearBook() []*Order {
	removed := append(ob.bids.ClearAll(), ob.asks.ClearAll()...)
	ob.accounts = NewAccountIndex()
	ob.activeIDs = make(map[OrderID]Side)
	return removed
}

// BestBidAsk returns the current best bid and best ask, either of which may
// be nil if that side is empty.
func (ob *OrderBook) BestBidAsk() (*decimal.Decimal, *decimal.Decimal) {
	var bid, ask *decimal.Decimal
	if p, ok := ob.bids.BestPrice(); ok {
		bid = &p
	}
	if p, ok := ob.asks.BestPrice(); ok {
		ask = &p
	}
	return bid, ask
}

// VolumeBidAsk returns the cached resting volume on each side.
func (ob *OrderBook) VolumeBidAsk() (decimal.Decimal, decimal.Decimal) {
	return ob.bids.Volume(), ob.asks.Volume()
}

// NOrdersBidAsk returns the cached resting order count on each side.
func (ob *OrderBook) NOrdersBidAsk() (int, int) {
	return ob.bids.NumOrders(), ob.asks.NumOrders()
}

// BookDepthInfo returns up to levels price rows per side, best price first.
func (ob *OrderBook) BookDepthInfo(levels int) (bids, asks []DepthLevel) {
	return ob.bids.DepthInfo(levels), ob.asks.DepthInfo(levels)
}

// GetAccount returns acct's resting orders ordered by order id.
func (ob *OrderBook) GetAccount(acct AcctID) []*Order {
	return ob.accounts.Get(acct)
}

// RestingOrders returns every resting order on side, best price first then
// FIFO within a level, without mutating the book. Used by snapshotting.
func (ob *OrderBook) RestingOrders(side Side) []*Order {
	return ob.sideBook(side).AllOrders()
}
