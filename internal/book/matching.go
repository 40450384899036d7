package book

import (
	"time"

	"github.com/shopspring/decimal"
)

// sizePrecision bounds how finely a market-by-funds order can size its
// affordable quantity; funds are divided by price and truncated (rounded
// toward zero) to this many decimal places, never fed back as a rounded
// price or size elsewhere.
const sizePrecision int32 = 8

// SubmitLimitOrder executes the matching core's limit order algorithm
// (spec §4.5.2): it walks the opposite side under price-time priority,
// then rests any residual on the incoming order's own side subject to its
// traits.
func (ob *OrderBook) SubmitLimitOrder(
	side Side,
	size decimal.Decimal,
	price decimal.Decimal,
	id OrderID,
	traits OrderTraits,
	acct *AcctID,
) (LimitOrderResult, error) {
	if price.Sign() <= 0 {
		return LimitOrderResult{}, ErrInvalidPrice
	}
	if size.Sign() <= 0 {
		return LimitOrderResult{}, ErrInvalidSize
	}
	if _, exists := ob.activeIDs[id]; exists {
		return LimitOrderResult{}, ErrDuplicateOrderID
	}

	own := ob.sideBook(side)
	opp := ob.oppositeSideBook(side)
	crossFn := crossesFn(side, price)

	remaining := size
	var fills []Fill

	switch {
	case !traits.AllowCross:
		// Post-only hardening hook (spec §4.5.2 step 5): skip the walk
		// entirely and fall through to residual disposition below.

	case traits.AllOrNone:
		available := opp.AvailableUpTo(crossFn, remaining)
		if available.LessThan(remaining) {
			if traits.ImmediateOrCancel {
				// Fill-or-kill: insufficient liquidity, zero fills, no mutation.
				return LimitOrderResult{ResidualSize: remaining, ResidualRests: false}, nil
			}
			// Not enough liquidity to satisfy all-or-none: rest the whole
			// order untouched rather than partially walk it.
			ob.restLimitResidual(side, own, remaining, price, id, traits, acct)
			return LimitOrderResult{ResidualSize: remaining, ResidualRests: true}, nil
		}
		fills, remaining = ob.walk(opp, crossFn, id, remaining)

	default:
		fills, remaining = ob.walk(opp, crossFn, id, remaining)
	}

	if remaining.Sign() > 0 {
		if !traits.MayRest() {
			return LimitOrderResult{Fills: fills, ResidualSize: remaining, ResidualRests: false}, nil
		}
		ob.restLimitResidual(side, own, remaining, price, id, traits, acct)
		return LimitOrderResult{Fills: fills, ResidualSize: remaining, ResidualRests: true}, nil
	}

	return LimitOrderResult{Fills: fills, ResidualSize: decimal.Zero, ResidualRests: false}, nil
}

// SubmitMarketOrder executes a market order by size (spec §4.5.3): it walks
// the opposite side best-first with no price bound and never rests. It has
// no order id of its own (the public contract does not take one), so its
// fills carry the sentinel incoming id 0.
func (ob *OrderBook) SubmitMarketOrder(side Side, size decimal.Decimal, _ *AcctID) (MarketOrderResult, error) {
	if size.Sign() <= 0 {
		return MarketOrderResult{}, ErrInvalidSize
	}
	opp := ob.oppositeSideBook(side)
	fills, remaining := ob.walk(opp, alwaysCrosses, 0, size)
	return MarketOrderResult{Fills: fills, UnfilledSize: remaining}, nil
}

// SubmitMarketOrderByFunds executes a market order bounded by funds rather
// than size (spec §4.5.4): at each head, it affords as much of that order
// as remaining funds allow, rounding the affordable quantity down to
// sizePrecision, and stops once funds fall below the next best price.
func (ob *OrderBook) SubmitMarketOrderByFunds(side Side, funds decimal.Decimal, _ *AcctID) (MarketOrderByFundsResult, error) {
	if funds.Sign() <= 0 {
		return MarketOrderByFundsResult{}, ErrInvalidSize
	}

	opp := ob.oppositeSideBook(side)
	remainingFunds := funds
	var fills []Fill

	for remainingFunds.Sign() > 0 {
		lvl, ok := opp.Top()
		if !ok || remainingFunds.LessThan(lvl.price) {
			break
		}

		maxAffordable := remainingFunds.Div(lvl.price).Truncate(sizePrecision)
		if maxAffordable.Sign() <= 0 {
			break
		}

		h, ok := lvl.queue.PopFront()
		if !ok {
			opp.DeleteLevel(lvl)
			continue
		}

		traded := decimal.Min(h.Size, maxAffordable)
		cost := traded.Mul(lvl.price)

		fills = append(fills, Fill{IncomingID: 0, RestingID: h.ID, Price: lvl.price, Size: traded})
		remainingFunds = remainingFunds.Sub(cost)
		h.Size = h.Size.Sub(traded)
		opp.AdjustAfterMatch(traded, lvl.price)

		if h.Size.Sign() > 0 {
			lvl.queue.PushFront(h)
			break
		}

		ob.accounts.Unregister(h.AcctID, h.ID)
		delete(ob.activeIDs, h.ID)
		opp.RemoveFullyFilled()

		if lvl.queue.IsEmpty() {
			opp.DeleteLevel(lvl)
		}
	}

	return MarketOrderByFundsResult{Fills: fills, UnfilledFunds: remainingFunds}, nil
}

// walk performs the price-time priority sweep shared by limit and market
// order execution (spec §4.5.2 step 3 / §4.5.3): while remaining size is
// left and an eligible opposite-side level exists, it trades against the
// head of that level's queue, FIFO, pushing a partially-consumed head back
// to the front of its queue rather than discarding its time priority.
func (ob *OrderBook) walk(
	opp *OneSidedBook,
	crossFn func(decimal.Decimal) bool,
	incomingID OrderID,
	remaining decimal.Decimal,
) ([]Fill, decimal.Decimal) {
	var fills []Fill

	for remaining.Sign() > 0 {
		lvl, ok := opp.Top()
		if !ok || !crossFn(lvl.price) {
			break
		}

		h, ok := lvl.queue.PopFront()
		if !ok {
			// The level's queue emptied without being erased; reconcile and
			// keep walking rather than looping forever.
			opp.DeleteLevel(lvl)
			continue
		}

		traded := decimal.Min(h.Size, remaining)
		fills = append(fills, Fill{IncomingID: incomingID, RestingID: h.ID, Price: lvl.price, Size: traded})

		remaining = remaining.Sub(traded)
		h.Size = h.Size.Sub(traded)
		opp.AdjustAfterMatch(traded, lvl.price)

		if h.Size.Sign() > 0 {
			lvl.queue.PushFront(h)
			break
		}

		ob.accounts.Unregister(h.AcctID, h.ID)
		delete(ob.activeIDs, h.ID)
		opp.RemoveFullyFilled()

		if lvl.queue.IsEmpty() {
			opp.DeleteLevel(lvl)
		}
	}

	return fills, remaining
}

// restLimitResidual inserts a fresh resting order for the unfilled part of
// a limit submission and registers it in the account index.
func (ob *OrderBook) restLimitResidual(
	side Side,
	own *OneSidedBook,
	remaining decimal.Decimal,
	price decimal.Decimal,
	id OrderID,
	traits OrderTraits,
	acct *AcctID,
) {
	o := &Order{
		Side:      side,
		Size:      remaining,
		Price:     price,
		ID:        id,
		Traits:    traits,
		AcctID:    acct,
		CreatedAt: time.Now(),
	}
	own.Insert(o)
	ob.accounts.Register(o)
	ob.activeIDs[id] = side
}

// crossesFn builds the crossing predicate for a limit order: for an
// incoming buy, ask levels priced at or below price are eligible; for an
// incoming sell, bid levels priced at or above price are eligible.
func crossesFn(side Side, price decimal.Decimal) func(decimal.Decimal) bool {
	if side == Buy {
		return func(levelPrice decimal.Decimal) bool { return levelPrice.LessThanOrEqual(price) }
	}
	return func(levelPrice decimal.Decimal) bool { return levelPrice.GreaterThanOrEqual(price) }
}

func alwaysCrosses(decimal.Decimal) bool { return true }
