package book

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderID is unique within a book's lifetime.
type OrderID = uint64

// AcctID identifies an account. A nil *AcctID on Order means no account was
// supplied.
type AcctID = uint64

// Order is a resting or transient limit/market order. Once resting, Size is
// decremented only by match or cancel and is removed from every index the
// instant it reaches zero.
type Order struct {
	Side      Side
	Size      decimal.Decimal
	Price     decimal.Decimal
	ID        OrderID
	Traits    OrderTraits
	AcctID    *AcctID
	CreatedAt time.Time
}

func (o *Order) String() string {
	acct := "none"
	if o.AcctID != nil {
		acct = fmt.Sprintf("%d", *o.AcctID)
	}
	return fmt.Sprintf("Order{id:%d side:%s size:%s price:%s acct:%s}",
		o.ID, o.Side, o.Size, o.Price, acct)
}

// Clone returns a shallow copy of the order. The book's own indices do not
// use it: the account index shares the resting queue's *Order pointer.
func (o *Order) Clone() *Order {
	cp := *o
	return &cp
}
