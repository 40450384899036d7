package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func acctPtr(v AcctID) *AcctID { return &v }

func TestAccountIndex_RegisterGetUnregister(t *testing.T) {
	idx := NewAccountIndex()
	a := acctPtr(7)

	o1 := &Order{ID: 2, AcctID: a, Size: dec(10)}
	o2 := &Order{ID: 1, AcctID: a, Size: dec(5)}
	idx.Register(o1)
	idx.Register(o2)

	orders := idx.Get(7)
	assert.Len(t, orders, 2)
	assert.Equal(t, OrderID(1), orders[0].ID, "should be ordered by order id")
	assert.Equal(t, OrderID(2), orders[1].ID)
	assert.Equal(t, 2, idx.Count())

	idx.Unregister(a, 1)
	orders = idx.Get(7)
	assert.Len(t, orders, 1)
	assert.Equal(t, OrderID(2), orders[0].ID)
	assert.Equal(t, 1, idx.Count())
}

func TestAccountIndex_NoAccountIsNoop(t *testing.T) {
	idx := NewAccountIndex()
	o := &Order{ID: 1, AcctID: nil, Size: dec(10)}
	idx.Register(o)
	assert.Equal(t, 0, idx.Count())
	idx.Unregister(nil, 1)
}

func TestAccountIndex_SharesOrderHandleWithBook(t *testing.T) {
	idx := NewAccountIndex()
	a := acctPtr(1)
	o := &Order{ID: 1, AcctID: a, Size: dec(10)}
	idx.Register(o)

	// A fill mutates the same Order the book references; the account
	// index must observe it without a separate update, per spec §4.3.
	o.Size = o.Size.Sub(dec(4))

	got := idx.Get(1)
	assert.Len(t, got, 1)
	assert.True(t, got[0].Size.Equal(dec(6)))
}
