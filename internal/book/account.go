package book

import "github.com/tidwall/btree"

// AccountIndex (C3) maps an account id to an ordered mapping of order id to
// order handle. An order is present here iff it currently rests on the
// book; the index shares the same *Order pointer with the resting
// OneSidedBook queue, so a fill applied to one is visible through the
// other without a separate synchronization step.
type AccountIndex struct {
	accounts map[AcctID]*btree.BTreeG[*Order]
}

// NewAccountIndex returns an empty index.
func NewAccountIndex() *AccountIndex {
	return &AccountIndex{accounts: make(map[AcctID]*btree.BTreeG[*Order])}
}

func orderIDLess(a, b *Order) bool { return a.ID < b.ID }

// Register inserts order into its account's ordered set. A no-op if the
// order has no account.
func (idx *AccountIndex) Register(o *Order) {
	if o.AcctID == nil {
		return
	}
	acct := *o.AcctID
	tree, ok := idx.accounts[acct]
	if !ok {
		tree = btree.NewBTreeG(orderIDLess)
		idx.accounts[acct] = tree
	}
	tree.Set(o)
}

// Unregister removes the order with id from acct's set, if present. A
// no-op for a nil acct (mirrors a non-account order never having been
// registered).
func (idx *AccountIndex) Unregister(acct *AcctID, id OrderID) {
	if acct == nil {
		return
	}
	tree, ok := idx.accounts[*acct]
	if !ok {
		return
	}
	tree.Delete(&Order{ID: id})
	if tree.Len() == 0 {
		delete(idx.accounts, *acct)
	}
}

// Get returns acct's resting orders in ascending order-id order.
func (idx *AccountIndex) Get(acct AcctID) []*Order {
	tree, ok := idx.accounts[acct]
	if !ok {
		return nil
	}
	var out []*Order
	tree.Scan(func(o *Order) bool {
		out = append(out, o)
		return true
	})
	return out
}

// Count returns the total number of resting orders registered across every
// account — used to check the C3 cardinality invariant against the two
// sides' order counts.
func (idx *AccountIndex) Count() int {
	n := 0
	for _, tree := range idx.accounts {
		n += tree.Len()
	}
	return n
}
