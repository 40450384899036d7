package book

import "github.com/shopspring/decimal"

// OrderQueue (C1) is a FIFO of orders resting at a single price, with
// cached aggregates that are kept equal to the recomputed sums after every
// mutation.
type OrderQueue struct {
	orders      []*Order
	totalVolume decimal.Decimal
}

// NewOrderQueue returns an empty queue.
func NewOrderQueue() *OrderQueue {
	return &OrderQueue{totalVolume: decimal.Zero}
}

// PushBack appends a newly-arrived order to the tail of the queue.
func (q *OrderQueue) PushBack(o *Order) {
	q.orders = append(q.orders, o)
	q.totalVolume = q.totalVolume.Add(o.Size)
}

// PushFront returns a partially-consumed counterparty order to the head of
// the queue after a partial fill, preserving its time priority.
func (q *OrderQueue) PushFront(o *Order) {
	q.orders = append([]*Order{o}, q.orders...)
	q.totalVolume = q.totalVolume.Add(o.Size)
}

// PopFront removes and returns the head order, if any.
func (q *OrderQueue) PopFront() (*Order, bool) {
	if len(q.orders) == 0 {
		return nil, false
	}
	o := q.orders[0]
	q.orders = q.orders[1:]
	q.totalVolume = q.totalVolume.Sub(o.Size)
	return o, true
}

// PopByID removes the order with the given id, wherever it sits in the
// queue. O(k) over the queue length; a production implementation could
// carry an id->position hint to reach O(1), which is not required here.
func (q *OrderQueue) PopByID(id OrderID) (*Order, bool) {
	for i, o := range q.orders {
		if o.ID == id {
			q.orders = append(q.orders[:i], q.orders[i+1:]...)
			q.totalVolume = q.totalVolume.Sub(o.Size)
			return o, true
		}
	}
	return nil, false
}

// IsEmpty reports whether the queue holds no orders.
func (q *OrderQueue) IsEmpty() bool { return len(q.orders) == 0 }

// Len returns the number of orders in the queue.
func (q *OrderQueue) Len() int { return len(q.orders) }

// TotalVolume returns the cached sum of resting sizes.
func (q *OrderQueue) TotalVolume() decimal.Decimal { return q.totalVolume }

// Orders returns the queue contents in FIFO order. The returned slice is a
// read-only snapshot; callers must not mutate it.
func (q *OrderQueue) Orders() []*Order { return q.orders }
