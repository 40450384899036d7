package book

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func mkOrder(id OrderID, size int64) *Order {
	return &Order{ID: id, Size: decimal.NewFromInt(size), Price: decimal.NewFromInt(100)}
}

func TestOrderQueue_PushPopFIFO(t *testing.T) {
	q := NewOrderQueue()
	assert.True(t, q.IsEmpty())

	q.PushBack(mkOrder(1, 10))
	q.PushBack(mkOrder(2, 20))
	assert.Equal(t, 2, q.Len())
	assert.True(t, q.TotalVolume().Equal(decimal.NewFromInt(30)))

	head, ok := q.PopFront()
	assert.True(t, ok)
	assert.Equal(t, OrderID(1), head.ID)
	assert.True(t, q.TotalVolume().Equal(decimal.NewFromInt(20)))

	_, ok = q.PopByID(999)
	assert.False(t, ok)

	tail, ok := q.PopByID(2)
	assert.True(t, ok)
	assert.Equal(t, OrderID(2), tail.ID)
	assert.True(t, q.IsEmpty())
	assert.True(t, q.TotalVolume().Equal(decimal.Zero))
}

func TestOrderQueue_PushFrontPreservesPriority(t *testing.T) {
	q := NewOrderQueue()
	q.PushBack(mkOrder(1, 10))
	q.PushBack(mkOrder(2, 20))

	partial := mkOrder(3, 5)
	q.PushFront(partial)

	head, ok := q.PopFront()
	assert.True(t, ok)
	assert.Equal(t, OrderID(3), head.ID)
	assert.Equal(t, 2, q.Len())
}

func TestOrderQueue_PopByIDMiddle(t *testing.T) {
	q := NewOrderQueue()
	q.PushBack(mkOrder(1, 10))
	q.PushBack(mkOrder(2, 20))
	q.PushBack(mkOrder(3, 30))

	removed, ok := q.PopByID(2)
	assert.True(t, ok)
	assert.Equal(t, OrderID(2), removed.ID)
	assert.Equal(t, 2, q.Len())
	assert.True(t, q.TotalVolume().Equal(decimal.NewFromInt(40)))

	ids := []OrderID{}
	for _, o := range q.Orders() {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []OrderID{1, 3}, ids)
}
