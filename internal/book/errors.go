package book

import "errors"

var (
	// ErrDuplicateOrderID is returned when a submitted order id is already
	// resting or tracked anywhere on the book.
	ErrDuplicateOrderID = errors.New("book: duplicate order id")
	// ErrUnknownOrder is returned by CancelOrder when no order matches the
	// given (side, price, id).
	ErrUnknownOrder = errors.New("book: unknown order")
	// ErrInvalidPrice is returned for a non-positive price.
	ErrInvalidPrice = errors.New("book: invalid price")
	// ErrInvalidSize is returned for a non-positive size.
	ErrInvalidSize = errors.New("book: invalid size")
	// ErrSideMismatch is returned when a cancel names one side while the
	// order id rests on the other side.
	ErrSideMismatch = errors.New("book: side mismatch on cancel")
)
