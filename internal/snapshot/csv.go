// Package snapshot serializes a book's resting orders to the CSV format
// described in the exchange's external interfaces: one line per resting
// order, side rendered the same way Order.String() renders it.
package snapshot

import (
	"encoding/csv"
	"io"
	"strconv"

	"fenrir/internal/book"

	"github.com/rs/zerolog/log"
)

// orderKind is fixed at "LMT": every order a book ever rests came from
// SubmitLimitOrder, since market orders never rest.
const orderKind = "LMT"

// Write serializes every resting order on both sides of ob to w as CSV,
// bids then asks, best price first within a side. It logs and continues
// past a single row's write failure rather than aborting the whole
// snapshot, returning the first error encountered.
func Write(w io.Writer, ob *book.OrderBook) error {
	cw := csv.NewWriter(w)

	var firstErr error
	for _, side := range []book.Side{book.Buy, book.Sell} {
		for _, o := range ob.RestingOrders(side) {
			row := []string{
				orderKind,
				strconv.FormatUint(o.ID, 10),
				o.Side.String(),
				o.Size.String(),
				o.Price.String(),
				acctField(o.AcctID),
			}
			if err := cw.Write(row); err != nil {
				log.Error().Err(err).Uint64("orderID", o.ID).Msg("failed writing snapshot row")
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func acctField(acct *uint64) string {
	if acct == nil {
		return ""
	}
	return strconv.FormatUint(*acct, 10)
}
