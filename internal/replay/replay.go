// Package replay drives an order book from a line-oriented scenario file:
// one directive per line, blank lines and '#'-prefixed comments ignored.
//
//	SUBMIT LMT BUY 100 10.50 id=1 acct=7
//	SUBMIT LMT SELL 50 10.50 id=2 traits=IOC
//	SUBMIT MKT SELL 50 acct=7
//	CANCEL 1 BUY 10.50
package replay

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fenrir/internal/book"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Result is one directive's outcome, tagged by line number for reporting.
type Result struct {
	Line      int
	Directive string
	Limit     *book.LimitOrderResult
	Market    *book.MarketOrderResult
	Cancelled *book.Order
	Err       error
}

// Run reads directives from r and drives ob, returning one Result per
// non-blank, non-comment line in file order. A directive that the book
// rejects (e.g. ErrDuplicateOrderID) is recorded in that Result's Err and
// does not stop the replay.
func Run(r io.Reader, ob *book.OrderBook) ([]Result, error) {
	scanner := bufio.NewScanner(r)
	var results []Result

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		res := Result{Line: lineNo, Directive: line}
		if err := dispatch(ob, line, &res); err != nil {
			res.Err = err
			log.Error().Err(err).Int("line", lineNo).Str("directive", line).Msg("replay directive failed")
		}
		results = append(results, res)
	}
	if err := scanner.Err(); err != nil {
		return results, fmt.Errorf("reading scenario: %w", err)
	}
	return results, nil
}

func dispatch(ob *book.OrderBook, line string, res *Result) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch strings.ToUpper(fields[0]) {
	case "SUBMIT":
		return dispatchSubmit(ob, fields[1:], res)
	case "CANCEL":
		return dispatchCancel(ob, fields[1:], res)
	default:
		return fmt.Errorf("unknown directive %q", fields[0])
	}
}

func dispatchSubmit(ob *book.OrderBook, fields []string, res *Result) error {
	if len(fields) < 3 {
		return fmt.Errorf("SUBMIT requires at least order-type, side, size")
	}
	orderKind := strings.ToUpper(fields[0])
	side, err := parseSide(fields[1])
	if err != nil {
		return err
	}
	size, err := decimal.NewFromString(fields[2])
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", fields[2], err)
	}

	switch orderKind {
	case "LMT":
		if len(fields) < 4 {
			return fmt.Errorf("SUBMIT LMT requires a price")
		}
		price, err := decimal.NewFromString(fields[3])
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", fields[3], err)
		}
		opts, err := parseOptions(fields[4:])
		if err != nil {
			return err
		}
		if opts.id == 0 {
			return fmt.Errorf("SUBMIT LMT requires id=<n>")
		}
		result, err := ob.SubmitLimitOrder(side, size, price, opts.id, opts.traits, opts.acct)
		if err != nil {
			return err
		}
		res.Limit = &result
		return nil

	case "MKT":
		opts, err := parseOptions(fields[3:])
		if err != nil {
			return err
		}
		result, err := ob.SubmitMarketOrder(side, size, opts.acct)
		if err != nil {
			return err
		}
		res.Market = &result
		return nil

	default:
		return fmt.Errorf("unknown order type %q", orderKind)
	}
}

func dispatchCancel(ob *book.OrderBook, fields []string, res *Result) error {
	if len(fields) < 3 {
		return fmt.Errorf("CANCEL requires id, side, price")
	}
	id, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid order id %q: %w", fields[0], err)
	}
	side, err := parseSide(fields[1])
	if err != nil {
		return err
	}
	price, err := decimal.NewFromString(fields[2])
	if err != nil {
		return fmt.Errorf("invalid price %q: %w", fields[2], err)
	}

	cancelled, err := ob.CancelOrder(id, side, price, nil)
	if err != nil {
		return err
	}
	res.Cancelled = cancelled
	return nil
}

func parseSide(s string) (book.Side, error) {
	switch strings.ToUpper(s) {
	case "BUY":
		return book.Buy, nil
	case "SELL":
		return book.Sell, nil
	default:
		return 0, fmt.Errorf("invalid side %q", s)
	}
}

type options struct {
	id     book.OrderID
	acct   *book.AcctID
	traits book.OrderTraits
}

// parseOptions reads trailing key=value tokens: id=<n>, acct=<n>,
// traits=VANILLA|IOC|FOK. Unrecognized keys are rejected rather than
// silently ignored, per the no-silent-swallow error policy.
func parseOptions(fields []string) (options, error) {
	opts := options{traits: book.Vanilla}
	for _, f := range fields {
		key, val, ok := strings.Cut(f, "=")
		if !ok {
			return options{}, fmt.Errorf("malformed option %q", f)
		}
		switch key {
		case "id":
			n, err := strconv.ParseUint(val, 10, 64)
			if err != nil {
				return options{}, fmt.Errorf("invalid id %q: %w", val, err)
			}
			opts.id = n
		case "acct":
			n, err := strconv.ParseUint(val, 10, 64)
			if err != nil {
				return options{}, fmt.Errorf("invalid acct %q: %w", val, err)
			}
			opts.acct = &n
		case "traits":
			switch strings.ToUpper(val) {
			case "VANILLA":
				opts.traits = book.Vanilla
			case "IOC":
				opts.traits = book.IOC
			case "FOK":
				opts.traits = book.FOK
			default:
				return options{}, fmt.Errorf("unknown traits %q", val)
			}
		default:
			return options{}, fmt.Errorf("unknown option %q", key)
		}
	}
	return opts, nil
}
