package replay

import (
	"strings"
	"testing"

	"fenrir/internal/book"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_SubmitAndCancelDirectives(t *testing.T) {
	scenario := `
# resting bid, then a crossing ask
SUBMIT LMT BUY 10 100.00 id=1 acct=7
SUBMIT LMT SELL 4 100.00 id=2

CANCEL 1 BUY 100.00
`
	ob := book.NewOrderBook()
	results, err := Run(strings.NewReader(scenario), ob)
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.NoError(t, results[0].Err)
	require.NotNil(t, results[0].Limit)
	assert.True(t, results[0].Limit.ResidualRests)

	require.NoError(t, results[1].Err)
	require.NotNil(t, results[1].Limit)
	require.Len(t, results[1].Limit.Fills, 1)

	require.NoError(t, results[2].Err)
	require.NotNil(t, results[2].Cancelled)
	assert.Equal(t, book.OrderID(1), results[2].Cancelled.ID)
}

func TestRun_MarketOrderDirective(t *testing.T) {
	scenario := "SUBMIT LMT SELL 5 100.00 id=1\nSUBMIT MKT BUY 5\n"
	ob := book.NewOrderBook()
	results, err := Run(strings.NewReader(scenario), ob)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.NotNil(t, results[1].Market)
	assert.True(t, results[1].Market.UnfilledSize.IsZero())
}

func TestRun_TraitsOption(t *testing.T) {
	scenario := "SUBMIT LMT SELL 5 100.00 id=1\nSUBMIT LMT BUY 10 100.00 id=2 traits=FOK\n"
	ob := book.NewOrderBook()
	results, err := Run(strings.NewReader(scenario), ob)
	require.NoError(t, err)
	require.NoError(t, results[1].Err)
	assert.Empty(t, results[1].Limit.Fills, "FOK with insufficient liquidity must reject with zero fills")
}

func TestRun_InvalidDirectiveRecordsErrorButContinues(t *testing.T) {
	scenario := "BOGUS\nSUBMIT LMT BUY 10 100.00 id=1\n"
	ob := book.NewOrderBook()
	results, err := Run(strings.NewReader(scenario), ob)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
}

func TestRun_DuplicateOrderIDSurfacesAsResultError(t *testing.T) {
	scenario := "SUBMIT LMT BUY 10 100.00 id=1\nSUBMIT LMT BUY 10 100.00 id=1\n"
	ob := book.NewOrderBook()
	results, err := Run(strings.NewReader(scenario), ob)
	require.NoError(t, err)
	assert.ErrorIs(t, results[1].Err, book.ErrDuplicateOrderID)
}
