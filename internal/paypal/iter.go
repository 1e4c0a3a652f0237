package paypal

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/brettcs/paypal-rest/internal/record"
)

const (
	transactionsPath    = "/v1/reporting/transactions"
	transactionItemsKey = "transaction_details"
)

// ListOption adjusts one ListTransactions call.
type ListOption func(*listSettings)

type listSettings struct {
	fields TransactionFields
}

// WithListFields selects the field groups each listed record carries.
// The default is the transaction group alone.
func WithListFields(fields TransactionFields) ListOption {
	return func(s *listSettings) { s.fields = fields }
}

// TransactionIter walks the transactions in a date range, oldest window
// first and in the API's order within each window. It is single-use and
// not safe for concurrent use.
type TransactionIter struct {
	ctx     context.Context
	client  *Client
	pager   *pager
	current *record.Transaction
	err     error
	params  url.Values
	windows []window
}

// ListTransactions returns an iterator over every transaction in
// [start, end]. The reporting API rejects queries spanning more than
// 30 days, so longer ranges are fetched as consecutive windows sharing
// their boundaries; each window is paginated in turn.
func (c *Client) ListTransactions(ctx context.Context, start, end time.Time, opts ...ListOption) (*TransactionIter, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if start.After(end) {
		return nil, fmt.Errorf("start date must be before end date")
	}

	settings := listSettings{fields: FieldTransaction}
	for _, opt := range opts {
		opt(&settings)
	}
	if settings.fields == 0 {
		settings.fields = FieldTransaction
	}

	params := url.Values{}
	params.Set("fields", settings.fields.paramValue())
	return &TransactionIter{
		ctx:     ctx,
		client:  c,
		params:  params,
		windows: splitWindows(start, end),
	}, nil
}

// Next advances to the next transaction, moving to the following window
// once the current one is exhausted. It returns false when every window
// has been walked or an error stopped iteration.
func (it *TransactionIter) Next() bool {
	if it.err != nil {
		return false
	}
	for {
		if it.pager == nil {
			if len(it.windows) == 0 {
				return false
			}
			w := it.windows[0]
			it.windows = it.windows[1:]

			params := url.Values{}
			for k, vs := range it.params {
				params[k] = vs
			}
			params.Set("start_date", formatTimestamp(w.start))
			params.Set("end_date", formatTimestamp(w.end))
			it.pager = newPager(it.ctx, it.client, transactionsPath, transactionItemsKey, params)
		}

		if it.pager.Next() {
			txn, err := record.DecodeTransaction(it.pager.Record())
			if err != nil {
				it.err = err
				return false
			}
			it.current = txn
			return true
		}
		if err := it.pager.Err(); err != nil {
			it.err = err
			return false
		}
		it.pager = nil
	}
}

// Transaction returns the record Next advanced to.
func (it *TransactionIter) Transaction() *record.Transaction { return it.current }

// Err reports the error that stopped iteration, nil after a clean end.
func (it *TransactionIter) Err() error { return it.err }

// window is one closed query interval.
type window struct {
	start time.Time
	end   time.Time
}

// splitWindows cuts [start, end] into consecutive intervals no longer
// than the API's 30-day query limit. Each window starts exactly where
// the previous one ended, so nothing on a boundary is missed. A
// degenerate range yields a single empty window rather than none.
func splitWindows(start, end time.Time) []window {
	if !start.Before(end) {
		return []window{{start: start, end: end}}
	}
	var windows []window
	for cursor := start; cursor.Before(end); {
		next := cursor.Add(maxQueryWindow)
		if next.After(end) {
			next = end
		}
		windows = append(windows, window{start: cursor, end: next})
		cursor = next
	}
	return windows
}
