package paypal

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drainIter(t *testing.T, it *TransactionIter) []string {
	t.Helper()
	var ids []string
	for it.Next() {
		id, err := it.Transaction().TransactionID()
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestListTransactions_WindowBoundaries(t *testing.T) {
	end := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		days int
		want int
	}{
		{name: "fits one window", days: 10, want: 1},
		{name: "splits into two windows", days: 45, want: 2},
		{name: "splits into three windows", days: 89, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var starts, ends []string
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				starts = append(starts, q.Get("start_date"))
				ends = append(ends, q.Get("end_date"))
				fmt.Fprint(w, transactionPage(t, 1, 1, 0))
			})

			start := end.Add(-time.Duration(tt.days) * 24 * time.Hour)
			it, err := client.ListTransactions(context.Background(), start, end)
			require.NoError(t, err)

			ids := drainIter(t, it)
			require.NoError(t, it.Err())
			assert.Empty(t, ids)

			require.Len(t, starts, tt.want)
			assert.Equal(t, formatTimestamp(start), starts[0], "the first window opens the range")
			assert.Equal(t, formatTimestamp(end), ends[len(ends)-1], "the last window closes it")
			for i := 1; i < len(starts); i++ {
				assert.Equal(t, ends[i-1], starts[i], "consecutive windows share a boundary")
			}
		})
	}
}

func TestListTransactions_YieldsAcrossWindows(t *testing.T) {
	end := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	start := end.Add(-45 * 24 * time.Hour)

	var requests int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("start_date") == formatTimestamp(start) {
			fmt.Fprint(w, transactionPage(t, 1, 1, 2, "T1", "T2"))
			return
		}
		fmt.Fprint(w, transactionPage(t, 1, 1, 1, "T3"))
	})

	it, err := client.ListTransactions(context.Background(), start, end)
	require.NoError(t, err)

	ids := drainIter(t, it)
	require.NoError(t, it.Err())

	assert.Equal(t, []string{"T1", "T2", "T3"}, ids, "oldest window first, API order within")
	assert.Equal(t, 2, requests)
}

func TestListTransactions_PaginatesWithinWindows(t *testing.T) {
	end := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	start := end.Add(-45 * 24 * time.Hour)

	var requests []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		requests = append(requests, q.Get("start_date")+" page "+q.Get("page"))
		if q.Get("start_date") == formatTimestamp(start) {
			if q.Get("page") == "1" {
				fmt.Fprint(w, transactionPage(t, 1, 2, 5, "T1", "T2", "T3"))
			} else {
				fmt.Fprint(w, transactionPage(t, 2, 2, 5, "T4", "T5"))
			}
			return
		}
		fmt.Fprint(w, transactionPage(t, 1, 1, 1, "T6"))
	})

	it, err := client.ListTransactions(context.Background(), start, end)
	require.NoError(t, err)

	ids := drainIter(t, it)
	require.NoError(t, it.Err())

	assert.Equal(t, []string{"T1", "T2", "T3", "T4", "T5", "T6"}, ids)
	assert.Equal(t, []string{
		formatTimestamp(start) + " page 1",
		formatTimestamp(start) + " page 2",
		formatTimestamp(start.Add(maxQueryWindow)) + " page 1",
	}, requests)
}

func TestListTransactions_FieldsParam(t *testing.T) {
	end := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	start := end.Add(-24 * time.Hour)

	var gotFields string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotFields = r.URL.Query().Get("fields")
		fmt.Fprint(w, transactionPage(t, 1, 1, 0))
	})

	it, err := client.ListTransactions(context.Background(), start, end)
	require.NoError(t, err)
	drainIter(t, it)
	require.NoError(t, it.Err())
	assert.Equal(t, "transaction_info", gotFields, "default is the transaction group alone")

	it, err = client.ListTransactions(context.Background(), start, end, WithListFields(AllTransactionFields))
	require.NoError(t, err)
	drainIter(t, it)
	require.NoError(t, it.Err())
	assert.Equal(t,
		"transaction_info,payer_info,shipping_info,auction_info,cart_info,incentive_info,store_info",
		gotFields,
	)
}

func TestListTransactions_DegenerateRange(t *testing.T) {
	at := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)

	var starts, ends []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		starts = append(starts, q.Get("start_date"))
		ends = append(ends, q.Get("end_date"))
		fmt.Fprint(w, transactionPage(t, 1, 1, 0))
	})

	it, err := client.ListTransactions(context.Background(), at, at)
	require.NoError(t, err)
	drainIter(t, it)
	require.NoError(t, it.Err())

	// An empty range still queries once, mirroring a single-instant
	// lookup.
	require.Len(t, starts, 1)
	assert.Equal(t, starts[0], ends[0])
}

func TestListTransactions_StopsOnDecodeError(t *testing.T) {
	end := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	start := end.Add(-24 * time.Hour)

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"transaction_details": [42], "page": 1, "total_items": 1, "total_pages": 1}`)
	})

	it, err := client.ListTransactions(context.Background(), start, end)
	require.NoError(t, err)

	assert.False(t, it.Next())
	require.Error(t, it.Err())
}

func TestListTransactions_Validation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, transactionPage(t, 1, 1, 0))
	})

	now := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		ctx    context.Context
		start  time.Time
		end    time.Time
		name   string
		errMsg string
	}{
		{
			name:   "nil context",
			ctx:    nil,
			start:  now.Add(-24 * time.Hour),
			end:    now,
			errMsg: "context cannot be nil",
		},
		{
			name:   "start after end",
			ctx:    context.Background(),
			start:  now,
			end:    now.Add(-24 * time.Hour),
			errMsg: "start date must be before end date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.ListTransactions(tt.ctx, tt.start, tt.end)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
