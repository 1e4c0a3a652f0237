package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/brettcs/paypal-rest/internal/record"
)

// maxQueryWindow is the widest date range one reporting query may span.
const maxQueryWindow = 30 * 24 * time.Hour

// defaultHorizon bounds how far back a search walks when the caller
// sets no start. The API only goes back three years.
const defaultHorizon = 3 * 365 * 24 * time.Hour

// searchState is one phase of a transaction search.
type searchState int

const (
	stateSearching searchState = iota
	stateFound
	stateNotFound
)

// SearchOption adjusts one FindTransaction call.
type SearchOption func(*searchSettings)

type searchSettings struct {
	end      time.Time
	start    time.Time
	progress func(scanned, total int)
	horizon  time.Duration
	fields   TransactionFields
}

// WithSearchEnd sets the newest instant the search considers. The
// default is now.
func WithSearchEnd(end time.Time) SearchOption {
	return func(s *searchSettings) { s.end = end }
}

// WithSearchStart sets the oldest instant the search may reach.
func WithSearchStart(start time.Time) SearchOption {
	return func(s *searchSettings) { s.start = start }
}

// WithSearchHorizon bounds the search by a lookback duration instead of
// an absolute start. Ignored when WithSearchStart is also given.
func WithSearchHorizon(d time.Duration) SearchOption {
	return func(s *searchSettings) { s.horizon = d }
}

// WithSearchFields selects the field groups the located record carries.
// The default is the transaction group alone.
func WithSearchFields(fields TransactionFields) SearchOption {
	return func(s *searchSettings) { s.fields = fields }
}

// WithScanProgress registers a callback invoked after each completed
// window scan with the number of windows scanned so far and the most
// the search could need.
func WithScanProgress(fn func(scanned, total int)) SearchOption {
	return func(s *searchSettings) { s.progress = fn }
}

// FindTransaction locates one transaction by ID without knowing when it
// happened. The reporting API only answers for ranges up to 30 days
// wide, so the search scans windows backward from the end hint until
// the record turns up or the horizon is reached. A search that
// exhausts its horizon returns ErrNotFound; a search that fails midway
// returns the failure, since the remaining windows were never checked.
func (c *Client) FindTransaction(ctx context.Context, id string, opts ...SearchOption) (*record.Transaction, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if id == "" {
		return nil, fmt.Errorf("transaction ID is required")
	}

	settings := searchSettings{horizon: defaultHorizon}
	for _, opt := range opts {
		opt(&settings)
	}
	if settings.fields == 0 {
		settings.fields = FieldTransaction
	}
	if settings.end.IsZero() {
		settings.end = c.now()
	}
	floor := settings.start
	if floor.IsZero() {
		floor = settings.end.Add(-settings.horizon)
	}

	s := newSearcher(c, id, settings, floor)
	if err := s.run(ctx); err != nil {
		return nil, err
	}
	if s.state != stateFound {
		return nil, fmt.Errorf("transaction %q: %w", id, ErrNotFound)
	}
	return record.DecodeTransaction(s.found)
}

// searcher is the state machine behind FindTransaction. Each step scans
// the current window and either finishes or replaces the window with
// the next span back.
type searcher struct {
	client   *Client
	progress func(scanned, total int)
	found    json.RawMessage
	id       string
	window   window
	floor    time.Time
	fields   TransactionFields
	state    searchState
	scanned  int
	total    int
}

func newSearcher(c *Client, id string, settings searchSettings, floor time.Time) *searcher {
	s := &searcher{
		client:   c,
		progress: settings.progress,
		id:       id,
		floor:    floor,
		fields:   settings.fields,
		total:    windowCount(floor, settings.end),
	}
	if settings.end.After(floor) {
		s.window = window{start: laterOf(settings.end.Add(-maxQueryWindow), floor), end: settings.end}
	} else {
		s.state = stateNotFound
	}
	return s
}

func (s *searcher) run(ctx context.Context) error {
	for s.state == stateSearching {
		if err := s.step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// step scans the current window and moves the machine forward: found
// stops with the record, an untouched floor slides the window back, a
// reached floor ends the search empty-handed.
func (s *searcher) step(ctx context.Context) error {
	raw, err := s.scan(ctx)
	if err != nil {
		return err
	}
	s.scanned++
	if s.progress != nil {
		s.progress(s.scanned, s.total)
	}

	switch {
	case raw != nil:
		s.found = raw
		s.state = stateFound
	case s.window.start.After(s.floor):
		s.window = window{
			start: laterOf(s.window.start.Add(-maxQueryWindow), s.floor),
			end:   s.window.start,
		}
	default:
		s.state = stateNotFound
	}
	return nil
}

// scan walks one window's records looking for the target ID. The API
// filters on transaction_id server-side, but each yielded record's ID
// is checked here rather than trusted blindly; records carrying no ID
// never match.
func (s *searcher) scan(ctx context.Context) (json.RawMessage, error) {
	s.client.logger.Debug("scanning window",
		"transaction_id", s.id,
		"start", s.window.start,
		"end", s.window.end,
	)

	params := url.Values{}
	params.Set("transaction_id", s.id)
	params.Set("fields", s.fields.paramValue())
	params.Set("start_date", formatTimestamp(s.window.start))
	params.Set("end_date", formatTimestamp(s.window.end))

	pager := newPager(ctx, s.client, transactionsPath, transactionItemsKey, params)
	for pager.Next() {
		raw := pager.Record()
		id, err := record.TransactionID(raw)
		if err != nil {
			return nil, err
		}
		if id == s.id {
			return raw, nil
		}
	}
	if err := pager.Err(); err != nil {
		return nil, err
	}
	return nil, nil
}

// windowCount reports how many scans covering [floor, end] can take.
func windowCount(floor, end time.Time) int {
	span := end.Sub(floor)
	if span <= 0 {
		return 0
	}
	n := int(span / maxQueryWindow)
	if span%maxQueryWindow != 0 {
		n++
	}
	return n
}

func laterOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return b
	}
	return a
}
