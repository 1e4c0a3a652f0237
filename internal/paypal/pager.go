package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// pageEnvelope is the pagination wrapper the reporting endpoints put
// around their item arrays. The items themselves live under a
// per-endpoint key.
type pageEnvelope struct {
	Page       int `json:"page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// pager walks every record a paginated endpoint returns for one query,
// requesting pages lazily as the caller advances. It is single-use and
// not safe for concurrent use.
type pager struct {
	ctx      context.Context
	client   *Client
	path     string
	itemsKey string
	params   url.Values

	items   []json.RawMessage
	current json.RawMessage
	err     error
	page    int
	started bool
	done    bool
}

// newPager prepares an iterator over path. itemsKey names the envelope
// key holding the page's record array. params are copied; page and
// page_size are managed here.
func newPager(ctx context.Context, client *Client, path, itemsKey string, params url.Values) *pager {
	base := url.Values{}
	for k, vs := range params {
		base[k] = append([]string(nil), vs...)
	}
	base.Set("page_size", strconv.Itoa(client.pageSize))
	return &pager{
		ctx:      ctx,
		client:   client,
		path:     path,
		itemsKey: itemsKey,
		params:   base,
	}
}

// Next advances to the following record, fetching the next page when
// the buffered one runs out. It returns false once the server signals
// the final page, a page comes back empty, or a request fails.
func (p *pager) Next() bool {
	if p.err != nil {
		return false
	}
	for len(p.items) == 0 {
		if p.done {
			return false
		}
		if err := p.fetch(); err != nil {
			p.err = err
			return false
		}
	}
	p.current = p.items[0]
	p.items = p.items[1:]
	return true
}

// Record returns the raw record Next advanced to.
func (p *pager) Record() json.RawMessage { return p.current }

// Err reports the error that stopped iteration, nil after a clean end.
func (p *pager) Err() error { return p.err }

func (p *pager) fetch() error {
	next := 1
	if p.started {
		next = p.page + 1
	}
	query := url.Values{}
	for k, vs := range p.params {
		query[k] = vs
	}
	query.Set("page", strconv.Itoa(next))

	body, err := p.client.getBody(p.ctx, p.path, query)
	if err != nil {
		return err
	}

	var envelope pageEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return &TransientError{Err: fmt.Errorf("decoding page envelope from %s: %w", p.path, err)}
	}
	var byKey map[string]json.RawMessage
	if err := json.Unmarshal(body, &byKey); err != nil {
		return &TransientError{Err: fmt.Errorf("decoding page envelope from %s: %w", p.path, err)}
	}
	var items []json.RawMessage
	if raw, ok := byKey[p.itemsKey]; ok {
		if err := json.Unmarshal(raw, &items); err != nil {
			return &TransientError{Err: fmt.Errorf("decoding %s items from %s: %w", p.itemsKey, p.path, err)}
		}
	}

	// Trust the server's own page counter, but never move backward; no
	// page is requested twice.
	p.started = true
	if envelope.Page > p.page {
		p.page = envelope.Page
	} else {
		p.page = next
	}

	if len(items) == 0 || p.page >= envelope.TotalPages {
		p.done = true
	}
	p.items = items
	return nil
}
