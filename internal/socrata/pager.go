package socrata

import (
	"context"
	"encoding/json"

	"github.com/openfield/gleaner/pkg/constants"
)

// Pager iterates over a domain's catalog one page at a time. Iteration
// stops when the API returns an empty results page or a request fails.
//
//	pager := socrata.NewPager(client, "data.example.org", 100)
//	for pager.Next(ctx) {
//	    d := pager.Descriptor()
//	    ...
//	}
//	if err := pager.Err(); err != nil {
//	    ...
//	}
type Pager struct {
	client   *Client
	domain   string
	pageSize int

	offset int
	buf    []json.RawMessage
	idx    int
	cur    *Descriptor
	done   bool
	err    error
}

// NewPager creates a pager starting at offset zero. Page sizes outside
// [1, MaxPageSize] are clamped to the defaults.
func NewPager(client *Client, domain string, pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	return &Pager{
		client:   client,
		domain:   domain,
		pageSize: pageSize,
	}
}

// Next advances to the next descriptor, fetching a new page when the
// current one is exhausted. It returns false when iteration is over;
// check Err to distinguish completion from failure.
func (p *Pager) Next(ctx context.Context) bool {
	if p.done || p.err != nil {
		return false
	}

	for p.idx >= len(p.buf) {
		results, err := p.client.FetchPage(ctx, p.domain, p.pageSize, p.offset)
		if err != nil {
			p.err = err
			p.done = true
			return false
		}
		p.offset += p.pageSize
		if len(results) == 0 {
			p.done = true
			return false
		}
		p.buf = results
		p.idx = 0
	}

	d, err := ParseDescriptor(p.buf[p.idx])
	p.idx++
	if err != nil {
		p.err = err
		p.done = true
		return false
	}
	p.cur = d
	return true
}

// Descriptor returns the descriptor produced by the last successful Next.
func (p *Pager) Descriptor() *Descriptor {
	return p.cur
}

// Err returns the error that terminated iteration, or nil after a normal
// end of catalog.
func (p *Pager) Err() error {
	return p.err
}
