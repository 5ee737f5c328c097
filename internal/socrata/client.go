package socrata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/openfield/gleaner/internal/transport"
	"github.com/openfield/gleaner/pkg/errors"
)

// DefaultBaseURL is the Socrata discovery API endpoint.
const DefaultBaseURL = "https://api.us.socrata.com"

const catalogPath = "/api/catalog/v1"

// Client talks to the Socrata discovery API.
type Client struct {
	base string
	http *transport.Client
}

// NewClient creates a discovery API client. An empty base falls back to
// DefaultBaseURL; a nil transport gets the default configuration.
func NewClient(base string, tc *transport.Client) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	if tc == nil {
		tc = transport.New(nil)
	}
	return &Client{base: base, http: tc}
}

// page is the discovery API's catalog envelope. Results are kept raw so
// each descriptor snapshot preserves the API's exact bytes. A populated
// Error field is the API's way of reporting failure regardless of status.
type page struct {
	Results []json.RawMessage `json:"results"`
	Error   string            `json:"error"`
}

// CatalogURL returns the full catalog request URL for one page.
func (c *Client) CatalogURL(domain string, limit, offset int) string {
	q := url.Values{}
	q.Set("domains", domain)
	q.Set("search_context", domain)
	q.Set("only", "datasets")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	return c.base + catalogPath + "?" + q.Encode()
}

// FetchPage requests one page of catalog results for a domain. It returns
// the raw descriptors in catalog order. Responses that do not decode as a
// catalog envelope, and envelopes carrying an error field, are reported as
// transport errors.
func (c *Client) FetchPage(ctx context.Context, domain string, limit, offset int) ([]json.RawMessage, error) {
	endpoint := c.CatalogURL(domain, limit, offset)

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return nil, errors.WrapTransport(domain, endpoint, err)
	}

	var p page
	if err := json.Unmarshal(resp.Body, &p); err != nil {
		return nil, &errors.TransportError{
			Domain:     domain,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Invalid response from %s", endpoint),
			Err:        err,
		}
	}
	if p.Error != "" {
		return nil, &errors.TransportError{
			Domain:     domain,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    p.Error,
		}
	}
	return p.Results, nil
}
