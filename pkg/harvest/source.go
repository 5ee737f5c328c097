package harvest

import (
	"net/url"
	"strings"

	"github.com/openfield/gleaner/pkg/errors"
)

// Source is a configured remote catalog to harvest from. The source is
// also registered as a record in the local store; its OwnerOrg is the
// local organization that owns every record harvested from it.
type Source struct {
	// ID identifies the source; it doubles as the local record ID of the
	// source's own entry in the record store
	ID string

	// URL is the catalog site, e.g. https://data.example.com
	URL string

	// Title is the human-readable source name
	Title string

	// OwnerOrg is the local organization harvested records belong to
	OwnerOrg string
}

// Hostname derives the catalog domain from the source URL. The domain is
// what the catalog API expects in its domains and search_context query
// parameters.
func (s *Source) Hostname() (string, error) {
	u, err := url.Parse(strings.TrimSpace(s.URL))
	if err != nil {
		return "", errors.WrapValidation("url", err)
	}
	host := u.Hostname()
	if host == "" {
		return "", errors.NewValidationError("url", s.URL, "has no hostname")
	}
	return host, nil
}

// CanonicalURL returns the source URL with trailing slashes stripped,
// the form recorded in harvested records' provenance extras.
func (s *Source) CanonicalURL() string {
	return strings.TrimRight(strings.TrimSpace(s.URL), "/")
}
