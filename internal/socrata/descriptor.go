package socrata

import (
	"encoding/json"

	"github.com/openfield/gleaner/pkg/errors"
)

// Descriptor is a single dataset entry from the Socrata discovery API.
// The raw catalog bytes are retained so harvest object content is a
// byte-for-byte snapshot of what the API returned, not a re-serialization.
type Descriptor struct {
	Resource       Resource       `json:"resource"`
	Classification Classification `json:"classification"`
	Permalink      string         `json:"permalink"`
	Metadata       Metadata       `json:"metadata"`

	raw json.RawMessage
}

// Resource holds the dataset's core attributes.
type Resource struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Attribution string `json:"attribution"`
	Provenance  string `json:"provenance"`
}

// Classification carries the catalog's categorization of a dataset.
// DomainMetadata is domain-defined key/value pairs preserved verbatim.
type Classification struct {
	Categories     []string         `json:"categories"`
	Tags           []string         `json:"tags"`
	DomainCategory string           `json:"domain_category"`
	DomainTags     []string         `json:"domain_tags"`
	DomainMetadata []DomainMetadata `json:"domain_metadata"`
}

// DomainMetadata is one custom metadata entry attached by the domain.
type DomainMetadata struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Metadata holds catalog-level attributes of the entry.
type Metadata struct {
	Domain string `json:"domain"`
}

// ParseDescriptor decodes a raw catalog result and keeps the original bytes.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.WrapParse("descriptor", "", err)
	}
	d.raw = append(json.RawMessage(nil), data...)
	return &d, nil
}

// Raw returns the descriptor's original catalog bytes.
func (d *Descriptor) Raw() json.RawMessage {
	return d.raw
}

// GUID returns the dataset's unique identifier within its domain.
func (d *Descriptor) GUID() string {
	return d.Resource.ID
}
