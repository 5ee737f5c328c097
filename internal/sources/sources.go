// Package sources loads harvest source definitions from a YAML file.
// A definitions file names the remote catalogs to harvest and which
// harvester understands each one:
//
//	sources:
//	  - id: sf-data
//	    url: https://data.sfgov.org
//	    title: San Francisco Open Data
//	    owner_org: city-of-sf
//	    harvester: socrata
package sources

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/openfield/gleaner/pkg/errors"
	"github.com/openfield/gleaner/pkg/harvest"
)

// DefaultHarvester is assumed when a definition names none.
const DefaultHarvester = "socrata"

// Definition is one source entry in a definitions file.
type Definition struct {
	// ID identifies the source; it doubles as the local record ID of
	// the source's entry in the record store
	ID string `yaml:"id"`

	// URL is the catalog site
	URL string `yaml:"url"`

	// Title is the human-readable source name
	Title string `yaml:"title"`

	// OwnerOrg is the local organization harvested records belong to
	OwnerOrg string `yaml:"owner_org"`

	// Harvester names the harvester for this catalog, default "socrata"
	Harvester string `yaml:"harvester"`
}

// Source converts the definition into the harvester's source type.
func (d *Definition) Source() *harvest.Source {
	return &harvest.Source{
		ID:       d.ID,
		URL:      d.URL,
		Title:    d.Title,
		OwnerOrg: d.OwnerOrg,
	}
}

// file is the top-level document shape.
type file struct {
	Sources []Definition `yaml:"sources"`
}

// Load reads and parses a definitions file.
func Load(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	defs, err := Parse(data)
	if err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return defs, nil
}

// Parse decodes definitions from YAML and validates them.
func Parse(data []byte) ([]Definition, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(f.Sources))
	for i := range f.Sources {
		d := &f.Sources[i]
		if d.Harvester == "" {
			d.Harvester = DefaultHarvester
		}
		if d.ID == "" {
			return nil, errors.NewValidationError("id", "", "source definition needs an id")
		}
		if seen[d.ID] {
			return nil, errors.NewValidationError("id", d.ID, "duplicate source id")
		}
		seen[d.ID] = true
		if d.URL == "" {
			return nil, errors.NewValidationError("url", "", "source "+d.ID+" needs a url")
		}
		if d.OwnerOrg == "" {
			return nil, errors.NewValidationError("owner_org", "", "source "+d.ID+" needs an owner_org")
		}
	}
	return f.Sources, nil
}

// Find returns the definition with the given id.
func Find(defs []Definition, id string) (*Definition, bool) {
	for i := range defs {
		if defs[i].ID == id {
			return &defs[i], true
		}
	}
	return nil, false
}
