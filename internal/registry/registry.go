// Package registry maps harvester names to factories that wire them
// against shared infrastructure. It lives apart from the harvester
// implementations so adding a catalog flavor means one import and one
// map entry here.
package registry

import (
	"sort"

	"github.com/openfield/gleaner/internal/socrata"
	"github.com/openfield/gleaner/internal/transport"
	"github.com/openfield/gleaner/pkg/errors"
	"github.com/openfield/gleaner/pkg/harvest"
	"github.com/openfield/gleaner/pkg/record"
)

// Deps carries the shared infrastructure a harvester factory wires in.
// CatalogBase and PageSize are optional; factories fall back to their
// harvester's defaults.
type Deps struct {
	Store       harvest.Store
	Repository  record.Repository
	Transport   *transport.Config
	CatalogBase string
	PageSize    int
}

// factory builds a wired harvester. Info on the result must work without
// touching the dependencies so factories can describe themselves when
// called with zero Deps.
type factory func(Deps) harvest.Harvester

var registry = map[string]factory{
	socrata.Name: newSocrata,
}

func newSocrata(deps Deps) harvest.Harvester {
	client := socrata.NewClient(deps.CatalogBase, transport.New(deps.Transport))
	return socrata.New(deps.Store, deps.Repository, client, deps.PageSize)
}

// Get returns the named harvester wired against deps.
func Get(name string, deps Deps) (harvest.Harvester, error) {
	f, ok := registry[name]
	if !ok {
		return nil, errors.NewValidationError("harvester", name, "unsupported harvester: "+name)
	}
	return f(deps), nil
}

// Has reports whether a harvester is registered under the name.
func Has(name string) bool {
	_, ok := registry[name]
	return ok
}

// List returns the registered harvester names, sorted.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Infos returns the self-description of every registered harvester,
// sorted by name.
func Infos() []harvest.Metadata {
	infos := make([]harvest.Metadata, 0, len(registry))
	for _, name := range List() {
		infos = append(infos, registry[name](Deps{}).Info())
	}
	return infos
}
