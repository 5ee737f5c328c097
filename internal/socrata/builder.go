package socrata

import (
	"fmt"

	"github.com/openfield/gleaner/pkg/errors"
	"github.com/openfield/gleaner/pkg/harvest"
	"github.com/openfield/gleaner/pkg/munge"
	"github.com/openfield/gleaner/pkg/record"
)

// downloadFormat is the only distribution format the discovery API
// guarantees for tabular datasets.
const downloadFormat = "CSV"

// DownloadURL returns the dataset's CSV export endpoint on its home domain.
func DownloadURL(domain, resourceID string) string {
	return fmt.Sprintf("https://%s/api/views/%s/rows.csv?accessType=DOWNLOAD", domain, resourceID)
}

// BuildDataset maps a catalog descriptor to a dataset record. The
// descriptor must carry a resource name, id, and attribution; anything
// else is optional. Harvest provenance is recorded in the extras, and the
// dataset gets a single CSV download resource.
func BuildDataset(d *Descriptor, source *harvest.Source, localOrg string) (*record.Dataset, error) {
	if d.Resource.Name == "" {
		return nil, malformed(d, "resource.name")
	}
	if d.Resource.ID == "" {
		return nil, malformed(d, "resource.id")
	}
	if d.Resource.Attribution == "" {
		return nil, malformed(d, "resource.attribution")
	}

	domain, err := source.Hostname()
	if err != nil {
		return nil, err
	}

	ds := &record.Dataset{
		Title:      d.Resource.Name,
		Name:       munge.TitleToName(d.Resource.Name),
		URL:        d.Permalink,
		Notes:      d.Resource.Description,
		Author:     d.Resource.Attribution,
		Identifier: d.Resource.ID,
		OwnerOrg:   localOrg,
	}
	if d.Resource.Provenance != "" {
		ds.Provenance = d.Resource.Provenance
	}

	names := append([]string{}, d.Classification.Tags...)
	names = append(names, d.Classification.DomainTags...)
	for _, name := range munge.Tags(names) {
		ds.Tags = append(ds.Tags, record.Tag{Name: name})
	}

	for _, m := range d.Classification.DomainMetadata {
		ds.Extras = append(ds.Extras, record.Extra{Key: m.Key, Value: m.Value})
	}
	ds.Extras = append(ds.Extras,
		record.Extra{Key: "harvest_source_id", Value: source.ID},
		record.Extra{Key: "harvest_source_url", Value: source.CanonicalURL()},
		record.Extra{Key: "harvest_source_title", Value: source.Title},
	)

	ds.Resources = []record.Resource{
		{URL: DownloadURL(domain, d.Resource.ID), Format: downloadFormat},
	}
	return ds, nil
}

func malformed(d *Descriptor, field string) error {
	return &errors.MalformedDescriptorError{
		GUID:    d.Resource.ID,
		Field:   field,
		Message: "required field is missing",
	}
}
