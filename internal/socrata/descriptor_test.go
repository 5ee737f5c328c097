package socrata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfield/gleaner/pkg/errors"
)

func TestParseDescriptor(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "descriptor.json"))
	require.NoError(t, err)

	d, err := ParseDescriptor(data)
	require.NoError(t, err)

	assert.Equal(t, "abcd-1234", d.Resource.ID)
	assert.Equal(t, "abcd-1234", d.GUID())
	assert.Equal(t, "Test Set", d.Resource.Name)
	assert.Equal(t, "Monthly counts of reported incidents by neighborhood.", d.Resource.Description)
	assert.Equal(t, "City of Example", d.Resource.Attribution)
	assert.Equal(t, "official", d.Resource.Provenance)
	assert.Equal(t, "https://data.example.org/d/abcd-1234", d.Permalink)
	assert.Equal(t, "data.example.org", d.Metadata.Domain)

	assert.Equal(t, []string{"crime", "Crime", "police"}, d.Classification.Tags)
	assert.Equal(t, []string{"monthly", "crime"}, d.Classification.DomainTags)
	require.Len(t, d.Classification.DomainMetadata, 2)
	assert.Equal(t, "Department_Lead-Agency", d.Classification.DomainMetadata[0].Key)
	assert.Equal(t, "Police", d.Classification.DomainMetadata[0].Value)
}

func TestParseDescriptorKeepsRawBytes(t *testing.T) {
	// Fields the model does not know about must survive in the snapshot.
	data := []byte(`{"resource": {"id": "abcd-1234", "name": "Test Set"}, "unmodeled": {"depth": 3}}`)

	d, err := ParseDescriptor(data)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(d.Raw()))
}

func TestParseDescriptorInvalid(t *testing.T) {
	_, err := ParseDescriptor([]byte("<html>service unavailable</html>"))
	require.Error(t, err)

	var perr *errors.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestDescriptorZeroValues(t *testing.T) {
	d, err := ParseDescriptor([]byte(`{"resource": {"id": "abcd-1234"}}`))
	require.NoError(t, err)

	assert.Empty(t, d.Resource.Name)
	assert.Empty(t, d.Classification.Tags)
	assert.Empty(t, d.Classification.DomainMetadata)
	assert.Empty(t, d.Permalink)
}
