package socrata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagerWalksPagesInOrder(t *testing.T) {
	var requested []string
	srv := newCatalogServer(map[string]string{
		"0": catalogPage(catalogEntry("aaaa-0001", "First"), catalogEntry("aaaa-0002", "Second")),
		"2": catalogPage(catalogEntry("aaaa-0003", "Third")),
	}, &requested)
	defer srv.Close()

	pager := NewPager(newTestClient(srv.URL), "data.example.org", 2)

	var guids []string
	ctx := context.Background()
	for pager.Next(ctx) {
		guids = append(guids, pager.Descriptor().GUID())
	}

	require.NoError(t, pager.Err())
	assert.Equal(t, []string{"aaaa-0001", "aaaa-0002", "aaaa-0003"}, guids)
	// A partial page still advances the offset; only the empty page stops it.
	assert.Equal(t, []string{"0", "2", "4"}, requested)
}

func TestPagerEmptyCatalog(t *testing.T) {
	srv := newCatalogServer(nil, nil)
	defer srv.Close()

	pager := NewPager(newTestClient(srv.URL), "data.example.org", 100)

	assert.False(t, pager.Next(context.Background()))
	assert.NoError(t, pager.Err())
	assert.Nil(t, pager.Descriptor())
}

func TestPagerStopsOnError(t *testing.T) {
	srv := newCatalogServer(map[string]string{
		"0": catalogPage(catalogEntry("aaaa-0001", "First")),
		"1": `{"error": "Invalid offset"}`,
	}, nil)
	defer srv.Close()

	pager := NewPager(newTestClient(srv.URL), "data.example.org", 1)

	var guids []string
	ctx := context.Background()
	for pager.Next(ctx) {
		guids = append(guids, pager.Descriptor().GUID())
	}

	// Descriptors seen before the failing page remain consumed.
	assert.Equal(t, []string{"aaaa-0001"}, guids)
	require.Error(t, pager.Err())
	assert.Contains(t, pager.Err().Error(), "Invalid offset")
}

func TestPagerStaysStoppedAfterError(t *testing.T) {
	srv := newCatalogServer(map[string]string{
		"0": "<html>service unavailable</html>",
	}, nil)
	defer srv.Close()

	pager := NewPager(newTestClient(srv.URL), "data.example.org", 100)
	ctx := context.Background()

	assert.False(t, pager.Next(ctx))
	require.Error(t, pager.Err())

	// Further calls never resume iteration or clear the error.
	assert.False(t, pager.Next(ctx))
	require.Error(t, pager.Err())
}

func TestPagerClampsPageSize(t *testing.T) {
	pager := NewPager(newTestClient("http://localhost"), "data.example.org", 0)
	assert.Equal(t, 100, pager.pageSize)

	pager = NewPager(newTestClient("http://localhost"), "data.example.org", 100000)
	assert.Equal(t, 1000, pager.pageSize)
}
