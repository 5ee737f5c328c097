package socrata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	objectmemory "github.com/openfield/gleaner/internal/objectstore/memory"
	repomemory "github.com/openfield/gleaner/internal/repository/memory"
	"github.com/openfield/gleaner/internal/transport"
	"github.com/openfield/gleaner/pkg/constants"
	"github.com/openfield/gleaner/pkg/harvest"
)

// catalogEntry builds a minimal valid catalog result for test servers.
func catalogEntry(id, name string) string {
	return fmt.Sprintf(
		`{"resource": {"id": %q, "name": %q, "attribution": "City of Example"}, `+
			`"classification": {"tags": ["test"]}, `+
			`"permalink": "https://data.example.org/d/%s"}`,
		id, name, id)
}

// catalogPage wraps entries in the discovery API's envelope.
func catalogPage(entries ...string) string {
	return fmt.Sprintf(`{"results": [%s], "resultSetSize": %d}`,
		strings.Join(entries, ", "), len(entries))
}

// newTestClient builds a client against a test server with rate limiting
// effectively disabled so tests stay fast.
func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, transport.New(&transport.Config{
		Timeout:           5 * time.Second,
		RequestsPerSecond: 10000,
		Burst:             10000,
	}))
}

// newTestHarvester wires a harvester against in-memory stores and a test
// catalog server.
func newTestHarvester(baseURL string, pageSize int) (*Harvester, *objectmemory.Store, *repomemory.Repository) {
	store := objectmemory.New()
	repo := repomemory.New()
	return New(store, repo, newTestClient(baseURL), pageSize), store, repo
}

func TestInfo(t *testing.T) {
	h, _, _ := newTestHarvester("http://localhost", 0)

	info := h.Info()
	assert.Equal(t, "socrata", info.Name)
	assert.Equal(t, "Socrata", info.Title)
	assert.Equal(t, "Harvests from Socrata data catalogues", info.Description)
}

func TestNewClampsPageSize(t *testing.T) {
	tests := []struct {
		name     string
		pageSize int
		want     int
	}{
		{"zero uses default", 0, constants.DefaultPageSize},
		{"negative uses default", -5, constants.DefaultPageSize},
		{"in range kept", 25, 25},
		{"above max clamped", constants.MaxPageSize + 1, constants.MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _ := newTestHarvester("http://localhost", tt.pageSize)
			assert.Equal(t, tt.want, h.pageSize)
		})
	}
}

func TestFetchIsNoOp(t *testing.T) {
	h, store, _ := newTestHarvester("http://localhost", 0)
	ctx := context.Background()

	obj := &harvest.Object{GUID: "abcd-1234", Content: "{}"}
	require.NoError(t, store.CreateObject(ctx, obj))

	require.NoError(t, h.Fetch(ctx, obj))
	require.NoError(t, h.Fetch(ctx, nil))

	stored, err := store.GetObject(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, "{}", stored.Content)
	assert.Equal(t, harvest.StateNew, stored.State)
}

// newCatalogServer serves catalog pages keyed by offset and records the
// offsets requested, in order.
func newCatalogServer(pages map[string]string, requested *[]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset := r.URL.Query().Get("offset")
		if requested != nil {
			*requested = append(*requested, offset)
		}
		body, ok := pages[offset]
		if !ok {
			body = catalogPage()
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}
