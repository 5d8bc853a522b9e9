package hh

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const areaTreeJSON = `[
  {
    "id": "113",
    "name": "Россия",
    "areas": [
      {
        "id": "1384",
        "name": "Челябинская область",
        "areas": [
          {"id": "104", "name": "Челябинск", "areas": []},
          {"id": "1219", "name": "Миасс", "areas": []}
        ]
      }
    ]
  },
  {"id": "40", "name": "Казахстан", "areas": []}
]`

func areaServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/areas", r.URL.Path)
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		fmt.Fprint(w, areaTreeJSON)
	}))
}

func TestResolveAreaID_FetchesAndCaches(t *testing.T) {
	var calls int32
	srv := areaServer(t, &calls)
	defer srv.Close()

	cachePath := filepath.Join(t.TempDir(), "areas.json")
	r := NewAreaResolver(testClient(t, srv.URL), cachePath, zap.NewNop())

	assert.Equal(t, "104", r.ResolveAreaID(context.Background(), "Челябинск"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// cache written, non-ASCII preserved
	b, err := os.ReadFile(cachePath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Челябинск")

	// second lookup comes from the cache, no further requests
	assert.Equal(t, "1219", r.ResolveAreaID(context.Background(), "миасс"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestResolveAreaID_CaseInsensitiveTrimmedMatch(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "areas.json")
	require.NoError(t, os.WriteFile(cachePath, []byte(areaTreeJSON), 0o644))

	r := NewAreaResolver(nil, cachePath, zap.NewNop())
	assert.Equal(t, "40", r.ResolveAreaID(context.Background(), "  казахстан  "))
}

func TestResolveAreaID_PreOrderFirstMatchWins(t *testing.T) {
	tree := `[
	  {"id": "1", "name": "Dupe", "areas": [{"id": "2", "name": "Dupe", "areas": []}]},
	  {"id": "3", "name": "Dupe", "areas": []}
	]`
	cachePath := filepath.Join(t.TempDir(), "areas.json")
	require.NoError(t, os.WriteFile(cachePath, []byte(tree), 0o644))

	r := NewAreaResolver(nil, cachePath, zap.NewNop())
	assert.Equal(t, "1", r.ResolveAreaID(context.Background(), "Dupe"))
}

func TestResolveAreaID_SkipsMalformedTreeNodes(t *testing.T) {
	tree := `[
	  {"id": "1", "name": "Good", "areas": []},
	  42,
	  {"id": "2", "name": "Parent", "areas": [
	    "junk",
	    {"id": "3", "name": "Child", "areas": []}
	  ]}
	]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, tree)
	}))
	defer srv.Close()

	cachePath := filepath.Join(t.TempDir(), "areas.json")
	r := NewAreaResolver(testClient(t, srv.URL), cachePath, zap.NewNop())

	assert.Equal(t, "1", r.ResolveAreaID(context.Background(), "Good"))
	assert.Equal(t, "3", r.ResolveAreaID(context.Background(), "Child"))
}

func TestResolveAreaID_UnknownName(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "areas.json")
	require.NoError(t, os.WriteFile(cachePath, []byte(areaTreeJSON), 0o644))

	r := NewAreaResolver(nil, cachePath, zap.NewNop())
	assert.Equal(t, "0", r.ResolveAreaID(context.Background(), "Unknownsville"))
}

func TestResolveAreaID_SingleNodeTree(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "areas.json")
	require.NoError(t, os.WriteFile(cachePath,
		[]byte(`{"id": "104", "name": "Челябинск", "areas": []}`), 0o644))

	r := NewAreaResolver(nil, cachePath, zap.NewNop())
	assert.Equal(t, "104", r.ResolveAreaID(context.Background(), "Челябинск"))
}

func TestResolveAreaID_CorruptCacheRefetches(t *testing.T) {
	var calls int32
	srv := areaServer(t, &calls)
	defer srv.Close()

	cachePath := filepath.Join(t.TempDir(), "areas.json")
	require.NoError(t, os.WriteFile(cachePath, []byte("{{{ not json"), 0o644))

	r := NewAreaResolver(testClient(t, srv.URL), cachePath, zap.NewNop())
	assert.Equal(t, "104", r.ResolveAreaID(context.Background(), "Челябинск"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// overwritten cache is valid again
	b, err := os.ReadFile(cachePath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(b)), "["))
}

func TestResolveAreaID_FetchFailureYieldsZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cachePath := filepath.Join(t.TempDir(), "areas.json")
	r := NewAreaResolver(testClient(t, srv.URL), cachePath, zap.NewNop())

	assert.Equal(t, "0", r.ResolveAreaID(context.Background(), "Челябинск"))
	_, err := os.Stat(cachePath)
	assert.True(t, os.IsNotExist(err))
}
