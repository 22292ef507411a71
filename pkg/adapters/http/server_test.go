package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor"
	httpAdapter "github.com/aretw0/arbor/pkg/adapters/http"
	"github.com/aretw0/arbor/pkg/domain"
)

func newTestServer(t *testing.T, factLines ...string) *httptest.Server {
	t.Helper()

	eng := arbor.New()
	ctx := context.Background()
	for _, line := range factLines {
		_, err := eng.ApplyLine(ctx, line)
		require.NoError(t, err)
	}

	srv := httptest.NewServer(httpAdapter.NewHandler(eng, nil))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func postFact(t *testing.T, srv *httptest.Server, line string) *http.Response {
	t.Helper()
	body, err := json.Marshal(httpAdapter.FactRequest{Line: line})
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/facts", "application/json", strings.NewReader(string(body)))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_GetItem(t *testing.T) {
	srv := newTestServer(t,
		`Outline "r" was created`,
		`Item "a" was created inside item "r" at position "0"`,
		`Item "a"'s title was changed to "Hello"`,
	)

	resp, body := get(t, srv, "/items/a")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var item domain.Item
	require.NoError(t, json.Unmarshal(body, &item))
	assert.Equal(t, "a", item.ID)
	assert.Equal(t, "r", item.ParentID)
	assert.Equal(t, "Hello", item.Title)

	t.Run("Not Found", func(t *testing.T) {
		resp, _ := get(t, srv, "/items/ghost")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestServer_Outlines(t *testing.T) {
	srv := newTestServer(t, `Outline "r" was created`, `Outline "s" was created`)

	resp, body := get(t, srv, "/outlines")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Outlines []string `json:"outlines"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, []string{"r", "s"}, payload.Outlines)
}

func TestServer_Tree(t *testing.T) {
	srv := newTestServer(t,
		`Outline "r" was created`,
		`Item "r"'s title was changed to "Root"`,
		`Item "a" was created inside item "r" at position "0"`,
	)

	resp, body := get(t, srv, "/outlines/r/tree")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tree domain.Tree
	require.NoError(t, json.Unmarshal(body, &tree))
	assert.Equal(t, "Root", tree.Title)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, "a", tree.Children[0].ID)
}

func TestServer_ApplyFact(t *testing.T) {
	srv := newTestServer(t)

	t.Run("Applied", func(t *testing.T) {
		resp := postFact(t, srv, `Outline "r" was created`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var out httpAdapter.FactResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.True(t, out.Applied)
		assert.Equal(t, domain.FactOutlineCreated, out.Fact.Kind)
	})

	t.Run("Precondition Conflict", func(t *testing.T) {
		resp := postFact(t, srv, `Outline "r" was created`)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Unparseable Line", func(t *testing.T) {
		resp := postFact(t, srv, `Item "a" was painted blue`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Bad Position Token", func(t *testing.T) {
		resp := postFact(t, srv, `Item "a" was created inside item "r" at position "01"`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Missing Body", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/facts", "application/json", strings.NewReader(`{}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
