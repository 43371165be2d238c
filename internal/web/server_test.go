package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sourcery/internal/metrics"
	"sourcery/internal/model"
	"sourcery/internal/pipeline"
)

type stubResolver struct {
	loc model.Location
}

func (s stubResolver) Resolve(string, uint64) (model.Location, error) {
	return s.loc, nil
}

func newTestServer(t *testing.T, loc model.Location) (http.Handler, *pipeline.Registry) {
	t.Helper()
	m := metrics.New()
	reg := pipeline.NewRegistry(func(name string) *pipeline.Pane {
		return pipeline.NewPane(name, stubResolver{loc: loc}, pipeline.WithMetrics(m))
	})
	return NewHandler(reg, m), reg
}

func do(t *testing.T, h http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNavigateFlow(t *testing.T) {
	root := t.TempDir()
	local := filepath.Join(root, "local", "foo.c")
	require.NoError(t, os.MkdirAll(filepath.Dir(local), 0o755))
	require.NoError(t, os.WriteFile(local, []byte("a\nb\nc\n"), 0o644))
	build := filepath.Join(root, "src", "foo.c")

	h, _ := newTestServer(t, model.Location{Function: "main", File: build, Line: 2, RawLineSpec: build + ":2"})

	rec := do(t, h, http.MethodGet, "/api/navigate?offset=0x1000", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/attach", url.Values{"module": {"/bin/foo"}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/navigate?offset=0x1000", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp navigateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Updated)
	assert.Equal(t, model.StatusNotFound, resp.Display.Status)

	rec = do(t, h, http.MethodPost, "/api/substitutions", url.Values{
		"original": {filepath.Join(root, "src") + "/"},
		"local":    {filepath.Join(root, "local") + "/"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"change":"added"`)

	rec = do(t, h, http.MethodGet, "/api/navigate?offset=4096", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.StatusSource, resp.Display.Status)
	assert.Equal(t, local, resp.Display.File)
	assert.Equal(t, "a\nb\nc\n", resp.Display.Text)
	assert.Equal(t, 2, resp.Display.Cursor)
	assert.Equal(t, uint64(0x1000), resp.Display.Offset)

	rec = do(t, h, http.MethodGet, "/api/current", nil)
	var current model.Display
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &current))
	assert.Equal(t, resp.Display, current)

	rec = do(t, h, http.MethodGet, "/metrics", nil)
	assert.Contains(t, rec.Body.String(), `sourcery_resolutions_total{outcome="source"} 1`)
}

func TestNavigateBadOffset(t *testing.T) {
	h, _ := newTestServer(t, model.Location{})
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/navigate", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/navigate?offset=zz", nil).Code)
}

func TestSubstitutionsRejected(t *testing.T) {
	h, reg := newTestServer(t, model.Location{})

	rec := do(t, h, http.MethodPost, "/api/substitutions", url.Values{"original": {""}, "local": {"/x/"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "can't be blank")

	p, ok := reg.Get(pipeline.DefaultPane)
	require.True(t, ok)
	assert.Empty(t, p.Rules())

	rec = do(t, h, http.MethodGet, "/api/substitutions", nil)
	assert.JSONEq(t, `{"rules":[]}`, rec.Body.String())
}

func TestSync(t *testing.T) {
	h, _ := newTestServer(t, model.Location{})

	rec := do(t, h, http.MethodPost, "/api/sync?pane=libpng", url.Values{})
	assert.JSONEq(t, `{"enabled":false}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/sync?pane=libpng", nil)
	assert.JSONEq(t, `{"enabled":false}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/sync?pane=libpng", url.Values{"enabled": {"true"}})
	assert.JSONEq(t, `{"enabled":true}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/sync?pane=libpng", url.Values{"enabled": {"maybe"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/panes", nil)
	assert.JSONEq(t, `["libpng"]`, rec.Body.String())
}

func TestReadsDoNotCreatePanes(t *testing.T) {
	h, reg := newTestServer(t, model.Location{})

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/substitutions?pane=nope", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/sync?pane=nope", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodDelete, "/api/sync?pane=nope", nil).Code)

	_, ok := reg.Get("nope")
	assert.False(t, ok)
	assert.Empty(t, reg.Names())
}

func TestAttachRequiresPost(t *testing.T) {
	h, _ := newTestServer(t, model.Location{})
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodGet, "/api/attach?module=/bin/foo", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/attach", url.Values{}).Code)
}

func TestLineContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.c")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o644))
	h, _ := newTestServer(t, model.Location{})

	rec := do(t, h, http.MethodGet, "/api/line-context?path="+url.QueryEscape(path)+"&line=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ctx model.LineContext
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ctx))
	assert.Equal(t, "two", ctx.Target)
	assert.Equal(t, "one", ctx.Before1)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/line-context?path=x", nil).Code)
}
