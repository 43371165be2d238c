package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sourcery/internal/model"
	"sourcery/internal/pipeline"
	"sourcery/internal/resolver"
)

type stubResolver struct {
	loc model.Location
	err error
}

func (s stubResolver) Resolve(string, uint64) (model.Location, error) {
	return s.loc, s.err
}

func newHandler(r pipeline.Resolver) *Handler {
	return NewHandler(pipeline.NewRegistry(func(name string) *pipeline.Pane {
		return pipeline.NewPane(name, r)
	}))
}

func call(t *testing.T, fn func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := fn(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text, res.IsError
}

func TestNavigateTool(t *testing.T) {
	root := t.TempDir()
	local := filepath.Join(root, "local", "foo.c")
	require.NoError(t, os.MkdirAll(filepath.Dir(local), 0o755))
	require.NoError(t, os.WriteFile(local, []byte("int x;\nint main(void)\n{\n"), 0o644))
	build := filepath.Join(root, "src", "foo.c")

	h := newHandler(stubResolver{loc: model.Location{Function: "main", File: build, Line: 2, RawLineSpec: build + ":2"}})

	text, isErr := call(t, h.Navigate, map[string]any{"offset": "0x1000"})
	assert.True(t, isErr)
	assert.Contains(t, text, "no module attached")

	_, isErr = call(t, h.Attach, map[string]any{"module": "/bin/foo"})
	assert.False(t, isErr)

	text, isErr = call(t, h.Navigate, map[string]any{"offset": "0x1000"})
	assert.False(t, isErr)
	assert.Contains(t, text, "not found")

	text, isErr = call(t, h.AddSubstitution, map[string]any{
		"original": filepath.Join(root, "src") + "/",
		"local":    filepath.Join(root, "local") + "/",
	})
	assert.False(t, isErr)
	assert.Contains(t, text, "added path substitution")

	text, _ = call(t, h.Navigate, map[string]any{"offset": "4096"})
	assert.Contains(t, text, "Function: main")
	assert.Contains(t, text, "  >     2  int main(void)")
}

func TestNavigateToolErrors(t *testing.T) {
	h := newHandler(stubResolver{err: &resolver.ProcessError{Tool: "addr2line", Err: os.ErrNotExist}})
	call(t, h.Attach, map[string]any{"module": "/bin/foo"})

	text, isErr := call(t, h.Navigate, map[string]any{"offset": "nope"})
	assert.True(t, isErr)
	assert.Contains(t, text, "invalid offset")

	text, isErr = call(t, h.Navigate, map[string]any{"offset": "0x10"})
	assert.True(t, isErr)
	assert.Contains(t, text, "ERROR: addr2line failed")
}

func TestSubstitutionTools(t *testing.T) {
	h := newHandler(stubResolver{})

	text, _ := call(t, h.ListSubstitutions, map[string]any{})
	assert.Equal(t, "no path substitutions", text)

	_, isErr := call(t, h.AddSubstitution, map[string]any{"original": "", "local": "/x/"})
	assert.True(t, isErr)

	call(t, h.AddSubstitution, map[string]any{"original": "/build/", "local": "/src/"})
	text, _ = call(t, h.ListSubstitutions, map[string]any{})
	assert.Equal(t, "/build/ => /src/\n", text)

	text, isErr = call(t, h.AddSubstitution, map[string]any{"original": "/build/"})
	assert.False(t, isErr)
	assert.Contains(t, text, "removed")
}

func TestSetSyncTool(t *testing.T) {
	h := newHandler(stubResolver{})

	text, _ := call(t, h.SetSync, map[string]any{"pane": "p1"})
	assert.Equal(t, "source sync off", text)

	text, _ = call(t, h.SetSync, map[string]any{"pane": "p1", "enabled": true})
	assert.Equal(t, "source sync on", text)

	text, _ = call(t, h.SetSync, map[string]any{"pane": "p1", "enabled": false})
	assert.Equal(t, "source sync off", text)

	call(t, h.Attach, map[string]any{"pane": "p1", "module": "/bin/foo"})
	text, isErr := call(t, h.Navigate, map[string]any{"pane": "p1", "offset": "0x1"})
	assert.False(t, isErr)
	assert.Contains(t, text, "source sync is off")
}

func TestNew(t *testing.T) {
	assert.NotNil(t, New(newHandler(stubResolver{})))
}
