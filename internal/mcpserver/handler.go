package mcpserver

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"sourcery/internal/model"
	"sourcery/internal/pipeline"
)

// Handler turns MCP tool calls into pane operations.
type Handler struct {
	panes  *pipeline.Registry
	logger *logrus.Entry
}

// NewHandler returns a Handler over the panes in reg.
func NewHandler(reg *pipeline.Registry) *Handler {
	return &Handler{
		panes:  reg,
		logger: logrus.WithField("component", "mcp"),
	}
}

func (h *Handler) pane(req mcp.CallToolRequest) *pipeline.Pane {
	return h.panes.Open(req.GetString("pane", pipeline.DefaultPane))
}

// Attach handles the attach tool.
func (h *Handler) Attach(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	module, err := req.RequireString("module")
	if err != nil || module == "" {
		return mcp.NewToolResultError("module is required"), nil
	}
	p := h.pane(req)
	p.Attach(module)
	return mcp.NewToolResultText(fmt.Sprintf("pane %s attached to %s", p.Name(), module)), nil
}

// Navigate handles the navigate tool.
func (h *Handler) Navigate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	offsetStr, err := req.RequireString("offset")
	if err != nil {
		return mcp.NewToolResultError("offset is required"), nil
	}
	offset, err := strconv.ParseUint(offsetStr, 0, 64)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid offset %q", offsetStr)), nil
	}

	p := h.pane(req)
	if p.Module() == "" {
		return mcp.NewToolResultError("no module attached, call attach first"), nil
	}

	d, updated := p.Navigate(offset)
	if !updated {
		return mcp.NewToolResultText("source sync is off; display unchanged\n\n" + pipeline.GenerateReport([]model.Display{d}, false)), nil
	}
	h.logger.WithFields(logrus.Fields{"pane": p.Name(), "offset": offset, "status": d.Status}).Debug("navigate")

	if d.Status == model.StatusError {
		return mcp.NewToolResultError(d.Text), nil
	}
	return mcp.NewToolResultText(pipeline.GenerateReport([]model.Display{d}, false)), nil
}

// AddSubstitution handles the add_substitution tool.
func (h *Handler) AddSubstitution(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	original := req.GetString("original", "")
	local := req.GetString("local", "")

	change, err := h.pane(req).AddRule(original, local)
	if err != nil {
		return mcp.NewToolResultError("path substitution error: " + err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s path substitution: %s -> %s", change, original, local)), nil
}

// ListSubstitutions handles the list_substitutions tool.
func (h *Handler) ListSubstitutions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rules := h.pane(req).Rules()
	if len(rules) == 0 {
		return mcp.NewToolResultText("no path substitutions"), nil
	}
	var sb strings.Builder
	for _, r := range rules {
		fmt.Fprintf(&sb, "%s => %s\n", r.Original, r.Local)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// SetSync handles the set_sync tool.
func (h *Handler) SetSync(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := h.pane(req)

	var enabled bool
	if _, ok := req.GetArguments()["enabled"]; ok {
		enabled = req.GetBool("enabled", true)
		p.SetSync(enabled)
	} else {
		enabled = p.ToggleSync()
	}

	state := "off"
	if enabled {
		state = "on"
	}
	return mcp.NewToolResultText("source sync " + state), nil
}
