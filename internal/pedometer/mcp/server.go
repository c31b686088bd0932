package mcp

import (
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server exposing pedometer statistics, goal progress,
// history and CSV export as tools. now supplies the default reference instant.
func NewServer(svc pedometerService, now func() time.Time) *mcp.Server {
	h := NewHandler(svc, now)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "pedometer",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_stats",
		Description: "Returns totals, per-day averages and per-day maxima of steps, distance (m) and calories (kcal) over a rolling window ending now, plus a per-day chart series of one metric. Args: window (week|month|year), metric (steps|distance|calories); optional at (RFC3339 reference instant).",
	}, h.GetStatsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_goal_progress",
		Description: "Returns every active goal with its current value, remaining amount and completion ratio (0..1) for the calendar period (day, ISO week or month) containing the reference instant. Optional: at (RFC3339).",
	}, h.GetGoalProgressTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_goal_detail",
		Description: "Returns a goal's progress, daily target, chart series (hourly for daily goals, per day otherwise) and the history entries counted towards it. Args: goal_id; optional at (RFC3339).",
	}, h.GetGoalDetailTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_history",
		Description: "Returns recorded activity sessions, newest first. Optional filters: from_date, to_date (YYYY-MM-DD, inclusive), limit.",
	}, h.ListHistoryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "export_csv",
		Description: "Returns the sessions of a rolling window (week|month|year) as CSV text with the Japanese header used by the pedometer app. Optional: at (RFC3339).",
	}, h.ExportCSVTool())

	return s
}
