package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sort"
	"time"

	"github.com/2beens/pedometer/internal/pedometer/activity"
	"github.com/2beens/pedometer/internal/pedometer/service"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// pedometerService is the part of service.Service the tools need.
type pedometerService interface {
	Stats(ctx context.Context, window activity.Window, metric activity.Metric, now time.Time) (*activity.StatsResult, error)
	GoalsOverview(ctx context.Context, now time.Time) ([]service.GoalProgress, error)
	GoalDetail(ctx context.Context, goalID string, now time.Time) (*service.GoalDetail, error)
	History(ctx context.Context) ([]activity.HistoryEntry, error)
	ExportCSV(ctx context.Context, w io.Writer, window activity.Window, now time.Time) error
}

// Handler parses tool input, calls the service and formats the MCP result.
type Handler struct {
	service pedometerService
	now     func() time.Time
}

func NewHandler(service pedometerService, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		service: service,
		now:     now,
	}
}

type StatsInput struct {
	Window string `json:"window" jsonschema:"Rolling window: week (7 days), month (30 days) or year (365 days)"`
	Metric string `json:"metric" jsonschema:"Metric charted per day: steps, distance or calories"`
	At     string `json:"at,omitempty" jsonschema:"Reference instant (RFC3339), defaults to now"`
}

func (h *Handler) GetStatsTool() func(context.Context, *mcp.CallToolRequest, StatsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in StatsInput) (*mcp.CallToolResult, any, error) {
		window, err := activity.ParseWindow(in.Window)
		if err != nil {
			return errorResult("Invalid window: use week, month or year"), nil, nil
		}
		metric, err := activity.ParseMetric(in.Metric)
		if err != nil {
			return errorResult("Invalid metric: use steps, distance or calories"), nil, nil
		}
		now, ok := h.referenceInstant(in.At)
		if !ok {
			return errorResult("Invalid at: use RFC3339, e.g. 2025-07-01T18:00:00+09:00"), nil, nil
		}

		res, err := h.service.Stats(ctx, window, metric, now)
		if err != nil {
			return errorResult("Error computing stats: " + err.Error()), nil, nil
		}
		return jsonResult(res), nil, nil
	}
}

type AtInput struct {
	At string `json:"at,omitempty" jsonschema:"Reference instant (RFC3339), defaults to now"`
}

func (h *Handler) GetGoalProgressTool() func(context.Context, *mcp.CallToolRequest, AtInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in AtInput) (*mcp.CallToolResult, any, error) {
		now, ok := h.referenceInstant(in.At)
		if !ok {
			return errorResult("Invalid at: use RFC3339, e.g. 2025-07-01T18:00:00+09:00"), nil, nil
		}

		overview, err := h.service.GoalsOverview(ctx, now)
		if err != nil {
			return errorResult("Error computing goal progress: " + err.Error()), nil, nil
		}
		return jsonResult(overview), nil, nil
	}
}

type GoalDetailInput struct {
	GoalID string `json:"goal_id" jsonschema:"Goal id, as returned by get_goal_progress"`
	At     string `json:"at,omitempty" jsonschema:"Reference instant (RFC3339), defaults to now"`
}

func (h *Handler) GetGoalDetailTool() func(context.Context, *mcp.CallToolRequest, GoalDetailInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in GoalDetailInput) (*mcp.CallToolResult, any, error) {
		if in.GoalID == "" {
			return errorResult("Missing goal_id"), nil, nil
		}
		now, ok := h.referenceInstant(in.At)
		if !ok {
			return errorResult("Invalid at: use RFC3339, e.g. 2025-07-01T18:00:00+09:00"), nil, nil
		}

		detail, err := h.service.GoalDetail(ctx, in.GoalID, now)
		if err != nil {
			return errorResult("Error fetching goal: " + err.Error()), nil, nil
		}
		return jsonResult(detail), nil, nil
	}
}

type HistoryInput struct {
	FromDate string `json:"from_date,omitempty" jsonschema:"Start date (YYYY-MM-DD), inclusive"`
	ToDate   string `json:"to_date,omitempty" jsonschema:"End date (YYYY-MM-DD), inclusive"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum number of entries, 0 for all"`
}

func (h *Handler) ListHistoryTool() func(context.Context, *mcp.CallToolRequest, HistoryInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in HistoryInput) (*mcp.CallToolResult, any, error) {
		if in.FromDate != "" {
			if _, err := activity.ParseDayKey(in.FromDate, time.UTC); err != nil {
				return errorResult("Invalid from_date: use YYYY-MM-DD"), nil, nil
			}
		}
		if in.ToDate != "" {
			if _, err := activity.ParseDayKey(in.ToDate, time.UTC); err != nil {
				return errorResult("Invalid to_date: use YYYY-MM-DD"), nil, nil
			}
		}
		if in.Limit < 0 {
			return errorResult("Invalid limit: must not be negative"), nil, nil
		}

		entries, err := h.service.History(ctx)
		if err != nil {
			return errorResult("Error listing history: " + err.Error()), nil, nil
		}

		// day-keys sort chronologically as strings
		selected := make([]activity.HistoryEntry, 0, len(entries))
		for _, e := range entries {
			if in.FromDate != "" && e.Date < in.FromDate {
				continue
			}
			if in.ToDate != "" && e.Date > in.ToDate {
				continue
			}
			selected = append(selected, e)
		}
		sort.SliceStable(selected, func(i, j int) bool {
			return selected[i].Date > selected[j].Date
		})
		if in.Limit > 0 && len(selected) > in.Limit {
			selected = selected[:in.Limit]
		}

		return jsonResult(selected), nil, nil
	}
}

type ExportCSVInput struct {
	Window string `json:"window" jsonschema:"Rolling window: week, month or year"`
	At     string `json:"at,omitempty" jsonschema:"Reference instant (RFC3339), defaults to now"`
}

func (h *Handler) ExportCSVTool() func(context.Context, *mcp.CallToolRequest, ExportCSVInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ExportCSVInput) (*mcp.CallToolResult, any, error) {
		window, err := activity.ParseWindow(in.Window)
		if err != nil {
			return errorResult("Invalid window: use week, month or year"), nil, nil
		}
		now, ok := h.referenceInstant(in.At)
		if !ok {
			return errorResult("Invalid at: use RFC3339, e.g. 2025-07-01T18:00:00+09:00"), nil, nil
		}

		var buf bytes.Buffer
		if err := h.service.ExportCSV(ctx, &buf, window, now); err != nil {
			return errorResult("Error exporting CSV: " + err.Error()), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: buf.String()}},
		}, nil, nil
	}
}

func (h *Handler) referenceInstant(at string) (time.Time, bool) {
	if at == "" {
		return h.now(), true
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}
