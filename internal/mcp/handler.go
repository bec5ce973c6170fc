package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler adapts tool calls to the context service and formats the results.
type Handler struct {
	service contextService
}

func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

// HistoryInput is the input of the history tools.
type HistoryInput struct {
	UserID   string `json:"user_id" jsonschema:"Id of the fittrack user"`
	FromDate string `json:"from_date" jsonschema:"Start date (YYYY-MM-DD), inclusive"`
	ToDate   string `json:"to_date" jsonschema:"End date (YYYY-MM-DD), inclusive"`
}

// SchemaInput takes no arguments.
type SchemaInput struct{}

// StreaksInput is the input of get_streaks.
type StreaksInput struct {
	UserID string `json:"user_id" jsonschema:"Id of the fittrack user"`
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
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

func (h *Handler) GetFitnessSchemaTool() func(context.Context, *mcp.CallToolRequest, SchemaInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ SchemaInput) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema: " + err.Error()), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

func (h *Handler) GetWorkoutHistoryTool() func(context.Context, *mcp.CallToolRequest, HistoryInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in HistoryInput) (*mcp.CallToolResult, any, error) {
		if in.UserID == "" {
			return errorResult("user_id is required"), nil, nil
		}
		days, err := h.service.WorkoutHistory(ctx, in.UserID, in.FromDate, in.ToDate)
		if err != nil {
			return errorResult("Error listing workout history: " + err.Error()), nil, nil
		}
		return jsonResult(days), nil, nil
	}
}

func (h *Handler) GetMacroHistoryTool() func(context.Context, *mcp.CallToolRequest, HistoryInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in HistoryInput) (*mcp.CallToolResult, any, error) {
		if in.UserID == "" {
			return errorResult("user_id is required"), nil, nil
		}
		macros, err := h.service.MacroHistory(ctx, in.UserID, in.FromDate, in.ToDate)
		if err != nil {
			return errorResult("Error listing macro history: " + err.Error()), nil, nil
		}
		return jsonResult(macros), nil, nil
	}
}

func (h *Handler) GetStreaksTool() func(context.Context, *mcp.CallToolRequest, StreaksInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in StreaksInput) (*mcp.CallToolResult, any, error) {
		if in.UserID == "" {
			return errorResult("user_id is required"), nil, nil
		}
		streaks, err := h.service.Streaks(ctx, in.UserID)
		if err != nil {
			return errorResult("Error computing streaks: " + err.Error()), nil, nil
		}
		return jsonResult(streaks), nil, nil
	}
}
