package mcp

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds the fittrack MCP server. It is mounted by the backend at
// /mcp and served over stdio by cmd/fitness_mcp.
func NewServer(service contextService) *mcp.Server {
	h := NewHandler(service)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "fittrack-context",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_fitness_schema",
		Description: "Returns the DB schema of the fittrack tables (plans, per-day workout and diet history, macro history, exercise log): columns, types, nullable, default.",
	}, h.GetFitnessSchemaTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workout_history",
		Description: "Returns the tracked workout days of a user in a date range, with every exercise and its completion. Args: user_id, from_date, to_date (YYYY-MM-DD).",
	}, h.GetWorkoutHistoryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_macro_history",
		Description: "Returns the daily macro totals (calories, protein, carbs, fats) of a user in a date range. Args: user_id, from_date, to_date (YYYY-MM-DD).",
	}, h.GetMacroHistoryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_streaks",
		Description: "Returns the current workout and diet streaks of a user: consecutive completed days ending today. Arg: user_id.",
	}, h.GetStreaksTool())

	return s
}

// NewHTTPHandler serves the server over streamable HTTP.
func NewHTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}
