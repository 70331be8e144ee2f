package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/voxelbot/voxelbot/internal/event"
	"github.com/voxelbot/voxelbot/internal/game"
)

// QueryRecentEventsInput represents the MCP tool input for event queries.
type QueryRecentEventsInput struct {
	EventType string `json:"event_type,omitempty" jsonschema:"filter to one event type"`
	SinceTick *int64 `json:"since_tick,omitempty" jsonschema:"keep only events at or after this game tick"`
	Limit     *int   `json:"limit,omitempty" jsonschema:"maximum events returned (default 50)"`
	// IncludeDetails defaults to true; when false each event is reduced to
	// its type and game tick.
	IncludeDetails *bool `json:"include_details,omitempty" jsonschema:"include full payloads (default true)"`
}

// QueryRecentEventsResult represents the MCP tool output for event queries.
// Total counts matches before truncation; exactly one of Events or
// Summaries is populated depending on include_details.
type QueryRecentEventsResult struct {
	Total     int             `json:"total" jsonschema:"matching events before the limit was applied"`
	Events    []event.Event   `json:"events,omitempty"`
	Summaries []event.Summary `json:"summaries,omitempty"`
}

// EventStatsResult represents the MCP tool output for event statistics.
type EventStatsResult struct {
	Total   int            `json:"total"`
	ByType  map[string]int `json:"by_type"`
	MinTick *int64         `json:"min_tick"`
	MaxTick *int64         `json:"max_tick"`
}

// CleanupOldEventsInput represents the MCP tool input for tick-threshold
// cleanup.
type CleanupOldEventsInput struct {
	BeforeTick int64 `json:"before_tick" jsonschema:"remove events with gameTick strictly below this"`
}

// CleanupOldEventsResult represents the MCP tool output for cleanup.
type CleanupOldEventsResult struct {
	Removed int `json:"removed"`
}

// ClearEventsResult represents the MCP tool output for clearing the log.
type ClearEventsResult struct {
	Cleared bool `json:"cleared"`
}

// SetEnabledEventsInput represents the MCP tool input for replacing the
// enabled-type set.
type SetEnabledEventsInput struct {
	EventTypes []string `json:"event_types" jsonschema:"the complete set of event types to enable"`
}

// SetEnabledEventsResult represents the MCP tool output for the enabled-type
// replacement.
type SetEnabledEventsResult struct {
	Enabled []string `json:"enabled"`
}

// SupportedEventTypesResult represents the MCP tool output listing known
// event types.
type SupportedEventTypesResult struct {
	EventTypes []string `json:"event_types"`
}

// SendChatInput represents the MCP tool input for sending chat.
type SendChatInput struct {
	Text string `json:"text" jsonschema:"chat message to send"`
}

// SendChatResult represents the MCP tool output for sending chat.
type SendChatResult struct {
	Sent bool `json:"sent"`
}

func registerEventTools(mcpServer *mcp.Server, store *event.Store) {
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "query_recent_events",
		Description: "Query the in-memory event log with optional type and tick filters",
	}, queryRecentEventsHandler(store))

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "get_event_stats",
		Description: "Report event counts by type and the stored tick range",
	}, eventStatsHandler(store))

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "cleanup_old_events",
		Description: "Remove events older than a game tick threshold",
	}, cleanupOldEventsHandler(store))

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "clear_events",
		Description: "Empty the event log",
	}, clearEventsHandler(store))

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "set_enabled_events",
		Description: "Replace the set of event types the agent records",
	}, setEnabledEventsHandler(store))

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "get_supported_event_types",
		Description: "List every event type the agent can record",
	}, supportedEventTypesHandler())
}

func registerChatTools(mcpServer *mcp.Server, conn game.Conn) {
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "send_chat",
		Description: "Send a chat message into the game as the agent",
	}, sendChatHandler(conn))
}

func queryRecentEventsHandler(store *event.Store) mcp.ToolHandlerFor[QueryRecentEventsInput, QueryRecentEventsResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input QueryRecentEventsInput) (*mcp.CallToolResult, QueryRecentEventsResult, error) {
		q := event.Query{Type: event.Type(input.EventType), SinceTick: input.SinceTick}
		if input.Limit != nil {
			q.Limit = *input.Limit
		}
		res := store.Query(q)

		result := QueryRecentEventsResult{Total: res.Total}
		if input.IncludeDetails == nil || *input.IncludeDetails {
			result.Events = res.Events
		} else {
			result.Summaries = event.Summarize(res.Events)
		}
		return nil, result, nil
	}
}

func eventStatsHandler(store *event.Store) mcp.ToolHandlerFor[struct{}, EventStatsResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, EventStatsResult, error) {
		stats := store.Stats()
		result := EventStatsResult{
			Total:   stats.Total,
			ByType:  make(map[string]int, len(stats.ByType)),
			MinTick: stats.MinTick,
			MaxTick: stats.MaxTick,
		}
		for t, n := range stats.ByType {
			result.ByType[string(t)] = n
		}
		return nil, result, nil
	}
}

func cleanupOldEventsHandler(store *event.Store) mcp.ToolHandlerFor[CleanupOldEventsInput, CleanupOldEventsResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input CleanupOldEventsInput) (*mcp.CallToolResult, CleanupOldEventsResult, error) {
		removed := store.CleanupBefore(input.BeforeTick)
		return nil, CleanupOldEventsResult{Removed: removed}, nil
	}
}

func clearEventsHandler(store *event.Store) mcp.ToolHandlerFor[struct{}, ClearEventsResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, ClearEventsResult, error) {
		store.Clear()
		return nil, ClearEventsResult{Cleared: true}, nil
	}
}

func setEnabledEventsHandler(store *event.Store) mcp.ToolHandlerFor[SetEnabledEventsInput, SetEnabledEventsResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input SetEnabledEventsInput) (*mcp.CallToolResult, SetEnabledEventsResult, error) {
		types := make([]event.Type, 0, len(input.EventTypes))
		for _, name := range input.EventTypes {
			t := event.Type(name)
			if !knownType(t) {
				return nil, SetEnabledEventsResult{}, fmt.Errorf("unknown event type %q", name)
			}
			types = append(types, t)
		}
		store.SetEnabledTypes(types)

		enabled := store.EnabledTypes()
		names := make([]string, 0, len(enabled))
		for _, t := range enabled {
			names = append(names, string(t))
		}
		return nil, SetEnabledEventsResult{Enabled: names}, nil
	}
}

func supportedEventTypesHandler() mcp.ToolHandlerFor[struct{}, SupportedEventTypesResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, SupportedEventTypesResult, error) {
		types := event.Types()
		names := make([]string, 0, len(types))
		for _, t := range types {
			names = append(names, string(t))
		}
		return nil, SupportedEventTypesResult{EventTypes: names}, nil
	}
}

func sendChatHandler(conn game.Conn) mcp.ToolHandlerFor[SendChatInput, SendChatResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input SendChatInput) (*mcp.CallToolResult, SendChatResult, error) {
		if input.Text == "" {
			return nil, SendChatResult{}, fmt.Errorf("text must not be empty")
		}
		conn.SendChat(input.Text)
		return nil, SendChatResult{Sent: true}, nil
	}
}

func knownType(t event.Type) bool {
	for _, known := range event.Types() {
		if known == t {
			return true
		}
	}
	return false
}
