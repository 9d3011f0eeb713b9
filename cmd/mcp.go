/*
Copyright © 2025 vistamin
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vistamin/starchive/models"
	"github.com/vistamin/starchive/store"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI tool integration",
	Long: `Start a Model Context Protocol (MCP) server so AI assistants can
read and manage the task history archive.

The server exposes tools to archive tasks, list and fetch history,
delete entries, clear everything, and read statistics.

The server runs on stdio until the client disconnects.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPServer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// Tool parameter types. Field names become the JSON schema the client sees.

type archiveTaskParams struct {
	Record json.RawMessage `json:"record" jsonschema:"the task record JSON to archive; must carry id and an RFC 3339 timestamp"`
}

type taskIDParams struct {
	ID string `json:"id" jsonschema:"the task id"`
}

type emptyParams struct{}

// mcpJSONResponse wraps a value as indented JSON in an MCP tool result.
func mcpJSONResponse(v any) (*mcpsdk.CallToolResultFor[any], error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcpErrorResponse(fmt.Errorf("encode response: %w", err))
	}
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil
}

// mcpTextResponse wraps plain text in an MCP tool result.
func mcpTextResponse(text string) (*mcpsdk.CallToolResultFor[any], error) {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: text}},
	}, nil
}

// mcpErrorResponse wraps an error in an MCP tool result with IsError=true.
// Tool errors are returned in the result (not as protocol errors) so the
// client model can see them and self-correct.
func mcpErrorResponse(err error) (*mcpsdk.CallToolResultFor[any], error) {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: "Error: " + err.Error()}},
		IsError: true,
	}, nil
}

func runMCPServer(ctx context.Context) error {
	// NOTE: MCP uses stdio transport. stdout MUST be pure JSON-RPC.
	// All status/debug output goes to stderr only.
	fmt.Fprintln(os.Stderr, "starchive MCP server starting...")

	historyStore, err := GetHistoryStore()
	if err != nil {
		return fmt.Errorf("failed to initialize history store: %w", err)
	}
	defer func() { _ = historyStore.Close() }()

	impl := &mcpsdk.Implementation{
		Name:    "starchive-mcp",
		Version: version,
	}

	serverOpts := &mcpsdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.InitializedParams) {
			fmt.Fprintf(os.Stderr, "MCP connection established\n")
			if viper.GetBool("verbose") {
				fmt.Fprintf(os.Stderr, "[DEBUG] Client initialized\n")
			}
		},
	}

	server := mcpsdk.NewServer(impl, serverOpts)

	registerHistoryTools(server, historyStore)

	if err := server.Run(ctx, mcpsdk.NewStdioTransport()); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

func registerHistoryTools(server *mcpsdk.Server, historyStore store.HistoryStore) {
	archiveTool := &mcpsdk.Tool{
		Name:        "archive_task",
		Description: "Archive a task record into history. Re-archiving an existing id updates the record in place without changing its index position. Unknown JSON fields are preserved verbatim.",
	}
	mcpsdk.AddTool(server, archiveTool, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[archiveTaskParams]) (*mcpsdk.CallToolResultFor[any], error) {
		var record models.TaskRecord
		if err := json.Unmarshal(params.Arguments.Record, &record); err != nil {
			return mcpErrorResponse(fmt.Errorf("invalid record JSON: %w", err))
		}
		if err := historyStore.Archive(record); err != nil {
			return mcpErrorResponse(err)
		}
		return mcpTextResponse(fmt.Sprintf("Archived task %s (%s).", record.ID, record.DisplayName()))
	})

	listTool := &mcpsdk.Tool{
		Name:        "list_history",
		Description: "List archived tasks, newest first. Records whose shard file is missing or unreadable are returned as index-derived summaries instead of failing the listing.",
	}
	mcpsdk.AddTool(server, listTool, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[emptyParams]) (*mcpsdk.CallToolResultFor[any], error) {
		records, err := historyStore.List()
		if err != nil {
			return mcpErrorResponse(err)
		}
		return mcpJSONResponse(records)
	})

	getTool := &mcpsdk.Tool{
		Name:        "get_task",
		Description: "Fetch a single archived task by id.",
	}
	mcpsdk.AddTool(server, getTool, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[taskIDParams]) (*mcpsdk.CallToolResultFor[any], error) {
		record, found, err := historyStore.Get(params.Arguments.ID)
		if err != nil {
			return mcpErrorResponse(err)
		}
		if !found {
			return mcpTextResponse(fmt.Sprintf("No archived task with id %s.", params.Arguments.ID))
		}
		return mcpJSONResponse(record)
	})

	deleteTool := &mcpsdk.Tool{
		Name:        "delete_task",
		Description: "Delete an archived task by id. Unknown ids are a no-op.",
	}
	mcpsdk.AddTool(server, deleteTool, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[taskIDParams]) (*mcpsdk.CallToolResultFor[any], error) {
		if err := historyStore.Delete(params.Arguments.ID); err != nil {
			return mcpErrorResponse(err)
		}
		return mcpTextResponse(fmt.Sprintf("Task %s deleted.", params.Arguments.ID))
	})

	clearTool := &mcpsdk.Tool{
		Name:        "clear_history",
		Description: "Delete all archived tasks and reset the index to empty.",
	}
	mcpsdk.AddTool(server, clearTool, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[emptyParams]) (*mcpsdk.CallToolResultFor[any], error) {
		if err := historyStore.ClearAll(); err != nil {
			return mcpErrorResponse(err)
		}
		return mcpTextResponse("History cleared.")
	})

	statsTool := &mcpsdk.Tool{
		Name:        "history_stats",
		Description: "Get aggregate history statistics (task count, total results, per year/month breakdowns). Computed from the index alone.",
	}
	mcpsdk.AddTool(server, statsTool, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[emptyParams]) (*mcpsdk.CallToolResultFor[any], error) {
		stats, err := historyStore.Stats()
		if err != nil {
			return mcpErrorResponse(err)
		}
		return mcpJSONResponse(stats)
	})
}
