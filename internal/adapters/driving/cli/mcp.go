package cli

import (
	"errors"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/argonaut/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve Argonaut to MCP clients",
	Long: `Expose the ingested papers to an AI assistant over the Model Context Protocol.

Tools: ask, search_index, hypotheses, concept_graph, search_papers.
Resources: argonaut://indexes, argonaut://history, argonaut://history/{source}.

Without --port the server speaks JSON-RPC on stdin/stdout, which is what
desktop assistants expect:

  {"mcpServers": {"argonaut": {"command": "argonaut", "args": ["mcp", "serve"]}}}

With --port it serves streamable HTTP on /mcp, plus /healthz:

  argonaut mcp serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "serve HTTP on this port instead of stdio")
	mcpServeCmd.Flags().String("host", "127.0.0.1", "interface to bind in HTTP mode")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Index:        indexService,
		Answer:       answerService,
		Hypotheses:   hypothesisService,
		Concepts:     conceptService,
		Interactions: interactionService,
		Literature:   literatureService,
		Settings:     settingsService,
		LLMConfig:    llmConfig,
	})
	if err != nil {
		return err
	}
	defer watchPrompts(cmd.Context())()

	port, _ := cmd.Flags().GetInt("port")
	if port <= 0 {
		return server.Run(cmd.Context())
	}

	host, _ := cmd.Flags().GetString("host")
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	cmd.Printf("MCP server listening on http://%s%s\n", addr, mcp.EndpointPath)
	return server.RunHTTP(cmd.Context(), addr)
}
