// Package mcp exposes the recommendation pipeline to AI agents over the
// Model Context Protocol on stdio.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/daeunko/curator/internal/curator"
	"github.com/daeunko/curator/internal/learning"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Answerer is the slice of the curator the MCP server needs.
type Answerer interface {
	Answer(ctx context.Context, req curator.Request) (*curator.Response, error)
}

// Learner is the read-only learning view exposed as tools.
type Learner interface {
	PopularKeywords(ctx context.Context, limit int) ([]string, error)
	FrequentQuestions(ctx context.Context, limit int) ([]learning.FrequentQuestion, error)
}

// Server wraps an MCP server that exposes recommendation tools.
type Server struct {
	answerer Answerer
	learner  Learner
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(answerer Answerer, learner Learner) *Server {
	s := &Server{
		answerer: answerer,
		learner:  learner,
	}

	s.mcp = server.NewMCPServer(
		"curator",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers.
func (s *Server) registerTools() {
	s.mcp.AddTool(recommendProductsTool, s.handleRecommendProducts)
	s.mcp.AddTool(popularKeywordsTool, s.handlePopularKeywords)
	s.mcp.AddTool(frequentQuestionsTool, s.handleFrequentQuestions)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
