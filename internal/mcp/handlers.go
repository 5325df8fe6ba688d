package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/daeunko/curator/internal/curator"
	"github.com/daeunko/curator/internal/taste"
)

// handleRecommendProducts runs the full answer pipeline for an agent.
func (s *Server) handleRecommendProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	tv := taste.Vector{
		Boldness:      request.GetFloat("boldness", 0.5),
		MaterialValue: request.GetFloat("material_value", 0.5),
		Utility:       request.GetFloat("utility", 0.5),
		Reliability:   request.GetFloat("reliability", 0.5),
		Comfort:       request.GetFloat("comfort", 0.5),
		Exclusivity:   request.GetFloat("exclusivity", 0.5),
	}
	if err := tv.Validate(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid taste axis: %v", err)), nil
	}

	resp, err := s.answerer.Answer(ctx, curator.Request{Question: question, Hexagon: &tv})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("recommendation failed: %v", err)), nil
	}

	limit := request.GetInt("limit", 3)
	if limit > 0 && len(resp.Sources) > limit {
		resp.Sources = resp.Sources[:limit]
	}

	return mcp.NewToolResultText(formatResponse(resp)), nil
}

// handlePopularKeywords lists learned keywords by frequency.
func (s *Server) handlePopularKeywords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	keywords, err := s.learner.PopularKeywords(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("keyword query failed: %v", err)), nil
	}
	if len(keywords) == 0 {
		return mcp.NewToolResultText("No keywords learned yet. Keywords accumulate as shoppers chat with the curator."), nil
	}

	return mcp.NewToolResultText("Popular keywords:\n- " + strings.Join(keywords, "\n- ")), nil
}

// handleFrequentQuestions lists learned question patterns with counts.
func (s *Server) handleFrequentQuestions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 5)
	if limit <= 0 {
		limit = 5
	}

	questions, err := s.learner.FrequentQuestions(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("question query failed: %v", err)), nil
	}
	if len(questions) == 0 {
		return mcp.NewToolResultText("No question patterns learned yet."), nil
	}

	var sb strings.Builder
	sb.WriteString("Frequent questions:\n")
	for _, q := range questions {
		fmt.Fprintf(&sb, "- %s (asked %d times)\n", q.Pattern, q.Frequency)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// formatResponse renders an answer with its citations for tool output.
func formatResponse(resp *curator.Response) string {
	var sb strings.Builder
	sb.WriteString(resp.Answer)
	sb.WriteString("\n")
	if len(resp.Sources) > 0 {
		sb.WriteString("\nSources:\n")
		for _, src := range resp.Sources {
			fmt.Fprintf(&sb, "- %s (%s, similarity %.2f)\n", src.ProductName, src.Category, src.Similarity)
		}
	}
	fmt.Fprintf(&sb, "\nOrigin: %s", resp.Origin)
	return sb.String()
}
