package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/daeunko/curator/internal/curator"
	"github.com/daeunko/curator/internal/learning"
)

// mockAnswerer implements Answerer for testing.
type mockAnswerer struct {
	last curator.Request
	resp *curator.Response
	err  error
}

func (m *mockAnswerer) Answer(_ context.Context, req curator.Request) (*curator.Response, error) {
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

// mockLearner implements Learner for testing.
type mockLearner struct {
	keywords  []string
	questions []learning.FrequentQuestion
}

func (m *mockLearner) PopularKeywords(_ context.Context, limit int) ([]string, error) {
	if limit < len(m.keywords) {
		return m.keywords[:limit], nil
	}
	return m.keywords, nil
}

func (m *mockLearner) FrequentQuestions(_ context.Context, limit int) ([]learning.FrequentQuestion, error) {
	if limit < len(m.questions) {
		return m.questions[:limit], nil
	}
	return m.questions, nil
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	var sb strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"recommend_products", recommendProductsTool, "recommend_products"},
		{"popular_keywords", popularKeywordsTool, "popular_keywords"},
		{"frequent_questions", frequentQuestionsTool, "frequent_questions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	answerer := &mockAnswerer{}
	srv := NewServer(answerer, &mockLearner{})

	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.answerer != answerer {
		t.Error("answerer not set correctly")
	}
}

func TestHandleRecommendProducts(t *testing.T) {
	answerer := &mockAnswerer{resp: &curator.Response{
		Answer:  "추천드릴게요",
		Sources: []curator.Source{{ID: "p1", ProductName: "캐시미어 코트", Category: "아우터", Similarity: 0.9}},
		Origin:  curator.OriginModel,
	}}
	srv := NewServer(answerer, &mockLearner{})
	ctx := context.Background()

	t.Run("basic question", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"question": "겨울 코트 추천해주세요",
		}

		result, err := srv.handleRecommendProducts(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if answerer.last.Hexagon == nil || !answerer.last.Hexagon.IsDefault() {
			t.Error("omitted axes should yield the neutral default profile")
		}
	})

	t.Run("taste axes forwarded", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"question":       "코트 추천",
			"material_value": 0.9,
			"exclusivity":    0.8,
		}

		result, err := srv.handleRecommendProducts(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if answerer.last.Hexagon.MaterialValue != 0.9 {
			t.Errorf("material_value = %v, want 0.9", answerer.last.Hexagon.MaterialValue)
		}
	})

	t.Run("missing question", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleRecommendProducts(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing question")
		}
	})

	t.Run("limit trims citations", func(t *testing.T) {
		answerer.resp = &curator.Response{
			Answer: "추천드릴게요",
			Sources: []curator.Source{
				{ID: "p1", ProductName: "캐시미어 코트", Category: "아우터", Similarity: 0.9},
				{ID: "p2", ProductName: "실크 블라우스", Category: "상의", Similarity: 0.8},
				{ID: "p3", ProductName: "셀비지 데님", Category: "하의", Similarity: 0.7},
			},
			Origin: curator.OriginModel,
		}
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"question": "코트 추천",
			"limit":    1,
		}

		result, err := srv.handleRecommendProducts(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "캐시미어 코트") {
			t.Error("top citation should survive the limit")
		}
		if strings.Contains(text, "실크 블라우스") {
			t.Error("citations beyond the limit should be trimmed")
		}
	})

	t.Run("out of range axis", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"question": "코트 추천",
			"boldness": 1.5,
		}

		result, err := srv.handleRecommendProducts(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for out-of-range axis")
		}
	})
}

func TestHandlePopularKeywords(t *testing.T) {
	learner := &mockLearner{keywords: []string{"캐시미어", "코트", "셔츠"}}
	srv := NewServer(&mockAnswerer{}, learner)
	ctx := context.Background()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"limit": 2}

	result, err := srv.handlePopularKeywords(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
}

func TestHandleFrequentQuestionsEmpty(t *testing.T) {
	srv := NewServer(&mockAnswerer{}, &mockLearner{})

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{}

	result, err := srv.handleFrequentQuestions(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
}
