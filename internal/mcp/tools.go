package mcp

import "github.com/mark3labs/mcp-go/mcp"

// recommendProductsTool defines the recommend_products MCP tool.
var recommendProductsTool = mcp.NewTool("recommend_products",
	mcp.WithDescription("Ask the fashion curator a question and get a grounded recommendation with product citations. Taste axes bias the ranking; omit them for a neutral profile."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("The shopper's question, e.g. '겨울 코트 추천해주세요'"),
	),
	mcp.WithNumber("boldness",
		mcp.Description("Taste axis in [0,1]: preference for statement pieces (default 0.5)"),
	),
	mcp.WithNumber("material_value",
		mcp.Description("Taste axis in [0,1]: preference for premium materials (default 0.5)"),
	),
	mcp.WithNumber("utility",
		mcp.Description("Taste axis in [0,1]: preference for practical, easy-care items (default 0.5)"),
	),
	mcp.WithNumber("reliability",
		mcp.Description("Taste axis in [0,1]: preference for well-reviewed items (default 0.5)"),
	),
	mcp.WithNumber("comfort",
		mcp.Description("Taste axis in [0,1]: preference for soft, comfortable items (default 0.5)"),
	),
	mcp.WithNumber("exclusivity",
		mcp.Description("Taste axis in [0,1]: preference for limited or handmade items (default 0.5)"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of cited products (default 3)"),
	),
)

// popularKeywordsTool defines the popular_keywords MCP tool.
var popularKeywordsTool = mcp.NewTool("popular_keywords",
	mcp.WithDescription("List the fashion keywords shoppers mention most often, learned from past conversations."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of keywords to return (default 10)"),
	),
)

// frequentQuestionsTool defines the frequent_questions MCP tool.
var frequentQuestionsTool = mcp.NewTool("frequent_questions",
	mcp.WithDescription("List the most frequently asked question patterns with their observed counts."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of patterns to return (default 5)"),
	),
)
