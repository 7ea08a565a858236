package tools

import (
	"context"

	"github.com/CryingSurrogate/docchunk/internal/chunker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ChunkSummaryInput carries chunks produced by an earlier call.
type ChunkSummaryInput struct {
	Chunks []ChunkRecord `json:"chunks" jsonschema:"chunks to aggregate"`
}

// ChunkSummaryOutput holds the aggregate statistics.
type ChunkSummaryOutput struct {
	Summary      chunker.Summary      `json:"summary"`
	Distribution chunker.Distribution `json:"distribution"`
}

// Summarize handles chunk_summary.
func (c *ChunkTools) Summarize(_ context.Context, _ *mcp.CallToolRequest, input ChunkSummaryInput) (*mcp.CallToolResult, ChunkSummaryOutput, error) {
	chunks := fromRecords(input.Chunks)
	return nil, ChunkSummaryOutput{
		Summary:      chunker.Summarize(chunks),
		Distribution: chunker.SizeDistribution(chunks),
	}, nil
}
