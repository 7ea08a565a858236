package tools

import (
	"context"
	"fmt"

	"github.com/CryingSurrogate/docchunk/internal/chunker"
	"github.com/CryingSurrogate/docchunk/internal/pipeline"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ChunkTools exposes MCP handlers for document chunking.
type ChunkTools struct {
	Engine *pipeline.Pipeline
}

// ChunkTextInput carries a single text span.
type ChunkTextInput struct {
	Text           string            `json:"text" jsonschema:"plain text to split into chunks"`
	Document       string            `json:"document,omitempty" jsonschema:"source document name used in run ids and artifacts"`
	RunID          string            `json:"runId,omitempty" jsonschema:"optional deterministic run id"`
	Extra          map[string]string `json:"extra,omitempty" jsonschema:"metadata copied onto every chunk"`
	WriteArtifacts bool              `json:"writeArtifacts,omitempty" jsonschema:"persist document_chunks.json and chunks.ndjson"`
	Limit          int               `json:"limit,omitempty" jsonschema:"maximum chunks to return (summary always covers all)"`
}

// ChunkOutput wraps the run report, the summary, and the (possibly truncated) chunks.
type ChunkOutput struct {
	Run          *pipeline.RunReport   `json:"run,omitempty"`
	Summary      *chunker.Summary      `json:"summary,omitempty"`
	Distribution *chunker.Distribution `json:"distribution,omitempty"`
	TokenCounter string                `json:"tokenCounter,omitempty"`
	Chunks       []ChunkRecord         `json:"chunks"`
	Truncated    bool                  `json:"truncated,omitempty"`
}

// ChunkText handles chunk_text. Empty text yields an empty chunk list.
func (c *ChunkTools) ChunkText(ctx context.Context, _ *mcp.CallToolRequest, input ChunkTextInput) (*mcp.CallToolResult, ChunkOutput, error) {
	if c == nil || c.Engine == nil {
		return nil, ChunkOutput{}, fmt.Errorf("chunk pipeline not configured")
	}
	report, result, err := c.Engine.ChunkText(ctx, pipeline.Request{
		Document:       input.Document,
		RunID:          input.RunID,
		Text:           input.Text,
		Extra:          input.Extra,
		WriteArtifacts: input.WriteArtifacts,
	})
	if err != nil {
		return nil, ChunkOutput{Run: report}, err
	}
	return nil, buildOutput(report, result, input.Limit), nil
}
