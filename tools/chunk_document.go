package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/CryingSurrogate/docchunk/internal/chunker"
	"github.com/CryingSurrogate/docchunk/internal/pipeline"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SectionInput is one labeled document section.
type SectionInput struct {
	Content string `json:"content" jsonschema:"section body text"`
	Title   string `json:"title,omitempty" jsonschema:"section heading (defaults to Section N)"`
	Level   int    `json:"level,omitempty" jsonschema:"heading level (defaults to 1)"`
	Path    string `json:"path,omitempty" jsonschema:"enclosing heading path"`
}

// ChunkDocumentInput carries either a section list or converted document HTML.
type ChunkDocumentInput struct {
	Sections       []SectionInput `json:"sections,omitempty" jsonschema:"ordered document sections"`
	HTML           string         `json:"html,omitempty" jsonschema:"converted document HTML; headings delimit sections"`
	Document       string         `json:"document,omitempty" jsonschema:"source document name used in run ids and artifacts"`
	RunID          string         `json:"runId,omitempty" jsonschema:"optional deterministic run id"`
	WriteArtifacts bool           `json:"writeArtifacts,omitempty" jsonschema:"persist document_chunks.json and chunks.ndjson"`
	Limit          int            `json:"limit,omitempty" jsonschema:"maximum chunks to return (summary always covers all)"`
}

// ChunkDocument handles chunk_document. An empty section list yields no chunks. Failed sections are listed in the run risks
// and do not discard the chunks of the other sections.
func (c *ChunkTools) ChunkDocument(ctx context.Context, _ *mcp.CallToolRequest, input ChunkDocumentInput) (*mcp.CallToolResult, ChunkOutput, error) {
	if c == nil || c.Engine == nil {
		return nil, ChunkOutput{}, fmt.Errorf("chunk pipeline not configured")
	}
	hasHTML := strings.TrimSpace(input.HTML) != ""
	if hasHTML && len(input.Sections) > 0 {
		return nil, ChunkOutput{}, fmt.Errorf("provide either sections or html, not both")
	}

	req := pipeline.Request{
		Document:       input.Document,
		RunID:          input.RunID,
		WriteArtifacts: input.WriteArtifacts,
	}
	var (
		report *pipeline.RunReport
		result *pipeline.Result
		err    error
	)
	if hasHTML {
		report, result, err = c.Engine.ChunkHTML(ctx, req, strings.NewReader(input.HTML))
	} else {
		req.Sections = toSections(input.Sections)
		report, result, err = c.Engine.ChunkSections(ctx, req)
	}

	var secErr *chunker.SectionError
	if err != nil && !errors.As(err, &secErr) {
		return nil, ChunkOutput{Run: report}, err
	}
	return nil, buildOutput(report, result, input.Limit), nil
}

func toSections(in []SectionInput) []chunker.Section {
	out := make([]chunker.Section, len(in))
	for i, s := range in {
		out[i] = chunker.Section{Content: s.Content, Title: s.Title, Level: s.Level, Path: s.Path}
	}
	return out
}
