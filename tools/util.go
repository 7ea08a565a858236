package tools

import "github.com/CryingSurrogate/docchunk/internal/pipeline"

// maxReturnedChunks caps the chunks echoed back in one tool response.
const maxReturnedChunks = 500

func clampLimit(requested int, max int) int {
	if requested <= 0 {
		return max
	}
	if requested > max {
		return max
	}
	return requested
}

func buildOutput(report *pipeline.RunReport, result *pipeline.Result, limit int) ChunkOutput {
	out := ChunkOutput{Run: report, Chunks: []ChunkRecord{}}
	if result == nil {
		return out
	}
	out.Summary = &result.Summary
	out.Distribution = &result.Distribution
	out.TokenCounter = result.TokenCounter

	n := clampLimit(limit, maxReturnedChunks)
	chunks := result.Chunks
	if len(chunks) > n {
		chunks = chunks[:n]
		out.Truncated = true
	}
	out.Chunks = toRecords(chunks)
	return out
}
