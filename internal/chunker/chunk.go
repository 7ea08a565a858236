package chunker

import "maps"

// Chunk is one token-bounded span of a source text.
type Chunk struct {
	ID            int      `json:"id"`
	Content       string   `json:"content"`
	TokenCount    int      `json:"token_count"`
	CharCount     int      `json:"char_count"`
	// StartIndex and EndIndex are character offsets into the source text.
	StartIndex    int      `json:"start_index"`
	EndIndex      int      `json:"end_index"`
	// OverlapTokens is the configured overlap for chunks that repeat the tail of
	// their predecessor. It is 0 for the first chunk of a run and also when the
	// previous chunk was too short to overlap, so the next one starts at its end.
	OverlapTokens int      `json:"overlap_tokens"`
	Metadata      Metadata `json:"metadata"`
}

// Metadata describes where a chunk sits in its run and, for section input, its section.
type Metadata struct {
	ChunkIndex  int  `json:"chunk_index"`
	TotalChunks int  `json:"total_chunks"`
	HasOverlap  bool `json:"has_overlap"`

	*SectionInfo

	Extra map[string]string `json:"extra,omitempty"`
}

// SectionInfo is attached to chunks produced by ChunkSections.
type SectionInfo struct {
	SectionIndex  int    `json:"section_index"`
	SectionTitle  string `json:"section_title"`
	SectionLevel  int    `json:"section_level"`
	SectionPath   string `json:"section_path"`
	GlobalChunkID int    `json:"global_chunk_id"`
}

// clone returns a copy that shares nothing mutable with m.
func (m Metadata) clone() Metadata {
	out := m
	if m.SectionInfo != nil {
		s := *m.SectionInfo
		out.SectionInfo = &s
	}
	if m.Extra != nil {
		out.Extra = maps.Clone(m.Extra)
	}
	return out
}

// withTotals returns chunks with TotalChunks set to the sequence length.
// It is the only place a built chunk is written to after construction.
func withTotals(chunks []Chunk) []Chunk {
	for i := range chunks {
		chunks[i].Metadata.TotalChunks = len(chunks)
	}
	return chunks
}
