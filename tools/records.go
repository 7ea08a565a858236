package tools

import "github.com/CryingSurrogate/docchunk/internal/chunker"

// ChunkRecord is the wire form of a chunk. Section fields are pointers so the
// inferred schema leaves them optional for chunks produced from plain text.
type ChunkRecord struct {
	ID            int            `json:"id"`
	Content       string         `json:"content"`
	TokenCount    int            `json:"token_count"`
	CharCount     int            `json:"char_count"`
	StartIndex    int            `json:"start_index"`
	EndIndex      int            `json:"end_index"`
	OverlapTokens int            `json:"overlap_tokens"`
	Metadata      RecordMetadata `json:"metadata"`
}

// RecordMetadata mirrors chunker.Metadata with optional section fields.
type RecordMetadata struct {
	ChunkIndex    int               `json:"chunk_index"`
	TotalChunks   int               `json:"total_chunks"`
	HasOverlap    bool              `json:"has_overlap"`
	SectionIndex  *int              `json:"section_index,omitempty"`
	SectionTitle  *string           `json:"section_title,omitempty"`
	SectionLevel  *int              `json:"section_level,omitempty"`
	SectionPath   *string           `json:"section_path,omitempty"`
	GlobalChunkID *int              `json:"global_chunk_id,omitempty"`
	Extra         map[string]string `json:"extra,omitempty"`
}

func toRecords(chunks []chunker.Chunk) []ChunkRecord {
	out := make([]ChunkRecord, len(chunks))
	for i, ch := range chunks {
		md := RecordMetadata{
			ChunkIndex:  ch.Metadata.ChunkIndex,
			TotalChunks: ch.Metadata.TotalChunks,
			HasOverlap:  ch.Metadata.HasOverlap,
			Extra:       ch.Metadata.Extra,
		}
		if s := ch.Metadata.SectionInfo; s != nil {
			md.SectionIndex = &s.SectionIndex
			md.SectionTitle = &s.SectionTitle
			md.SectionLevel = &s.SectionLevel
			md.SectionPath = &s.SectionPath
			md.GlobalChunkID = &s.GlobalChunkID
		}
		out[i] = ChunkRecord{
			ID:            ch.ID,
			Content:       ch.Content,
			TokenCount:    ch.TokenCount,
			CharCount:     ch.CharCount,
			StartIndex:    ch.StartIndex,
			EndIndex:      ch.EndIndex,
			OverlapTokens: ch.OverlapTokens,
			Metadata:      md,
		}
	}
	return out
}

func fromRecords(records []ChunkRecord) []chunker.Chunk {
	out := make([]chunker.Chunk, len(records))
	for i, r := range records {
		md := chunker.Metadata{
			ChunkIndex:  r.Metadata.ChunkIndex,
			TotalChunks: r.Metadata.TotalChunks,
			HasOverlap:  r.Metadata.HasOverlap,
			Extra:       r.Metadata.Extra,
		}
		if r.Metadata.SectionIndex != nil || r.Metadata.SectionTitle != nil || r.Metadata.GlobalChunkID != nil {
			md.SectionInfo = &chunker.SectionInfo{
				SectionIndex:  deref(r.Metadata.SectionIndex),
				SectionTitle:  deref(r.Metadata.SectionTitle),
				SectionLevel:  deref(r.Metadata.SectionLevel),
				SectionPath:   deref(r.Metadata.SectionPath),
				GlobalChunkID: deref(r.Metadata.GlobalChunkID),
			}
		}
		out[i] = chunker.Chunk{
			ID:            r.ID,
			Content:       r.Content,
			TokenCount:    r.TokenCount,
			CharCount:     r.CharCount,
			StartIndex:    r.StartIndex,
			EndIndex:      r.EndIndex,
			OverlapTokens: r.OverlapTokens,
			Metadata:      md,
		}
	}
	return out
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
