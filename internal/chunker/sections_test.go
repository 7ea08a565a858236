package chunker

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/CryingSurrogate/docchunk/internal/tokens"
)

func threeSections() []Section {
	return []Section{
		{Content: strings.Repeat("Intro text goes here. ", 20), Title: "Introduction", Level: 1, Path: "Introduction"},
		{Content: "", Title: "Empty"},
		{Content: strings.Repeat("Body paragraph sentence. ", 30)},
	}
}

func mustChunkSections(t *testing.T, c *Chunker, sections []Section) []Chunk {
	t.Helper()
	chunks, err := c.ChunkSections(context.Background(), sections)
	if err != nil {
		t.Fatalf("chunk sections: %v", err)
	}
	return chunks
}

func TestChunkSectionsGlobalNumbering(t *testing.T) {
	c := newApprox(t, 40, 5, true)
	sections := threeSections()

	chunks := mustChunkSections(t, c, sections)
	if len(chunks) == 0 {
		t.Fatalf("expected chunks")
	}

	perSection := map[int]int{}
	for i, ch := range chunks {
		if ch.Metadata.SectionInfo == nil {
			t.Fatalf("chunk %d has no section info", i)
		}
		if ch.ID != i || ch.Metadata.GlobalChunkID != i {
			t.Fatalf("chunk %d numbered id=%d global=%d", i, ch.ID, ch.Metadata.GlobalChunkID)
		}
		if ch.Metadata.TotalChunks != len(chunks) {
			t.Fatalf("chunk %d total_chunks %d, want %d", i, ch.Metadata.TotalChunks, len(chunks))
		}
		if ch.Metadata.SectionIndex == 1 {
			t.Fatalf("empty section produced chunk %d", i)
		}
		if want := perSection[ch.Metadata.SectionIndex]; ch.Metadata.ChunkIndex != want {
			t.Fatalf("chunk %d local index %d, want %d", i, ch.Metadata.ChunkIndex, want)
		}
		perSection[ch.Metadata.SectionIndex]++
	}
	if len(perSection) != 2 {
		t.Fatalf("expected chunks from 2 sections, got %v", perSection)
	}

	last := chunks[len(chunks)-1]
	if last.Metadata.SectionIndex != 2 || last.Metadata.SectionTitle != "Section 3" || last.Metadata.SectionLevel != 1 || last.Metadata.SectionPath != "" {
		t.Fatalf("defaults not applied to untitled section: %+v", last.Metadata.SectionInfo)
	}
	if last.EndIndex != len(sections[2].Content) {
		t.Fatalf("last chunk ends at %d, section has %d characters", last.EndIndex, len(sections[2].Content))
	}

	first := chunks[0]
	if first.Metadata.SectionTitle != "Introduction" || first.Metadata.SectionPath != "Introduction" || first.StartIndex != 0 {
		t.Fatalf("unexpected first chunk %+v", first.Metadata.SectionInfo)
	}
}

func TestChunkSectionsSectionOffsetsAreLocal(t *testing.T) {
	c := newApprox(t, 40, 0, true)
	chunks := mustChunkSections(t, c, threeSections())

	var starts []int
	for _, ch := range chunks {
		if ch.Metadata.ChunkIndex == 0 {
			starts = append(starts, ch.StartIndex)
		}
	}
	if !reflect.DeepEqual(starts, []int{0, 0}) {
		t.Fatalf("each section should start at offset 0, got %v", starts)
	}
}

func TestChunkSectionsWorkersMatchSequential(t *testing.T) {
	var sections []Section
	for i := 0; i < 12; i++ {
		sections = append(sections, Section{
			Content: strings.Repeat("Sentence number one. Another sentence.\n\n", i+1),
			Title:   "Part",
			Level:   2,
		})
	}

	want := mustChunkSections(t, newApprox(t, 30, 4, true), sections)

	par, err := New(Options{
		MaxTokens:         30,
		OverlapTokens:     4,
		RespectBoundaries: true,
		PreserveStructure: true,
		Workers:           4,
		Counter:           tokens.Approximate(),
	})
	if err != nil {
		t.Fatalf("new chunker: %v", err)
	}
	got := mustChunkSections(t, par, sections)
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("parallel run differs from sequential run")
	}
}

func TestChunkSectionsEmptyInput(t *testing.T) {
	c := newApprox(t, 40, 5, true)
	if chunks := mustChunkSections(t, c, nil); len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %d", len(chunks))
	}
}

func TestChunkSectionsWithoutStructureIsUnsupported(t *testing.T) {
	c, err := New(Options{MaxTokens: 40, Counter: tokens.Approximate()})
	if err != nil {
		t.Fatalf("new chunker: %v", err)
	}
	chunks, err := c.ChunkSections(context.Background(), threeSections())
	if !errors.Is(err, ErrStructureNotPreserved) {
		t.Fatalf("expected ErrStructureNotPreserved, got %v", err)
	}
	if chunks != nil {
		t.Fatalf("expected no chunks, got %d", len(chunks))
	}
}

// cancelOn cancels a context the first time it counts text containing marker.
type cancelOn struct {
	marker string
	cancel context.CancelFunc
}

func (c cancelOn) Count(text string) int {
	if strings.Contains(text, c.marker) {
		c.cancel()
	}
	return tokens.Approximate().Count(text)
}

func TestChunkSectionsIsolatesSectionFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := New(Options{
		MaxTokens:         40,
		RespectBoundaries: true,
		PreserveStructure: true,
		Counter:           cancelOn{marker: "STOP", cancel: cancel},
	})
	if err != nil {
		t.Fatalf("new chunker: %v", err)
	}

	sections := []Section{
		{Content: "First section. Plenty of words.", Title: "One"},
		{Content: "Second section. STOP here.", Title: "Two"},
		{Content: "Third section never runs.", Title: "Three"},
	}
	chunks, err := c.ChunkSections(ctx, sections)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	var secErr *SectionError
	if !errors.As(err, &secErr) {
		t.Fatalf("expected *SectionError, got %T", err)
	}
	if secErr.Index != 2 || secErr.Title != "Three" {
		t.Fatalf("unexpected failing section %+v", secErr)
	}

	if len(chunks) != 2 {
		t.Fatalf("expected chunks of the first two sections, got %d", len(chunks))
	}
	if chunks[0].Metadata.SectionIndex != 0 || chunks[1].Metadata.SectionIndex != 1 {
		t.Fatalf("unexpected section order %d, %d", chunks[0].Metadata.SectionIndex, chunks[1].Metadata.SectionIndex)
	}
	if chunks[1].ID != 1 || chunks[1].Metadata.TotalChunks != 2 {
		t.Fatalf("partial result not renumbered: %+v", chunks[1])
	}
}
