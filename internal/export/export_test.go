package export

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/CryingSurrogate/docchunk/internal/chunker"
)

func sampleChunks() []chunker.Chunk {
	return []chunker.Chunk{
		{
			ID: 0, Content: "Intro.", TokenCount: 1, CharCount: 6, StartIndex: 0, EndIndex: 6,
			Metadata: chunker.Metadata{ChunkIndex: 0, TotalChunks: 2, SectionInfo: &chunker.SectionInfo{SectionTitle: "Intro", SectionLevel: 1}},
		},
		{
			ID: 1, Content: "Body text.", TokenCount: 2, CharCount: 10, StartIndex: 0, EndIndex: 10,
			Metadata: chunker.Metadata{ChunkIndex: 0, TotalChunks: 2, SectionInfo: &chunker.SectionInfo{SectionIndex: 1, SectionTitle: "Body", SectionLevel: 2, GlobalChunkID: 1}},
		},
	}
}

func TestHashContentStable(t *testing.T) {
	a := HashContent("same text")
	if a != HashContent("same text") {
		t.Fatalf("hash is not stable")
	}
	if a == HashContent("other text") {
		t.Fatalf("different content produced the same hash")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}

func TestWriteDocument(t *testing.T) {
	dir := t.TempDir()
	chunks := sampleChunks()
	doc := Document{
		RunID:        "RUN-test",
		Source:       "guide.html",
		TokenCounter: "approximate",
		Summary:      chunker.Summarize(chunks),
		Distribution: chunker.SizeDistribution(chunks),
		Chunks:       Rows(chunks),
	}

	path, err := WriteDocument(dir, doc)
	if err != nil {
		t.Fatalf("write document: %v", err)
	}
	if path != filepath.Join(dir, DocumentFile) {
		t.Fatalf("unexpected path %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	var decoded struct {
		RunID   string `json:"run_id"`
		Summary struct {
			TotalChunks int `json:"total_chunks"`
			TotalTokens int `json:"total_tokens"`
		} `json:"chunk_summary"`
		Chunks []map[string]any `json:"chunks"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.RunID != "RUN-test" || decoded.Summary.TotalChunks != 2 || decoded.Summary.TotalTokens != 3 {
		t.Fatalf("unexpected document header %+v", decoded)
	}
	if len(decoded.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(decoded.Chunks))
	}

	second := decoded.Chunks[1]
	if second["content"] != "Body text." || second["content_sha"] != HashContent("Body text.") {
		t.Fatalf("unexpected row %v", second)
	}
	md, ok := second["metadata"].(map[string]any)
	if !ok {
		t.Fatalf("metadata is not an object: %T", second["metadata"])
	}
	if md["section_title"] != "Body" || md["global_chunk_id"] != float64(1) {
		t.Fatalf("section fields not flattened into metadata: %v", md)
	}
}

func TestWriteNDJSON(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteNDJSON(dir, Rows(sampleChunks()))
	if err != nil {
		t.Fatalf("write ndjson: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var rows []Row
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r Row
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		rows = append(rows, r)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Content != "Intro." || rows[0].Metadata.SectionInfo == nil || rows[0].Metadata.SectionTitle != "Intro" {
		t.Fatalf("unexpected first row %+v", rows[0])
	}
	if rows[0].ContentSHA != HashContent("Intro.") {
		t.Fatalf("content hash mismatch")
	}
}

func TestWriteDocumentMissingDir(t *testing.T) {
	if _, err := WriteDocument(filepath.Join(t.TempDir(), "missing"), Document{}); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
