package export

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"github.com/CryingSurrogate/docchunk/internal/chunker"
)

// Artifact file names written into a run directory.
const (
	DocumentFile = "document_chunks.json"
	NDJSONFile   = "chunks.ndjson"
)

// Row is a chunk as persisted, with a content hash for change detection.
type Row struct {
	chunker.Chunk
	ContentSHA string `json:"content_sha"`
}

// Document is the persisted result of one chunking run.
type Document struct {
	RunID        string               `json:"run_id"`
	Source       string               `json:"source,omitempty"`
	TokenCounter string               `json:"token_counter"`
	Summary      chunker.Summary      `json:"chunk_summary"`
	Distribution chunker.Distribution `json:"distribution"`
	Chunks       []Row                `json:"chunks"`
}

// Rows annotates chunks with blake3 content hashes.
func Rows(chunks []chunker.Chunk) []Row {
	rows := make([]Row, len(chunks))
	for i, ch := range chunks {
		rows[i] = Row{Chunk: ch, ContentSHA: HashContent(ch.Content)}
	}
	return rows
}

// HashContent returns the hex blake3 digest of s.
func HashContent(s string) string {
	sum := blake3.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// WriteDocument writes doc as indented JSON to dir/document_chunks.json.
func WriteDocument(dir string, doc Document) (string, error) {
	path := filepath.Join(dir, DocumentFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("write artifact %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	return path, nil
}

// WriteNDJSON writes one row per line to dir/chunks.ndjson.
func WriteNDJSON(dir string, rows []Row) (string, error) {
	path := filepath.Join(dir, NDJSONFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("write artifact %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return "", err
		}
	}
	return path, nil
}
