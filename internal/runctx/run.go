package runctx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zeebo/blake3"
)

// Run captures a single chunking run over one document.
type Run struct {
	RunID       string
	Document    string
	Step        string
	Started     time.Time
	ArtifactDir string

	artifacts []string
}

// New constructs a Run. When artifactRoot is set the directory artifactRoot/runID is
// created; otherwise the run keeps no artifacts on disk.
// If runID is empty a deterministic id derived from document, step, and start time is generated.
func New(artifactRoot, runID, document, step string, started time.Time) (*Run, error) {
	if step == "" {
		return nil, fmt.Errorf("step is required")
	}
	if started.IsZero() {
		started = time.Now().UTC()
	}
	if runID == "" {
		runID = GenerateRunID(document, step, started)
	}

	run := &Run{
		RunID:    runID,
		Document: document,
		Step:     step,
		Started:  started,
	}
	if strings.TrimSpace(artifactRoot) == "" {
		return run, nil
	}

	artifactDir := filepath.Join(artifactRoot, runID)
	if err := os.MkdirAll(artifactDir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir %s: %w", artifactDir, err)
	}
	run.ArtifactDir = artifactDir
	return run, nil
}

// GenerateRunID creates RUN-YYYYMMDD-<8 hex> identifiers.
func GenerateRunID(document, step string, started time.Time) string {
	if started.IsZero() {
		started = time.Now().UTC()
	}
	started = started.UTC()
	input := []byte(strings.Join([]string{
		document,
		step,
		started.Format(time.RFC3339Nano),
	}, "|"))
	sum := blake3.Sum256(input)
	return fmt.Sprintf("RUN-%s-%x", started.Format("20060102"), sum[:4])
}

// HasArtifactDir reports whether artifacts are written for this run.
func (r *Run) HasArtifactDir() bool {
	return r.ArtifactDir != ""
}

// AddArtifact records a path stored inside the run artifact tree.
func (r *Run) AddArtifact(path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	r.artifacts = append(r.artifacts, path)
}

// Artifacts returns all artifacts registered with the run.
func (r *Run) Artifacts() []string {
	out := make([]string, len(r.artifacts))
	copy(out, r.artifacts)
	return out
}
