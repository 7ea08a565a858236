package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/CryingSurrogate/docchunk/internal/chunker"
	"github.com/CryingSurrogate/docchunk/internal/config"
	"github.com/CryingSurrogate/docchunk/internal/export"
	"github.com/CryingSurrogate/docchunk/internal/runctx"
	"github.com/CryingSurrogate/docchunk/internal/sections"
	"github.com/CryingSurrogate/docchunk/internal/tokens"
)

// Step identifiers used for run IDs and reporting.
const (
	StepText     = "chunk.text"
	StepSections = "chunk.sections"
	StepHTML     = "chunk.html"
)

// Request carries the input of one chunking run.
type Request struct {
	Document       string            `json:"document,omitempty"`
	RunID          string            `json:"runId,omitempty"`
	Text           string            `json:"text,omitempty"`
	Sections       []chunker.Section `json:"sections,omitempty"`
	Extra          map[string]string `json:"extra,omitempty"`
	WriteArtifacts bool              `json:"writeArtifacts,omitempty"`
}

// RunReport summarises execution for the caller.
type RunReport struct {
	RunID         string    `json:"run_id"`
	Step          string    `json:"step"`
	Started       time.Time `json:"started"`
	Finished      time.Time `json:"finished"`
	Acceptance    string    `json:"acceptance"` // "pass" or "fail"
	ArtifactPaths []string  `json:"artifact_paths"`
	Risks         []string  `json:"risks,omitempty"`
	Notes         []string  `json:"notes,omitempty"`
}

// Result holds the chunks and their statistics.
type Result struct {
	Chunks       []chunker.Chunk      `json:"chunks"`
	Summary      chunker.Summary      `json:"chunk_summary"`
	Distribution chunker.Distribution `json:"distribution"`
	TokenCounter string               `json:"token_counter"`
}

// Pipeline runs documents through the chunker and persists the results.
type Pipeline struct {
	cfg     *config.Config
	counter *tokens.Counter
	chunker *chunker.Chunker
}

// New builds a Pipeline from configuration.
func New(cfg *config.Config) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.EmbeddedVocabulary {
		tokens.UseEmbeddedVocabulary()
	}
	counter := tokens.New(cfg.EncodingModel)
	if counter.IsApproximate() {
		log.Printf("chunk.tokens falling back to approximate counting (model=%s): %v", cfg.EncodingModel, counter.FallbackReason())
	}
	c, err := chunker.New(cfg.ChunkerOptions(counter))
	if err != nil {
		return nil, fmt.Errorf("chunker init: %w", err)
	}
	return &Pipeline{cfg: cfg, counter: counter, chunker: c}, nil
}

// Counter returns the token counter shared by every run.
func (p *Pipeline) Counter() *tokens.Counter {
	return p.counter
}

// ChunkText chunks req.Text as a single run.
func (p *Pipeline) ChunkText(ctx context.Context, req Request) (*RunReport, *Result, error) {
	return p.execute(ctx, req, StepText, func(context.Context) ([]chunker.Chunk, error) {
		return p.chunker.ChunkText(req.Text, chunker.Metadata{Extra: req.Extra})
	})
}

// ChunkSections chunks req.Sections independently and numbers the chunks globally.
// Section failures are reported as risks; the chunks of other sections are kept.
func (p *Pipeline) ChunkSections(ctx context.Context, req Request) (*RunReport, *Result, error) {
	return p.execute(ctx, req, StepSections, func(ctx context.Context) ([]chunker.Chunk, error) {
		return p.chunker.ChunkSections(ctx, req.Sections)
	})
}

// ChunkHTML extracts heading sections from converted document HTML and chunks them.
func (p *Pipeline) ChunkHTML(ctx context.Context, req Request, r io.Reader) (*RunReport, *Result, error) {
	secs, err := sections.FromHTML(r)
	if err != nil {
		return nil, nil, err
	}
	req.Sections = secs
	return p.execute(ctx, req, StepHTML, func(ctx context.Context) ([]chunker.Chunk, error) {
		return p.chunker.ChunkSections(ctx, secs)
	})
}

func (p *Pipeline) execute(ctx context.Context, req Request, step string, chunkFn func(context.Context) ([]chunker.Chunk, error)) (*RunReport, *Result, error) {
	artifactRoot := ""
	if req.WriteArtifacts {
		artifactRoot = p.cfg.ArtifactRoot
	}
	run, err := runctx.New(artifactRoot, req.RunID, req.Document, step, time.Now().UTC())
	if err != nil {
		return nil, nil, err
	}
	report := &RunReport{
		RunID:         run.RunID,
		Step:          step,
		Started:       run.Started,
		ArtifactPaths: []string{},
		Risks:         []string{},
		Notes:         []string{},
	}
	if p.counter.IsApproximate() {
		report.Notes = append(report.Notes, fmt.Sprintf("token counts are approximate (encoder %s unavailable)", p.counter.Model()))
	}

	chunks, chunkErr := chunkFn(ctx)
	var secErr *chunker.SectionError
	if chunkErr != nil && !errors.As(chunkErr, &secErr) {
		report.Finished = time.Now().UTC()
		report.Acceptance = "fail"
		report.Risks = append(report.Risks, chunkErr.Error())
		return report, nil, chunkErr
	}
	if chunkErr != nil {
		for _, line := range strings.Split(chunkErr.Error(), "\n") {
			log.Printf("%s section failed (document=%s): %s", step, req.Document, line)
			report.Risks = append(report.Risks, line)
		}
	}

	result := &Result{
		Chunks:       chunks,
		Summary:      chunker.Summarize(chunks),
		Distribution: chunker.SizeDistribution(chunks),
		TokenCounter: p.counter.Mode().String(),
	}

	if run.HasArtifactDir() {
		if err := p.writeArtifacts(run, result); err != nil {
			report.Finished = time.Now().UTC()
			report.Acceptance = "fail"
			report.Risks = append(report.Risks, err.Error())
			return report, result, err
		}
		report.ArtifactPaths = append(report.ArtifactPaths, run.Artifacts()...)
	}

	report.Finished = time.Now().UTC()
	report.Acceptance = "pass"
	if chunkErr != nil {
		report.Acceptance = "fail"
	}
	return report, result, chunkErr
}

func (p *Pipeline) writeArtifacts(run *runctx.Run, result *Result) error {
	rows := export.Rows(result.Chunks)
	doc := export.Document{
		RunID:        run.RunID,
		Source:       run.Document,
		TokenCounter: result.TokenCounter,
		Summary:      result.Summary,
		Distribution: result.Distribution,
		Chunks:       rows,
	}
	path, err := export.WriteDocument(run.ArtifactDir, doc)
	if err != nil {
		return err
	}
	run.AddArtifact(path)

	path, err = export.WriteNDJSON(run.ArtifactDir, rows)
	if err != nil {
		return err
	}
	run.AddArtifact(path)
	return nil
}
