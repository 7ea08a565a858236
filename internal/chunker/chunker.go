package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/CryingSurrogate/docchunk/internal/tokens"
)

const (
	// DefaultMaxTokens is the per-chunk token budget.
	DefaultMaxTokens = 2000
	// DefaultOverlapTokens is the token overlap between consecutive chunks.
	DefaultOverlapTokens = 200

	// growBatch is how many bytes a candidate chunk grows by per measurement.
	growBatch = 100
)

// TokenCounter measures the token length of text.
type TokenCounter interface {
	Count(text string) int
}

// Options configures a Chunker.
type Options struct {
	MaxTokens         int
	OverlapTokens     int
	RespectBoundaries bool
	PreserveStructure bool

	// Workers bounds concurrent section runs in ChunkSections. Values below 2 run sequentially.
	Workers int

	// Counter defaults to tokens.New(tokens.DefaultModel).
	Counter TokenCounter
}

// DefaultOptions returns the defaults used by the document processor.
func DefaultOptions() Options {
	return Options{
		MaxTokens:         DefaultMaxTokens,
		OverlapTokens:     DefaultOverlapTokens,
		RespectBoundaries: true,
		PreserveStructure: true,
		Workers:           1,
	}
}

// Validate reports every option that would prevent bounded chunking.
func (o Options) Validate() error {
	var problems []string
	if o.MaxTokens < 1 {
		problems = append(problems, fmt.Sprintf("max_tokens must be >= 1 (got %d)", o.MaxTokens))
	}
	if o.OverlapTokens < 0 {
		problems = append(problems, fmt.Sprintf("overlap_tokens must be >= 0 (got %d)", o.OverlapTokens))
	}
	if o.MaxTokens >= 1 && o.OverlapTokens >= o.MaxTokens {
		problems = append(problems, fmt.Sprintf("overlap_tokens (%d) must be below max_tokens (%d)", o.OverlapTokens, o.MaxTokens))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Chunker splits text into token-bounded, overlapping, boundary-snapped chunks.
// A Chunker is safe for concurrent use once built.
type Chunker struct {
	opts    Options
	counter TokenCounter
	finder  BoundaryFinder
	overlap OverlapCalculator
}

// New validates opts and builds a Chunker.
func New(opts Options) (*Chunker, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	counter := opts.Counter
	if counter == nil {
		counter = tokens.New(tokens.DefaultModel)
	}
	return &Chunker{
		opts:    opts,
		counter: counter,
		finder:  BoundaryFinder{Respect: opts.RespectBoundaries},
		overlap: OverlapCalculator{Counter: counter},
	}, nil
}

// Options returns the configuration the Chunker was built with.
func (c *Chunker) Options() Options {
	return c.opts
}

// Counter returns the active token counter.
func (c *Chunker) Counter() TokenCounter {
	return c.counter
}

// ChunkText splits text into chunks covering it from character 0 to its last
// character. StartIndex and EndIndex count characters, not bytes.
// Every chunk carries a copy of base. Empty text yields no chunks.
func (c *Chunker) ChunkText(text string, base Metadata) ([]Chunk, error) {
	chunks, err := c.run(text, base)
	if err != nil {
		return nil, err
	}
	return withTotals(chunks), nil
}

// run builds one chunk sequence without setting TotalChunks.
func (c *Chunker) run(text string, base Metadata) ([]Chunk, error) {
	if text == "" {
		return nil, nil
	}

	var chunks []Chunk
	// start and end are byte cursors; runeStart is start in characters.
	start, runeStart := 0, 0
	overlapped := false
	for {
		end, err := c.chunkEnd(text, start)
		if err != nil {
			return nil, err
		}
		content := text[start:end]
		tokenCount := c.counter.Count(content)
		charCount := utf8.RuneCountInString(content)

		idx := len(chunks)
		md := base.clone()
		md.ChunkIndex = idx
		md.HasOverlap = idx > 0

		overlap := 0
		if idx > 0 && overlapped {
			overlap = c.opts.OverlapTokens
		}
		chunks = append(chunks, Chunk{
			ID:            idx,
			Content:       content,
			TokenCount:    tokenCount,
			CharCount:     charCount,
			StartIndex:    runeStart,
			EndIndex:      runeStart + charCount,
			OverlapTokens: overlap,
			Metadata:      md,
		})

		if end >= len(text) {
			return chunks, nil
		}

		next := c.overlap.NextStart(text, start, end, tokenCount, c.opts.OverlapTokens)
		if next <= start || next > end {
			return nil, fmt.Errorf("%w: next start %d outside (%d, %d]", ErrNoProgress, next, start, end)
		}
		overlapped = next < end
		runeStart += utf8.RuneCountInString(text[start:next])
		start = next
	}
}

// chunkEnd returns the end offset of the chunk starting at start.
func (c *Chunker) chunkEnd(text string, start int) (int, error) {
	end := start
	current := 0
	for end < len(text) && current < c.opts.MaxTokens {
		probe := runeCeil(text, end+min(growBatch, len(text)-end))
		if probe <= end {
			return 0, fmt.Errorf("%w: batch stalled at %d", ErrNoProgress, end)
		}
		count := c.counter.Count(text[start:probe])
		if count > c.opts.MaxTokens {
			end = c.searchEnd(text, start, end, probe)
			break
		}
		end = probe
		current = count
	}

	if end <= start {
		// A single rune already exceeds the budget; emit it alone.
		end = runeCeil(text, start+1)
	}

	if end < len(text) && c.opts.RespectBoundaries {
		b := c.finder.Find(text[start:end], end-start, Backward)
		if b.Type != BoundaryNone && b.Position > 0 {
			end = start + b.Position
		}
	}

	if end <= start {
		return 0, fmt.Errorf("%w: empty chunk at %d", ErrNoProgress, start)
	}
	return end, nil
}

// searchEnd finds the largest offset in [left, right) whose prefix from start fits the budget.
func (c *Chunker) searchEnd(text string, start, left, right int) int {
	for right-left > 1 {
		mid := left + (right-left)/2
		if c.counter.Count(text[start:mid]) <= c.opts.MaxTokens {
			left = mid
		} else {
			right = mid
		}
	}
	return runeFloor(text, left)
}
