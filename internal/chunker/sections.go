package chunker

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Section is one labeled unit of a document as supplied by a structure extractor.
type Section struct {
	Content string `json:"content"`
	Title   string `json:"title,omitempty"`
	Level   int    `json:"level,omitempty"`
	Path    string `json:"path,omitempty"`
}

type sectionRun struct {
	chunks []Chunk
	err    error
}

// ChunkSections chunks every section independently and returns one sequence whose
// IDs run 0..N-1 in section order. Sections with empty content contribute nothing.
// A failing section does not stop the others: its error is returned as a
// *SectionError (joined with any others) next to the chunks that were built.
func (c *Chunker) ChunkSections(ctx context.Context, sections []Section) ([]Chunk, error) {
	if !c.opts.PreserveStructure {
		return nil, ErrStructureNotPreserved
	}
	if len(sections) == 0 {
		return nil, nil
	}

	runs := make([]sectionRun, len(sections))
	if c.opts.Workers > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.opts.Workers)
		for i := range sections {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					runs[i].err = err
					return nil
				}
				runs[i].chunks, runs[i].err = c.chunkSection(i, sections[i])
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range sections {
			if err := ctx.Err(); err != nil {
				runs[i].err = err
				continue
			}
			runs[i].chunks, runs[i].err = c.chunkSection(i, sections[i])
		}
	}

	all, errs := foldSections(sections, runs)
	return withTotals(all), errors.Join(errs...)
}

func (c *Chunker) chunkSection(idx int, s Section) ([]Chunk, error) {
	if s.Content == "" {
		return nil, nil
	}
	return c.run(s.Content, Metadata{SectionInfo: sectionInfo(idx, s)})
}

func sectionInfo(idx int, s Section) *SectionInfo {
	title := s.Title
	if title == "" {
		title = fmt.Sprintf("Section %d", idx+1)
	}
	level := s.Level
	if level == 0 {
		level = 1
	}
	return &SectionInfo{
		SectionIndex: idx,
		SectionTitle: title,
		SectionLevel: level,
		SectionPath:  s.Path,
	}
}

// foldSections concatenates per-section runs in section order and assigns global ids.
func foldSections(sections []Section, runs []sectionRun) ([]Chunk, []error) {
	var (
		all  []Chunk
		errs []error
	)
	for i, r := range runs {
		if r.err != nil {
			errs = append(errs, &SectionError{Index: i, Title: sectionInfo(i, sections[i]).SectionTitle, Err: r.err})
			continue
		}
		for _, ch := range r.chunks {
			ch.ID = len(all)
			ch.Metadata.GlobalChunkID = ch.ID
			all = append(all, ch)
		}
	}
	return all, errs
}
