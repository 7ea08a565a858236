package chunker

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned by New when options cannot produce bounded chunks.
	ErrInvalidConfig = errors.New("invalid chunker config")

	// ErrNoProgress signals that a chunking step failed to advance its offset.
	ErrNoProgress = errors.New("chunking made no progress")

	// ErrStructureNotPreserved is returned by ChunkSections when PreserveStructure is off.
	// Merging sections into one text is not supported.
	ErrStructureNotPreserved = errors.New("section chunking requires preserve_structure")
)

// SectionError records a failure while chunking a single section.
type SectionError struct {
	Index int
	Title string
	Err   error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("section %d (%s): %v", e.Index, e.Title, e.Err)
}

func (e *SectionError) Unwrap() error {
	return e.Err
}
