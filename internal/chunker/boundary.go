package chunker

import (
	"regexp"
	"unicode/utf8"
)

// BoundaryType is the class of natural break a split point was snapped to.
type BoundaryType int

const (
	// BoundaryNone means no break was found and the target offset is kept.
	BoundaryNone BoundaryType = iota
	// BoundarySentence is terminal punctuation followed by whitespace.
	BoundarySentence
	// BoundaryParagraph is two or more consecutive line breaks.
	BoundaryParagraph
)

func (bt BoundaryType) String() string {
	switch bt {
	case BoundaryNone:
		return "none"
	case BoundarySentence:
		return "sentence"
	case BoundaryParagraph:
		return "paragraph"
	default:
		return "unknown"
	}
}

// Direction selects which side of the target a boundary search covers.
type Direction int

const (
	Backward Direction = iota
	Forward
)

var (
	paragraphPattern = regexp.MustCompile(`\n\n+`)
	sentencePattern  = regexp.MustCompile(`[.!?]\s+`)
)

// Boundary is the result of a boundary search.
type Boundary struct {
	Type     BoundaryType
	Position int
}

// BoundaryFinder locates paragraph and sentence breaks near an offset.
// Paragraph breaks always win over sentence ends.
type BoundaryFinder struct {
	Respect bool
}

// Find searches text around target. Backward returns the end of the last break in
// text[:target]; Forward returns the start of the first break in text[target:],
// as an offset into text. When nothing is found, or boundaries are not respected,
// the target is returned with BoundaryNone.
func (f BoundaryFinder) Find(text string, target int, dir Direction) Boundary {
	target = clamp(target, 0, len(text))
	none := Boundary{Type: BoundaryNone, Position: target}
	if !f.Respect {
		return none
	}

	patterns := []struct {
		re  *regexp.Regexp
		typ BoundaryType
	}{
		{paragraphPattern, BoundaryParagraph},
		{sentencePattern, BoundarySentence},
	}

	if dir == Forward {
		search := text[target:]
		for _, p := range patterns {
			if loc := p.re.FindStringIndex(search); loc != nil {
				return Boundary{Type: p.typ, Position: target + loc[0]}
			}
		}
		return none
	}

	search := text[:target]
	for _, p := range patterns {
		matches := p.re.FindAllStringIndex(search, -1)
		if len(matches) > 0 {
			return Boundary{Type: p.typ, Position: matches[len(matches)-1][1]}
		}
	}
	return none
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// runeFloor moves i back to the start of the rune containing it.
func runeFloor(text string, i int) int {
	i = clamp(i, 0, len(text))
	for i > 0 && i < len(text) && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}

// runeCeil moves i forward to the next rune start (or len(text)).
func runeCeil(text string, i int) int {
	i = clamp(i, 0, len(text))
	for i < len(text) && !utf8.RuneStart(text[i]) {
		i++
	}
	return i
}
