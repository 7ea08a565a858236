package chunker

// overlapStep is how many bytes the overlap scan advances per measurement.
const overlapStep = 50

// OverlapCalculator picks where the next chunk starts so that it repeats
// roughly the last overlap tokens of the previous one.
type OverlapCalculator struct {
	Counter TokenCounter
}

// NextStart returns the start of the chunk following text[start:end].
// The result always satisfies start < next <= end; end means no overlap.
func (o OverlapCalculator) NextStart(text string, start, end, chunkTokens, overlapTokens int) int {
	if overlapTokens <= 0 || chunkTokens <= overlapTokens || end <= start {
		return end
	}
	target := chunkTokens - overlapTokens
	for p := start + overlapStep; p < end; p += overlapStep {
		p = runeCeil(text, p)
		if p >= end {
			break
		}
		if o.Counter.Count(text[start:p]) >= target {
			return p
		}
	}
	return end
}
