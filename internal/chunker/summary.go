package chunker

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ChunkBoundary mirrors one chunk's span in a Summary.
type ChunkBoundary struct {
	ChunkID int `json:"chunk_id"`
	Start   int `json:"start"`
	End     int `json:"end"`
	Tokens  int `json:"tokens"`
}

// Summary aggregates a chunk sequence.
type Summary struct {
	TotalChunks      int             `json:"total_chunks"`
	TotalTokens      int             `json:"total_tokens"`
	TotalCharacters  int             `json:"total_characters"`
	AverageChunkSize int             `json:"average_chunk_size"`
	OverlapRatio     float64         `json:"overlap_ratio"`
	ChunkBoundaries  []ChunkBoundary `json:"chunk_boundaries"`
}

// Summarize computes corpus statistics for chunks. AverageChunkSize uses integer
// division and OverlapRatio ignores the first chunk's overlap.
func Summarize(chunks []Chunk) Summary {
	sum := Summary{ChunkBoundaries: make([]ChunkBoundary, 0, len(chunks))}
	if len(chunks) == 0 {
		return sum
	}

	overlap := 0
	for i, ch := range chunks {
		sum.TotalTokens += ch.TokenCount
		sum.TotalCharacters += ch.CharCount
		if i > 0 {
			overlap += ch.OverlapTokens
		}
		sum.ChunkBoundaries = append(sum.ChunkBoundaries, ChunkBoundary{
			ChunkID: ch.ID,
			Start:   ch.StartIndex,
			End:     ch.EndIndex,
			Tokens:  ch.TokenCount,
		})
	}
	sum.TotalChunks = len(chunks)
	sum.AverageChunkSize = sum.TotalTokens / sum.TotalChunks
	if sum.TotalTokens > 0 {
		sum.OverlapRatio = float64(overlap) / float64(sum.TotalTokens)
	}
	return sum
}

// Distribution describes the spread of chunk token counts.
type Distribution struct {
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
}

// SizeDistribution reports min, max, mean, sample standard deviation and median
// of the chunks' token counts.
func SizeDistribution(chunks []Chunk) Distribution {
	if len(chunks) == 0 {
		return Distribution{}
	}
	xs := make([]float64, len(chunks))
	for i, ch := range chunks {
		xs[i] = float64(ch.TokenCount)
	}
	sort.Float64s(xs)

	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) < 2 || math.IsNaN(std) {
		std = 0
	}
	return Distribution{
		Min:    int(xs[0]),
		Max:    int(xs[len(xs)-1]),
		Mean:   mean,
		StdDev: std,
		Median: stat.Quantile(0.5, stat.Empirical, xs, nil),
	}
}
