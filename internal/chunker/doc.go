// Package chunker splits long text into token-bounded, overlapping chunks for
// language-model consumption.
//
// A Chunker grows each chunk in fixed batches until the token budget is reached,
// binary-searches the overshooting batch for the exact cut, then snaps the cut
// back to the nearest paragraph break or sentence end inside the chunk. The next
// chunk starts far enough back to repeat about OverlapTokens tokens, and always
// strictly after the previous start.
//
//	c, err := chunker.New(chunker.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	chunks, err := c.ChunkText(text, chunker.Metadata{})
//	summary := chunker.Summarize(chunks)
//
// Chunk offsets count characters (runes). Cuts are made on rune starts, so a
// chunk never splits a UTF-8 sequence.
//
// ChunkSections runs the same algorithm per document section and numbers the
// result globally in section order.
package chunker
