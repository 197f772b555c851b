// Package chunker splits corpus documents into overlapping sentence
// windows for indexing.
package chunker

import (
	"regexp"
	"strconv"
	"strings"

	"koyl/internal/domain"
)

// SentenceChunker groups consecutive sentences into chunks with a
// configurable overlap between neighbors.
type SentenceChunker struct {
	sentencesPerChunk int
	overlapSentences  int
	splitter          *regexp.Regexp
}

// NewSentenceChunker creates a chunker producing windows of
// sentencesPerChunk sentences overlapping by overlapSentences.
func NewSentenceChunker(sentencesPerChunk, overlapSentences int) *SentenceChunker {
	if sentencesPerChunk <= 0 {
		sentencesPerChunk = 5
	}
	if overlapSentences < 0 {
		overlapSentences = 0
	}
	if overlapSentences >= sentencesPerChunk {
		overlapSentences = sentencesPerChunk - 1
	}
	return &SentenceChunker{
		sentencesPerChunk: sentencesPerChunk,
		overlapSentences:  overlapSentences,
		splitter:          regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
	}
}

// Chunk splits the document into chunk records. A document without
// sentence terminators becomes a single chunk; an empty document yields
// none.
func (c *SentenceChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	sentences := c.splitter.FindAllString(document.Content, -1)
	if len(sentences) == 0 {
		trimmed := strings.TrimSpace(document.Content)
		if trimmed == "" {
			return nil, nil
		}
		sentences = []string{trimmed}
	}
	for i := range sentences {
		sentences[i] = strings.TrimSpace(sentences[i])
	}
	var chunks []domain.Chunk
	step := c.sentencesPerChunk - c.overlapSentences
	for start, idx := 0, 0; start < len(sentences); start, idx = start+step, idx+1 {
		end := start + c.sentencesPerChunk
		if end > len(sentences) {
			end = len(sentences)
		}
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			ID:         document.ID + ":" + strconv.Itoa(idx),
			Text:       strings.Join(sentences[start:end], " "),
			Index:      idx,
		})
		if end == len(sentences) {
			break
		}
	}
	return chunks, nil
}
