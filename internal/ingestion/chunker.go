package ingestion

import (
	"strings"

	"github.com/povarna/generative-ai-agents/pdf-rag/internal/models"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 150
)

// Chunker splits text into fixed-size overlapping windows measured in runes
type Chunker struct {
	ChunkSize    int
	ChunkOverlap int
}

type TextChunk struct {
	Index   int
	Start   int
	End     int
	Content string
}

func NewChunker(chunkSize, overlap int) *Chunker {
	return &Chunker{
		ChunkSize:    chunkSize,
		ChunkOverlap: overlap,
	}
}

// ChunkText returns windows of at most ChunkSize runes. Each window starts
// ChunkSize-ChunkOverlap runes after the previous one, and the last window
// ends at the end of the text.
func (c *Chunker) ChunkText(text string) []TextChunk {
	if c.ChunkSize <= 0 || c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return nil
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	n := len(runes)
	step := c.ChunkSize - c.ChunkOverlap

	var results []TextChunk
	for i, chunkIndex := 0, 0; i < n; i, chunkIndex = i+step, chunkIndex+1 {
		end := i + c.ChunkSize
		if end > n {
			end = n
		}

		results = append(results, TextChunk{
			Index:   chunkIndex,
			Start:   i,
			End:     end,
			Content: string(runes[i:end]),
		})

		if end == n {
			break
		}
	}

	return results
}

// SplitDocuments chunks every page and copies the page metadata onto each chunk
func (c *Chunker) SplitDocuments(pages []models.PageDocument) []models.PageDocument {
	var splits []models.PageDocument
	for _, page := range pages {
		for _, chunk := range c.ChunkText(page.Text) {
			splits = append(splits, models.PageDocument{
				Text:     chunk.Content,
				Metadata: copyMetadata(page.Metadata),
			})
		}
	}

	return splits
}

func copyMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return nil
	}

	out := make(map[string]any, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	return out
}
