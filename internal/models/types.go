package models

// PageDocument is one loaded page of a source document, before chunking
type PageDocument struct {
	Text     string
	Metadata map[string]any
}

// Chunk is the atomic retrieval unit stored in the vector store
type Chunk struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// SearchResult pairs a stored chunk with the score the store assigned to it.
// pgvector reports cosine distance (lower is closer), qdrant reports cosine similarity.
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}
