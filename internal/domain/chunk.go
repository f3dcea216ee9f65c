package domain

import "time"

// Chunk is one unit of retrievable knowledge: a bounded slice of a
// document's extracted text together with its embedding vector.
// DocumentID is empty for constitution corpus chunks, which have no
// owning document.
type Chunk struct {
	ID         string
	DocumentID string
	ChunkIndex int
	Content    string
	Embedding  []float32
	SourceName string
	CreatedAt  time.Time
}

// RetrievalResult is a chunk returned from a similarity search, with
// its score against the query vector. Ephemeral, never persisted.
type RetrievalResult struct {
	Chunk      Chunk
	Similarity float64
}
