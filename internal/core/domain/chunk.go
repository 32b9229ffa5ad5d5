package domain

// Chunk is a unit of retrievable text attributed to the page it was
// scraped from. Source is opaque to the core: it is only ever echoed
// back in context blocks and citation links.
type Chunk struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Candidate is a chunk proposed by the vector store before relevance
// filtering. Distance is a dissimilarity score, lower is more similar.
type Candidate struct {
	Text     string  `json:"text"`
	Source   string  `json:"source"`
	Distance float64 `json:"distance"`
}

// ScoredChunk carries the term-overlap relevance score assigned during
// reranking. Ties are broken by candidate input order.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}
