package domain

import "time"

// ScrapedCase is one knowledge-base source page: the cleaned text of a
// case study keyed by its origin URL.
type ScrapedCase struct {
	Source    string    `json:"source"`
	Content   string    `json:"content"`
	ScrapedAt time.Time `json:"scraped_at"`
}

// RebuildReport summarizes one knowledge-base rebuild run.
type RebuildReport struct {
	URLs          int `json:"urls"`
	PagesScraped  int `json:"pages_scraped"`
	Cases         int `json:"cases"`
	ChunksIndexed int `json:"chunks_indexed"`
}
