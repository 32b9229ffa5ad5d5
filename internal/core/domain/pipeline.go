package domain

// PipelineState is the accumulating record threaded through the answer
// pipeline. Each stage returns the prior state plus exactly its own
// field; earlier fields are never altered downstream. An empty field
// signals a soft failure in the stage that owns it, not a hard error.
type PipelineState struct {
	UserInput string  `json:"user_input"`
	Chunks    []Chunk `json:"chunks"`
	Prompt    string  `json:"prompt"`
	Answer    string  `json:"answer"`
}
