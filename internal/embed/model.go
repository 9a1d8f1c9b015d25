/*
Package embed maps cleaned text to dense vectors for the retrieval index.
The only hard requirements on a Model are determinism given (model name,
text) and a normalized (unit-length) output; the reference model is a
deterministic hashing embedder so the pipeline has no external model
dependency, but Model is pluggable for a real provider later.
*/
package embed

// Model is the pluggable embedding function the contract in spec §4.8
// depends on: Embed(text) is a pure, deterministic function of
// (Name(), text).
type Model interface {
	Name() string
	Dimensions() int
	Embed(text string) ([]float32, error)
}

const ReferenceDimensions = 384
