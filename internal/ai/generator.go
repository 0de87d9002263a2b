// Package ai asks a large language model to classify the signals of a job
// description and turns its reply into an intent classification.
package ai

import "context"

// Generator is a text generation backend.
type Generator interface {
	GenerateContent(ctx context.Context, systemPrompt, message string) (string, error)
	Model() string
	Provider() string
}
