package driven

import "context"

// CompletionService produces schema-constrained structured outputs from
// a chat completion model.
//
// Implementations may include:
//   - OpenAI-compatible chat completion endpoints (response_format json_schema)
//   - Local inference servers exposing the same API
type CompletionService interface {
	// Complete sends the system instructions and user content to the
	// model and decodes the response into out. The response must conform
	// to the given output contract; non-conforming output is a hard
	// error, not best-effort parsing.
	Complete(ctx context.Context, system, user string, contract OutputContract, out any) error

	// ModelName returns the name of the completion model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// OutputContract declares the named JSON schema a completion response
// must conform to. Validation happens at the gateway boundary.
type OutputContract struct {
	// Name identifies the contract in the model request.
	Name string

	// Schema is a JSON Schema document as a Go value.
	Schema map[string]any
}
