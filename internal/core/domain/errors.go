package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfig indicates invalid pipeline parameters, such as an
	// overlap size that is not smaller than the unit size. Fatal; surfaced
	// before any processing starts.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyDocument indicates the input document has no content.
	ErrEmptyDocument = errors.New("empty document")

	// ErrNoUnits indicates segmentation produced zero units. This cannot
	// happen for a non-empty document under a correct splitter, but it is
	// checked and surfaced rather than silently producing an empty plan.
	ErrNoUnits = errors.New("segmentation produced no units")

	// ErrNoTopics indicates every extraction call failed and the merge
	// produced zero topics. A plan without topics is useless, so this one
	// extraction outcome is fatal.
	ErrNoTopics = errors.New("extraction produced no topics")

	// ErrLLMUnavailable indicates no completion service is configured.
	// Extraction cannot run without one; keyword passage ranking still can.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrLLMTransport indicates a network-level completion failure
	// (connection refused, timeout). Retryable.
	ErrLLMTransport = errors.New("LLM transport failure")

	// ErrLLMModel indicates the completion backend rejected the request.
	// Retryable.
	ErrLLMModel = errors.New("LLM model failure")

	// ErrMalformedResponse indicates completion output could not be parsed
	// into the expected structure. Treated as zero candidates or zero score
	// for that call; logged, never fatal.
	ErrMalformedResponse = errors.New("malformed completion response")

	// ErrMissingPassages indicates the assembler was given a topic without
	// a passage entry. Programming invariant, not a user-facing error.
	ErrMissingPassages = errors.New("topic has no passage entry")
)
