package tokenizer

import "errors"

var (
	// ErrInvalidConfig reports a construction problem, e.g. a special token
	// that is not present in the vocabulary.
	ErrInvalidConfig = errors.New("tokenizer: invalid config")

	// ErrInvalidFormat reports unparseable vocabulary, merges, or dictionary
	// input.
	ErrInvalidFormat = errors.New("tokenizer: invalid format")

	// ErrInvalidArgument reports a bad call-site argument, e.g. a
	// non-positive token limit.
	ErrInvalidArgument = errors.New("tokenizer: invalid argument")
)
