package cli

import "errors"

// Common CLI errors
var (
	ErrNoInput       = errors.New("no input files match")
	ErrInputTooLarge = errors.New("input exceeds maximum response size")
	ErrDecodeFailed  = errors.New("one or more responses failed to decode")
)
