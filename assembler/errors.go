package assembler

import "errors"

var (
	// ErrUnknownPolicy means a statement kind has no registered
	// strategy for the requested policy and no default either. This is
	// a configuration error and aborts the compilation.
	ErrUnknownPolicy = errors.New("unknown assembly policy")

	// ErrInvalidSitePattern means a requested site/state combination is
	// not part of a monomer's signature. Rule generation recovers by
	// skipping the affected rule variant.
	ErrInvalidSitePattern = errors.New("invalid site pattern")

	// ErrMonomerNotFound means an agent refers to a monomer that was
	// never declared during the monomer-collection pass.
	ErrMonomerNotFound = errors.New("monomer not found")
)
