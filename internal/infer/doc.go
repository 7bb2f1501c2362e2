// Package infer is the boundary between the structural core and a value
// inference engine.
//
// The core never decides what an expression evaluates to. It asks an Engine,
// passing a Context that carries the current inference path so that
// self-referential lookups terminate with ErrInferenceFailed instead of
// recursing forever. Unresolved results are reported as Unknown.
//
// Literal is a small reference engine that is good enough for the CLI and for
// tests: literal nodes infer to themselves and names follow plain assignments
// inside their own scope.
package infer
