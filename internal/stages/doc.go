// Package stages ships the built-in pipeline stage library. Every builtin
// is a pipeline.Constructor: it validates its options once, at compile
// time, and returns the per-file function the executor calls.
//
// Builtins interoperate through the Page accumulator but accept raw input
// leniently. A nil accumulator makes a stage read the source file itself,
// and []byte or string input becomes a fresh page body, so pipelines do
// not need an explicit source stage to work.
package stages
