// Package generate drives the output pipeline: it walks the active overlay
// roots, groups source files by destination, merges schema documents in
// application order, substitutes environment values and writes the rendered
// YAML and INI files.
//
// The pipeline never overwrites an existing output file. A raw template
// appearing below a schema source for the same destination is a conflict:
// the destination is skipped, the rest of the run continues, and [ErrGenerate]
// reports the failure at the end.
//
// All filesystem access goes through an [afero.Fs], so the whole pipeline
// runs against an in-memory tree in tests.
package generate
