// Package transform holds the catalog of named value transformations applied
// to raw bit-extracted telemetry samples.
//
// A transform converts a sample's raw, right-aligned field bits into its
// final unsigned, signed, or floating-point value. Transforms come in exactly
// two shapes, integer-producing and float-producing, modeled as a closed
// variant (Integer, Float) dispatched by type switch. A transform receives
// the compiled table it executes against through the Source interface, which
// is how it learns its sample's field width and the value of its extra
// parameter, if it has one.
//
// Sign extension is always the transform's job: raw field bits arrive
// zero-extended, and an integer transform that represents a signed quantity
// must widen them itself (see SignExtend).
package transform
