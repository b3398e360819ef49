// Package errors provides structured error types for the telemetry decoder.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: device guid, sample name,
// schema document path, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCompile, errors.KindSchemaError).
//		Device("0x20").
//		Sample("vcore_mv").
//		Document("soc0/layout.xml").
//		Detail("malformed bit range").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnsupportedDevice("0x20")
//	err := errors.MissingDeviceData("0x10")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
