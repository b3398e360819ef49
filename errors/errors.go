package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLocate  Phase = "locate"  // metadata location
	PhaseCompile Phase = "compile" // schema compilation
	PhaseDecode  Phase = "decode"  // snapshot decoding
)

// Kind categorizes the error
type Kind string

const (
	KindMissingMetadata   Kind = "missing_metadata"
	KindUnsupportedDevice Kind = "unsupported_device"
	KindSchemaError       Kind = "schema_error"
	KindSchemaMismatch    Kind = "schema_mismatch"
	KindAlreadyCompiled   Kind = "already_compiled"
	KindNotCompiled       Kind = "not_compiled"
	KindMissingDeviceData Kind = "missing_device_data"
	KindInvalidInput      Kind = "invalid_input"
)

// Error is the structured error type used throughout the decoder
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Device   string // guid of the device being processed, if known
	Sample   string // name of the sample being processed, if known
	Document string // path of the schema document being read, if known
	Detail   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Device != "" {
		b.WriteString(" device ")
		b.WriteString(e.Device)
	}

	if e.Sample != "" {
		b.WriteString(" sample ")
		b.WriteString(fmt.Sprintf("%q", e.Sample))
	}

	if e.Document != "" {
		b.WriteString(" (")
		b.WriteString(e.Document)
		b.WriteByte(')')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Device sets the guid of the device being processed
func (b *Builder) Device(guid string) *Builder {
	b.err.Device = guid
	return b
}

// Sample sets the name of the sample being processed
func (b *Builder) Sample(name string) *Builder {
	b.err.Sample = name
	return b
}

// Document sets the path of the schema document being read
func (b *Builder) Document(path string) *Builder {
	b.err.Document = path
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// MissingMetadata reports that the root mapping document could not be found
func MissingMetadata(detail string) *Error {
	return &Error{
		Phase:  PhaseLocate,
		Kind:   KindMissingMetadata,
		Detail: detail,
	}
}

// UnsupportedDevice reports a requested guid with no located metadata
func UnsupportedDevice(guid string) *Error {
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindUnsupportedDevice,
		Device: guid,
		Detail: "no schema metadata located for device",
	}
}

// SchemaMismatch reports positional disagreement between the two schema
// documents of one device
func SchemaMismatch(guid, sample, document, detail string) *Error {
	return &Error{
		Phase:    PhaseCompile,
		Kind:     KindSchemaMismatch,
		Device:   guid,
		Sample:   sample,
		Document: document,
		Detail:   detail,
	}
}

// AlreadyCompiled reports compilation into a non-empty context
func AlreadyCompiled() *Error {
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindAlreadyCompiled,
		Detail: "decoding context is already compiled",
	}
}

// NotCompiled reports use of an empty context
func NotCompiled(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotCompiled,
		Detail: "decoding context is empty",
	}
}

// MissingDeviceData reports a snapshot lacking a blob for a compiled device
func MissingDeviceData(guid string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindMissingDeviceData,
		Device: guid,
		Detail: "snapshot has no blob for device",
	}
}

// InvalidInput reports a malformed argument from the caller
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
