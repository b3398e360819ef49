package decoding

import (
	telemdec "github.com/hwtelem/telemdec"
	"github.com/hwtelem/telemdec/errors"
	"github.com/hwtelem/telemdec/transform"
)

// Engine ties the metadata locator, the transform catalog, and one decoding
// context into the decoder's public surface. An Engine is exclusively owned
// by one caller and performs no internal locking.
type Engine struct {
	locator  *Locator
	compiler *Compiler
	ctx      *Context
}

// NewEngine returns an engine probing metadata through fs and resolving
// transforms through catalog. A nil catalog selects transform.Default().
func NewEngine(fs Filesystem, catalog *transform.Catalog) *Engine {
	if catalog == nil {
		catalog = transform.Default()
	}
	locator := NewLocator(fs)
	return &Engine{
		locator:  locator,
		compiler: NewCompiler(locator, catalog),
		ctx:      NewContext(),
	}
}

// DetectSupportedDevices returns, in ascending order, the guids of every
// device with complete, internally consistent metadata on this board.
func (e *Engine) DetectSupportedDevices() ([]telemdec.Guid, error) {
	located, err := e.locator.Locate()
	if err != nil {
		return nil, err
	}
	return sortGuids(located), nil
}

// SetUpDecoding compiles the schema documents of the requested devices into
// this engine's context. The guid list must be ascending and de-duplicated.
func (e *Engine) SetUpDecoding(guids []telemdec.Guid) error {
	return e.compiler.Compile(e.ctx, guids)
}

// CleanUpDecoding clears the compiled tables, allowing a later recompile.
func (e *Engine) CleanUpDecoding() error {
	if !e.ctx.Compiled() {
		return errors.NotCompiled(errors.PhaseCompile)
	}
	e.ctx.clear()
	return nil
}

// Decode decodes one snapshot against the compiled context. See Decode.
func (e *Engine) Decode(snap telemdec.Snapshot) (*Result, error) {
	return Decode(e.ctx, snap)
}

// Context exposes the engine's decoding context, mainly for value lookups by
// sample name.
func (e *Engine) Context() *Context {
	return e.ctx
}
