package decoding

import (
	telemdec "github.com/hwtelem/telemdec"
	"github.com/hwtelem/telemdec/transform"
)

// SampleMetadata describes one compiled sample. Immutable after compilation.
type SampleMetadata struct {
	Name        string
	Group       string
	Description string
	Kind        telemdec.SampleValueKind
	Device      telemdec.Guid
}

// SampleDecodingInfo is one row of the compiled decoding plan.
type SampleDecodingInfo struct {
	// Transform is the resolved conversion, an Integer or Float variant.
	Transform transform.Transform

	// Offset is the byte offset of the containing 64-bit word within the
	// device's blob.
	Offset int

	// Extra indexes the extra-args table for two-parameter transforms, -1
	// when unused.
	Extra int

	// Lsb and Msb bound the inclusive bit range of the field.
	Lsb uint8
	Msb uint8
}

// Result is the externally visible projection of a decoded context: parallel
// metadata and value arrays. It aliases the context's storage, which is
// reused in place on the next decode; copy the values to retain them.
type Result struct {
	Metadata []SampleMetadata
	Values   []telemdec.SampleValue
}

// Context owns the compiled tables. Entry i of infos, meta, and values
// describes the same sample; samples of one guid are contiguous, guids
// ascend across the table, and within a guid samples keep declaration order
// with reserved entries excluded.
//
// The extra table is an arena of plain value-table indices. Indices stay
// valid as the value table grows by appending, so a relation resolved when
// its row is compiled never needs fixing up.
type Context struct {
	infos  []SampleDecodingInfo
	meta   []SampleMetadata
	values []telemdec.SampleValue
	extra  []int

	byName      map[string]int // sample name -> value index, for backward refs
	extraByName map[string]int // target sample name -> extra slot, for reuse
	result      Result
}

var _ transform.Source = (*Context)(nil)

// NewContext returns an empty, uncompiled context.
func NewContext() *Context {
	return &Context{
		byName:      make(map[string]int),
		extraByName: make(map[string]int),
	}
}

// Len returns the number of compiled samples.
func (c *Context) Len() int {
	return len(c.infos)
}

// Compiled reports whether the context holds a compiled plan.
func (c *Context) Compiled() bool {
	return len(c.infos) > 0
}

// ValueByName returns the current value of the named sample.
func (c *Context) ValueByName(name string) (telemdec.SampleValue, bool) {
	i, ok := c.byName[name]
	if !ok {
		return telemdec.SampleValue{}, false
	}
	return c.values[i], true
}

// Result returns the context's result projection.
func (c *Context) Result() *Result {
	c.result.Metadata = c.meta
	c.result.Values = c.values
	return &c.result
}

// BitWidth implements transform.Source.
func (c *Context) BitWidth(index int) uint {
	in := &c.infos[index]
	return uint(in.Msb-in.Lsb) + 1
}

// ExtraValue implements transform.Source.
func (c *Context) ExtraValue(index int) (telemdec.SampleValue, bool) {
	slot := c.infos[index].Extra
	if slot < 0 {
		return telemdec.SampleValue{}, false
	}
	return c.values[c.extra[slot]], true
}

// append adds one compiled sample row with a zero value.
func (c *Context) append(info SampleDecodingInfo, meta SampleMetadata) {
	c.infos = append(c.infos, info)
	c.meta = append(c.meta, meta)
	c.values = append(c.values, telemdec.SampleValue{})
	c.byName[meta.Name] = len(c.values) - 1
}

// valueIndex resolves an already-compiled sample name to its value index.
func (c *Context) valueIndex(name string) (int, bool) {
	i, ok := c.byName[name]
	return i, ok
}

// extraSlot returns the extra-args slot holding valueIndex, allocating one
// if the target sample has no slot yet.
func (c *Context) extraSlot(name string, valueIndex int) int {
	if s, ok := c.extraByName[name]; ok {
		return s
	}
	c.extra = append(c.extra, valueIndex)
	s := len(c.extra) - 1
	c.extraByName[name] = s
	return s
}

// clear empties all four tables, returning the context to its uncompiled
// state.
func (c *Context) clear() {
	c.infos = nil
	c.meta = nil
	c.values = nil
	c.extra = nil
	c.byName = make(map[string]int)
	c.extraByName = make(map[string]int)
	c.result = Result{}
}
