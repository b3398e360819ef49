package transform

import telemdec "github.com/hwtelem/telemdec"

// Source gives a transform read access to the compiled table it executes
// against. The snapshot decoder's context implements it.
type Source interface {
	// BitWidth returns the extracted field width, in bits, of the sample at
	// index.
	BitWidth(index int) uint

	// ExtraValue returns the current value of the extra-parameter sample
	// bound to the sample at index, and whether one is bound. Extra
	// parameters always reference samples compiled earlier, so within one
	// decode pass the value is already up to date.
	ExtraValue(index int) (telemdec.SampleValue, bool)
}

// IntegerFunc converts raw field bits into a final integer bit pattern. The
// result is stored verbatim; a signed result must already be sign-extended.
type IntegerFunc func(raw uint64, src Source, index int) uint64

// FloatFunc converts raw field bits into a final 32-bit float.
type FloatFunc func(raw uint64, src Source, index int) float32

// Transform is a closed variant over the two function shapes. The decoder
// dispatches on the concrete type.
type Transform interface {
	isTransform()
}

// Integer is an integer-producing transform.
type Integer struct {
	Fn IntegerFunc
}

// Float is a float-producing transform.
type Float struct {
	Fn FloatFunc
}

func (Integer) isTransform() {}
func (Float) isTransform()   {}

// SignExtend widens the low width bits of raw to a 64-bit two's complement
// value. Widths of 0 or >= 64 return raw unchanged.
func SignExtend(raw uint64, width uint) uint64 {
	if width == 0 || width >= 64 {
		return raw
	}
	if raw&(1<<(width-1)) != 0 {
		raw |= ^uint64(0) << width
	}
	return raw
}

// ImplicitExtra names the fixed extra-parameter sample of the two legacy
// transforms that predate explicit parameter lists. Their interface-document
// entries never list a second parameter; the binding is hardwired here.
func ImplicitExtra(name string) (string, bool) {
	switch name {
	case "legacy_energy_acc":
		return "acc_timestamp", true
	case "legacy_temp_delta":
		return "ref_temp", true
	}
	return "", false
}
