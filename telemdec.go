package telemdec

import "fmt"

// Guid identifies one telemetry-producing hardware device. Ascending numeric
// order is the required processing order: cross-device sample references only
// point backward, to devices with smaller guids.
type Guid uint32

func (g Guid) String() string {
	return fmt.Sprintf("%#x", uint32(g))
}

// SampleValueKind selects which view of a SampleValue is authoritative.
type SampleValueKind uint8

const (
	KindUnsigned SampleValueKind = iota
	KindSigned
	KindFloat
)

func (k SampleValueKind) String() string {
	switch k {
	case KindUnsigned:
		return "unsigned"
	case KindSigned:
		return "signed"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// SampleValue holds one decoded sample. The unsigned and signed views share
// the same bit pattern; sign extension is the transform's responsibility,
// never automatic.
type SampleValue struct {
	Bits  uint64
	Float float32
}

// Unsigned returns the 64-bit unsigned view of the value.
func (v SampleValue) Unsigned() uint64 { return v.Bits }

// Signed returns the 64-bit signed view of the value. It reinterprets the
// same bits as Unsigned; a transform that wants a negative result must have
// sign-extended them.
func (v SampleValue) Signed() int64 { return int64(v.Bits) }

// Float32 returns the floating-point view of the value.
func (v SampleValue) Float32() float32 { return v.Float }

// Snapshot is one point-in-time set of raw telemetry blobs, one per device.
// Blobs are read-only inputs; the decoder never mutates them.
type Snapshot map[Guid][]byte
