package transform

import "math"

// Default returns a catalog populated with the stock transform set. Boards
// with bespoke conversions extend it with further Register calls before
// compilation.
func Default() *Catalog {
	c := NewCatalog()

	// Identity: the raw field bits are the value.
	c.RegisterInteger("raw", func(raw uint64, _ Source, _ int) uint64 {
		return raw
	})

	// Two's complement field, widened to 64 bits.
	c.RegisterInteger("signed_extend", func(raw uint64, src Source, i int) uint64 {
		return SignExtend(raw, src.BitWidth(i))
	})

	// Two's complement field plus the signed value of the extra-parameter
	// sample.
	c.RegisterInteger("signed_offset_of", func(raw uint64, src Source, i int) uint64 {
		v := SignExtend(raw, src.BitWidth(i))
		if extra, ok := src.ExtraValue(i); ok {
			v += extra.Bits
		}
		return v
	})

	// Raw temperature delta against the board reference sample. Predates
	// explicit parameter lists; the extra binding comes from ImplicitExtra.
	c.RegisterInteger("legacy_temp_delta", func(raw uint64, src Source, i int) uint64 {
		v := SignExtend(raw, src.BitWidth(i))
		if ref, ok := src.ExtraValue(i); ok {
			v += ref.Bits
		}
		return v
	})

	// The low 32 field bits reinterpreted as an IEEE 754 single.
	c.RegisterFloat("float_ieee", func(raw uint64, _ Source, _ int) float32 {
		return math.Float32frombits(uint32(raw))
	})

	// Fixed-point fields in thousandths and eighths.
	c.RegisterFloat("float_scale_millis", func(raw uint64, _ Source, _ int) float32 {
		return float32(raw) / 1000
	})
	c.RegisterFloat("float_scale_eighths", func(raw uint64, _ Source, _ int) float32 {
		return float32(raw) / 8
	})

	// Raw field scaled by the float value of the extra-parameter sample.
	c.RegisterFloat("float_ratio_of", func(raw uint64, src Source, i int) float32 {
		extra, ok := src.ExtraValue(i)
		if !ok {
			return float32(raw)
		}
		return float32(raw) * extra.Float32()
	})

	// Accumulated energy divided by the accumulator timestamp sample.
	// Predates explicit parameter lists; see ImplicitExtra.
	c.RegisterFloat("legacy_energy_acc", func(raw uint64, src Source, i int) float32 {
		ts, ok := src.ExtraValue(i)
		if !ok || ts.Unsigned() == 0 {
			return 0
		}
		return float32(raw) / float32(ts.Unsigned())
	})

	return c
}
