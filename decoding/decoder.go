package decoding

import (
	"encoding/binary"

	"go.uber.org/zap"

	telemdec "github.com/hwtelem/telemdec"
	"github.com/hwtelem/telemdec/errors"
	"github.com/hwtelem/telemdec/transform"
)

// Decode executes the compiled plan against one snapshot, writing every
// sample's value in place, and returns the context's result projection.
//
// A device expected by the plan but absent from the snapshot fails the whole
// call. A sample whose word lies beyond its blob's length does not: the
// value keeps its previous (or zero) state, a warning is logged, and the
// remaining samples still decode. The returned projection aliases storage
// that the next call reuses.
func Decode(ctx *Context, snap telemdec.Snapshot) (*Result, error) {
	if !ctx.Compiled() {
		return nil, errors.NotCompiled(errors.PhaseDecode)
	}

	var (
		blob     []byte
		current  telemdec.Guid
		haveBlob bool
	)

	for i := range ctx.infos {
		meta := &ctx.meta[i]

		// Entries of one guid are contiguous, so the active blob only
		// switches when the guid changes between consecutive rows.
		if !haveBlob || meta.Device != current {
			current = meta.Device
			b, ok := snap[current]
			if !ok {
				return nil, errors.MissingDeviceData(current.String())
			}
			blob = b
			haveBlob = true
		}

		info := &ctx.infos[i]
		if info.Offset+wordSize > len(blob) {
			// Schema/firmware skew: the documents describe more words than
			// the device produced.
			Logger().Warn("snapshot blob too short for sample",
				zap.String("device", current.String()),
				zap.String("sample", meta.Name),
				zap.Int("offset", info.Offset),
				zap.Int("blob_len", len(blob)))
			continue
		}

		word := binary.LittleEndian.Uint64(blob[info.Offset:])
		raw := ExtractBits(word, info.Lsb, info.Msb)

		switch tf := info.Transform.(type) {
		case transform.Integer:
			ctx.values[i].Bits = tf.Fn(raw, ctx, i)
		case transform.Float:
			ctx.values[i].Float = tf.Fn(raw, ctx, i)
		}
	}

	return ctx.Result(), nil
}
