package decoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	telemdec "github.com/hwtelem/telemdec"
	"github.com/hwtelem/telemdec/errors"
)

// socSnapshot encodes vcore_mv=1250, icore_ma=77, die_temp=0xFFF (-1 after
// sign extension) for the socDevice fixture.
func socSnapshot(guid telemdec.Guid) telemdec.Snapshot {
	word0 := InsertBits(0, 1250, 0, 15)
	word0 = InsertBits(word0, 77, 32, 63)
	word1 := InsertBits(0, 0xFFF, 0, 11)
	return telemdec.Snapshot{guid: buildBlob(word0, word1)}
}

func TestDecodeBasic(t *testing.T) {
	eng := compiledEngine(t, []telemdec.Guid{0x10}, socDevice(0x10, "soc0"))

	res, err := eng.Decode(socSnapshot(0x10))
	require.NoError(t, err)
	require.Len(t, res.Values, 3)

	assert.Equal(t, float32(1.25), res.Values[0].Float32())
	assert.Equal(t, uint64(77), res.Values[1].Unsigned())
	assert.Equal(t, int64(-1), res.Values[2].Signed())
}

func TestDecodeFullWordField(t *testing.T) {
	dev := deviceFixture{
		guid:   0x10,
		dir:    "soc0",
		layout: `<layout><group name="g"><sample name="cycles" lsb="0" msb="63"/></group></layout>`,
		iface: `<interface>
  <transforms><transform name="raw" output="integer"/></transforms>
  <samples><sample name="cycles" transform="raw"><param>cycles</param></sample></samples>
</interface>`,
	}
	eng := compiledEngine(t, []telemdec.Guid{0x10}, dev)

	res, err := eng.Decode(telemdec.Snapshot{0x10: buildBlob(0xFFFFFFFFFFFFFFFF)})
	require.NoError(t, err)
	assert.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), res.Values[0].Unsigned())
}

// A referencing sample is decoded after its referent within the same call
// because devices are processed in ascending guid order.
func TestDecodeCrossDeviceReference(t *testing.T) {
	eng := compiledEngine(t, []telemdec.Guid{0x10, 0x20},
		socDevice(0x10, "soc0"), regulatorDevice(0x20, "reg0"))

	snap := socSnapshot(0x10)
	snap[0x20] = buildBlob(InsertBits(0, 16, 0, 15))

	res, err := eng.Decode(snap)
	require.NoError(t, err)
	require.Len(t, res.Values, 4)

	// pkg_power_w = raw 16 * vcore_mv's 1.25, decoded earlier this call.
	assert.Equal(t, float32(20), res.Values[3].Float32())
}

func TestDecodeIdempotent(t *testing.T) {
	eng := compiledEngine(t, []telemdec.Guid{0x10}, socDevice(0x10, "soc0"))
	snap := socSnapshot(0x10)

	res, err := eng.Decode(snap)
	require.NoError(t, err)
	first := append([]telemdec.SampleValue(nil), res.Values...)

	res, err = eng.Decode(snap)
	require.NoError(t, err)
	assert.Equal(t, first, res.Values)
}

// Results depend only on the current snapshot, not on prior calls'.
func TestDecodeCallLocal(t *testing.T) {
	root := writeMetadataRoot(t, socDevice(0x10, "soc0"))

	warm := NewEngine(OSFilesystem{Root: root}, nil)
	require.NoError(t, warm.SetUpDecoding([]telemdec.Guid{0x10}))
	_, err := warm.Decode(socSnapshot(0x10))
	require.NoError(t, err)

	second := telemdec.Snapshot{0x10: buildBlob(
		InsertBits(InsertBits(0, 3000, 0, 15), 5, 32, 63),
		InsertBits(0, 40, 0, 11),
	)}
	warmRes, err := warm.Decode(second)
	require.NoError(t, err)

	fresh := NewEngine(OSFilesystem{Root: root}, nil)
	require.NoError(t, fresh.SetUpDecoding([]telemdec.Guid{0x10}))
	freshRes, err := fresh.Decode(second)
	require.NoError(t, err)

	assert.Equal(t, freshRes.Values, warmRes.Values)
}

func TestDecodeMissingDeviceData(t *testing.T) {
	eng := compiledEngine(t, []telemdec.Guid{0x10, 0x20},
		socDevice(0x10, "soc0"), regulatorDevice(0x20, "reg0"))

	snap := socSnapshot(0x10) // no blob for 0x20
	_, err := eng.Decode(snap)
	require.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindMissingDeviceData})
}

// A blob shorter than one sample's word is a per-sample warning, not a call
// failure: the short sample holds its prior state, everything else decodes.
func TestDecodeShortBlob(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	SetLogger(zap.New(core))
	defer SetLogger(zap.NewNop())

	eng := compiledEngine(t, []telemdec.Guid{0x10}, socDevice(0x10, "soc0"))

	word0 := InsertBits(0, 1250, 0, 15)
	word0 = InsertBits(word0, 77, 32, 63)
	res, err := eng.Decode(telemdec.Snapshot{0x10: buildBlob(word0)}) // word 1 missing
	require.NoError(t, err)

	assert.Equal(t, float32(1.25), res.Values[0].Float32())
	assert.Equal(t, uint64(77), res.Values[1].Unsigned())
	assert.Equal(t, int64(0), res.Values[2].Signed(), "short sample stays at zero")

	entries := logs.FilterMessage("snapshot blob too short for sample").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "die_temp", entries[0].ContextMap()["sample"])
}

func TestDecodeNotCompiled(t *testing.T) {
	root := writeMetadataRoot(t, socDevice(0x10, "soc0"))
	eng := NewEngine(OSFilesystem{Root: root}, nil)

	_, err := eng.Decode(socSnapshot(0x10))
	require.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindNotCompiled})
}

// Once every device is compiled, each extra-args relation resolves to the
// same value as a name lookup of its target sample.
func TestExtraArgsResolveByName(t *testing.T) {
	eng := compiledEngine(t, []telemdec.Guid{0x10, 0x20},
		socDevice(0x10, "soc0"), regulatorDevice(0x20, "reg0"))
	ctx := eng.Context()

	snap := socSnapshot(0x10)
	snap[0x20] = buildBlob(InsertBits(0, 16, 0, 15))
	_, err := eng.Decode(snap)
	require.NoError(t, err)

	for i := range ctx.infos {
		if ctx.infos[i].Extra < 0 {
			continue
		}
		got, ok := ctx.ExtraValue(i)
		require.True(t, ok)

		target := ctx.meta[ctx.extra[ctx.infos[i].Extra]].Name
		want, ok := ctx.ValueByName(target)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}
