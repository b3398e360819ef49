package decoding

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	telemdec "github.com/hwtelem/telemdec"
)

// deviceFixture describes one device's entry in a test metadata tree.
type deviceFixture struct {
	guid   telemdec.Guid
	dir    string
	layout string
	iface  string
	absent bool // list the device but do not create its directory
}

// writeMetadataRoot materializes a metadata tree in a temp directory: the
// root mapping document plus one subdirectory per present device holding its
// two schema documents.
func writeMetadataRoot(t *testing.T, devices ...deviceFixture) string {
	t.Helper()
	root := t.TempDir()

	var b strings.Builder
	b.WriteString("<devices>\n")
	for _, d := range devices {
		fmt.Fprintf(&b,
			`  <device guid="%s" dir="%s"><layout>layout.xml</layout><interface>interface.xml</interface></device>`+"\n",
			d.guid, d.dir)
		if d.absent {
			continue
		}
		dir := filepath.Join(root, d.dir)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "layout.xml"), []byte(d.layout), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "interface.xml"), []byte(d.iface), 0o644))
	}
	b.WriteString("</devices>\n")
	require.NoError(t, os.WriteFile(filepath.Join(root, MappingDocumentName), []byte(b.String()), 0o644))

	return root
}

// buildBlob packs 64-bit words into a little-endian device blob.
func buildBlob(words ...uint64) []byte {
	b := make([]byte, wordSize*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint64(b[i*wordSize:], w)
	}
	return b
}

// socDevice is the workhorse fixture: two groups, a reserved field between
// two regular ones, and one sample of each value kind.
//
// Compiled rows: vcore_mv (float, word 0, [0,15]), icore_ma (unsigned,
// word 0, [32,63]), die_temp (signed, word 1, [0,11]).
func socDevice(guid telemdec.Guid, dir string) deviceFixture {
	return deviceFixture{
		guid: guid,
		dir:  dir,
		layout: `
<layout>
  <group name="power">
    <sample name="vcore_mv" lsb="0" msb="15"/>
    <sample name="reserved_0" lsb="16" msb="31"/>
    <sample name="icore_ma" lsb="32" msb="63"/>
  </group>
  <group name="thermal">
    <sample name="die_temp" lsb="0" msb="11"/>
  </group>
</layout>`,
		iface: `
<interface>
  <transforms>
    <transform name="raw" output="integer"/>
    <transform name="signed_extend" output="integer"/>
    <transform name="float_scale_millis" output="float"/>
  </transforms>
  <samples>
    <sample name="vcore_mv" transform="float_scale_millis" desc="core voltage"><param>vcore_mv</param></sample>
    <sample name="reserved_0" transform="raw"><param>reserved_0</param></sample>
    <sample name="icore_ma" transform="raw"><param>icore_ma</param></sample>
    <sample name="die_temp" transform="signed_extend"><param>die_temp</param></sample>
  </samples>
</interface>`,
	}
}

// regulatorDevice references socDevice's vcore_mv sample through a
// two-parameter transform, so it only compiles after a device providing that
// sample.
func regulatorDevice(guid telemdec.Guid, dir string) deviceFixture {
	return deviceFixture{
		guid: guid,
		dir:  dir,
		layout: `
<layout>
  <group name="regulator">
    <sample name="pkg_power_w" lsb="0" msb="15"/>
  </group>
</layout>`,
		iface: `
<interface>
  <transforms>
    <transform name="float_ratio_of" output="float"/>
  </transforms>
  <samples>
    <sample name="pkg_power_w" transform="float_ratio_of"><param>pkg_power_w</param><param>vcore_mv</param></sample>
  </samples>
</interface>`,
	}
}

// compiledEngine builds an engine over the fixture tree and compiles the
// requested guids.
func compiledEngine(t *testing.T, guids []telemdec.Guid, devices ...deviceFixture) *Engine {
	t.Helper()
	root := writeMetadataRoot(t, devices...)
	eng := NewEngine(OSFilesystem{Root: root}, nil)
	require.NoError(t, eng.SetUpDecoding(guids))
	return eng
}
