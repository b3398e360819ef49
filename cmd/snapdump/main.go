package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	telemdec "github.com/hwtelem/telemdec"
	"github.com/hwtelem/telemdec/decoding"
)

func main() {
	var (
		root        = flag.String("root", "", "Metadata root directory (holds devices.xml)")
		snapshotDir = flag.String("snapshot", "", "Snapshot directory (one <guid>.bin per device)")
		devicesCSV  = flag.String("devices", "", "Restrict decoding to these guids (0x10,0x20,...)")
		list        = flag.Bool("list", false, "List supported devices and exit")
		watch       = flag.Bool("i", false, "Interactive watch mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose logging to stderr")
	)
	flag.Parse()

	if *root == "" {
		fmt.Fprintln(os.Stderr, "Usage: snapdump -root <dir> -list")
		fmt.Fprintln(os.Stderr, "       snapdump -root <dir> -snapshot <dir> [-devices 0x10,0x20]")
		fmt.Fprintln(os.Stderr, "       snapdump -root <dir> -snapshot <dir> -i  (watch mode)")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		decoding.SetLogger(logger)
	}

	if err := run(*root, *snapshotDir, *devicesCSV, *list, *watch); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(root, snapshotDir, devicesCSV string, listOnly, watch bool) error {
	eng := decoding.NewEngine(decoding.OSFilesystem{Root: root}, nil)

	guids, err := eng.DetectSupportedDevices()
	if err != nil {
		return err
	}

	if listOnly {
		fmt.Printf("Supported devices: %d\n", len(guids))
		for _, g := range guids {
			fmt.Printf("  %s\n", g)
		}
		return nil
	}

	if snapshotDir == "" {
		return fmt.Errorf("no snapshot directory, use -snapshot (or -list)")
	}

	if devicesCSV != "" {
		guids, err = filterGuids(guids, devicesCSV)
		if err != nil {
			return err
		}
	}
	if len(guids) == 0 {
		return fmt.Errorf("no devices to decode")
	}

	if err := eng.SetUpDecoding(guids); err != nil {
		return err
	}
	defer eng.CleanUpDecoding()

	if watch {
		return runWatch(eng, snapshotDir, guids)
	}

	snap, err := readSnapshot(snapshotDir, guids)
	if err != nil {
		return err
	}
	res, err := eng.Decode(snap)
	if err != nil {
		return err
	}

	fmt.Printf("%-10s %-14s %-24s %-9s %s\n", "DEVICE", "GROUP", "SAMPLE", "KIND", "VALUE")
	for i, meta := range res.Metadata {
		fmt.Printf("%-10s %-14s %-24s %-9s %s\n",
			meta.Device, meta.Group, meta.Name, meta.Kind, formatValue(meta.Kind, res.Values[i]))
	}
	return nil
}

// filterGuids keeps the requested subset of the supported guids, preserving
// ascending order. Requesting an unsupported guid is an error rather than a
// silent drop.
func filterGuids(supported []telemdec.Guid, csv string) ([]telemdec.Guid, error) {
	want := make(map[telemdec.Guid]bool)
	for _, part := range strings.Split(csv, ",") {
		g, err := decoding.ParseGuid(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad guid %q: %w", part, err)
		}
		want[g] = true
	}

	out := make([]telemdec.Guid, 0, len(want))
	for _, g := range supported {
		if want[g] {
			out = append(out, g)
			delete(want, g)
		}
	}
	for g := range want {
		return nil, fmt.Errorf("device %s is not supported on this board", g)
	}
	return out, nil
}

// readSnapshot assembles a snapshot from <guid>.bin files in dir.
func readSnapshot(dir string, guids []telemdec.Guid) (telemdec.Snapshot, error) {
	snap := make(telemdec.Snapshot, len(guids))
	for _, g := range guids {
		data, err := os.ReadFile(filepath.Join(dir, g.String()+".bin"))
		if err != nil {
			return nil, fmt.Errorf("read blob: %w", err)
		}
		snap[g] = data
	}
	return snap, nil
}

func formatValue(kind telemdec.SampleValueKind, v telemdec.SampleValue) string {
	switch kind {
	case telemdec.KindFloat:
		return strconv.FormatFloat(float64(v.Float32()), 'g', -1, 32)
	case telemdec.KindSigned:
		return strconv.FormatInt(v.Signed(), 10)
	default:
		return strconv.FormatUint(v.Unsigned(), 10)
	}
}
