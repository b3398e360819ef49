// Package decoding compiles per-device schema documents into an in-memory
// decoding plan and executes that plan against raw telemetry snapshots.
//
// The two phases have very different cost profiles. Compilation parses
// documents, probes the filesystem, and correlates the two schema documents
// of every requested device positionally; it belongs on an initialization
// path. Decoding walks the compiled tables against a caller-supplied
// snapshot, performs no I/O and no allocation, and writes results in place.
//
// The Engine type is the intended entry point:
//
//	eng := decoding.NewEngine(decoding.OSFilesystem{Root: root}, nil)
//	guids, _ := eng.DetectSupportedDevices()
//	if err := eng.SetUpDecoding(guids); err != nil { ... }
//	res, err := eng.Decode(snapshot)
//
// Nothing in this package locks. One goroutine owns an Engine: concurrent
// Decode calls race on the shared value storage, and compilation or teardown
// must never overlap an in-flight decode.
package decoding
