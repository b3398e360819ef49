// Package telemdec decodes fixed-layout binary telemetry snapshots into named,
// typed samples, driven by externally authored schema documents.
//
// Each monitored hardware device exposes one opaque binary blob per snapshot.
// Two per-device documents describe how to read it: a layout document mapping
// bit ranges of the blob to named samples, and an interface document naming the
// transformation that converts each sample's raw bits into its final unsigned,
// signed, or floating-point value. Transformations may depend on a second,
// already-decoded sample.
//
// # Architecture Overview
//
// The module is organized into packages with distinct responsibilities:
//
//	telemdec/            Root package with the shared value and identifier types
//	├── decoding/        Metadata locator, schema compiler, snapshot decoder
//	├── docquery/        Document parsing and path-query evaluation
//	├── transform/       Transform catalog and the default transform set
//	├── errors/          Structured error types
//	└── cmd/snapdump/    CLI for listing devices and dumping decoded snapshots
//
// # Quick Start
//
// Compile the schemas once, then decode snapshots repeatedly:
//
//	eng := decoding.NewEngine(decoding.OSFilesystem{Root: "/var/lib/telem"}, nil)
//
//	guids, err := eng.DetectSupportedDevices()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := eng.SetUpDecoding(guids); err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.CleanUpDecoding()
//
//	res, err := eng.Decode(snapshot)
//	for i, meta := range res.Metadata {
//	    fmt.Println(meta.Name, res.Values[i])
//	}
//
// Compilation performs document parsing and filesystem probing and belongs on
// an initialization path. Decoding is a pure, allocation-free computation over
// the compiled tables and the caller's snapshot.
//
// The engine has no internal locking. Concurrent Decode calls against one
// engine race on the shared value storage and must be serialized by the
// caller, and compilation or teardown must never overlap an in-flight decode.
package telemdec
