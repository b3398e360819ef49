package decoding

import (
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	telemdec "github.com/hwtelem/telemdec"
	"github.com/hwtelem/telemdec/docquery"
	"github.com/hwtelem/telemdec/errors"
)

// DeviceMetadata holds the schema document locations of one device.
type DeviceMetadata struct {
	Guid          telemdec.Guid
	LayoutPath    string
	InterfacePath string
}

// Locator translates the root mapping document into per-device schema
// document locations.
type Locator struct {
	fs Filesystem
}

// NewLocator returns a locator probing through fs.
func NewLocator(fs Filesystem) *Locator {
	return &Locator{fs: fs}
}

// Locate reads the root mapping document and returns the schema document
// locations of every device present on the board. Entries whose base
// directory is absent are skipped silently: that is the normal "not present
// on this board" case. Any malformed entry aborts the whole call.
func (l *Locator) Locate() (map[telemdec.Guid]DeviceMetadata, error) {
	path, ok := l.fs.MappingDocumentPath()
	if !ok {
		return nil, errors.MissingMetadata("no root mapping document")
	}

	doc, err := docquery.Parse(path)
	if err != nil {
		return nil, errors.New(errors.PhaseLocate, errors.KindSchemaError).
			Document(path).
			Cause(err).
			Detail("parse mapping document").
			Build()
	}

	entries, err := doc.Query("/devices/device")
	if err != nil {
		return nil, errors.New(errors.PhaseLocate, errors.KindSchemaError).
			Document(path).
			Cause(err).
			Detail("query device entries").
			Build()
	}

	located := make(map[telemdec.Guid]DeviceMetadata, len(entries))
	for _, entry := range entries {
		guidText, ok := docquery.Attr(entry, "guid")
		if !ok {
			return nil, errors.New(errors.PhaseLocate, errors.KindSchemaError).
				Document(path).
				Detail("device entry has no guid attribute").
				Build()
		}
		guid, err := ParseGuid(guidText)
		if err != nil {
			return nil, errors.New(errors.PhaseLocate, errors.KindSchemaError).
				Document(path).
				Cause(err).
				Detail("unparseable guid %q", guidText).
				Build()
		}
		if _, dup := located[guid]; dup {
			return nil, errors.New(errors.PhaseLocate, errors.KindSchemaError).
				Document(path).
				Device(guid.String()).
				Detail("duplicate device entry").
				Build()
		}

		dir, ok := docquery.Attr(entry, "dir")
		if !ok || dir == "" {
			return nil, errors.New(errors.PhaseLocate, errors.KindSchemaError).
				Document(path).
				Device(guid.String()).
				Detail("device entry has no base directory").
				Build()
		}

		base := filepath.Join(filepath.Dir(path), dir)
		if !l.fs.DirectoryExists(base) {
			Logger().Debug("device directory absent, skipping",
				zap.String("device", guid.String()),
				zap.String("dir", base))
			continue
		}

		layoutPath, err := l.documentPath(doc, entry, "layout", base, guid)
		if err != nil {
			return nil, err
		}
		interfacePath, err := l.documentPath(doc, entry, "interface", base, guid)
		if err != nil {
			return nil, err
		}

		located[guid] = DeviceMetadata{
			Guid:          guid,
			LayoutPath:    layoutPath,
			InterfacePath: interfacePath,
		}
	}

	return located, nil
}

// documentPath reads one schema document filename from a device entry and
// verifies the file exists.
func (l *Locator) documentPath(doc *docquery.Document, entry *docquery.Node, field, base string, guid telemdec.Guid) (string, error) {
	n, err := doc.QueryOneFrom(entry, field)
	if err != nil || n == nil || docquery.Text(n) == "" {
		return "", errors.New(errors.PhaseLocate, errors.KindSchemaError).
			Document(doc.Path()).
			Device(guid.String()).
			Cause(err).
			Detail("device entry has no %s document field", field).
			Build()
	}
	p := filepath.Join(base, docquery.Text(n))
	if !fileExists(p) {
		return "", errors.New(errors.PhaseLocate, errors.KindSchemaError).
			Document(p).
			Device(guid.String()).
			Detail("%s document is absent", field).
			Build()
	}
	return p, nil
}

// ParseGuid parses a hex device identifier, with or without a 0x prefix.
func ParseGuid(s string) (telemdec.Guid, error) {
	t := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(t, 16, 32)
	if err != nil {
		return 0, err
	}
	return telemdec.Guid(v), nil
}
