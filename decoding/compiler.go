package decoding

import (
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	telemdec "github.com/hwtelem/telemdec"
	"github.com/hwtelem/telemdec/docquery"
	"github.com/hwtelem/telemdec/errors"
	"github.com/hwtelem/telemdec/transform"
)

// wordSize is the stride of one sample group within a device blob.
const wordSize = 8

// Compiler builds a decoding plan from per-device schema documents.
type Compiler struct {
	locator *Locator
	catalog *transform.Catalog
}

// NewCompiler returns a compiler resolving metadata through locator and
// transform names through catalog.
func NewCompiler(locator *Locator, catalog *transform.Catalog) *Compiler {
	return &Compiler{locator: locator, catalog: catalog}
}

// Compile populates ctx with one row per decodable sample of every requested
// device. The guid list must be ascending and de-duplicated, and every guid
// must resolve to located metadata. On any fatal error the context is left
// unusable as a whole; the caller must tear it down before retrying.
func (c *Compiler) Compile(ctx *Context, guids []telemdec.Guid) error {
	if ctx.Compiled() {
		return errors.AlreadyCompiled()
	}
	for i := 1; i < len(guids); i++ {
		if guids[i] <= guids[i-1] {
			return errors.InvalidInput(errors.PhaseCompile,
				"guid list must be ascending and de-duplicated")
		}
	}

	located, err := c.locator.Locate()
	if err != nil {
		return err
	}

	devices := make([]DeviceMetadata, 0, len(guids))
	for _, g := range guids {
		md, ok := located[g]
		if !ok {
			return errors.UnsupportedDevice(g.String())
		}
		devices = append(devices, md)
	}

	// Pass 1: one transform-name -> kind table shared across all devices.
	kinds, err := transformKinds(devices)
	if err != nil {
		return err
	}

	// Pass 2: devices in ascending guid order, so cross-device parameter
	// references can only point at already-compiled samples.
	for _, md := range devices {
		if err := c.compileDevice(ctx, md, kinds); err != nil {
			return err
		}
	}

	return nil
}

// transformKinds reads every requested device's interface document and builds
// the shared name -> output kind table. A name declared with two different
// kinds anywhere in the set is fatal.
func transformKinds(devices []DeviceMetadata) (map[string]telemdec.SampleValueKind, error) {
	kinds := make(map[string]telemdec.SampleValueKind)

	for _, md := range devices {
		doc, err := docquery.Parse(md.InterfacePath)
		if err != nil {
			return nil, errors.New(errors.PhaseCompile, errors.KindSchemaError).
				Device(md.Guid.String()).
				Document(md.InterfacePath).
				Cause(err).
				Detail("parse interface document").
				Build()
		}

		decls, err := doc.Query("/interface/transforms/transform")
		if err != nil {
			return nil, errors.New(errors.PhaseCompile, errors.KindSchemaError).
				Device(md.Guid.String()).
				Document(md.InterfacePath).
				Cause(err).
				Detail("query transform declarations").
				Build()
		}

		for _, decl := range decls {
			name, ok := docquery.Attr(decl, "name")
			if !ok || name == "" {
				return nil, errors.New(errors.PhaseCompile, errors.KindSchemaError).
					Device(md.Guid.String()).
					Document(md.InterfacePath).
					Detail("transform declaration has no name").
					Build()
			}
			output, _ := docquery.Attr(decl, "output")
			kind := classifyTransform(name, output)

			if prev, seen := kinds[name]; seen && prev != kind {
				return nil, errors.New(errors.PhaseCompile, errors.KindSchemaError).
					Device(md.Guid.String()).
					Document(md.InterfacePath).
					Detail("transform %q declared both %s and %s", name, prev, kind).
					Build()
			}
			kinds[name] = kind
		}
	}

	return kinds, nil
}

// classifyTransform maps a declaration to a value kind. Anything not declared
// float falls back to the signed-name convention.
func classifyTransform(name, output string) telemdec.SampleValueKind {
	if output == "float" {
		return telemdec.KindFloat
	}
	if strings.HasPrefix(name, "signed") {
		return telemdec.KindSigned
	}
	return telemdec.KindUnsigned
}

// isReserved reports whether a layout sample name marks a placeholder field
// that is never decoded.
func isReserved(name string) bool {
	n := strings.ToLower(name)
	return strings.HasPrefix(n, "reserved") || strings.HasPrefix(n, "rsvd")
}

// compileDevice appends every decodable sample of one device to ctx.
func (c *Compiler) compileDevice(ctx *Context, md DeviceMetadata, kinds map[string]telemdec.SampleValueKind) error {
	guid := md.Guid.String()

	layout, err := docquery.Parse(md.LayoutPath)
	if err != nil {
		return errors.New(errors.PhaseCompile, errors.KindSchemaError).
			Device(guid).
			Document(md.LayoutPath).
			Cause(err).
			Detail("parse layout document").
			Build()
	}
	iface, err := docquery.Parse(md.InterfacePath)
	if err != nil {
		return errors.New(errors.PhaseCompile, errors.KindSchemaError).
			Device(guid).
			Document(md.InterfacePath).
			Cause(err).
			Detail("parse interface document").
			Build()
	}

	groups, err := layout.Query("/layout/group")
	if err != nil {
		return errors.New(errors.PhaseCompile, errors.KindSchemaError).
			Device(guid).
			Document(md.LayoutPath).
			Cause(err).
			Detail("query sample groups").
			Build()
	}

	// The interface document lists samples positionally parallel to the
	// layout document, reserved entries included. Fetch the node set once
	// and index it while walking the layout.
	ifaceSamples, err := iface.Query("/interface/samples/sample")
	if err != nil {
		return errors.New(errors.PhaseCompile, errors.KindSchemaError).
			Device(guid).
			Document(md.InterfacePath).
			Cause(err).
			Detail("query interface samples").
			Build()
	}

	pos := 0
	offset := 0
	compiled := 0

	for gi, group := range groups {
		if gi > 0 {
			offset += wordSize
		}
		groupName, ok := docquery.Attr(group, "name")
		if !ok || groupName == "" {
			return errors.New(errors.PhaseCompile, errors.KindSchemaError).
				Device(guid).
				Document(md.LayoutPath).
				Detail("sample group has no name").
				Build()
		}

		samples, err := layout.QueryFrom(group, "sample")
		if err != nil {
			return errors.New(errors.PhaseCompile, errors.KindSchemaError).
				Device(guid).
				Document(md.LayoutPath).
				Cause(err).
				Detail("query samples of group %q", groupName).
				Build()
		}

		for _, sample := range samples {
			name, ok := docquery.Attr(sample, "name")
			if !ok || name == "" {
				return errors.New(errors.PhaseCompile, errors.KindSchemaError).
					Device(guid).
					Document(md.LayoutPath).
					Detail("sample in group %q has no name", groupName).
					Build()
			}

			// Bit range parsing happens before the reserved check so that
			// malformed placeholders still fail loudly, and the position
			// counter advances for every layout sample so skips never
			// perturb positional correlation.
			lsb, msb, err := parseBitRange(sample)
			if err != nil {
				return errors.New(errors.PhaseCompile, errors.KindSchemaError).
					Device(guid).
					Sample(name).
					Document(md.LayoutPath).
					Cause(err).
					Detail("malformed bit range").
					Build()
			}

			if isReserved(name) {
				pos++
				continue
			}

			if pos >= len(ifaceSamples) {
				return errors.SchemaMismatch(guid, name, md.InterfacePath,
					"no interface sample at this position")
			}
			decl := ifaceSamples[pos]
			pos++

			declName, _ := docquery.Attr(decl, "name")
			if declName != name {
				return errors.SchemaMismatch(guid, name, md.InterfacePath,
					"interface sample at this position is named "+strconv.Quote(declName))
			}

			row, ok, err := c.compileSample(ctx, iface, decl, md, name, groupName, lsb, msb, offset, kinds)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			ctx.append(row.info, row.meta)
			compiled++
		}
	}

	Logger().Debug("device compiled",
		zap.String("device", guid),
		zap.Int("samples", compiled),
		zap.Int("table_len", ctx.Len()))

	return nil
}

// compiledRow pairs the two table entries produced for one sample.
type compiledRow struct {
	info SampleDecodingInfo
	meta SampleMetadata
}

// compileSample resolves one non-reserved sample's transform and parameters.
// A well-typed transform with no registered implementation is not fatal: the
// sample is omitted and ok is false.
func (c *Compiler) compileSample(ctx *Context, iface *docquery.Document, decl *docquery.Node,
	md DeviceMetadata, name, groupName string, lsb, msb uint8, offset int,
	kinds map[string]telemdec.SampleValueKind) (compiledRow, bool, error) {

	guid := md.Guid.String()

	transformName, ok := docquery.Attr(decl, "transform")
	if !ok || transformName == "" {
		return compiledRow{}, false, errors.New(errors.PhaseCompile, errors.KindSchemaError).
			Device(guid).
			Sample(name).
			Document(md.InterfacePath).
			Detail("interface sample has no transform").
			Build()
	}

	kind, known := kinds[transformName]
	if !known {
		return compiledRow{}, false, errors.New(errors.PhaseCompile, errors.KindSchemaError).
			Device(guid).
			Sample(name).
			Document(md.InterfacePath).
			Detail("transform %q is not declared", transformName).
			Build()
	}

	var resolved transform.Transform
	switch kind {
	case telemdec.KindFloat:
		fn, ok := c.catalog.LookupFloat(transformName)
		if !ok {
			Logger().Info("transform not implemented, omitting sample",
				zap.String("device", guid),
				zap.String("sample", name),
				zap.String("transform", transformName))
			return compiledRow{}, false, nil
		}
		resolved = transform.Float{Fn: fn}
	default:
		fn, ok := c.catalog.LookupInteger(transformName)
		if !ok {
			Logger().Info("transform not implemented, omitting sample",
				zap.String("device", guid),
				zap.String("sample", name),
				zap.String("transform", transformName))
			return compiledRow{}, false, nil
		}
		resolved = transform.Integer{Fn: fn}
	}

	extraName, err := c.extraParameter(iface, decl, md, name, transformName)
	if err != nil {
		return compiledRow{}, false, err
	}

	extra := -1
	if extraName != "" {
		vi, ok := ctx.valueIndex(extraName)
		if !ok {
			return compiledRow{}, false, errors.New(errors.PhaseCompile, errors.KindSchemaError).
				Device(guid).
				Sample(name).
				Document(md.InterfacePath).
				Detail("parameter %q does not name an already-compiled sample", extraName).
				Build()
		}
		extra = ctx.extraSlot(extraName, vi)
	}

	desc, _ := docquery.Attr(decl, "desc")

	return compiledRow{
		info: SampleDecodingInfo{
			Transform: resolved,
			Offset:    offset,
			Extra:     extra,
			Lsb:       lsb,
			Msb:       msb,
		},
		meta: SampleMetadata{
			Name:        name,
			Group:       groupName,
			Description: desc,
			Kind:        kind,
			Device:      md.Guid,
		},
	}, true, nil
}

// extraParameter validates a sample's parameter list and returns the name of
// its extra-parameter sample, or "" when it has none. Parameter 0 must name
// the sample itself, except for the two legacy transforms whose extra
// parameter is implicit and fixed.
func (c *Compiler) extraParameter(iface *docquery.Document, decl *docquery.Node,
	md DeviceMetadata, name, transformName string) (string, error) {

	params, err := iface.QueryFrom(decl, "param")
	if err != nil {
		return "", errors.New(errors.PhaseCompile, errors.KindSchemaError).
			Device(md.Guid.String()).
			Sample(name).
			Document(md.InterfacePath).
			Cause(err).
			Detail("query parameters").
			Build()
	}
	if len(params) > 2 {
		return "", errors.New(errors.PhaseCompile, errors.KindSchemaError).
			Device(md.Guid.String()).
			Sample(name).
			Document(md.InterfacePath).
			Detail("transform %q has %d parameters, at most 2 allowed", transformName, len(params)).
			Build()
	}

	if implicit, legacy := transform.ImplicitExtra(transformName); legacy {
		return implicit, nil
	}

	if len(params) == 0 || docquery.Text(params[0]) != name {
		return "", errors.New(errors.PhaseCompile, errors.KindSchemaError).
			Device(md.Guid.String()).
			Sample(name).
			Document(md.InterfacePath).
			Detail("parameter 0 must name the sample itself").
			Build()
	}
	if len(params) == 2 {
		return docquery.Text(params[1]), nil
	}
	return "", nil
}

// parseBitRange reads the inclusive [lsb, msb] attributes of a layout sample.
func parseBitRange(n *docquery.Node) (uint8, uint8, error) {
	lsbText, ok := docquery.Attr(n, "lsb")
	if !ok {
		return 0, 0, errors.New(errors.PhaseCompile, errors.KindSchemaError).
			Detail("missing lsb attribute").Build()
	}
	msbText, ok := docquery.Attr(n, "msb")
	if !ok {
		return 0, 0, errors.New(errors.PhaseCompile, errors.KindSchemaError).
			Detail("missing msb attribute").Build()
	}

	lsb, err := strconv.ParseUint(lsbText, 10, 8)
	if err != nil {
		return 0, 0, err
	}
	msb, err := strconv.ParseUint(msbText, 10, 8)
	if err != nil {
		return 0, 0, err
	}
	if msb > 63 || lsb > msb {
		return 0, 0, errors.New(errors.PhaseCompile, errors.KindSchemaError).
			Detail("bit range [%d, %d] out of order or beyond word", lsb, msb).Build()
	}
	return uint8(lsb), uint8(msb), nil
}

// sortGuids returns the guids of a located-device map in ascending order.
func sortGuids(located map[telemdec.Guid]DeviceMetadata) []telemdec.Guid {
	guids := make([]telemdec.Guid, 0, len(located))
	for g := range located {
		guids = append(guids, g)
	}
	sort.Slice(guids, func(i, j int) bool { return guids[i] < guids[j] })
	return guids
}
