package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhaseCompile,
				Kind:     KindSchemaMismatch,
				Device:   "0x20",
				Sample:   "vcore_mv",
				Document: "soc0/interface.xml",
				Detail:   "documents disagree",
			},
			contains: []string{"[compile]", "schema_mismatch", "0x20", `"vcore_mv"`, "soc0/interface.xml", "documents disagree"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindMissingDeviceData,
			},
			contains: []string{"[decode]", "missing_device_data"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLocate,
				Kind:   KindSchemaError,
				Detail: "parse mapping document",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[locate]", "schema_error", "parse mapping document", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseCompile,
		Kind:  KindSchemaError,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:  PhaseCompile,
		Kind:   KindSchemaError,
		Sample: "vcore_mv",
	}

	if !err.Is(&Error{Phase: PhaseCompile, Kind: KindSchemaError}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseLocate, Kind: KindSchemaError}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseCompile, Kind: KindSchemaMismatch}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseCompile, Kind: KindSchemaError}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseCompile, KindSchemaError).
		Device("0x10").
		Sample("icore_ma").
		Document("soc0/layout.xml").
		Cause(cause).
		Detail("bad bit range [%d, %d]", 12, 4).
		Build()

	if err.Phase != PhaseCompile {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseCompile)
	}
	if err.Kind != KindSchemaError {
		t.Errorf("Kind = %v, want %v", err.Kind, KindSchemaError)
	}
	if err.Device != "0x10" {
		t.Errorf("Device = %v, want '0x10'", err.Device)
	}
	if err.Sample != "icore_ma" {
		t.Errorf("Sample = %v, want 'icore_ma'", err.Sample)
	}
	if err.Document != "soc0/layout.xml" {
		t.Errorf("Document = %v, want 'soc0/layout.xml'", err.Document)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "bad bit range [12, 4]" {
		t.Errorf("Detail = %v, want 'bad bit range [12, 4]'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("MissingMetadata", func(t *testing.T) {
		err := MissingMetadata("no mapping document")
		if err.Phase != PhaseLocate || err.Kind != KindMissingMetadata {
			t.Errorf("Phase=%v Kind=%v", err.Phase, err.Kind)
		}
	})

	t.Run("UnsupportedDevice", func(t *testing.T) {
		err := UnsupportedDevice("0x40")
		if err.Kind != KindUnsupportedDevice {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupportedDevice)
		}
		if err.Device != "0x40" {
			t.Errorf("Device = %v, want '0x40'", err.Device)
		}
	})

	t.Run("SchemaMismatch", func(t *testing.T) {
		err := SchemaMismatch("0x10", "vcore_mv", "soc0/interface.xml", "name disagreement")
		if err.Kind != KindSchemaMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindSchemaMismatch)
		}
		if err.Sample != "vcore_mv" {
			t.Errorf("Sample = %v, want 'vcore_mv'", err.Sample)
		}
	})

	t.Run("AlreadyCompiled", func(t *testing.T) {
		err := AlreadyCompiled()
		if err.Phase != PhaseCompile || err.Kind != KindAlreadyCompiled {
			t.Errorf("Phase=%v Kind=%v", err.Phase, err.Kind)
		}
	})

	t.Run("NotCompiled", func(t *testing.T) {
		err := NotCompiled(PhaseDecode)
		if err.Phase != PhaseDecode || err.Kind != KindNotCompiled {
			t.Errorf("Phase=%v Kind=%v", err.Phase, err.Kind)
		}
	})

	t.Run("MissingDeviceData", func(t *testing.T) {
		err := MissingDeviceData("0x10")
		if err.Kind != KindMissingDeviceData {
			t.Errorf("Kind = %v, want %v", err.Kind, KindMissingDeviceData)
		}
		if err.Device != "0x10" {
			t.Errorf("Device = %v, want '0x10'", err.Device)
		}
	})

	t.Run("InvalidInput", func(t *testing.T) {
		err := InvalidInput(PhaseCompile, "guid list not ascending")
		if err.Kind != KindInvalidInput {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidInput)
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("io failure")
		err := Wrap(PhaseLocate, KindSchemaError, cause, "read layout document")
		if !errors.Is(err, cause) {
			t.Error("wrapped error should match cause via errors.Is")
		}
	})
}
