package transit

import (
	"errors"
	"reflect"
	"testing"
)

type errSrc struct{}
type errDst struct{}

func TestPathError_Is(t *testing.T) {
	err := newPathError("dog{", nil, "unclosed '{'")

	if !errors.Is(err, ErrInvalidPath) {
		t.Error("PathError should unwrap to ErrInvalidPath")
	}

	if errors.Is(err, ErrNoMapper) {
		t.Error("PathError should not match ErrNoMapper")
	}
}

func TestPathError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "syntax",
			err:  newPathError("dog{", nil, "unclosed '{'"),
			want: `invalid path "dog{": unclosed '{'`,
		},
		{
			name: "resolution",
			err:  newPathError("size", reflect.TypeFor[errSrc](), "no field %q on %s", "size", "transit.errSrc"),
			want: `invalid path "size" on transit.errSrc: no field "size" on transit.errSrc`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMappingError_Is(t *testing.T) {
	err := newMappingError(ErrNullDestination, reflect.TypeFor[errSrc](), reflect.TypeFor[errDst](), "age", nil)

	if !errors.Is(err, ErrNullDestination) {
		t.Error("MappingError should unwrap to ErrNullDestination")
	}

	var me *MappingError
	if !errors.As(err, &me) {
		t.Fatal("errors.As should find *MappingError")
	}
	if me.Field != "age" {
		t.Errorf("Field = %q, want %q", me.Field, "age")
	}
}

func TestMappingError_Message(t *testing.T) {
	src, dst := reflect.TypeFor[errSrc](), reflect.TypeFor[errDst]()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "type level",
			err:  newMappingError(ErrNoMapper, src, dst, "", nil),
			want: "no mapper registered: transit.errSrc -> transit.errDst",
		},
		{
			name: "with field",
			err:  newMappingError(ErrNullDestination, src, dst, "age", nil),
			want: "null destination violation: transit.errSrc -> transit.errDst (field age)",
		},
		{
			name: "with cause",
			err:  newMappingError(ErrConvert, src, dst, "email", errors.New("boom")),
			want: "convert failed: transit.errSrc -> transit.errDst (field email): boom",
		},
		{
			name: "unknown source",
			err:  newMappingError(ErrNullDestination, nil, dst, "", nil),
			want: "null destination violation: <nil> -> transit.errDst",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDocumentError_Is(t *testing.T) {
	err := newDocumentError(ErrDecode, errors.New("invalid yaml"))

	if !errors.Is(err, ErrDecode) {
		t.Error("DocumentError should unwrap to ErrDecode")
	}

	if errors.Is(err, ErrEncode) {
		t.Error("DocumentError should not match ErrEncode")
	}
}

func TestDocumentError_Message(t *testing.T) {
	err := newDocumentError(ErrEncode, errors.New("unsupported type"))

	want := "encode failed: unsupported type"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	bare := &DocumentError{Err: ErrDecode}
	if got := bare.Error(); got != "decode failed" {
		t.Errorf("Error() = %q, want %q", got, "decode failed")
	}
}
