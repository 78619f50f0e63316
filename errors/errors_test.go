package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
				Phase:  PhaseDeclare,
				Kind:   KindMalformedDeclaration,
				Record: "MyFlags",
				Field:  "flag_4",
				Pos:    Pos{File: "flags.bits", Line: 3, Column: 13},
				Detail: "bad type",
			},
			contains: []string{"[declare]", "malformed_declaration", "MyFlags.flag_4", "flags.bits:3:13", "bad type"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseLayout,
				Kind:  KindLayoutTooLarge,
			},
			contains: []string{"[layout]", "layout_too_large"},
		},
		{
			name: "record only",
			err: &Error{
				Phase:  PhaseLayout,
				Kind:   KindLayoutTooLarge,
				Record: "Wide",
			},
			contains: []string{"at Wide"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInvalidData,
				Detail: "load declarations",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[load]", "invalid_data", "load declarations", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				assert.Contains(t, msg, s)
			}
		})
	}
}

func TestPos_String(t *testing.T) {
	tests := []struct {
		pos  Pos
		want string
	}{
		{Pos{}, ""},
		{Pos{File: "a.bits"}, "a.bits"},
		{Pos{Line: 4}, "4"},
		{Pos{Line: 4, Column: 2}, "4:2"},
		{Pos{File: "a.bits", Line: 4, Column: 2}, "a.bits:4:2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.pos.String())
	}
	assert.False(t, Pos{}.IsValid())
	assert.True(t, Pos{Line: 1}.IsValid())
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	assert.ErrorIs(t, err.Unwrap(), cause)
	assert.ErrorIs(t, errors.Unwrap(err), cause)
	assert.ErrorIs(t, err, cause)
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:  PhaseLayout,
		Kind:   KindLayoutTooLarge,
		Record: "foo",
	}

	assert.True(t, err.Is(&Error{Phase: PhaseLayout, Kind: KindLayoutTooLarge}))
	assert.False(t, err.Is(&Error{Phase: PhaseDeclare, Kind: KindLayoutTooLarge}))
	assert.False(t, err.Is(&Error{Phase: PhaseLayout, Kind: KindInvalidInput}))
	assert.False(t, err.Is(errors.New("plain")))

	var wrapped error = Wrap(PhaseGenerate, KindInvalidData, err, "generate")
	assert.ErrorIs(t, wrapped, &Error{Phase: PhaseLayout, Kind: KindLayoutTooLarge})

	var target *Error
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, PhaseGenerate, target.Phase)
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	pos := Pos{File: "x.bits", Line: 1, Column: 8}
	err := New(PhaseLayout, KindLayoutTooLarge).
		Record("Wide").
		Field("tail").
		At(pos).
		Value(130).
		Cause(cause).
		Detail("needs %d bits", 130).
		Build()

	assert.Equal(t, PhaseLayout, err.Phase)
	assert.Equal(t, KindLayoutTooLarge, err.Kind)
	assert.Equal(t, "Wide", err.Record)
	assert.Equal(t, "tail", err.Field)
	assert.Equal(t, pos, err.Pos)
	assert.Equal(t, 130, err.Value)
	assert.ErrorIs(t, err.Cause, cause)
	assert.Equal(t, "needs 130 bits", err.Detail)

	plain := New(PhaseParse, KindInvalidData).Detail("%d%% full", 100).Build()
	assert.Equal(t, "100% full", plain.Detail)

	literal := New(PhaseParse, KindInvalidData).Detail("no args").Build()
	assert.Equal(t, "no args", literal.Detail)
}

func TestConvenienceConstructors(t *testing.T) {
	pos := Pos{File: "f.bits", Line: 2, Column: 3}

	t.Run("LayoutTooLarge", func(t *testing.T) {
		err := LayoutTooLarge("Wide", pos, 129)
		assert.Equal(t, KindLayoutTooLarge, err.Kind)
		assert.Equal(t, PhaseLayout, err.Phase)
		assert.Equal(t, 129, err.Value)
		assert.Contains(t, err.Detail, "129")
	})

	t.Run("MalformedDeclaration", func(t *testing.T) {
		err := MalformedDeclaration("R", "f", pos, "u0")
		assert.Equal(t, KindMalformedDeclaration, err.Kind)
		assert.Equal(t, "u0", err.Value)
		assert.Contains(t, err.Error(), "R.f")
	})

	t.Run("DuplicateField", func(t *testing.T) {
		err := DuplicateField(PhaseDeclare, "R", "f", pos)
		assert.Equal(t, KindDuplicateField, err.Kind)
	})

	t.Run("InvalidName", func(t *testing.T) {
		err := InvalidName(PhaseDeclare, "R", "", pos, "9lives")
		assert.Equal(t, KindInvalidName, err.Kind)
		assert.Equal(t, "9lives", err.Value)
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseRuntime, "field", "missing")
		assert.Equal(t, KindNotFound, err.Kind)
		assert.Contains(t, err.Detail, `"missing"`)
	})

	t.Run("ParseFailed", func(t *testing.T) {
		err := ParseFailed(pos, "expected %s", "'{'")
		assert.Equal(t, PhaseParse, err.Phase)
		assert.Contains(t, err.Error(), "f.bits:2:3")
	})

	t.Run("Load", func(t *testing.T) {
		err := Load("missing.bits", errors.New("no such file"))
		assert.Equal(t, PhaseLoad, err.Phase)
		assert.Contains(t, err.Error(), "missing.bits")
	})
}

func TestIsKind(t *testing.T) {
	err := Unsupported(PhaseDeclare, "anonymous WIT type")
	assert.True(t, IsKind(err, KindUnsupported))
	assert.False(t, IsKind(err, KindNotFound))
	assert.True(t, IsKind(fmt.Errorf("wrapped: %w", err), KindUnsupported))
	assert.False(t, IsKind(nil, KindUnsupported))
	assert.False(t, IsKind(fmt.Errorf("plain"), KindUnsupported))
}
