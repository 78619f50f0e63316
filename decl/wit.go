package decl

import (
	"io"
	"strings"

	"github.com/wippyai/bitpack/errors"
	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"
)

// FromWIT converts a named WIT flags or record type definition.
// A flags type yields one bool field per flag. Record fields must be
// bool, u8, u16, u32 or u64, directly or through a type alias.
func FromWIT(td *wit.TypeDef) (*Record, error) {
	if td == nil || td.Name == nil {
		return nil, errors.Unsupported(errors.PhaseDeclare, "anonymous WIT type")
	}
	name := witRecordName(*td.Name)

	r := &Record{Name: name}
	switch kind := td.Kind.(type) {
	case *wit.Flags:
		for _, f := range kind.Flags {
			r.Fields = append(r.Fields, Field{Name: witFieldName(f.Name), Type: Bool()})
		}
	case *wit.Record:
		for _, f := range kind.Fields {
			t, ok := witFieldType(f.Type)
			if !ok {
				return nil, errors.New(errors.PhaseDeclare, errors.KindUnsupported).
					Record(name).
					Field(witFieldName(f.Name)).
					Detail("WIT field type is not bool, u8, u16, u32 or u64").
					Build()
			}
			r.Fields = append(r.Fields, Field{Name: witFieldName(f.Name), Type: t})
		}
	default:
		return nil, errors.New(errors.PhaseDeclare, errors.KindUnsupported).
			Record(name).
			Detail("WIT type %q is not a flags or record type", *td.Name).
			Build()
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func witFieldType(t wit.Type) (Type, bool) {
	switch v := t.(type) {
	case wit.Bool:
		return Bool(), true
	case wit.U8:
		return Uint(8), true
	case wit.U16:
		return Uint(16), true
	case wit.U32:
		return Uint(32), true
	case wit.U64:
		return Uint(64), true
	case *wit.TypeDef:
		if inner, ok := v.Kind.(wit.Type); ok {
			return witFieldType(inner)
		}
	}
	return Type{}, false
}

// DecodeWIT reads a WIT resolve document in JSON form (as printed by
// "wasm-tools component wit --json") and converts every named flags type
// and every record whose fields are all supported. Other type definitions
// are skipped.
func DecodeWIT(file string, r io.Reader) ([]*Record, error) {
	res, err := wit.DecodeJSON(r)
	if err != nil {
		return nil, errors.New(errors.PhaseParse, errors.KindInvalidData).
			At(errors.Pos{File: file}).
			Cause(err).
			Detail("decode WIT JSON").
			Build()
	}

	var records []*Record
	names := make(map[string]struct{})
	for _, td := range res.TypeDefs {
		if td.Name == nil {
			continue
		}
		rec, err := FromWIT(td)
		if errors.IsKind(err, errors.KindUnsupported) {
			Logger().Debug("skipping WIT type",
				zap.String("type", *td.Name),
				zap.Error(err))
			continue
		}
		if err != nil {
			return nil, err
		}
		pos := errors.Pos{File: file}
		rec.Pos = pos
		for i := range rec.Fields {
			rec.Fields[i].Pos = pos
		}
		if _, dup := names[rec.Name]; dup {
			Logger().Debug("skipping duplicate WIT type",
				zap.String("type", *td.Name))
			continue
		}
		names[rec.Name] = struct{}{}
		records = append(records, rec)
	}

	Logger().Debug("decoded WIT declarations",
		zap.String("file", file),
		zap.Int("records", len(records)))
	return records, nil
}

// witFieldName maps a kebab-case WIT name to snake_case.
func witFieldName(name string) string {
	return strings.ReplaceAll(strings.TrimPrefix(name, "%"), "-", "_")
}

// witRecordName maps a kebab-case WIT name to CamelCase.
func witRecordName(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(strings.TrimPrefix(name, "%"), "-") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
