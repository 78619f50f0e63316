package decl

import (
	"fmt"

	"github.com/wippyai/bitpack/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

type yamlFile struct {
	Records yaml.MapSlice `yaml:"records"`
}

// ParseYAML reads record declarations from YAML:
//
//	records:
//	  MyFlags:
//	    flag_0: bool
//	    flag_4: u3
//
// Record and field order follow the document. YAML carries no usable
// positions through yaml.MapSlice, so errors name the file only.
func ParseYAML(file string, data []byte) ([]*Record, error) {
	var doc yamlFile
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, errors.New(errors.PhaseParse, errors.KindInvalidData).
			At(errors.Pos{File: file}).
			Cause(err).
			Detail("decode YAML declarations").
			Build()
	}

	pos := errors.Pos{File: file}
	records := make([]*Record, 0, len(doc.Records))
	names := make(map[string]struct{}, len(doc.Records))
	for _, item := range doc.Records {
		name := fmt.Sprint(item.Key)
		fields, ok := item.Value.(yaml.MapSlice)
		if !ok {
			return nil, errors.ParseFailed(pos, "record %q: expected a mapping of field names to types", name)
		}
		if _, dup := names[name]; dup {
			return nil, errors.New(errors.PhaseDeclare, errors.KindDuplicateField).
				Record(name).
				At(pos).
				Detail("record %q declared more than once", name).
				Build()
		}
		names[name] = struct{}{}

		r := &Record{Name: name, Pos: pos}
		for _, f := range fields {
			fname := fmt.Sprint(f.Key)
			typ, ok := f.Value.(string)
			if !ok {
				return nil, errors.MalformedDeclaration(name, fname, pos, fmt.Sprint(f.Value))
			}
			t, ok := parseType(typ)
			if !ok {
				return nil, errors.MalformedDeclaration(name, fname, pos, typ)
			}
			r.Fields = append(r.Fields, Field{Name: fname, Type: t, Pos: pos})
		}
		if err := r.Validate(); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	Logger().Debug("parsed YAML declarations",
		zap.String("file", file),
		zap.Int("records", len(records)))
	return records, nil
}
