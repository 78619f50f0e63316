package decl

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/wippyai/bitpack/errors"
)

// Load reads declarations from path, choosing the format by extension:
// .bits, .yaml or .yml, and .json for WIT JSON.
func Load(path string) ([]*Record, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".bits", ".yaml", ".yml", ".json":
	default:
		return nil, errors.New(errors.PhaseLoad, errors.KindUnsupported).
			At(errors.Pos{File: path}).
			Value(ext).
			Detail("unknown declaration format %q, want .bits, .yaml, .yml or .json", ext).
			Build()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load(path, err)
	}

	switch ext {
	case ".bits":
		return Parse(path, string(data))
	case ".json":
		return DecodeWIT(path, bytes.NewReader(data))
	default:
		return ParseYAML(path, data)
	}
}

// LoadAll loads every path in order. Record names must be unique across
// all files.
func LoadAll(paths ...string) ([]*Record, error) {
	var all []*Record
	seen := make(map[string]errors.Pos)
	for _, path := range paths {
		records, err := Load(path)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			if prev, dup := seen[r.Name]; dup {
				return nil, errors.New(errors.PhaseDeclare, errors.KindDuplicateField).
					Record(r.Name).
					At(r.Pos).
					Detail("record %q already declared at %s", r.Name, prev).
					Build()
			}
			seen[r.Name] = r.Pos
		}
		all = append(all, records...)
	}
	return all, nil
}
