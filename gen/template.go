package gen

const fileTemplate = `// Code generated by bitspec. DO NOT EDIT.
{{- if .Source}}
// Source: {{.Source}}
{{- end}}

package {{.Package}}

import (
	"fmt"

	"{{.Layout}}"
	"lukechampine.com/uint128"
)
{{range .Records}}
{{- if .Wide}}{{template "wide" .}}{{else}}{{template "native" .}}{{end}}
{{- template "descriptor" .}}
{{- template "string" .}}
{{- end}}
`

const descriptorTemplate = `
{{define "descriptor"}}
// {{.Type}}Layout describes the bit layout of {{.Type}}.
var {{.Type}}Layout = layout.Descriptor{
	Name:           {{printf "%q" .Name}},
	TotalWidth:     {{.Total}},
	ContainerWidth: {{.Bits}},
	AllOnes:        {{.AllOnesDesc}},
	Fields: []layout.FieldDescriptor{
{{- range .Fields}}
		{Name: {{printf "%q" .Name}}, Start: {{.Start}}, Size: {{.Size}}, Mask: {{.Desc}}},
{{- end}}
	},
}
{{end}}
`

const stringTemplate = `
{{define "string"}}
func (r {{.Type}}) String() string {
	return fmt.Sprintf("{{.Name}}{{"{"}}{{range $i, $f := .Fields}}{{if $i}}, {{end}}{{$f.Name}}: {{if $f.Flag}}%t{{else}}%v{{end}}{{end}}{{"}"}}"{{range .Fields}}, r.{{.Ident}}(){{end}})
}
{{end}}
`

const nativeTemplate = `
{{define "native"}}
{{- $t := .Type}}{{$c := .Container}}{{$bits := .Bits}}
// {{$t}} packs {{.Total}} bits of fields into a {{$c}}.
type {{$t}} {{$c}}

const (
	{{$t}}AllOnes {{$c}} = {{.AllOnes}}
{{- range .Fields}}

	{{$t}}{{.Ident}}Start = {{.Start}}
	{{$t}}{{.Ident}}Size = {{.Size}}
	{{$t}}{{.Ident}} {{$c}} = {{.Mask}}
{{- end}}
)

// New{{$t}} wraps a raw container value.
func New{{$t}}(v {{$c}}) {{$t}} {
	return {{$t}}(v)
}

// Value returns the raw container value.
func (r {{$t}}) Value() {{$c}} {
	return {{$c}}(r)
}
{{range .Fields}}{{if .Flag}}
// {{.Ident}} reports whether {{.Name}} is set.
func (r {{$t}}) {{.Ident}}() bool {
	return ({{$c}}(r)>>{{$t}}{{.Ident}}Start)&1 == 1
}

// Set{{.Ident}} sets {{.Name}}.
func (r *{{$t}}) Set{{.Ident}}() *{{$t}} {
	*r |= {{$t}}({{$t}}{{.Ident}})
	return r
}
{{if $.LegacyUnset}}
// Unset{{.Ident}} keeps the {{.Name}} bit and clears every other bit.
func (r *{{$t}}) Unset{{.Ident}}() *{{$t}} {
	*r &= {{$t}}({{$t}}{{.Ident}})
	return r
}
{{else}}
// Unset{{.Ident}} clears {{.Name}}.
func (r *{{$t}}) Unset{{.Ident}}() *{{$t}} {
	*r &^= {{$t}}({{$t}}{{.Ident}})
	return r
}
{{end}}
// Toggle{{.Ident}} flips {{.Name}}.
func (r *{{$t}}) Toggle{{.Ident}}() *{{$t}} {
	*r ^= {{$t}}({{$t}}{{.Ident}})
	return r
}
{{else}}
// {{.Ident}} returns {{.Name}}.
func (r {{$t}}) {{.Ident}}() {{$c}} {
	return ({{$c}}(r) >> {{$t}}{{.Ident}}Start) & ({{$t}}AllOnes >> ({{$bits}} - {{$t}}{{.Ident}}Size))
}

// Set{{.Ident}} stores value mod 2^{{.Size}} in {{.Name}}.
func (r *{{$t}}) Set{{.Ident}}(value {{$c}}) *{{$t}} {
	value &= {{$t}}AllOnes >> ({{$bits}} - {{$t}}{{.Ident}}Size)
	*r = {{$t}}(({{$c}}(*r) & ({{$t}}AllOnes ^ {{$t}}{{.Ident}})) | (value << {{$t}}{{.Ident}}Start))
	return r
}
{{end}}{{end}}
{{- end}}
`

const wideTemplate = `
{{define "wide"}}
{{- $t := .Type}}
// {{$t}} packs {{.Total}} bits of fields into a uint128.Uint128.
type {{$t}} uint128.Uint128

const (
{{- range $i, $f := .Fields}}
{{- if $i}}
{{end}}
	{{$t}}{{$f.Ident}}Start = {{$f.Start}}
	{{$t}}{{$f.Ident}}Size = {{$f.Size}}
{{- end}}
)

var (
	{{$t}}AllOnes = {{.AllOnes}}
{{- range .Fields}}
	{{$t}}{{.Ident}} = {{.Mask}}
{{- end}}
)

// New{{$t}} wraps a raw container value.
func New{{$t}}(v uint128.Uint128) {{$t}} {
	return {{$t}}(v)
}

// Value returns the raw container value.
func (r {{$t}}) Value() uint128.Uint128 {
	return uint128.Uint128(r)
}
{{range .Fields}}{{if .Flag}}
// {{.Ident}} reports whether {{.Name}} is set.
func (r {{$t}}) {{.Ident}}() bool {
	return uint128.Uint128(r).Rsh({{$t}}{{.Ident}}Start).And64(1).Equals64(1)
}

// Set{{.Ident}} sets {{.Name}}.
func (r *{{$t}}) Set{{.Ident}}() *{{$t}} {
	*r = {{$t}}(uint128.Uint128(*r).Or({{$t}}{{.Ident}}))
	return r
}
{{if $.LegacyUnset}}
// Unset{{.Ident}} keeps the {{.Name}} bit and clears every other bit.
func (r *{{$t}}) Unset{{.Ident}}() *{{$t}} {
	*r = {{$t}}(uint128.Uint128(*r).And({{$t}}{{.Ident}}))
	return r
}
{{else}}
// Unset{{.Ident}} clears {{.Name}}.
func (r *{{$t}}) Unset{{.Ident}}() *{{$t}} {
	*r = {{$t}}(uint128.Uint128(*r).And({{$t}}{{.Ident}}.Xor(uint128.Max)))
	return r
}
{{end}}
// Toggle{{.Ident}} flips {{.Name}}.
func (r *{{$t}}) Toggle{{.Ident}}() *{{$t}} {
	*r = {{$t}}(uint128.Uint128(*r).Xor({{$t}}{{.Ident}}))
	return r
}
{{else}}
// {{.Ident}} returns {{.Name}}.
func (r {{$t}}) {{.Ident}}() uint128.Uint128 {
	return uint128.Uint128(r).Rsh({{$t}}{{.Ident}}Start).And({{$t}}AllOnes.Rsh(128 - {{$t}}{{.Ident}}Size))
}

// Set{{.Ident}} stores value mod 2^{{.Size}} in {{.Name}}.
func (r *{{$t}}) Set{{.Ident}}(value uint128.Uint128) *{{$t}} {
	value = value.And({{$t}}AllOnes.Rsh(128 - {{$t}}{{.Ident}}Size))
	*r = {{$t}}(uint128.Uint128(*r).And({{$t}}AllOnes.Xor({{$t}}{{.Ident}})).Or(value.Lsh({{$t}}{{.Ident}}Start)))
	return r
}
{{end}}{{end}}
{{- end}}
`
