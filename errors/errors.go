package errors

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse    Phase = "parse"    // declaration source parsing
	PhaseDeclare  Phase = "declare"  // declaration validation and field tables
	PhaseLayout   Phase = "layout"   // container selection and masks
	PhaseGenerate Phase = "generate" // Go source emission
	PhaseEmit     Phase = "emit"     // WASM module emission
	PhaseLoad     Phase = "load"     // reading declaration files
	PhaseRuntime  Phase = "runtime"  // dynamic record access
)

// Kind categorizes the error
type Kind string

const (
	KindLayoutTooLarge       Kind = "layout_too_large"
	KindMalformedDeclaration Kind = "malformed_declaration"
	KindDuplicateField       Kind = "duplicate_field"
	KindInvalidName          Kind = "invalid_name"
	KindInvalidInput         Kind = "invalid_input"
	KindInvalidData          Kind = "invalid_data"
	KindUnsupported          Kind = "unsupported"
	KindNotFound             Kind = "not_found"
)

// Pos is a position in a declaration source.
type Pos struct {
	File   string
	Line   int
	Column int
}

// IsValid reports whether the position carries any location.
func (p Pos) IsValid() bool {
	return p.File != "" || p.Line > 0
}

func (p Pos) String() string {
	var b strings.Builder
	b.WriteString(p.File)
	if p.Line > 0 {
		if p.File != "" {
			b.WriteByte(':')
		}
		b.WriteString(strconv.Itoa(p.Line))
		if p.Column > 0 {
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(p.Column))
		}
	}
	return b.String()
}

// Error is the structured error type used throughout the generator
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Record string
	Field  string
	Detail string
	Pos    Pos
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Record != "" || e.Field != "" {
		b.WriteString(" at ")
		b.WriteString(e.Record)
		if e.Record != "" && e.Field != "" {
			b.WriteByte('.')
		}
		b.WriteString(e.Field)
	}

	if e.Pos.IsValid() {
		b.WriteString(" (")
		b.WriteString(e.Pos.String())
		b.WriteByte(')')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether err, or any error it wraps, is an *Error of the
// given kind regardless of phase.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Record sets the record (type) name
func (b *Builder) Record(name string) *Builder {
	b.err.Record = name
	return b
}

// Field sets the field name
func (b *Builder) Field(name string) *Builder {
	b.err.Field = name
	return b
}

// At sets the source position of the offending declaration
func (b *Builder) At(pos Pos) *Builder {
	b.err.Pos = pos
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// LayoutTooLarge reports a record whose fields do not fit the widest container.
func LayoutTooLarge(record string, pos Pos, totalBits int) *Error {
	return &Error{
		Phase:  PhaseLayout,
		Kind:   KindLayoutTooLarge,
		Record: record,
		Pos:    pos,
		Value:  totalBits,
		Detail: fmt.Sprintf("record needs %d bits, largest container is 128 bits", totalBits),
	}
}

// MalformedDeclaration reports a field type that is neither bool nor u{N}.
func MalformedDeclaration(record, field string, pos Pos, typ string) *Error {
	return &Error{
		Phase:  PhaseDeclare,
		Kind:   KindMalformedDeclaration,
		Record: record,
		Field:  field,
		Pos:    pos,
		Value:  typ,
		Detail: fmt.Sprintf("type %q is not bool or u{N} with 1 <= N <= 128", typ),
	}
}

// DuplicateField reports a field name declared twice in one record.
func DuplicateField(phase Phase, record, field string, pos Pos) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicateField,
		Record: record,
		Field:  field,
		Pos:    pos,
		Detail: fmt.Sprintf("field %q declared more than once", field),
	}
}

// InvalidName reports a record or field name that is not a valid identifier.
func InvalidName(phase Phase, record, field string, pos Pos, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidName,
		Record: record,
		Field:  field,
		Pos:    pos,
		Value:  name,
		Detail: fmt.Sprintf("%q is not a valid identifier", name),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error at a source position
func ParseFailed(pos Pos, format string, args ...any) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Pos:    pos,
		Detail: fmt.Sprintf(format, args...),
	}
}

// Load creates a declaration loading error
func Load(path string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Pos:    Pos{File: path},
		Detail: "load declarations",
		Cause:  cause,
	}
}
