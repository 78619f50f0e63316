package decl

import (
	"github.com/wippyai/bitpack/decl/internal/token"
	"github.com/wippyai/bitpack/errors"
	"go.uber.org/zap"
)

type parser struct {
	file   string
	tokens []token.Token
	pos    int
}

// Parse reads .bits source text. file is used for error positions only.
//
//	struct MyFlags {
//	    flag_0: bool,
//	    flag_4: u3,
//	}
//
// A trailing comma after the last field and a semicolon after the closing
// brace are optional. Line (//) and block (/* */) comments are ignored.
// Every returned record has been validated.
func Parse(file, src string) ([]*Record, error) {
	p := &parser{file: file, tokens: token.Tokenize(src)}
	records, err := p.parseFile()
	if err != nil {
		return nil, err
	}
	Logger().Debug("parsed declarations",
		zap.String("file", file),
		zap.Int("records", len(records)))
	return records, nil
}

func (p *parser) peek() *token.Token {
	return &p.tokens[p.pos]
}

func (p *parser) next() *token.Token {
	t := &p.tokens[p.pos]
	if t.Type != token.EOF {
		p.pos++
	}
	return t
}

func (p *parser) at(t *token.Token) errors.Pos {
	return errors.Pos{File: p.file, Line: t.Line, Column: t.Column}
}

func (p *parser) expect(typ token.Type) (*token.Token, error) {
	t := p.next()
	if t.Type != typ {
		return nil, errors.ParseFailed(p.at(t), "expected %v, got %s", typ, describe(t))
	}
	return t, nil
}

func describe(t *token.Token) string {
	if t.Type == token.EOF {
		return t.Type.String()
	}
	return "\"" + t.Value + "\""
}

func (p *parser) parseFile() ([]*Record, error) {
	var records []*Record
	names := make(map[string]struct{})
	for p.peek().Type != token.EOF {
		r, err := p.parseStruct()
		if err != nil {
			return nil, err
		}
		if _, dup := names[r.Name]; dup {
			return nil, errors.New(errors.PhaseDeclare, errors.KindDuplicateField).
				Record(r.Name).
				At(r.Pos).
				Detail("record %q declared more than once", r.Name).
				Build()
		}
		names[r.Name] = struct{}{}
		records = append(records, r)
	}
	return records, nil
}

func (p *parser) parseStruct() (*Record, error) {
	kw := p.next()
	if kw.Type != token.Ident || kw.Value != "struct" {
		return nil, errors.ParseFailed(p.at(kw), "expected \"struct\", got %s", describe(kw))
	}
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}

	r := &Record{Name: name.Value, Pos: p.at(kw)}
	for p.peek().Type != token.RBrace {
		f, err := p.parseField(r.Name)
		if err != nil {
			return nil, err
		}
		r.Fields = append(r.Fields, f)

		if p.peek().Type == token.Comma {
			p.next()
			continue
		}
		if p.peek().Type != token.RBrace {
			t := p.peek()
			return nil, errors.ParseFailed(p.at(t), "expected ',' or '}' after field %q, got %s", f.Name, describe(t))
		}
	}
	p.next()
	if p.peek().Type == token.Semicolon {
		p.next()
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (p *parser) parseField(record string) (Field, error) {
	name, err := p.expect(token.Ident)
	if err != nil {
		return Field{}, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return Field{}, err
	}
	typ := p.next()
	if typ.Type != token.Ident && typ.Type != token.Number {
		return Field{}, errors.ParseFailed(p.at(typ), "expected field type, got %s", describe(typ))
	}
	t, ok := parseType(typ.Value)
	if !ok {
		return Field{}, errors.MalformedDeclaration(record, name.Value, p.at(typ), typ.Value)
	}
	return Field{Name: name.Value, Type: t, Pos: p.at(name)}, nil
}
