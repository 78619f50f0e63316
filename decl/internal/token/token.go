package token

import (
	"unicode"
)

type Type int

const (
	Illegal Type = iota
	Ident
	Number
	LBrace
	RBrace
	Colon
	Comma
	Semicolon
	EOF
)

func (t Type) String() string {
	switch t {
	case Ident:
		return "identifier"
	case Number:
		return "number"
	case LBrace:
		return "'{'"
	case RBrace:
		return "'}'"
	case Colon:
		return "':'"
	case Comma:
		return "','"
	case Semicolon:
		return "';'"
	case EOF:
		return "end of input"
	}
	return "illegal token"
}

type Token struct {
	Value  string
	Type   Type
	Line   int
	Column int
}

var punct = map[rune]Type{
	'{': LBrace,
	'}': RBrace,
	':': Colon,
	',': Comma,
	';': Semicolon,
}

// Tokenize splits declaration source into tokens. The result always ends
// with an EOF token. Line and column numbers are 1-based.
func Tokenize(input string) []Token {
	var tokens []Token
	line, col := 1, 1
	runes := []rune(input)

	advance := func(i int) {
		if runes[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if unicode.IsSpace(r) {
			advance(i)
			continue
		}

		// Line comment
		if r == '/' && i+1 < len(runes) && runes[i+1] == '/' {
			for i < len(runes) && runes[i] != '\n' {
				advance(i)
				i++
			}
			i--
			continue
		}

		// Block comment
		if r == '/' && i+1 < len(runes) && runes[i+1] == '*' {
			advance(i)
			advance(i + 1)
			i += 2
			for i < len(runes) && !(runes[i] == '*' && i+1 < len(runes) && runes[i+1] == '/') {
				advance(i)
				i++
			}
			if i < len(runes) {
				advance(i)
				advance(i + 1)
				i++
			}
			continue
		}

		if typ, ok := punct[r]; ok {
			tokens = append(tokens, Token{string(r), typ, line, col})
			advance(i)
			continue
		}

		if unicode.IsDigit(r) {
			start, startCol := i, col
			for i < len(runes) && (unicode.IsDigit(runes[i]) || unicode.IsLetter(runes[i]) || runes[i] == '_') {
				advance(i)
				i++
			}
			tokens = append(tokens, Token{string(runes[start:i]), Number, line, startCol})
			i--
			continue
		}

		if unicode.IsLetter(r) || r == '_' {
			start, startCol := i, col
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				advance(i)
				i++
			}
			tokens = append(tokens, Token{string(runes[start:i]), Ident, line, startCol})
			i--
			continue
		}

		tokens = append(tokens, Token{string(r), Illegal, line, col})
		advance(i)
	}

	tokens = append(tokens, Token{"", EOF, line, col})
	return tokens
}
