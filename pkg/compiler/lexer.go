package compiler

import (
	"fmt"
	"unicode"
)

// keywords maps source text to its keyword TokenType. The spelling "string"
// maps straight onto STRING_LITERAL, which doubles as the string type
// keyword, and "include" is reserved even outside a '#' directive.
var keywords = map[string]TokenType{
	"int":       INT,
	"float":     FLOAT,
	"char":      CHAR,
	"void":      VOID,
	"bool":      BOOL,
	"string":    STRING_LITERAL,
	"if":        IF,
	"else":      ELSE,
	"while":     WHILE,
	"for":       FOR,
	"return":    RETURN,
	"true":      TRUE,
	"false":     FALSE,
	"cout":      COUT,
	"cin":       CIN,
	"endl":      ENDL,
	"using":     USING,
	"namespace": NAMESPACE,
	"std":       STD,
	"include":   INCLUDE,
}

// Lexer holds all mutable state for a single scanning pass over src. Tokens
// are pulled one at a time with nextToken; once the input is exhausted every
// further call returns the EOF sentinel.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), pos: 0, line: 1}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peek2 returns the rune one position ahead of the current position.
func (l *Lexer) peek2() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// skipLineComment discards everything from the current position to end-of-line.
// The opening "//" must already have been consumed.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
}

// skipBlockComment discards everything up to and including the closing "*/".
// The opening "/*" must already have been consumed; a comment left open at
// end of input just swallows the rest of the source.
func (l *Lexer) skipBlockComment() {
	for l.pos < len(l.src) {
		if l.peek() == '*' && l.peek2() == '/' {
			l.advance() // *
			l.advance() // /
			return
		}
		l.advance()
	}
}

// scanIdent collects a full identifier or keyword token.
// The first character (letter or '_') must still be at l.peek().
func (l *Lexer) scanIdent() Token {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) {
		r := l.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	tt := IDENTIFIER
	if kw, ok := keywords[lexeme]; ok {
		tt = kw
	}
	return Token{Type: tt, Lexeme: lexeme, Line: line}
}

// scanNumber collects a numeric literal: decimal digits with at most one
// decimal point. A second '.' ends the literal, so "1.2.3" lexes as the
// float 1.2 followed by DOT and the integer 3.
// The first digit must still be at l.peek().
func (l *Lexer) scanNumber() Token {
	line := l.line
	start := l.pos
	isFloat := false
	for l.pos < len(l.src) {
		r := l.peek()
		if unicode.IsDigit(r) {
			l.advance()
			continue
		}
		if r == '.' && !isFloat {
			isFloat = true
			l.advance()
			continue
		}
		break
	}
	tt := INTEGER_LITERAL
	if isFloat {
		tt = FLOAT_LITERAL
	}
	return Token{Type: tt, Lexeme: string(l.src[start:l.pos]), Line: line}
}

// scanString collects a string literal "...". Escapes are decoded here, once:
// \n, \t, \r, \\ and \" produce their characters; any other escape keeps the
// escaped character as written. The lexeme is the decoded text without the
// surrounding quotes.
func (l *Lexer) scanString() (Token, error) {
	line := l.line
	l.advance() // consume opening "
	var val []rune
	for l.pos < len(l.src) && l.peek() != '"' {
		r := l.advance()
		if r != '\\' {
			val = append(val, r)
			continue
		}
		switch esc := l.advance(); esc {
		case 'n':
			val = append(val, '\n')
		case 't':
			val = append(val, '\t')
		case 'r':
			val = append(val, '\r')
		case '\\':
			val = append(val, '\\')
		case '"':
			val = append(val, '"')
		default:
			val = append(val, esc)
		}
	}
	if l.pos >= len(l.src) {
		return Token{}, fmt.Errorf("unterminated string literal on line %d", line)
	}
	l.advance() // consume closing "
	return Token{Type: STRING_LITERAL, Lexeme: string(val), Line: line}, nil
}

// scanChar collects a character literal 'c' with the same escape decoding as
// scanString. The lexeme is the single decoded character.
func (l *Lexer) scanChar() (Token, error) {
	line := l.line
	l.advance() // consume opening '
	var val rune
	if l.peek() == '\\' {
		l.advance()
		switch esc := l.advance(); esc {
		case 'n':
			val = '\n'
		case 't':
			val = '\t'
		case 'r':
			val = '\r'
		case '\\':
			val = '\\'
		case '\'':
			val = '\''
		default:
			val = esc
		}
	} else {
		val = l.advance()
	}
	if l.peek() != '\'' {
		return Token{}, fmt.Errorf("invalid character literal on line %d", line)
	}
	l.advance() // consume closing '
	return Token{Type: CHAR_LITERAL, Lexeme: string(val), Line: line}, nil
}

// scanDirective handles a '#' line. "#include <...>" and "#include \"...\""
// produce an INCLUDE token whose lexeme is the header text; any other
// directive produces a HASH token carrying the directive word.
func (l *Lexer) scanDirective() Token {
	line := l.line
	l.advance() // consume '#'
	l.skipWhitespace()
	start := l.pos
	for l.pos < len(l.src) && unicode.IsLetter(l.peek()) {
		l.advance()
	}
	word := string(l.src[start:l.pos])
	if word == "include" {
		l.skipWhitespace()
		if open := l.peek(); open == '<' || open == '"' {
			terminator := '>'
			if open == '"' {
				terminator = '"'
			}
			l.advance() // consume the opener
			hdrStart := l.pos
			for l.pos < len(l.src) && l.peek() != terminator {
				l.advance()
			}
			header := string(l.src[hdrStart:l.pos])
			if l.pos < len(l.src) {
				l.advance() // consume the terminator
			}
			return Token{Type: INCLUDE, Lexeme: header, Line: line}
		}
	}
	return Token{Type: HASH, Lexeme: word, Line: line}
}

// nextToken skips whitespace/comments and returns the next Token.
func (l *Lexer) nextToken() (Token, error) {
	// Skip whitespace and both comment styles in a loop so that
	// a comment followed immediately by more whitespace is handled.
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			return Token{Type: EOF, Lexeme: "", Line: l.line}, nil
		}
		if l.peek() == '/' && l.peek2() == '/' {
			l.advance()
			l.advance()
			l.skipLineComment()
			continue
		}
		if l.peek() == '/' && l.peek2() == '*' {
			l.advance()
			l.advance()
			l.skipBlockComment()
			continue
		}
		break
	}

	ch := l.peek()
	line := l.line

	if unicode.IsLetter(ch) || ch == '_' {
		return l.scanIdent(), nil
	}
	if unicode.IsDigit(ch) {
		return l.scanNumber(), nil
	}

	if ch == '"' {
		return l.scanString()
	}

	if ch == '\'' {
		return l.scanChar()
	}

	if ch == '#' {
		return l.scanDirective(), nil
	}

	l.advance() // consume the character before the switch
	switch ch {
	case '(':
		return Token{LPAREN, "(", line}, nil
	case ')':
		return Token{RPAREN, ")", line}, nil
	case '{':
		return Token{LBRACE, "{", line}, nil
	case '}':
		return Token{RBRACE, "}", line}, nil
	case '[':
		return Token{LBRACKET, "[", line}, nil
	case ']':
		return Token{RBRACKET, "]", line}, nil
	case ',':
		return Token{COMMA, ",", line}, nil
	case '.':
		return Token{DOT, ".", line}, nil
	case ';':
		return Token{SEMICOLON, ";", line}, nil

	case '+':
		if l.peek() == '+' {
			l.advance()
			return Token{INCREMENT, "++", line}, nil
		}
		if l.peek() == '=' {
			l.advance()
			return Token{PLUS_EQUAL, "+=", line}, nil
		}
		return Token{PLUS, "+", line}, nil
	case '-':
		if l.peek() == '-' {
			l.advance()
			return Token{DECREMENT, "--", line}, nil
		}
		if l.peek() == '=' {
			l.advance()
			return Token{MINUS_EQUAL, "-=", line}, nil
		}
		if l.peek() == '>' {
			l.advance()
			return Token{ARROW, "->", line}, nil
		}
		return Token{MINUS, "-", line}, nil
	case '*':
		if l.peek() == '=' {
			l.advance()
			return Token{MULTIPLY_EQUAL, "*=", line}, nil
		}
		return Token{MULTIPLY, "*", line}, nil
	case '/':
		if l.peek() == '=' {
			l.advance()
			return Token{DIVIDE_EQUAL, "/=", line}, nil
		}
		return Token{SLASH, "/", line}, nil
	case '&':
		if l.peek() == '&' {
			l.advance()
			return Token{AND, "&&", line}, nil
		}
		return Token{AMPERSAND, "&", line}, nil
	case '|':
		if l.peek() == '|' {
			l.advance()
			return Token{OR, "||", line}, nil
		}
		return Token{PIPE, "|", line}, nil
	case '!':
		if l.peek() == '=' {
			l.advance()
			return Token{NOT_EQUAL, "!=", line}, nil
		}
		return Token{NOT, "!", line}, nil
	case '=':
		if l.peek() == '=' { // lookahead: distinguish = vs ==
			l.advance()
			return Token{EQUAL_EQUAL, "==", line}, nil
		}
		return Token{EQUAL, "=", line}, nil
	case '<':
		if l.peek() == '=' {
			l.advance()
			return Token{LESS_EQUAL, "<=", line}, nil
		}
		if l.peek() == '<' {
			l.advance()
			return Token{LEFT_SHIFT, "<<", line}, nil
		}
		return Token{LESS, "<", line}, nil
	case '>':
		if l.peek() == '=' {
			l.advance()
			return Token{GREATER_EQUAL, ">=", line}, nil
		}
		if l.peek() == '>' {
			l.advance()
			return Token{RIGHT_SHIFT, ">>", line}, nil
		}
		return Token{GREATER, ">", line}, nil
	default:
		return Token{}, fmt.Errorf("unexpected character %q on line %d", ch, line)
	}
}

// Lex tokenises src and returns all tokens including the final EOF token.
// It returns a non-nil error on the first illegal character or malformed
// literal; lexing the same source twice yields identical streams.
func Lex(src string) ([]Token, error) {
	l := newLexer(src)
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}
