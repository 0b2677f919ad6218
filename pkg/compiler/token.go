package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	// Paired delimiters
	LPAREN   TokenType = iota // (
	RPAREN                    // )
	LBRACE                    // {
	RBRACE                    // }
	LBRACKET                  // [
	RBRACKET                  // ]

	// Punctuation and single-character operators
	COMMA     // ,
	DOT       // .
	MINUS     // -
	PLUS      // +
	SEMICOLON // ;
	SLASH     // /
	MULTIPLY  // * (binary multiply, unary dereference, or pointer marker)
	AMPERSAND // & (unary address-of)
	PIPE      // |

	// One or two character operators
	NOT            // !
	NOT_EQUAL      // !=
	EQUAL          // =
	EQUAL_EQUAL    // ==
	LESS           // <
	LESS_EQUAL     // <=
	LEFT_SHIFT     // <<
	GREATER        // >
	GREATER_EQUAL  // >=
	RIGHT_SHIFT    // >>
	AND            // &&
	OR             // ||
	INCREMENT      // ++
	DECREMENT      // --
	ARROW          // ->
	PLUS_EQUAL     // +=
	MINUS_EQUAL    // -=
	MULTIPLY_EQUAL // *=
	DIVIDE_EQUAL   // /=

	// Literals. STRING_LITERAL doubles as the "string" type keyword: the
	// keyword table maps the spelling "string" onto this category.
	IDENTIFIER
	STRING_LITERAL
	CHAR_LITERAL
	INTEGER_LITERAL
	FLOAT_LITERAL
	BOOL_LITERAL

	// Keywords
	IF
	ELSE
	WHILE
	FOR
	RETURN
	INT
	FLOAT
	CHAR
	VOID
	BOOL
	USING
	NAMESPACE
	STD
	COUT
	CIN
	ENDL
	TRUE
	FALSE

	// Preprocessor. INCLUDE carries the captured header text as its lexeme;
	// HASH carries the directive word of any other directive.
	HASH
	INCLUDE

	// POINTER is never produced by the lexer; the parser and checker use it
	// as the type of pointer-marked declarations and address-of results.
	POINTER

	EOF // sentinel: end of input
)

// tokenNames is indexed by TokenType.
var tokenNames = [...]string{
	LPAREN:          "LPAREN",
	RPAREN:          "RPAREN",
	LBRACE:          "LBRACE",
	RBRACE:          "RBRACE",
	LBRACKET:        "LBRACKET",
	RBRACKET:        "RBRACKET",
	COMMA:           "COMMA",
	DOT:             "DOT",
	MINUS:           "MINUS",
	PLUS:            "PLUS",
	SEMICOLON:       "SEMICOLON",
	SLASH:           "SLASH",
	MULTIPLY:        "MULTIPLY",
	AMPERSAND:       "AMPERSAND",
	PIPE:            "PIPE",
	NOT:             "NOT",
	NOT_EQUAL:       "NOT_EQUAL",
	EQUAL:           "EQUAL",
	EQUAL_EQUAL:     "EQUAL_EQUAL",
	LESS:            "LESS",
	LESS_EQUAL:      "LESS_EQUAL",
	LEFT_SHIFT:      "LEFT_SHIFT",
	GREATER:         "GREATER",
	GREATER_EQUAL:   "GREATER_EQUAL",
	RIGHT_SHIFT:     "RIGHT_SHIFT",
	AND:             "AND",
	OR:              "OR",
	INCREMENT:       "INCREMENT",
	DECREMENT:       "DECREMENT",
	ARROW:           "ARROW",
	PLUS_EQUAL:      "PLUS_EQUAL",
	MINUS_EQUAL:     "MINUS_EQUAL",
	MULTIPLY_EQUAL:  "MULTIPLY_EQUAL",
	DIVIDE_EQUAL:    "DIVIDE_EQUAL",
	IDENTIFIER:      "IDENTIFIER",
	STRING_LITERAL:  "STRING_LITERAL",
	CHAR_LITERAL:    "CHAR_LITERAL",
	INTEGER_LITERAL: "INTEGER_LITERAL",
	FLOAT_LITERAL:   "FLOAT_LITERAL",
	BOOL_LITERAL:    "BOOL_LITERAL",
	IF:              "IF",
	ELSE:            "ELSE",
	WHILE:           "WHILE",
	FOR:             "FOR",
	RETURN:          "RETURN",
	INT:             "INT",
	FLOAT:           "FLOAT",
	CHAR:            "CHAR",
	VOID:            "VOID",
	BOOL:            "BOOL",
	USING:           "USING",
	NAMESPACE:       "NAMESPACE",
	STD:             "STD",
	COUT:            "COUT",
	CIN:             "CIN",
	ENDL:            "ENDL",
	TRUE:            "TRUE",
	FALSE:           "FALSE",
	HASH:            "HASH",
	INCLUDE:         "INCLUDE",
	POINTER:         "POINTER",
	EOF:             "EOF",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// typeName renders a token category the way diagnostics spell types: the
// declared keyword and its literal kind collapse onto one name.
func typeName(tt TokenType) string {
	switch tt {
	case INT, INTEGER_LITERAL:
		return "int"
	case FLOAT, FLOAT_LITERAL:
		return "float"
	case CHAR, CHAR_LITERAL:
		return "char"
	case VOID:
		return "void"
	case BOOL, BOOL_LITERAL:
		return "bool"
	case STRING_LITERAL:
		return "string"
	case POINTER:
		return "pointer"
	default:
		return "unknown"
	}
}

// opText renders an operator token category as its source spelling. Used by
// AST rendering and diagnostics; non-operator categories fall back to the
// category name.
func opText(tt TokenType) string {
	switch tt {
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case MULTIPLY:
		return "*"
	case SLASH:
		return "/"
	case AMPERSAND:
		return "&"
	case PIPE:
		return "|"
	case NOT:
		return "!"
	case NOT_EQUAL:
		return "!="
	case EQUAL:
		return "="
	case EQUAL_EQUAL:
		return "=="
	case LESS:
		return "<"
	case LESS_EQUAL:
		return "<="
	case LEFT_SHIFT:
		return "<<"
	case GREATER:
		return ">"
	case GREATER_EQUAL:
		return ">="
	case RIGHT_SHIFT:
		return ">>"
	case AND:
		return "&&"
	case OR:
		return "||"
	case INCREMENT:
		return "++"
	case DECREMENT:
		return "--"
	case ARROW:
		return "->"
	case PLUS_EQUAL:
		return "+="
	case MINUS_EQUAL:
		return "-="
	case MULTIPLY_EQUAL:
		return "*="
	case DIVIDE_EQUAL:
		return "/="
	default:
		return tt.String()
	}
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string // exact source text, or decoded text for literals/headers
	Line   int    // 1-based source line
}

func (t Token) String() string {
	return fmt.Sprintf("%-15s %-16q  line %d", t.Type, t.Lexeme, t.Line)
}
