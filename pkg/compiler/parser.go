package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// SyntaxError is one recoverable grammar violation. Msg is the bare
// diagnostic; rendering appends the offending source line when available.
type SyntaxError struct {
	Line    int
	Msg     string
	Snippet string
}

func (e *SyntaxError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("line %d: %s\n  |> %s", e.Line, e.Msg, e.Snippet)
}

// Parser builds the AST by pulling tokens one at a time from its Lexer.
//
// Grammar:
//
//	program        = statement* EOF
//	statement      = include | using | returnStmt | ifStmt | whileStmt
//	               | forStmt | declaration | exprStmt
//	declaration    = type ("*")? IDENTIFIER ( funcRest | declarators ";" )
//	funcRest       = "(" params? ")" "{" block "}"
//	params         = type ("*")? IDENTIFIER ("," type ("*")? IDENTIFIER)*
//	declarators    = ("=" expression)? ("," IDENTIFIER ("=" expression)?)*
//	ifStmt         = "if" "(" expression ")" "{" block "}" ("else" "{" block "}")?
//	whileStmt      = "while" "(" expression ")" "{" block "}"
//	forStmt        = "for" "(" init? ";" expression? ";" expression? ")" "{" block "}"
//	returnStmt     = "return" expression? ";"
//	expression     = assignment
//	assignment     = logicalOr (("=" | "+=" | "-=" | "*=" | "/=") assignment
//	               | ("++" | "--"))?
//	logicalOr      = logicalAnd ("||" logicalAnd)*
//	logicalAnd     = equality ("&&" equality)*
//	equality       = comparison (("==" | "!=") comparison)*
//	comparison     = additive (("<" | "<=" | ">" | ">=") additive)*
//	additive       = multiplicative (("+" | "-") multiplicative)*
//	multiplicative = primary (("*" | "/") primary)*
//	primary        = prefixOp primary | literal | "(" expression ")"
//	               | IDENTIFIER (call | streamChain | "++" | "--")?
//
// Syntax errors do not abort the parse: the statement loop records them and
// resynchronizes at the next statement boundary, so Parse always returns
// whatever statements could be recognized. Only a lexical error is fatal.
type Parser struct {
	lex         *Lexer
	cur         Token
	fatal       error // first lexical error; EOF substitutes so productions unwind
	errs        []*SyntaxError
	log         zerolog.Logger
	sourceLines []string
}

// NewParser builds a parser that lexes src on demand. Recovered syntax
// errors are logged through logger at warn level.
func NewParser(src string, logger zerolog.Logger) *Parser {
	p := &Parser{
		lex:         newLexer(src),
		log:         logger.With().Str("component", "parser").Logger(),
		sourceLines: strings.Split(src, "\n"),
	}
	p.cur = p.next()
	return p
}

// next pulls one token from the lexer. A lexical error is remembered and EOF
// returned in its place so that every production unwinds cleanly.
func (p *Parser) next() Token {
	if p.fatal != nil {
		return Token{Type: EOF, Line: p.cur.Line}
	}
	tok, err := p.lex.nextToken()
	if err != nil {
		p.fatal = err
		return Token{Type: EOF, Line: p.cur.Line}
	}
	return tok
}

// fmtError builds a SyntaxError carrying the source line where the token
// appears.
func (p *Parser) fmtError(tok Token, format string, args ...any) error {
	e := &SyntaxError{Line: tok.Line, Msg: fmt.Sprintf(format, args...)}
	if lineIdx := tok.Line - 1; lineIdx >= 0 && lineIdx < len(p.sourceLines) {
		e.Snippet = strings.TrimSpace(p.sourceLines[lineIdx])
	}
	return e
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	return p.cur
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.cur
	p.cur = p.next()
	return tok
}

// match consumes the current token only if it has the given type.
func (p *Parser) match(tt TokenType) bool {
	if p.cur.Type != tt {
		return false
	}
	p.advance()
	return true
}

// expect consumes the current token if it matches tt, otherwise returns an error.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.advance()
	if tok.Type != tt {
		return tok, p.fmtError(tok, "expected %s, got %s (%q)", tt, tok.Type, tok.Lexeme)
	}
	return tok, nil
}

// report records a recovered syntax error and logs it.
func (p *Parser) report(err error) {
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		serr = &SyntaxError{Line: p.cur.Line, Msg: err.Error()}
	}
	p.errs = append(p.errs, serr)
	p.log.Warn().Int("line", serr.Line).Msg(serr.Msg)
}

// synchronize discards tokens after a syntax error until a likely statement
// boundary: just past a ';' or '}', or just before a keyword that can start
// a statement.
func (p *Parser) synchronize() {
	p.advance()
	for p.peek().Type != EOF {
		if p.peek().Type == SEMICOLON || p.peek().Type == RBRACE {
			p.advance()
			return
		}
		switch p.peek().Type {
		case INT, FLOAT, CHAR, VOID, IF, WHILE, FOR, RETURN:
			return
		}
		p.advance()
	}
}

// SyntaxErrors returns the recoverable errors collected so far, in source
// order.
func (p *Parser) SyntaxErrors() []*SyntaxError {
	return p.errs
}

// Parse consumes the whole token stream and returns the top-level statement
// list, skipping stray semicolons between statements. The returned error is
// non-nil only for a fatal lexical error; syntax errors are recorded and
// parsing continues after resynchronization.
func (p *Parser) Parse() ([]Stmt, error) {
	var stmts []Stmt
	for p.peek().Type != EOF {
		if p.match(SEMICOLON) {
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			p.report(err)
			p.synchronize()
			continue
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, p.fatal
}

//  Statements

// isTypeKeyword reports whether tt is a declarable type keyword. The
// STRING_LITERAL category covers the "string" spelling.
func isTypeKeyword(tt TokenType) bool {
	switch tt {
	case INT, FLOAT, CHAR, VOID, BOOL, STRING_LITERAL:
		return true
	}
	return false
}

// isForInitType reports whether tt can begin a declaration in a for loop
// initializer. void is deliberately absent.
func isForInitType(tt TokenType) bool {
	switch tt {
	case INT, FLOAT, CHAR, BOOL, STRING_LITERAL:
		return true
	}
	return false
}

func (p *Parser) parseStatement() (Stmt, error) {
	switch p.peek().Type {
	case INCLUDE:
		// Includes carry no semantics; keep the header text as an inert literal.
		tok := p.advance()
		return &ExprStmt{Expr: &Literal{Value: tok.Lexeme, Kind: STRING_LITERAL}}, nil
	case HASH:
		tok := p.advance()
		return nil, p.fmtError(tok, "unsupported preprocessor directive '#%s'", tok.Lexeme)
	case USING:
		return p.parseUsingDirective()
	case RETURN:
		return p.parseReturn()
	case IF:
		p.advance()
		return p.parseIf()
	case WHILE:
		p.advance()
		return p.parseWhile()
	case FOR:
		p.advance()
		return p.parseFor()
	case INT, FLOAT, CHAR, VOID, BOOL, STRING_LITERAL:
		return p.parseDeclaration()
	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(SEMICOLON); err != nil {
			return nil, err
		}
		return &ExprStmt{Expr: expr}, nil
	}
}

// parseUsingDirective parses exactly  using namespace std;  and lowers it to
// an inert statement. Anything else after 'using' is a syntax error.
func (p *Parser) parseUsingDirective() (Stmt, error) {
	p.advance() // consume using
	if _, err := p.expect(NAMESPACE); err != nil {
		return nil, err
	}
	if _, err := p.expect(STD); err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: &Literal{Value: "std", Kind: STRING_LITERAL}}, nil
}

// parseReturn parses return [expr] ;
func (p *Parser) parseReturn() (Stmt, error) {
	p.advance() // consume return
	if p.match(SEMICOLON) {
		return &ReturnStmt{}, nil
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &ReturnStmt{Expr: expr}, nil
}

// parseIf parses if ( cond ) { body } [ else { elseBody } ]
// The leading IF token has already been consumed by parseStatement. Both
// branches require braces; there is no unbraced or else-if form.
func (p *Parser) parseIf() (Stmt, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elseBody Stmt
	if p.match(ELSE) {
		if _, err := p.expect(LBRACE); err != nil {
			return nil, err
		}
		elseBody, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &IfStmt{Condition: cond, Body: body, ElseBody: elseBody}, nil
}

// parseWhile parses while ( cond ) { body }
// The leading WHILE token has already been consumed by parseStatement.
func (p *Parser) parseWhile() (Stmt, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Condition: cond, Body: body}, nil
}

// parseFor parses for ( init? ; cond? ; post? ) { body }
// The leading FOR token has already been consumed by parseStatement. The
// initializer may be a declaration (which consumes its own ';') or an
// expression; the post clause is a bare expression.
func (p *Parser) parseFor() (Stmt, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}

	var init Stmt
	switch {
	case p.match(SEMICOLON):
		// no initializer
	case isForInitType(p.peek().Type):
		var err error
		init, err = p.parseDeclaration()
		if err != nil {
			return nil, err
		}
	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(SEMICOLON); err != nil {
			return nil, err
		}
		init = &ExprStmt{Expr: expr}
	}

	var cond Expr
	if p.peek().Type != SEMICOLON {
		var err error
		cond, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}

	var post Expr
	if p.peek().Type != RPAREN {
		var err error
		post, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}

	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ForStmt{Init: init, Cond: cond, Post: post, Body: body}, nil
}

// parseBlock parses { stmt1; stmt2; ... }
// The leading LBRACE token has already been consumed; stray semicolons
// between statements are skipped. Errors propagate to the statement loop,
// which owns resynchronization.
func (p *Parser) parseBlock() (Stmt, error) {
	var stmts []Stmt
	for p.peek().Type != RBRACE && p.peek().Type != EOF {
		if p.match(SEMICOLON) {
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}
	return &BlockStmt{Stmts: stmts}, nil
}

// parseDeclaration parses either a function definition or a variable
// declaration group, both of which start  type [*] name.
func (p *Parser) parseDeclaration() (Stmt, error) {
	typeTok := p.advance()
	isPointer := p.match(MULTIPLY)
	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}

	if p.peek().Type == LPAREN {
		return p.parseFunctionRest(typeTok.Type, nameTok.Lexeme)
	}
	return p.parseDeclaratorGroup(typeTok.Type, isPointer, nameTok.Lexeme)
}

// parseFunctionRest parses (params) { body } after the function name. A '*'
// between the return type and the name has no effect on the declared return
// type; a '*' after a parameter type replaces that parameter's type with
// POINTER.
func (p *Parser) parseFunctionRest(returnType TokenType, name string) (Stmt, error) {
	p.advance() // consume (
	var params []Param
	if p.peek().Type != RPAREN {
		for {
			paramTok := p.advance()
			if !isTypeKeyword(paramTok.Type) {
				return nil, p.fmtError(paramTok, "expected parameter type, got %s (%q)", paramTok.Type, paramTok.Lexeme)
			}
			paramType := paramTok.Type
			if p.match(MULTIPLY) {
				paramType = POINTER
			}
			pname, err := p.expect(IDENTIFIER)
			if err != nil {
				return nil, err
			}
			params = append(params, Param{Name: pname.Lexeme, Type: paramType})
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &FunctionDecl{Name: name, ReturnType: returnType, Params: params, Body: body}, nil
}

// parseDeclaratorGroup parses the declarators after  type [*] name, all
// sharing the leading type and pointer marker:  int a = 1, b, c = 3;
// A single declarator stays a bare VariableDecl; a comma group is wrapped in
// a BlockStmt in source order.
func (p *Parser) parseDeclaratorGroup(declType TokenType, isPointer bool, firstName string) (Stmt, error) {
	var decls []Stmt
	name := firstName
	for {
		var init Expr
		if p.match(EQUAL) {
			var err error
			init, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
		}
		decls = append(decls, &VariableDecl{Type: declType, IsPointer: isPointer, Name: name, Init: init})
		if !p.match(COMMA) {
			break
		}
		nameTok, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		name = nameTok.Lexeme
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	if len(decls) == 1 {
		return decls[0], nil
	}
	return &BlockStmt{Stmts: decls}, nil
}

//  Expressions

// parseExpression is the entry point for expression parsing.
func (p *Parser) parseExpression() (Expr, error) {
	return p.parseAssignment()
}

// parseAssignment handles name = value, the compound forms which desugar to
// name = name <op> value, and postfix ++/-- applied to an already-parsed
// identifier. Assignment is right-associative.
func (p *Parser) parseAssignment() (Expr, error) {
	expr, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}

	switch p.peek().Type {
	case EQUAL, PLUS_EQUAL, MINUS_EQUAL, MULTIPLY_EQUAL, DIVIDE_EQUAL:
		opTok := p.advance()
		target, ok := expr.(*VarRef)
		if !ok {
			return nil, p.fmtError(opTok, "invalid assignment target")
		}
		value, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		if opTok.Type == EQUAL {
			return &AssignExpr{Name: target.Name, Value: value}, nil
		}
		return &AssignExpr{
			Name: target.Name,
			Value: &BinaryExpr{
				Op:    compoundBaseOp(opTok.Type),
				Left:  &VarRef{Name: target.Name},
				Right: value,
			},
		}, nil
	case INCREMENT, DECREMENT:
		opTok := p.advance()
		target, ok := expr.(*VarRef)
		if !ok {
			return nil, p.fmtError(opTok, "invalid increment/decrement target")
		}
		return &UnaryExpr{Op: opTok.Type, Operand: &VarRef{Name: target.Name}}, nil
	}

	return expr, nil
}

// compoundBaseOp maps a compound assignment operator to the binary operator
// it expands to.
func compoundBaseOp(tt TokenType) TokenType {
	switch tt {
	case PLUS_EQUAL:
		return PLUS
	case MINUS_EQUAL:
		return MINUS
	case MULTIPLY_EQUAL:
		return MULTIPLY
	default:
		return SLASH
	}
}

// parseLogicalOr handles ||
func (p *Parser) parseLogicalOr() (Expr, error) {
	expr, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == OR {
		op := p.advance().Type
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		expr = &LogicalExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

// parseLogicalAnd handles &&
func (p *Parser) parseLogicalAnd() (Expr, error) {
	expr, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == AND {
		op := p.advance().Type
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		expr = &LogicalExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

// parseEquality handles == and !=
func (p *Parser) parseEquality() (Expr, error) {
	expr, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == EQUAL_EQUAL || p.peek().Type == NOT_EQUAL {
		op := p.advance().Type
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

// parseComparison handles <, <=, > and >=
func (p *Parser) parseComparison() (Expr, error) {
	expr, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == LESS || p.peek().Type == LESS_EQUAL ||
		p.peek().Type == GREATER || p.peek().Type == GREATER_EQUAL {
		op := p.advance().Type
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

// parseAdditive handles + and -
func (p *Parser) parseAdditive() (Expr, error) {
	expr, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == PLUS || p.peek().Type == MINUS {
		op := p.advance().Type
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

// parseMultiplicative handles * and /
func (p *Parser) parseMultiplicative() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == MULTIPLY || p.peek().Type == SLASH {
		op := p.advance().Type
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

// parsePrimary handles literals, identifiers and everything an identifier
// can start (calls, stream chains, postfix ++/--), parenthesized
// expressions, and the prefix operators, which bind straight to the next
// primary rather than owning a precedence level.
func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case NOT, MULTIPLY, AMPERSAND, INCREMENT, DECREMENT, PLUS, MINUS:
		op := p.advance().Type
		operand, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op, Operand: operand}, nil

	case TRUE, FALSE:
		lit := p.advance()
		return &Literal{Value: lit.Lexeme, Kind: BOOL_LITERAL}, nil

	case INTEGER_LITERAL, FLOAT_LITERAL, CHAR_LITERAL, STRING_LITERAL:
		lit := p.advance()
		return &Literal{Value: lit.Lexeme, Kind: lit.Type}, nil

	case IDENTIFIER:
		name := p.advance().Lexeme
		if p.peek().Type == INCREMENT || p.peek().Type == DECREMENT {
			op := p.advance().Type
			return &UnaryExpr{Op: op, Operand: &VarRef{Name: name}}, nil
		}
		if p.peek().Type == LPAREN {
			return p.parseCallArgs(name)
		}
		if p.peek().Type == LEFT_SHIFT || p.peek().Type == RIGHT_SHIFT {
			return p.parseStreamChain(&VarRef{Name: name})
		}
		return &VarRef{Name: name}, nil

	case LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return expr, nil

	default:
		return nil, p.fmtError(tok, "expected expression, got %s (%q)", tok.Type, tok.Lexeme)
	}
}

// parseCallArgs parses name(arg, arg, ...) with per-argument recovery: a bad
// argument is reported, tokens are discarded to the next comma or closing
// parenthesis, and the remaining arguments still parse.
func (p *Parser) parseCallArgs(name string) (Expr, error) {
	p.advance() // consume (
	var args []Expr
	if p.peek().Type != RPAREN {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				p.report(err)
				for p.peek().Type != COMMA && p.peek().Type != RPAREN && p.peek().Type != EOF {
					p.advance()
				}
			} else {
				args = append(args, arg)
			}
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return &FunctionCall{Name: name, Args: args}, nil
}

// parseStreamChain parses a << or >> chain following an identifier, e.g.
// out << "x = " << x << endl. A bare endl keyword folds in as a special
// identifier operand; any other operand restarts full expression parsing, so
// the rest of the chain nests into the right-hand side.
func (p *Parser) parseStreamChain(left Expr) (Expr, error) {
	for p.peek().Type == LEFT_SHIFT || p.peek().Type == RIGHT_SHIFT {
		op := p.advance().Type
		if p.match(ENDL) {
			left = &BinaryExpr{Op: op, Left: left, Right: &VarRef{Name: "endl"}}
			continue
		}
		right, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}
