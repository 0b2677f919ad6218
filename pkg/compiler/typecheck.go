package compiler

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// TypeError reports a semantic rule violation in the checked program. One
// Check call can surface many of them, folded into a single aggregate error.
type TypeError struct {
	Msg string
}

func (e *TypeError) Error() string { return e.Msg }

func typeErrorf(format string, args ...any) *TypeError {
	return &TypeError{Msg: fmt.Sprintf(format, args...)}
}

// InternalError marks a checker invariant that broke (an AST shape the
// parser should never produce, a pre-registered function missing from the
// table). It is a defect signal, not a user diagnostic.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string { return "internal error: " + e.Msg }

// semanticErrorFormat renders the aggregate the driver prints when a program
// has semantic errors: a count line followed by one bullet per error.
func semanticErrorFormat(errs []error) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d semantic errors:", len(errs))
	for _, err := range errs {
		sb.WriteString("\n- ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// TypeChecker walks a parsed program and verifies every semantic rule:
// names resolve, operators see the operand types they require, assignments
// and calls match their declared targets, and returns agree with the
// enclosing function's signature. It owns the SymbolTable for one program.
type TypeChecker struct {
	symbols *SymbolTable

	currentFunction   string
	currentReturnType TokenType
	inFunctionBody    bool
}

func NewTypeChecker() *TypeChecker {
	return &TypeChecker{symbols: NewSymbolTable()}
}

// Check runs two passes over the top-level statements. The first registers
// every function signature in the global scope, so bodies may call functions
// declared later in the file. The second checks each statement, collecting
// every error rather than stopping at the first. A non-nil result carries
// all of them in one aggregate message.
func (c *TypeChecker) Check(stmts []Stmt) error {
	agg := &multierror.Error{ErrorFormat: semanticErrorFormat}

	for _, stmt := range stmts {
		fn, ok := stmt.(*FunctionDecl)
		if !ok {
			continue
		}
		sym := Symbol{
			Name:       fn.Name,
			Type:       fn.ReturnType,
			Kind:       FunctionKind,
			ReturnType: fn.ReturnType,
			Params:     fn.Params,
		}
		if !c.symbols.Define(sym) {
			agg = multierror.Append(agg, typeErrorf("function '%s' already defined", fn.Name))
		}
	}

	for _, stmt := range stmts {
		if err := c.checkStatement(stmt); err != nil {
			agg = multierror.Append(agg, err)
		}
	}

	return agg.ErrorOrNil()
}

func (c *TypeChecker) checkStatement(stmt Stmt) error {
	switch s := stmt.(type) {
	case *ExprStmt:
		_, err := c.checkExpression(s.Expr)
		return err
	case *BlockStmt:
		return c.checkBlock(s)
	case *VariableDecl:
		return c.checkVariableDecl(s)
	case *FunctionDecl:
		return c.checkFunctionDecl(s)
	case *IfStmt:
		return c.checkIf(s)
	case *WhileStmt:
		return c.checkWhile(s)
	case *ForStmt:
		return c.checkFor(s)
	case *ReturnStmt:
		return c.checkReturn(s)
	default:
		return &InternalError{Msg: fmt.Sprintf("unknown statement type %T", stmt)}
	}
}

// checkExpression returns the static type of an expression. On error the
// returned type is meaningless.
func (c *TypeChecker) checkExpression(expr Expr) (TokenType, error) {
	switch e := expr.(type) {
	case *Literal:
		return e.Kind, nil
	case *VarRef:
		return c.checkVarRef(e)
	case *UnaryExpr:
		return c.checkUnary(e)
	case *BinaryExpr:
		return c.checkBinary(e)
	case *LogicalExpr:
		return c.checkLogical(e)
	case *AssignExpr:
		return c.checkAssign(e)
	case *FunctionCall:
		return c.checkCall(e)
	default:
		return 0, &InternalError{Msg: fmt.Sprintf("unknown expression type %T", expr)}
	}
}

func (c *TypeChecker) checkVarRef(expr *VarRef) (TokenType, error) {
	sym, ok := c.symbols.Resolve(expr.Name)
	if !ok {
		return 0, typeErrorf("undefined variable '%s'", expr.Name)
	}
	if sym.Kind == FunctionKind {
		return 0, typeErrorf("'%s' is a function and cannot be used as a variable", expr.Name)
	}
	if sym.IsPointer {
		return POINTER, nil
	}
	return sym.Type, nil
}

func (c *TypeChecker) checkUnary(expr *UnaryExpr) (TokenType, error) {
	operandType, err := c.checkExpression(expr.Operand)
	if err != nil {
		return 0, err
	}

	switch expr.Op {
	case MINUS, PLUS:
		if !isNumericType(operandType) {
			return 0, typeErrorf("unary '+' and '-' operators require numeric operands")
		}
		return operandType, nil

	case NOT:
		return BOOL, nil

	case INCREMENT, DECREMENT:
		if !isNumericType(operandType) {
			return 0, typeErrorf("increment and decrement operators require numeric operands")
		}
		return operandType, nil

	case MULTIPLY:
		// Dereference. No pointee type is tracked, so the result is
		// always int.
		if operandType != POINTER {
			return 0, typeErrorf("cannot dereference non-pointer type")
		}
		return INT, nil

	case AMPERSAND:
		return POINTER, nil
	}

	return 0, &InternalError{Msg: fmt.Sprintf("unsupported unary operator %s", expr.Op)}
}

func (c *TypeChecker) checkBinary(expr *BinaryExpr) (TokenType, error) {
	leftType, err := c.checkExpression(expr.Left)
	if err != nil {
		return 0, err
	}
	rightType, err := c.checkExpression(expr.Right)
	if err != nil {
		return 0, err
	}

	// Stream inserts and extracts type-check as the stream itself, so
	// chains like cout << x << endl fold left to right.
	if expr.Op == LEFT_SHIFT || expr.Op == RIGHT_SHIFT {
		return leftType, nil
	}

	switch expr.Op {
	case PLUS, MINUS, MULTIPLY, SLASH:
		if expr.Op == PLUS && (leftType == STRING_LITERAL || rightType == STRING_LITERAL) {
			return STRING_LITERAL, nil
		}
		if expr.Op == PLUS || expr.Op == MINUS {
			if leftType == POINTER && isNumericType(rightType) {
				return POINTER, nil
			}
			if rightType == POINTER && expr.Op == PLUS && isNumericType(leftType) {
				return POINTER, nil
			}
		}
		if !isNumericType(leftType) || !isNumericType(rightType) {
			return 0, typeErrorf("binary operator '%s' requires numeric operands, got %s and %s",
				opText(expr.Op), typeName(leftType), typeName(rightType))
		}
		if leftType == FLOAT_LITERAL || rightType == FLOAT_LITERAL {
			return FLOAT_LITERAL, nil
		}
		return INTEGER_LITERAL, nil

	case EQUAL_EQUAL, NOT_EQUAL, LESS, LESS_EQUAL, GREATER, GREATER_EQUAL:
		if !isCompatibleType(leftType, rightType) {
			return 0, typeErrorf("cannot compare incompatible types: %s and %s",
				typeName(leftType), typeName(rightType))
		}
		return BOOL, nil
	}

	return 0, &InternalError{Msg: fmt.Sprintf("unsupported binary operator %s", expr.Op)}
}

func (c *TypeChecker) checkLogical(expr *LogicalExpr) (TokenType, error) {
	leftType, err := c.checkExpression(expr.Left)
	if err != nil {
		return 0, err
	}
	rightType, err := c.checkExpression(expr.Right)
	if err != nil {
		return 0, err
	}

	if !isBooleanType(leftType) {
		return 0, typeErrorf("left operand of logical operator must be boolean, got %s", typeName(leftType))
	}
	if !isBooleanType(rightType) {
		return 0, typeErrorf("right operand of logical operator must be boolean, got %s", typeName(rightType))
	}
	return BOOL, nil
}

func (c *TypeChecker) checkAssign(expr *AssignExpr) (TokenType, error) {
	sym, ok := c.symbols.Resolve(expr.Name)
	if !ok {
		return 0, typeErrorf("cannot assign to undeclared variable '%s'", expr.Name)
	}
	if sym.Kind == FunctionKind {
		return 0, typeErrorf("cannot assign to function '%s'", expr.Name)
	}

	leftType := sym.Type
	if sym.IsPointer {
		leftType = POINTER
	}
	rightType, err := c.checkExpression(expr.Value)
	if err != nil {
		return 0, err
	}

	if leftType != rightType && !widensToFloat(leftType, rightType) {
		return 0, typeErrorf("cannot assign %s to variable of type %s",
			typeName(rightType), typeName(leftType))
	}
	return leftType, nil
}

func (c *TypeChecker) checkCall(expr *FunctionCall) (TokenType, error) {
	sym, ok := c.symbols.Resolve(expr.Name)
	if !ok {
		return 0, typeErrorf("undefined function '%s'", expr.Name)
	}
	if sym.Kind != FunctionKind {
		return 0, typeErrorf("'%s' is not a function", expr.Name)
	}

	if len(sym.Params) != len(expr.Args) {
		return 0, typeErrorf("function '%s' expects %d arguments, but got %d",
			expr.Name, len(sym.Params), len(expr.Args))
	}

	for i, arg := range expr.Args {
		argType, err := c.checkExpression(arg)
		if err != nil {
			return 0, err
		}
		paramType := sym.Params[i].Type
		if paramType != argType && !widensToFloat(paramType, argType) {
			return 0, typeErrorf("argument %d to function '%s' has incompatible type: expected %s, got %s",
				i+1, expr.Name, typeName(paramType), typeName(argType))
		}
	}

	return sym.ReturnType, nil
}

// checkBlock opens a scope for the block's lifetime and checks each
// statement, stopping at the first error so one broken statement does not
// cascade into noise from its neighbors.
func (c *TypeChecker) checkBlock(stmt *BlockStmt) error {
	c.symbols.EnterScope()
	defer c.symbols.ExitScope()

	for _, s := range stmt.Stmts {
		if err := c.checkStatement(s); err != nil {
			return err
		}
	}
	return nil
}

// checkVariableDecl rejects a declaration whose name already resolves
// anywhere in the scope chain: shadowing is not allowed, not even of
// globals.
func (c *TypeChecker) checkVariableDecl(stmt *VariableDecl) error {
	if _, ok := c.symbols.Resolve(stmt.Name); ok {
		return typeErrorf("variable '%s' already defined", stmt.Name)
	}

	declaredType := stmt.Type
	if stmt.IsPointer {
		declaredType = POINTER
	}

	if stmt.Init != nil {
		initType, err := c.checkExpression(stmt.Init)
		if err != nil {
			return err
		}
		if !isCompatibleType(declaredType, initType) {
			return typeErrorf("cannot initialize variable of type %s with incompatible type %s",
				typeName(declaredType), typeName(initType))
		}
	}

	c.symbols.Define(Symbol{
		Name:      stmt.Name,
		Type:      stmt.Type,
		IsPointer: stmt.IsPointer,
		Kind:      VariableKind,
	})
	return nil
}

func (c *TypeChecker) checkFunctionDecl(stmt *FunctionDecl) error {
	sym, ok := c.symbols.Resolve(stmt.Name)
	if !ok || sym.Kind != FunctionKind {
		return &InternalError{Msg: fmt.Sprintf("function '%s' not found in symbol table", stmt.Name)}
	}

	prevFunction := c.currentFunction
	prevReturnType := c.currentReturnType
	prevInBody := c.inFunctionBody
	c.currentFunction = stmt.Name
	c.currentReturnType = stmt.ReturnType
	c.inFunctionBody = true
	defer func() {
		c.currentFunction = prevFunction
		c.currentReturnType = prevReturnType
		c.inFunctionBody = prevInBody
	}()

	c.symbols.EnterScope()
	defer c.symbols.ExitScope()

	for _, param := range stmt.Params {
		c.symbols.Define(Symbol{
			Name:      param.Name,
			Type:      param.Type,
			IsPointer: param.Type == POINTER,
			Kind:      ParameterKind,
		})
	}

	return c.checkStatement(stmt.Body)
}

func (c *TypeChecker) checkIf(stmt *IfStmt) error {
	condType, err := c.checkExpression(stmt.Condition)
	if err != nil {
		return err
	}
	if !isBooleanType(condType) {
		return typeErrorf("if condition must be boolean, got %s", typeName(condType))
	}

	if err := c.checkStatement(stmt.Body); err != nil {
		return err
	}
	if stmt.ElseBody != nil {
		return c.checkStatement(stmt.ElseBody)
	}
	return nil
}

func (c *TypeChecker) checkWhile(stmt *WhileStmt) error {
	condType, err := c.checkExpression(stmt.Condition)
	if err != nil {
		return err
	}
	if !isBooleanType(condType) {
		return typeErrorf("while condition must be boolean, got %s", typeName(condType))
	}
	return c.checkStatement(stmt.Body)
}

// checkFor opens one scope spanning the initializer, condition, increment
// and body together.
func (c *TypeChecker) checkFor(stmt *ForStmt) error {
	c.symbols.EnterScope()
	defer c.symbols.ExitScope()

	if stmt.Init != nil {
		if err := c.checkStatement(stmt.Init); err != nil {
			return err
		}
	}
	if stmt.Cond != nil {
		condType, err := c.checkExpression(stmt.Cond)
		if err != nil {
			return err
		}
		if !isBooleanType(condType) {
			return typeErrorf("for loop condition must be boolean, got %s", typeName(condType))
		}
	}
	if stmt.Post != nil {
		if _, err := c.checkExpression(stmt.Post); err != nil {
			return err
		}
	}
	return c.checkStatement(stmt.Body)
}

func (c *TypeChecker) checkReturn(stmt *ReturnStmt) error {
	if !c.inFunctionBody {
		return typeErrorf("return statement outside of function body")
	}

	if stmt.Expr == nil {
		if c.currentReturnType != VOID {
			return typeErrorf("function '%s' must return a value of type %s",
				c.currentFunction, typeName(c.currentReturnType))
		}
		return nil
	}

	valueType, err := c.checkExpression(stmt.Expr)
	if err != nil {
		return err
	}
	if c.currentReturnType == VOID {
		return typeErrorf("cannot return a value from void function")
	}
	if !isCompatibleType(c.currentReturnType, valueType) {
		return typeErrorf("function '%s' returns %s but got %s",
			c.currentFunction, typeName(c.currentReturnType), typeName(valueType))
	}
	return nil
}

func isNumericType(tt TokenType) bool {
	switch tt {
	case INTEGER_LITERAL, FLOAT_LITERAL, INT, FLOAT:
		return true
	}
	return false
}

func isBooleanType(tt TokenType) bool {
	switch tt {
	case BOOL, BOOL_LITERAL, TRUE, FALSE:
		return true
	}
	return false
}

// widensToFloat reports whether a value of type right may flow into a
// float-typed slot even though the types differ: numeric literals and plain
// ints widen, nothing else does.
func widensToFloat(left, right TokenType) bool {
	return left == FLOAT &&
		(right == INTEGER_LITERAL || right == FLOAT_LITERAL || right == INT)
}

// isCompatibleType is the looser relation used by comparisons, initializers
// and returns: identical types, any two numerics, any two booleans, or a
// pointer against an integer literal (the null pointer spelling).
func isCompatibleType(left, right TokenType) bool {
	if left == right {
		return true
	}
	if isNumericType(left) && isNumericType(right) {
		return true
	}
	if isBooleanType(left) && isBooleanType(right) {
		return true
	}
	if left == POINTER && right == INTEGER_LITERAL {
		return true
	}
	return false
}
