package compiler

import "fmt"

//  Expression nodes

// Expr is implemented by every node that produces a value.
type Expr interface {
	exprNode()
	String() string
}

// Literal is a constant whose Kind records which literal category produced
// it. The parser folds the keywords true/false into BOOL_LITERAL here.
//
//	int x = 10;
//	         ^^  Literal{Value: "10", Kind: INTEGER_LITERAL}
type Literal struct {
	Value string
	Kind  TokenType
}

func (*Literal) exprNode() {}
func (l *Literal) String() string {
	switch l.Kind {
	case STRING_LITERAL:
		return fmt.Sprintf("%q", l.Value)
	case CHAR_LITERAL:
		return fmt.Sprintf("'%s'", l.Value)
	default:
		return l.Value
	}
}

// VarRef is a read of a named variable.
//
//	return x;
//	       ^  VarRef{Name: "x"}
type VarRef struct {
	Name string
}

func (*VarRef) exprNode()        {}
func (v *VarRef) String() string { return v.Name }

// BinaryExpr represents a binary operation: Left Op Right. The stream
// operators << and >> also land here, with the chain's running left side
// accumulated in Left.
type BinaryExpr struct {
	Op    TokenType
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, opText(b.Op), b.Right)
}

// LogicalExpr represents Left && Right or Left || Right. It is separate from
// BinaryExpr because both operands must be boolean rather than numeric.
type LogicalExpr struct {
	Op    TokenType
	Left  Expr
	Right Expr
}

func (*LogicalExpr) exprNode() {}
func (l *LogicalExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", l.Left, opText(l.Op), l.Right)
}

// UnaryExpr represents a prefix operator applied to an operand (e.g. !b, *p,
// &x, -n). Postfix x++ and x-- produce the same node as their prefix forms.
type UnaryExpr struct {
	Op      TokenType
	Operand Expr
}

func (*UnaryExpr) exprNode()        {}
func (u *UnaryExpr) String() string { return fmt.Sprintf("(%s %s)", opText(u.Op), u.Operand) }

// AssignExpr represents name = value. Compound forms (+=, -=, *=, /=) are
// desugared by the parser, so Value already contains the expanded binary
// expression and there is no operator field.
type AssignExpr struct {
	Name  string
	Value Expr
}

func (*AssignExpr) exprNode() {}
func (a *AssignExpr) String() string {
	return fmt.Sprintf("Assign(%s = %s)", a.Name, a.Value)
}

// FunctionCall represents name(args)
type FunctionCall struct {
	Name string
	Args []Expr
}

func (*FunctionCall) exprNode() {}
func (c *FunctionCall) String() string {
	return fmt.Sprintf("FunctionCall(%s, args=%v)", c.Name, c.Args)
}

//  Statement nodes

// Stmt is implemented by every node that does not produce a value.
type Stmt interface {
	stmtNode()
	String() string
}

// Param is one function parameter. A pointer-marked parameter stores POINTER
// as its whole type; the base type is not retained.
type Param struct {
	Name string
	Type TokenType
}

func (p Param) String() string { return fmt.Sprintf("%s %s", typeName(p.Type), p.Name) }

// VariableDecl represents  type [*] name [= init];
// A comma-separated declarator group is wrapped into a BlockStmt of these.
type VariableDecl struct {
	Type      TokenType
	IsPointer bool
	Name      string
	Init      Expr // may be nil
}

func (*VariableDecl) stmtNode() {}
func (d *VariableDecl) String() string {
	typeStr := typeName(d.Type)
	if d.IsPointer {
		typeStr += "*"
	}
	if d.Init == nil {
		return fmt.Sprintf("VariableDecl(%s %s)", typeStr, d.Name)
	}
	return fmt.Sprintf("VariableDecl(%s %s = %s)", typeStr, d.Name, d.Init)
}

// FunctionDecl represents type name(params) { body }
type FunctionDecl struct {
	Name       string
	ReturnType TokenType
	Params     []Param
	Body       Stmt // always a BlockStmt
}

func (*FunctionDecl) stmtNode() {}
func (f *FunctionDecl) String() string {
	return fmt.Sprintf("FunctionDecl(%s %s, params=%v, body=%s)", typeName(f.ReturnType), f.Name, f.Params, f.Body)
}

// ReturnStmt represents  return [expr];
type ReturnStmt struct {
	Expr Expr // nil for a bare return
}

func (*ReturnStmt) stmtNode() {}
func (r *ReturnStmt) String() string {
	if r.Expr == nil {
		return "ReturnStmt()"
	}
	return fmt.Sprintf("ReturnStmt(%s)", r.Expr)
}

// BlockStmt represents { statement; ... }
type BlockStmt struct {
	Stmts []Stmt
}

func (*BlockStmt) stmtNode() {}
func (b *BlockStmt) String() string {
	return fmt.Sprintf("BlockStmt(len=%d)", len(b.Stmts))
}

// IfStmt represents if (cond) { body } [else { elseBody }]
type IfStmt struct {
	Condition Expr
	Body      Stmt
	ElseBody  Stmt // may be nil
}

func (*IfStmt) stmtNode() {}
func (i *IfStmt) String() string {
	if i.ElseBody != nil {
		return fmt.Sprintf("IfStmt(if %s then %s else %s)", i.Condition, i.Body, i.ElseBody)
	}
	return fmt.Sprintf("IfStmt(if %s then %s)", i.Condition, i.Body)
}

// WhileStmt represents while (cond) { body }
type WhileStmt struct {
	Condition Expr
	Body      Stmt
}

func (*WhileStmt) stmtNode() {}
func (w *WhileStmt) String() string {
	return fmt.Sprintf("WhileStmt(while %s do %s)", w.Condition, w.Body)
}

// ForStmt represents for (init; cond; post) { body }. Init is a full
// statement (it may be a declaration); Post is a bare expression.
type ForStmt struct {
	Init Stmt // may be nil
	Cond Expr // may be nil
	Post Expr // may be nil
	Body Stmt
}

func (*ForStmt) stmtNode() {}
func (f *ForStmt) String() string {
	return fmt.Sprintf("ForStmt(init=%s, cond=%s, post=%s, body=%s)", f.Init, f.Cond, f.Post, f.Body)
}

// ExprStmt represents an expression evaluated for its side effects (e.g. a
// function call). Preprocessor includes and the using-directive also lower
// to this node, wrapping a string Literal that later stages ignore.
type ExprStmt struct {
	Expr Expr
}

func (*ExprStmt) stmtNode() {}
func (e *ExprStmt) String() string {
	return fmt.Sprintf("ExprStmt(%s)", e.Expr)
}
