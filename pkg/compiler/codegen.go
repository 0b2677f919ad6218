package compiler

import (
	"fmt"

	"github.com/rs/zerolog"
)

// CodeGenerator walks a type-checked AST and emits a flat three-address
// instruction sequence. It assumes the program already passed the checker
// and performs no validation of its own; a construct it cannot lower is
// logged and skipped rather than failed.
type CodeGenerator struct {
	instructions []Instruction
	tempCounter  int
	labelCounter int
	log          zerolog.Logger
}

func NewCodeGenerator(logger zerolog.Logger) *CodeGenerator {
	return &CodeGenerator{
		log: logger.With().Str("component", "codegen").Logger(),
	}
}

func (g *CodeGenerator) newTemp() string {
	g.tempCounter++
	return fmt.Sprintf("t%d", g.tempCounter)
}

func (g *CodeGenerator) newLabel() string {
	g.labelCounter++
	return fmt.Sprintf("L%d", g.labelCounter)
}

func (g *CodeGenerator) emit(in Instruction) {
	g.instructions = append(g.instructions, in)
}

// Generate lowers each top-level statement in program order and returns the
// accumulated instruction sequence.
func (g *CodeGenerator) Generate(stmts []Stmt) []Instruction {
	for _, stmt := range stmts {
		g.genStatement(stmt)
	}
	return g.instructions
}

func (g *CodeGenerator) genStatement(stmt Stmt) {
	switch s := stmt.(type) {
	case *VariableDecl:
		g.genVariableDecl(s)
	case *FunctionDecl:
		g.genFunctionDecl(s)
	case *BlockStmt:
		for _, inner := range s.Stmts {
			g.genStatement(inner)
		}
	case *IfStmt:
		g.genIf(s)
	case *WhileStmt:
		g.genWhile(s)
	case *ForStmt:
		g.genFor(s)
	case *ReturnStmt:
		g.genReturn(s)
	case *ExprStmt:
		g.genExpression(s.Expr)
	default:
		g.log.Warn().Str("stmt", fmt.Sprintf("%T", stmt)).Msg("unsupported statement type")
	}
}

// genExpression lowers an expression. Each arm leaves its value in the
// temporary allocated immediately after it runs; a caller that needs the
// value allocates that temporary itself with newTemp. Unary, logical and
// assignment expressions have no lowering and are skipped with a warning.
func (g *CodeGenerator) genExpression(expr Expr) {
	switch e := expr.(type) {
	case *BinaryExpr:
		g.genBinary(e)
	case *VarRef:
		g.emit(Instruction{Op: LOAD, Arg1: e.Name, Result: g.newTemp()})
	case *Literal:
		g.emit(Instruction{Op: STORE, Arg1: e.Value, Result: g.newTemp()})
	case *FunctionCall:
		g.genCall(e)
	default:
		g.log.Warn().Str("expr", fmt.Sprintf("%T", expr)).Msg("unsupported expression type")
	}
}

func (g *CodeGenerator) genBinary(expr *BinaryExpr) {
	g.genExpression(expr.Left)
	leftTemp := g.newTemp()

	g.genExpression(expr.Right)
	rightTemp := g.newTemp()

	resultTemp := g.newTemp()
	switch expr.Op {
	case PLUS:
		g.emit(Instruction{Op: ADD, Arg1: leftTemp, Arg2: rightTemp, Result: resultTemp})
	case MINUS:
		g.emit(Instruction{Op: SUB, Arg1: leftTemp, Arg2: rightTemp, Result: resultTemp})
	case MULTIPLY:
		g.emit(Instruction{Op: MUL, Arg1: leftTemp, Arg2: rightTemp, Result: resultTemp})
	case SLASH:
		g.emit(Instruction{Op: DIV, Arg1: leftTemp, Arg2: rightTemp, Result: resultTemp})
	case EQUAL_EQUAL, NOT_EQUAL, LESS, LESS_EQUAL, GREATER, GREATER_EQUAL:
		// Every comparison lowers to the same CMP; which comparison was
		// asked for is not recorded in the instruction.
		g.emit(Instruction{Op: CMP, Arg1: leftTemp, Arg2: rightTemp, Result: resultTemp})
	default:
		g.log.Warn().Str("op", expr.Op.String()).Msg("unsupported binary operator")
	}
}

func (g *CodeGenerator) genCall(expr *FunctionCall) {
	argTemps := make([]string, 0, len(expr.Args))
	for _, arg := range expr.Args {
		g.genExpression(arg)
		argTemps = append(argTemps, g.newTemp())
	}

	for _, temp := range argTemps {
		g.emit(Instruction{Op: PUSH, Arg1: temp})
	}

	g.emit(Instruction{Op: CALL, Arg1: expr.Name})

	for range expr.Args {
		g.emit(Instruction{Op: POP})
	}

	g.emit(Instruction{Op: STORE, Arg1: "retval", Result: g.newTemp()})
}

// genVariableDecl stores the initializer's temporary into the declared name.
// With no initializer the stored value is empty.
func (g *CodeGenerator) genVariableDecl(stmt *VariableDecl) {
	var value string
	if stmt.Init != nil {
		g.genExpression(stmt.Init)
		value = g.newTemp()
	}
	g.emit(Instruction{Op: STORE, Arg1: value, Result: stmt.Name})
}

func (g *CodeGenerator) genFunctionDecl(stmt *FunctionDecl) {
	g.emit(Instruction{Op: LABEL, Arg1: stmt.Name})

	if stmt.Body != nil {
		g.genStatement(stmt.Body)
	}

	if g.instructions[len(g.instructions)-1].Op != RET {
		g.emit(Instruction{Op: RET})
	}
}

// genIf lowers to: condition, JE else, body, JMP end, else label, else body,
// end label. JE branches when the condition evaluated false.
func (g *CodeGenerator) genIf(stmt *IfStmt) {
	elseLabel := g.newLabel()
	endLabel := g.newLabel()

	g.genExpression(stmt.Condition)
	g.emit(Instruction{Op: JE, Arg1: elseLabel})

	g.genStatement(stmt.Body)
	g.emit(Instruction{Op: JMP, Arg1: endLabel})

	g.emit(Instruction{Op: LABEL, Arg1: elseLabel})
	if stmt.ElseBody != nil {
		g.genStatement(stmt.ElseBody)
	}
	g.emit(Instruction{Op: LABEL, Arg1: endLabel})
}

func (g *CodeGenerator) genWhile(stmt *WhileStmt) {
	startLabel := g.newLabel()
	endLabel := g.newLabel()

	g.emit(Instruction{Op: LABEL, Arg1: startLabel})
	g.genExpression(stmt.Condition)
	g.emit(Instruction{Op: JE, Arg1: endLabel})

	g.genStatement(stmt.Body)
	g.emit(Instruction{Op: JMP, Arg1: startLabel})

	g.emit(Instruction{Op: LABEL, Arg1: endLabel})
}

func (g *CodeGenerator) genFor(stmt *ForStmt) {
	startLabel := g.newLabel()
	endLabel := g.newLabel()

	if stmt.Init != nil {
		g.genStatement(stmt.Init)
	}

	g.emit(Instruction{Op: LABEL, Arg1: startLabel})
	if stmt.Cond != nil {
		g.genExpression(stmt.Cond)
		g.emit(Instruction{Op: JE, Arg1: endLabel})
	}

	g.genStatement(stmt.Body)
	if stmt.Post != nil {
		g.genExpression(stmt.Post)
	}

	g.emit(Instruction{Op: JMP, Arg1: startLabel})
	g.emit(Instruction{Op: LABEL, Arg1: endLabel})
}

func (g *CodeGenerator) genReturn(stmt *ReturnStmt) {
	if stmt.Expr != nil {
		g.genExpression(stmt.Expr)
	}
	g.emit(Instruction{Op: RET})
}
