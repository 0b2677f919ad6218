package compiler

import (
	"fmt"
	"strings"
)

// OpCode identifies one three-address instruction kind.
type OpCode int

const (
	LOAD OpCode = iota
	STORE
	ADD
	SUB
	MUL
	DIV
	CMP
	JMP
	JE
	JNE
	JG
	JL
	CALL
	RET
	PUSH
	POP
	PRINT
	LABEL
)

var opcodeNames = [...]string{
	LOAD:  "LOAD",
	STORE: "STORE",
	ADD:   "ADD",
	SUB:   "SUB",
	MUL:   "MUL",
	DIV:   "DIV",
	CMP:   "CMP",
	JMP:   "JMP",
	JE:    "JE",
	JNE:   "JNE",
	JG:    "JG",
	JL:    "JL",
	CALL:  "CALL",
	RET:   "RET",
	PUSH:  "PUSH",
	POP:   "POP",
	PRINT: "PRINT",
	LABEL: "LABEL",
}

func (op OpCode) String() string {
	if int(op) >= 0 && int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return fmt.Sprintf("OpCode(%d)", int(op))
}

// Instruction is one three-address instruction: at most two source operands
// and one destination. Operands are names (variables, temporaries, labels)
// or literal text; unused slots stay empty.
type Instruction struct {
	Op     OpCode
	Arg1   string
	Arg2   string
	Result string
}

// String renders the instruction the way the dump prints it. Three-operand
// ops read "OP a, b -> r", moves read "OP a -> r", jumps and calls read
// "OP target", and a label renders as "name:".
func (in Instruction) String() string {
	switch in.Op {
	case ADD, SUB, MUL, DIV, CMP:
		return fmt.Sprintf("%s %s, %s -> %s", in.Op, in.Arg1, in.Arg2, in.Result)
	case LOAD, STORE:
		return fmt.Sprintf("%s %s -> %s", in.Op, in.Arg1, in.Result)
	case PUSH, PRINT:
		if in.Result != "" {
			return fmt.Sprintf("%s %s -> %s", in.Op, in.Arg1, in.Result)
		}
		return fmt.Sprintf("%s %s", in.Op, in.Arg1)
	case JMP, JE, JNE, JG, JL, CALL:
		return fmt.Sprintf("%s %s", in.Op, in.Arg1)
	case RET, POP:
		return in.Op.String()
	case LABEL:
		return in.Arg1 + ":"
	}
	return fmt.Sprintf("unknown instruction %d", int(in.Op))
}

// DumpInstructions renders a whole sequence, one instruction per line with a
// two-space indent. This is the text the driver prints on success.
func DumpInstructions(instructions []Instruction) string {
	var sb strings.Builder
	for _, in := range instructions {
		sb.WriteString("  ")
		sb.WriteString(in.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
