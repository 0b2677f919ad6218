package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInstructionString(t *testing.T) {
	tests := []struct {
		name string
		in   Instruction
		want string
	}{
		{
			name: "Add",
			in:   Instruction{Op: ADD, Arg1: "t1", Arg2: "t2", Result: "t3"},
			want: "ADD t1, t2 -> t3",
		},
		{
			name: "Sub",
			in:   Instruction{Op: SUB, Arg1: "t1", Arg2: "t2", Result: "t3"},
			want: "SUB t1, t2 -> t3",
		},
		{
			name: "Mul",
			in:   Instruction{Op: MUL, Arg1: "a", Arg2: "b", Result: "t1"},
			want: "MUL a, b -> t1",
		},
		{
			name: "Div",
			in:   Instruction{Op: DIV, Arg1: "a", Arg2: "b", Result: "t1"},
			want: "DIV a, b -> t1",
		},
		{
			name: "Cmp",
			in:   Instruction{Op: CMP, Arg1: "t1", Arg2: "t2", Result: "t3"},
			want: "CMP t1, t2 -> t3",
		},
		{
			name: "Load",
			in:   Instruction{Op: LOAD, Arg1: "x", Result: "t1"},
			want: "LOAD x -> t1",
		},
		{
			name: "Store",
			in:   Instruction{Op: STORE, Arg1: "t1", Result: "x"},
			want: "STORE t1 -> x",
		},
		{
			// An uninitialized declaration stores an empty value; the
			// empty slot stays visible in the dump.
			name: "Store With Empty Value",
			in:   Instruction{Op: STORE, Result: "x"},
			want: "STORE  -> x",
		},
		{
			name: "Push",
			in:   Instruction{Op: PUSH, Arg1: "t1"},
			want: "PUSH t1",
		},
		{
			name: "Push With Result",
			in:   Instruction{Op: PUSH, Arg1: "t1", Result: "t2"},
			want: "PUSH t1 -> t2",
		},
		{
			name: "Print",
			in:   Instruction{Op: PRINT, Arg1: "x"},
			want: "PRINT x",
		},
		{
			name: "Jump",
			in:   Instruction{Op: JMP, Arg1: "L1"},
			want: "JMP L1",
		},
		{
			name: "Jump If False",
			in:   Instruction{Op: JE, Arg1: "L2"},
			want: "JE L2",
		},
		{
			name: "Call",
			in:   Instruction{Op: CALL, Arg1: "foo"},
			want: "CALL foo",
		},
		{
			name: "Ret",
			in:   Instruction{Op: RET},
			want: "RET",
		},
		{
			name: "Pop",
			in:   Instruction{Op: POP},
			want: "POP",
		},
		{
			name: "Label",
			in:   Instruction{Op: LABEL, Arg1: "main"},
			want: "main:",
		},
		{
			name: "Unknown",
			in:   Instruction{Op: OpCode(99)},
			want: "unknown instruction 99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.in.String())
		})
	}
}

func TestOpCodeString(t *testing.T) {
	require.Equal(t, "LOAD", LOAD.String())
	require.Equal(t, "LABEL", LABEL.String())
	require.Equal(t, "OpCode(42)", OpCode(42).String())
	require.Equal(t, "OpCode(-1)", OpCode(-1).String())
}

func TestDumpInstructions(t *testing.T) {
	instructions := []Instruction{
		{Op: LABEL, Arg1: "main"},
		{Op: LOAD, Arg1: "x", Result: "t1"},
		{Op: RET},
	}
	want := "  main:\n  LOAD x -> t1\n  RET\n"
	require.Equal(t, want, DumpInstructions(instructions))

	require.Equal(t, "", DumpInstructions(nil))
}
