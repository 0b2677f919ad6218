package compiler

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestOptimize(t *testing.T) {
	tests := []struct {
		name     string
		input    []Instruction
		expected []Instruction
	}{
		{
			name: "Removes Load Store Pair",
			input: []Instruction{
				{Op: LOAD, Arg1: "x", Result: "t1"},
				{Op: STORE, Arg1: "t2", Result: "y"},
			},
			expected: []Instruction{},
		},
		{
			// The pass matches opcodes only; the operands of the pair
			// are never compared.
			name: "Operands Are Not Inspected",
			input: []Instruction{
				{Op: LOAD, Arg1: "a", Result: "t1"},
				{Op: STORE, Arg1: "unrelated", Result: "elsewhere"},
			},
			expected: []Instruction{},
		},
		{
			name: "Removes Every Adjacent Pair",
			input: []Instruction{
				{Op: LOAD, Arg1: "x", Result: "t1"},
				{Op: STORE, Arg1: "t2", Result: "a"},
				{Op: LOAD, Arg1: "y", Result: "t3"},
				{Op: STORE, Arg1: "t4", Result: "b"},
			},
			expected: []Instruction{},
		},
		{
			// Only the second LOAD is directly followed by a STORE. The
			// scan resumes after the removed pair, so the trailing STORE
			// is not paired with anything.
			name: "Double Load Double Store",
			input: []Instruction{
				{Op: LOAD, Arg1: "x", Result: "t1"},
				{Op: LOAD, Arg1: "y", Result: "t2"},
				{Op: STORE, Arg1: "t3", Result: "a"},
				{Op: STORE, Arg1: "t4", Result: "b"},
			},
			expected: []Instruction{
				{Op: LOAD, Arg1: "x", Result: "t1"},
				{Op: STORE, Arg1: "t4", Result: "b"},
			},
		},
		{
			name: "Store Then Load Survives",
			input: []Instruction{
				{Op: STORE, Arg1: "5", Result: "t1"},
				{Op: LOAD, Arg1: "x", Result: "t2"},
			},
			expected: []Instruction{
				{Op: STORE, Arg1: "5", Result: "t1"},
				{Op: LOAD, Arg1: "x", Result: "t2"},
			},
		},
		{
			name: "Intervening Instruction Blocks Removal",
			input: []Instruction{
				{Op: LOAD, Arg1: "x", Result: "t1"},
				{Op: ADD, Arg1: "t1", Arg2: "t2", Result: "t3"},
				{Op: STORE, Arg1: "t3", Result: "y"},
			},
			expected: []Instruction{
				{Op: LOAD, Arg1: "x", Result: "t1"},
				{Op: ADD, Arg1: "t1", Arg2: "t2", Result: "t3"},
				{Op: STORE, Arg1: "t3", Result: "y"},
			},
		},
		{
			name: "Pair In The Middle",
			input: []Instruction{
				{Op: LABEL, Arg1: "main"},
				{Op: LOAD, Arg1: "x", Result: "t1"},
				{Op: STORE, Arg1: "t2", Result: "y"},
				{Op: RET},
			},
			expected: []Instruction{
				{Op: LABEL, Arg1: "main"},
				{Op: RET},
			},
		},
		{
			name: "Trailing Load Survives",
			input: []Instruction{
				{Op: RET},
				{Op: LOAD, Arg1: "x", Result: "t1"},
			},
			expected: []Instruction{
				{Op: RET},
				{Op: LOAD, Arg1: "x", Result: "t1"},
			},
		},
		{
			name:     "Empty Input",
			input:    []Instruction{},
			expected: []Instruction{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Optimize(tt.input)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("instruction mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOptimizeArithmeticSequencesSurvive(t *testing.T) {
	// Consecutive operand loads feed an ADD, so no LOAD is directly
	// followed by a STORE and nothing is removed.
	got := generateSource(t, "int add(int a, int b) { return a + b; }")
	require.Equal(t, got, Optimize(got))
}

func TestOptimizeRemovesCopyDeclaration(t *testing.T) {
	// int y = x lowers to a LOAD directly followed by a STORE; the whole
	// copy disappears.
	p := NewParser("int y = x;", zerolog.Nop())
	stmts, err := p.Parse()
	require.NoError(t, err)

	instructions := NewCodeGenerator(zerolog.Nop()).Generate(stmts)
	require.Len(t, instructions, 2)
	require.Empty(t, Optimize(instructions))
}
