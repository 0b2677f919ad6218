package compiler

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// generateSource parses src and lowers it without optimization. Codegen
// trusts its input, so the checker is not involved here.
func generateSource(t *testing.T, src string) []Instruction {
	t.Helper()
	p := NewParser(src, zerolog.Nop())
	stmts, err := p.Parse()
	require.NoError(t, err)
	require.Empty(t, p.SyntaxErrors())
	return NewCodeGenerator(zerolog.Nop()).Generate(stmts)
}

func TestGenerateFunction(t *testing.T) {
	got := generateSource(t, "int add(int a, int b) { return a + b; }")

	// Operand temporaries are allocated after each operand is lowered, so
	// the ADD names temporaries the loads never wrote. That is the
	// lowering convention; the peephole pass runs downstream of it.
	expected := []Instruction{
		{Op: LABEL, Arg1: "add"},
		{Op: LOAD, Arg1: "a", Result: "t1"},
		{Op: LOAD, Arg1: "b", Result: "t3"},
		{Op: ADD, Arg1: "t2", Arg2: "t4", Result: "t5"},
		{Op: RET},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("instruction mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateDeclarations(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Instruction
	}{
		{
			name:  "Initialized",
			input: "int x = 5;",
			expected: []Instruction{
				{Op: STORE, Arg1: "5", Result: "t1"},
				{Op: STORE, Arg1: "t2", Result: "x"},
			},
		},
		{
			name:  "Uninitialized Stores Empty Value",
			input: "int x;",
			expected: []Instruction{
				{Op: STORE, Arg1: "", Result: "x"},
			},
		},
		{
			name:  "Program Order Preserved",
			input: "int x = 1;\nint y = 2;",
			expected: []Instruction{
				{Op: STORE, Arg1: "1", Result: "t1"},
				{Op: STORE, Arg1: "t2", Result: "x"},
				{Op: STORE, Arg1: "2", Result: "t3"},
				{Op: STORE, Arg1: "t4", Result: "y"},
			},
		},
		{
			name:  "Declarator Group",
			input: "int a = 1, b;",
			expected: []Instruction{
				{Op: STORE, Arg1: "1", Result: "t1"},
				{Op: STORE, Arg1: "t2", Result: "a"},
				{Op: STORE, Arg1: "", Result: "b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := generateSource(t, tt.input)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("instruction mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGenerateArithmeticOpcodes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		op    OpCode
	}{
		{"Add", "a + b;", ADD},
		{"Sub", "a - b;", SUB},
		{"Mul", "a * b;", MUL},
		{"Div", "a / b;", DIV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := generateSource(t, tt.input)
			expected := []Instruction{
				{Op: LOAD, Arg1: "a", Result: "t1"},
				{Op: LOAD, Arg1: "b", Result: "t3"},
				{Op: tt.op, Arg1: "t2", Arg2: "t4", Result: "t5"},
			}
			if diff := cmp.Diff(expected, got); diff != "" {
				t.Errorf("instruction mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGenerateComparisonsCollapseToCmp(t *testing.T) {
	// All six comparison operators lower to the same CMP instruction.
	for _, src := range []string{"a == b;", "a != b;", "a < b;", "a <= b;", "a > b;", "a >= b;"} {
		got := generateSource(t, src)
		expected := []Instruction{
			{Op: LOAD, Arg1: "a", Result: "t1"},
			{Op: LOAD, Arg1: "b", Result: "t3"},
			{Op: CMP, Arg1: "t2", Arg2: "t4", Result: "t5"},
		}
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("%s: instruction mismatch (-want +got):\n%s", src, diff)
		}
	}
}

func TestGenerateIfElse(t *testing.T) {
	got := generateSource(t, "if (a < b) { int x = 1; } else { int y = 2; }")

	expected := []Instruction{
		{Op: LOAD, Arg1: "a", Result: "t1"},
		{Op: LOAD, Arg1: "b", Result: "t3"},
		{Op: CMP, Arg1: "t2", Arg2: "t4", Result: "t5"},
		{Op: JE, Arg1: "L1"},
		{Op: STORE, Arg1: "1", Result: "t6"},
		{Op: STORE, Arg1: "t7", Result: "x"},
		{Op: JMP, Arg1: "L2"},
		{Op: LABEL, Arg1: "L1"},
		{Op: STORE, Arg1: "2", Result: "t8"},
		{Op: STORE, Arg1: "t9", Result: "y"},
		{Op: LABEL, Arg1: "L2"},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("instruction mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateIfWithoutElseKeepsBothLabels(t *testing.T) {
	got := generateSource(t, "if (a < b) { int x = 1; }")

	expected := []Instruction{
		{Op: LOAD, Arg1: "a", Result: "t1"},
		{Op: LOAD, Arg1: "b", Result: "t3"},
		{Op: CMP, Arg1: "t2", Arg2: "t4", Result: "t5"},
		{Op: JE, Arg1: "L1"},
		{Op: STORE, Arg1: "1", Result: "t6"},
		{Op: STORE, Arg1: "t7", Result: "x"},
		{Op: JMP, Arg1: "L2"},
		{Op: LABEL, Arg1: "L1"},
		{Op: LABEL, Arg1: "L2"},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("instruction mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateWhile(t *testing.T) {
	got := generateSource(t, "while (i < n) { int x = 1; }")

	expected := []Instruction{
		{Op: LABEL, Arg1: "L1"},
		{Op: LOAD, Arg1: "i", Result: "t1"},
		{Op: LOAD, Arg1: "n", Result: "t3"},
		{Op: CMP, Arg1: "t2", Arg2: "t4", Result: "t5"},
		{Op: JE, Arg1: "L2"},
		{Op: STORE, Arg1: "1", Result: "t6"},
		{Op: STORE, Arg1: "t7", Result: "x"},
		{Op: JMP, Arg1: "L1"},
		{Op: LABEL, Arg1: "L2"},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("instruction mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateFor(t *testing.T) {
	// The post expression i++ has no lowering, so nothing lands between
	// the call and the back edge.
	got := generateSource(t, "for (int i = 0; i < 3; i++) { foo(); }")

	expected := []Instruction{
		{Op: STORE, Arg1: "0", Result: "t1"},
		{Op: STORE, Arg1: "t2", Result: "i"},
		{Op: LABEL, Arg1: "L1"},
		{Op: LOAD, Arg1: "i", Result: "t3"},
		{Op: STORE, Arg1: "3", Result: "t5"},
		{Op: CMP, Arg1: "t4", Arg2: "t6", Result: "t7"},
		{Op: JE, Arg1: "L2"},
		{Op: CALL, Arg1: "foo"},
		{Op: STORE, Arg1: "retval", Result: "t8"},
		{Op: JMP, Arg1: "L1"},
		{Op: LABEL, Arg1: "L2"},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("instruction mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateForWithEmptyClauses(t *testing.T) {
	got := generateSource(t, "for (;;) { foo(); }")

	expected := []Instruction{
		{Op: LABEL, Arg1: "L1"},
		{Op: CALL, Arg1: "foo"},
		{Op: STORE, Arg1: "retval", Result: "t1"},
		{Op: JMP, Arg1: "L1"},
		{Op: LABEL, Arg1: "L2"},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("instruction mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateCall(t *testing.T) {
	got := generateSource(t, "foo(x, 2);")

	expected := []Instruction{
		{Op: LOAD, Arg1: "x", Result: "t1"},
		{Op: STORE, Arg1: "2", Result: "t3"},
		{Op: PUSH, Arg1: "t2"},
		{Op: PUSH, Arg1: "t4"},
		{Op: CALL, Arg1: "foo"},
		{Op: POP},
		{Op: POP},
		{Op: STORE, Arg1: "retval", Result: "t5"},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("instruction mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateFunctionRet(t *testing.T) {
	t.Run("Empty Body Gets Trailing Ret", func(t *testing.T) {
		got := generateSource(t, "void g() { }")
		expected := []Instruction{
			{Op: LABEL, Arg1: "g"},
			{Op: RET},
		}
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("instruction mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Explicit Return Not Duplicated", func(t *testing.T) {
		got := generateSource(t, "void f() { return; }")
		expected := []Instruction{
			{Op: LABEL, Arg1: "f"},
			{Op: RET},
		}
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("instruction mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Return With Value", func(t *testing.T) {
		got := generateSource(t, "int f() { return 0; }")
		expected := []Instruction{
			{Op: LABEL, Arg1: "f"},
			{Op: STORE, Arg1: "0", Result: "t1"},
			{Op: RET},
		}
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("instruction mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestGenerateSkipsUnloweredExpressions(t *testing.T) {
	// Assignment, unary and logical expressions have no lowering; they
	// are logged and skipped.
	for _, src := range []string{"x = 5;", "!a;", "a && b;", "i++;"} {
		got := generateSource(t, src)
		require.Empty(t, got, "source %q", src)
	}
}

func TestGenerateEmptyProgram(t *testing.T) {
	require.Empty(t, generateSource(t, ""))
}
