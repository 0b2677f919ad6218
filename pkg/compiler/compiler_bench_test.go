package compiler

import (
	"testing"

	"github.com/rs/zerolog"
)

// simpleSource is a minimal program used for benchmarking the fast path.
const simpleSource = `
int add(int a, int b) {
	return a + b;
}
`

// complexSource is a larger program exercising recursion, floats, pointers,
// loops and calls.
const complexSource = `
int fib(int n) {
	if (n <= 1) {
		return n;
	}
	int a = n - 1;
	int b = n - 2;
	return fib(a) + fib(b);
}

float scale(float base, int times) {
	float result = base;
	for (int i = 0; i < times; i++) {
		result++;
	}
	return result;
}

void pump(int limit) {
	int metric = 0;
	while (metric < limit) {
		metric++;
	}
}

int main() {
	int x = 10;
	int y = fib(x);
	int* p = &x;
	int deref = *p;
	int times = 4;
	float f = scale(2.5, times);
	pump(x);
	return y;
}
`

// parseForBench parses src once for benchmarks that measure later stages.
func parseForBench(b *testing.B, src string) []Stmt {
	b.Helper()
	p := NewParser(src, zerolog.Nop())
	stmts, err := p.Parse()
	if err != nil {
		b.Fatal(err)
	}
	if len(p.SyntaxErrors()) > 0 {
		b.Fatalf("syntax errors in benchmark source: %v", p.SyntaxErrors()[0])
	}
	return stmts
}

// --- Lex benchmarks ---

func BenchmarkLex_Simple(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Lex(simpleSource); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLex_Complex(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Lex(complexSource); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Parse benchmarks ---
// The parser drives its own lexer, so these include tokenization.

func BenchmarkParse_Simple(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p := NewParser(simpleSource, zerolog.Nop())
		if _, err := p.Parse(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse_Complex(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p := NewParser(complexSource, zerolog.Nop())
		if _, err := p.Parse(); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Check benchmarks ---
// The AST is pre-computed outside the timed region.

func BenchmarkCheck_Simple(b *testing.B) {
	stmts := parseForBench(b, simpleSource)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := NewTypeChecker().Check(stmts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCheck_Complex(b *testing.B) {
	stmts := parseForBench(b, complexSource)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := NewTypeChecker().Check(stmts); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Generate benchmarks ---

func BenchmarkGenerate_Simple(b *testing.B) {
	stmts := parseForBench(b, simpleSource)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NewCodeGenerator(zerolog.Nop()).Generate(stmts)
	}
}

func BenchmarkGenerate_Complex(b *testing.B) {
	stmts := parseForBench(b, complexSource)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NewCodeGenerator(zerolog.Nop()).Generate(stmts)
	}
}

// --- Optimize benchmark ---

func BenchmarkOptimize_Complex(b *testing.B) {
	stmts := parseForBench(b, complexSource)
	instructions := NewCodeGenerator(zerolog.Nop()).Generate(stmts)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Optimize(instructions)
	}
}

// --- Full pipeline benchmarks ---

func BenchmarkCompile_Simple(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Compile(simpleSource); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompile_Complex(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Compile(complexSource); err != nil {
			b.Fatal(err)
		}
	}
}
