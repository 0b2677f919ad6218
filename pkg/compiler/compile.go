package compiler

import (
	"fmt"

	"github.com/rs/zerolog"
)

type compileConfig struct {
	logger   zerolog.Logger
	optimize bool
}

// CompileOption adjusts how Compile runs the pipeline.
type CompileOption func(*compileConfig)

// WithLogger routes stage diagnostics to logger instead of discarding them.
func WithLogger(logger zerolog.Logger) CompileOption {
	return func(cfg *compileConfig) { cfg.logger = logger }
}

// WithoutOptimization skips the peephole pass over the generated code.
func WithoutOptimization() CompileOption {
	return func(cfg *compileConfig) { cfg.optimize = false }
}

// Compile runs the whole pipeline over one source string: parse, type-check,
// generate, optimize. Syntax errors are logged and recovered from, so they
// do not fail the compile; lexical and semantic errors do.
func Compile(src string, opts ...CompileOption) ([]Instruction, error) {
	cfg := compileConfig{logger: zerolog.Nop(), optimize: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	parser := NewParser(src, cfg.logger)
	stmts, err := parser.Parse()
	if err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}

	checker := NewTypeChecker()
	if err := checker.Check(stmts); err != nil {
		return nil, err
	}

	gen := NewCodeGenerator(cfg.logger)
	instructions := gen.Generate(stmts)
	if cfg.optimize {
		instructions = Optimize(instructions)
	}
	return instructions, nil
}
