package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"minicpp/pkg/compiler"
)

var (
	flagLogLevel   string
	flagDumpTokens bool
	flagDumpAST    bool
	flagNoOptimize bool
)

var rootCmd = &cobra.Command{
	Use:   "minicpp <source-file>",
	Short: "Compile a reduced C++ source file to three-address code",
	Args:  cobra.ExactArgs(1),
	Run:   run,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info",
		"log level (trace, debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&flagDumpTokens, "dump-tokens", false,
		"print the token stream before parsing")
	rootCmd.Flags().BoolVar(&flagDumpAST, "dump-ast", false,
		"print the parsed statements before checking")
	rootCmd.Flags().BoolVar(&flagNoOptimize, "no-optimize", false,
		"skip the peephole pass over the generated code")

	rootCmd.AddCommand(replCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the process logger: human-readable console output when
// stderr is a terminal, JSON otherwise.
func newLogger() zerolog.Logger {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if level, err := zerolog.ParseLevel(strings.ToLower(flagLogLevel)); err == nil {
		log = log.Level(level)
	}
	return log
}

func run(cmd *cobra.Command, args []string) {
	log := newLogger()

	data, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatal().Err(err).Str("path", args[0]).Msg("cannot read source file")
	}
	src := string(data)

	if flagDumpTokens {
		tokens, err := compiler.Lex(src)
		if err != nil {
			log.Fatal().Err(err).Msg("lexing failed")
		}
		fmt.Printf("Tokens (%d)\n", len(tokens))
		for _, tok := range tokens {
			fmt.Println(" ", tok)
		}
		fmt.Println()
	}

	log.Info().Str("path", args[0]).Msg("parsing source code")
	parser := compiler.NewParser(src, log)
	stmts, err := parser.Parse()
	if err != nil {
		log.Fatal().Err(err).Msg("lexing failed")
	}

	if flagDumpAST {
		fmt.Println("AST")
		for _, s := range stmts {
			fmt.Println(" ", s)
		}
		fmt.Println()
	}

	log.Info().Msg("performing semantic analysis")
	checker := compiler.NewTypeChecker()
	if err := checker.Check(stmts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Fatal().Msg("compilation stopped due to semantic errors")
	}
	log.Info().Msg("no semantic errors found")

	log.Info().Msg("generating code")
	gen := compiler.NewCodeGenerator(log)
	instructions := gen.Generate(stmts)
	if !flagNoOptimize {
		log.Info().Msg("optimizing")
		instructions = compiler.Optimize(instructions)
	}

	fmt.Println("\nGenerated Code:")
	fmt.Println("----------------")
	fmt.Print(compiler.DumpInstructions(instructions))
}
