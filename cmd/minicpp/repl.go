package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"minicpp/pkg/compiler"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Compile snippets interactively and print the code for each",
	Args:  cobra.NoArgs,
	Run:   runREPL,
}

func runREPL(cmd *cobra.Command, args []string) {
	log := newLogger()
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		bufferedREPL(bufio.NewReader(os.Stdin), log)
		return
	}
	interactiveREPL(log)
}

func interactiveREPL(log zerolog.Logger) {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	historyPath := replHistoryPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			state.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				state.WriteHistory(f)
				f.Close()
			}
		}()
	}

	var buffer strings.Builder
	for {
		prompt := "minicpp> "
		if buffer.Len() > 0 {
			prompt = "....     "
		}
		input, err := state.Prompt(prompt)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				fmt.Println()
				buffer.Reset()
				continue
			case errors.Is(err, io.EOF):
				fmt.Println()
				return
			default:
				fmt.Fprintf(os.Stderr, "read error: %v\n", err)
				return
			}
		}
		buffer.WriteString(input)
		buffer.WriteString("\n")

		src := buffer.String()
		if !snippetComplete(src) {
			continue
		}
		buffer.Reset()
		if trimmed := strings.TrimSpace(src); trimmed != "" {
			state.AppendHistory(trimmed)
		}
		compileSnippet(src, log)
	}
}

// bufferedREPL reads statements from a pipe or file, compiling each complete
// snippet as it accumulates.
func bufferedREPL(reader *bufio.Reader, log zerolog.Logger) {
	var buffer strings.Builder
	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(os.Stderr, "read error: %v\n", err)
			return
		}
		buffer.WriteString(line)

		if src := buffer.String(); snippetComplete(src) {
			buffer.Reset()
			compileSnippet(src, log)
		}

		if errors.Is(err, io.EOF) {
			if src := strings.TrimSpace(buffer.String()); src != "" {
				compileSnippet(src, log)
			}
			return
		}
	}
}

func compileSnippet(src string, log zerolog.Logger) {
	instructions, err := compiler.Compile(src, compiler.WithLogger(log))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Print(compiler.DumpInstructions(instructions))
}

// snippetComplete reports whether buffered input looks like a whole
// statement or declaration: brackets balance and the text ends in ';' or
// '}'. Strings, character literals and comments are skipped so brackets
// inside them do not count.
func snippetComplete(src string) bool {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return false
	}

	depth := 0
	runes := []rune(src)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '"', '\'':
			quote := runes[i]
			for i++; i < len(runes); i++ {
				if runes[i] == '\\' {
					i++
				} else if runes[i] == quote {
					break
				}
			}
		case '/':
			if i+1 < len(runes) && runes[i+1] == '/' {
				for i++; i < len(runes) && runes[i] != '\n'; i++ {
				}
			} else if i+1 < len(runes) && runes[i+1] == '*' {
				i += 2
				for ; i+1 < len(runes); i++ {
					if runes[i] == '*' && runes[i+1] == '/' {
						i++
						break
					}
				}
			}
		case '(', '{':
			depth++
		case ')', '}':
			depth--
		}
	}
	if depth > 0 {
		return false
	}
	return strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, "}")
}

func replHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".minicpp_history")
}
