package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wbrown/corpus_reader"
	"github.com/wbrown/corpus_reader/types"
)

// A REPL for interacting with the corpus readers' tokenizers.

const prompt = ">>> "

// RunREPL
// Reads lines from in, tokenizes each one and prints the tokens to out.
// A literal `\n` in the input is replaced by a newline, and every line is
// handed to the tokenizer with its terminator, as a reader would see it.
// Tokenization errors are printed and the loop continues; EOF ends it.
func RunREPL(
	in io.Reader,
	out io.Writer,
	tokenize func(types.Line) (types.TokenSequence, error),
) error {
	reader := bufio.NewReader(in)
	for number := 1; ; number++ {
		fmt.Fprint(out, prompt)
		input, err := reader.ReadString('\n')
		if input == "" && err == io.EOF {
			fmt.Fprintln(out)
			return nil
		} else if err != nil && err != io.EOF {
			return err
		}
		input = strings.TrimSuffix(input, "\n")
		input = strings.Replace(input, "\\n", "\n", -1) + "\n"

		tokens, tokErr := tokenize(types.Line{
			Path:   "<stdin>",
			Number: number,
			Text:   input,
		})
		if tokErr != nil {
			fmt.Fprintf(out, "error: %v\n", tokErr)
			continue
		}
		fmt.Fprintf(out, "%q\n", []string(tokens))
		for _, token := range tokens {
			fmt.Fprintf(out, "|%s", strings.TrimSuffix(token, "\n"))
		}
		fmt.Fprintf(out, "|\n")
	}
}

func NewCLI() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "tokenizer_repl",
		Short:        "Interactively tokenize lines with a corpus reader",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := corpus_reader.ReaderOptions{}
			opts.Tokenizer, _ = cmd.Flags().GetString("reader")
			opts.Column, _ = cmd.Flags().GetInt("column")
			opts.Delimiter, _ = cmd.Flags().GetString("delimiter")
			opts.QuoteChar, _ = cmd.Flags().GetString("quote")
			if opts.Delimiter == "\\t" {
				opts.Delimiter = "\t"
			}
			reader, err := corpus_reader.NewReader(opts)
			if err != nil {
				return err
			}
			return RunREPL(cmd.InOrStdin(), cmd.OutOrStdout(),
				reader.LineTokenizer())
		},
	}
	cmd.Flags().String("reader", corpus_reader.T2TTokenizer,
		"reader whose tokenizer to use: plain, t2t, treebank, csv, tsv, "+
			"column")
	cmd.Flags().Int("column", 1, "1-based column for delimited readers")
	cmd.Flags().String("delimiter", "", "field delimiter for delimited readers")
	cmd.Flags().String("quote", "", "quote character for delimited readers")
	return cmd
}

func main() {
	cmd := NewCLI()
	cmd.SetIn(os.Stdin)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
