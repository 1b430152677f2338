package main

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/wbrown/corpus_reader/types"
)

// Detokenize
// Reads JSON lines of token sequences from in and writes each sequence
// back as text. With concat, tokens are joined with nothing between them,
// which restores alnum-group tokenized lines up to their dropped single
// spaces. Otherwise tokens are joined with single spaces and a newline
// is added.
func Detokenize(in io.Reader, out io.Writer, concat bool) (int, error) {
	reader := bufio.NewReaderSize(in, 1024*1024)
	writer := bufio.NewWriter(out)
	count := 0
	for {
		line, readErr := reader.ReadBytes('\n')
		if len(line) > 0 {
			tokens, err := types.TokenSequenceFromJSON(line)
			if err != nil {
				return count, errors.Wrapf(err, "line %d", count+1)
			}
			if concat {
				_, err = writer.WriteString(tokens.Concat())
			} else {
				_, err = writer.WriteString(tokens.Join(" ") + "\n")
			}
			if err != nil {
				return count, err
			}
			count++
		}
		if readErr == io.EOF {
			break
		} else if readErr != nil {
			return count, readErr
		}
	}
	return count, writer.Flush()
}

func DetokenizeHandler(cmd *cobra.Command, _ []string) error {
	inputFile, _ := cmd.Flags().GetString("input")
	outputFile, _ := cmd.Flags().GetString("output")
	joinSpaces, _ := cmd.Flags().GetBool("spaces")
	if inputFile == outputFile {
		return errors.New("input and output files must be different")
	}

	inputHandle, err := os.Open(inputFile)
	if err != nil {
		return err
	}
	defer inputHandle.Close()
	outputHandle, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer outputHandle.Close()

	count, err := Detokenize(inputHandle, outputHandle, !joinSpaces)
	if err != nil {
		return err
	}
	log.Printf("Detokenized %d lines into %s", count, outputFile)
	return nil
}

func NewCLI() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "detokenizer",
		Short:        "Turn JSON lines of tokens back into text",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         DetokenizeHandler,
	}
	cmd.Flags().String("input", "", "JSON lines file to detokenize")
	cmd.Flags().String("output", "detokenized.txt",
		"output file to write detokenized text")
	cmd.Flags().Bool("spaces", false,
		"join tokens with spaces instead of concatenating them")
	cmd.MarkFlagRequired("input")
	return cmd
}

func main() {
	if err := NewCLI().ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
