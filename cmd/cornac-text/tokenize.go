package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	textpkg "github.com/PreferredAI/Cornac/text"
	"github.com/spf13/cobra"
)

func newTokenizeCmd() *cobra.Command {
	var input string
	var asIDs bool

	cmd := &cobra.Command{
		Use:   "tokenize",
		Short: "Tokenize text and print tokens or vocabulary ids",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			text, err := readInputText(input, cmd.InOrStdin())
			if err != nil {
				return err
			}

			tok, err := buildTokenizer(cfg.Tokenizer)
			if err != nil {
				return err
			}
			tokens := tok.Tokenize(text)

			if !asIDs {
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(tokens, " "))
				return nil
			}

			vocab, err := textpkg.LoadVocabulary(cfg.Vocab.Path)
			if err != nil {
				return err
			}
			ids := vocab.ToIdx(tokens)
			out := make([]string, len(ids))
			for i, id := range ids {
				out[i] = fmt.Sprintf("%d", id)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(out, " "))
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "text", "", "Text to tokenize (if empty, read from stdin)")
	cmd.Flags().BoolVar(&asIDs, "ids", false, "Print vocabulary ids instead of tokens (requires --vocab-path)")

	return cmd
}

func readInputText(text string, stdin io.Reader) (string, error) {
	if strings.TrimSpace(text) != "" {
		return text, nil
	}

	if stdin == nil {
		stdin = os.Stdin
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	input := strings.TrimSpace(string(b))
	if input == "" {
		return "", fmt.Errorf("either provide --text or pipe text on stdin")
	}
	return input, nil
}
