package main

import (
	"fmt"
	"strconv"

	textpkg "github.com/PreferredAI/Cornac/text"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newVocabCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Inspect vocabularies",
	}

	cmd.AddCommand(newVocabShowCmd())
	cmd.AddCommand(newVocabTopCmd())

	return cmd
}

func newVocabShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the size and reserved prelude of a saved vocabulary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			vocab, err := textpkg.LoadVocabulary(cfg.Vocab.Path)
			if err != nil {
				return err
			}

			tokens := vocab.Tokens()
			fmt.Fprintf(cmd.OutOrStdout(), "vocabulary %s: %d tokens (%d reserved)\n",
				cfg.Vocab.Path, vocab.Size(), 4)
			fmt.Fprintf(cmd.OutOrStdout(), "reserved prelude: %v\n", tokens[:4])
			return nil
		},
	}
}

func newVocabTopCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Fit over the corpus and print the top terms with their document frequencies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			if cfg.Corpus.Path == "" {
				return fmt.Errorf("--corpus-path is required")
			}

			modality, err := buildModality(cfg)
			if err != nil {
				return err
			}
			idText, idMap, err := loadCorpusAndIDMap(cfg)
			if err != nil {
				return err
			}

			opts := append(modality, textpkg.WithIDText(idText))
			m := textpkg.NewTextModality(opts...)
			if err := m.Build(idMap); err != nil {
				return err
			}

			// Terms are already in frequency-descending order; the matrix
			// supplies per-term document frequencies.
			terms := m.Vocabulary().Tokens()[4:]
			df := m.Counts().DocFreq()
			if limit > 0 && limit < len(terms) {
				terms = terms[:limit]
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Rank", "Term", "Doc Freq"})
			for i, term := range terms {
				table.Append([]string{strconv.Itoa(i + 1), term, strconv.Itoa(df[i])})
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of terms to show (0 = all)")

	return cmd
}
