package main

import (
	"fmt"
	"log/slog"

	"github.com/PreferredAI/Cornac/internal/config"
	"github.com/PreferredAI/Cornac/internal/corpus"
	textpkg "github.com/PreferredAI/Cornac/text"
	"github.com/spf13/cobra"
)

func newFitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit a vocabulary and count matrix over a corpus and save the vocabulary",
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

			if err := m.Vocabulary().Save(cfg.Vocab.Path); err != nil {
				return err
			}

			counts := m.Counts()
			slog.Info("fit complete",
				slog.String("vocab_path", cfg.Vocab.Path),
				slog.Int("documents", counts.Rows()),
				slog.Int("terms", counts.Cols()),
				slog.Int("nnz", counts.NNZ()))

			fmt.Fprintf(cmd.OutOrStdout(), "fitted %d documents, %d terms (vocabulary saved to %s)\n",
				counts.Rows(), counts.Cols(), cfg.Vocab.Path)
			return nil
		},
	}

	return cmd
}

// buildModality translates the configuration into modality options, leaving
// the id-text mapping to the caller.
func buildModality(cfg config.Config) ([]textpkg.ModalityOption, error) {
	tok, err := buildTokenizer(cfg.Tokenizer)
	if err != nil {
		return nil, err
	}

	opts := []textpkg.ModalityOption{
		textpkg.WithModalityTokenizer(tok),
		textpkg.WithModalityMinFreq(cfg.Vocab.MinFreq),
		textpkg.WithModalityBinary(cfg.Vocab.Binary),
	}
	if cfg.Vocab.UseDocCount {
		opts = append(opts, textpkg.WithModalityMaxDocCount(cfg.Vocab.MaxDocCount))
	} else {
		opts = append(opts, textpkg.WithModalityMaxDocRatio(cfg.Vocab.MaxDocRatio))
	}
	if cfg.Vocab.MaxVocab > 0 {
		opts = append(opts, textpkg.WithMaxVocab(cfg.Vocab.MaxVocab))
	}

	return opts, nil
}

// loadCorpusAndIDMap reads the corpus and either the configured dense-id
// remap or a deterministic sequential one.
func loadCorpusAndIDMap(cfg config.Config) (map[string]string, map[string]int, error) {
	idText, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		return nil, nil, err
	}

	var idMap map[string]int
	if cfg.Corpus.IDMapPath != "" {
		idMap, err = corpus.LoadIDMap(cfg.Corpus.IDMapPath)
		if err != nil {
			return nil, nil, err
		}
	} else {
		idMap = corpus.SequentialIDMap(idText)
	}

	return idText, idMap, nil
}
