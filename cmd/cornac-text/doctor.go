package main

import (
	"fmt"

	"github.com/PreferredAI/Cornac/internal/corpus"
	"github.com/PreferredAI/Cornac/internal/doctor"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the configured corpus, vocabulary and parameters are usable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			dcfg := doctor.Config{
				SkipCorpus: cfg.Corpus.Path == "",
				LoadCorpus: func() (int, error) {
					idText, err := corpus.Load(cfg.Corpus.Path)
					if err != nil {
						return 0, err
					}
					return len(idText), nil
				},
				VocabPath:   cfg.Vocab.Path,
				MinFreq:     cfg.Vocab.MinFreq,
				MaxDocRatio: cfg.Vocab.MaxDocRatio,
				MaxDocCount: cfg.Vocab.MaxDocCount,
				UseDocCount: cfg.Vocab.UseDocCount,
			}

			res := doctor.Run(dcfg, cmd.OutOrStdout())
			if res.Failed() {
				return fmt.Errorf("doctor found %d problem(s)", len(res.Failures()))
			}
			return nil
		},
	}
}
