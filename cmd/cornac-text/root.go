package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/PreferredAI/Cornac/internal/config"
	textpkg "github.com/PreferredAI/Cornac/text"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	activeCfg config.Config
	cfgLoaded bool
)

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "cornac-text",
		Short: "Text feature tooling: vocabularies, token sequences and bag-of-words counts",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			cfgLoaded = true
			setupLogger(loaded.LogLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(newFitCmd())
	cmd.AddCommand(newTokenizeCmd())
	cmd.AddCommand(newVocabCmd())
	cmd.AddCommand(newDoctorCmd())

	return cmd
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(levelStr string) {
	lvl, err := parseLogLevel(levelStr)
	if err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func requireConfig() (config.Config, error) {
	if !cfgLoaded {
		return config.Config{}, fmt.Errorf("configuration not loaded")
	}
	return activeCfg, nil
}

// buildTokenizer constructs the configured tokenizer.
func buildTokenizer(cfg config.TokenizerConfig) (textpkg.Tokenizer, error) {
	switch cfg.Kind {
	case "", "word":
		return textpkg.NewBaseTokenizer(textpkg.WithSep(cfg.Sep)), nil
	case "char":
		return textpkg.NewCharTokenizer(), nil
	default:
		return nil, fmt.Errorf("unknown tokenizer kind %q (word|char)", cfg.Kind)
	}
}
