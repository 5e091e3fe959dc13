// Package config loads command line configuration from flags, environment
// variables and an optional config file.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Corpus    CorpusConfig    `mapstructure:"corpus"`
	Vocab     VocabConfig     `mapstructure:"vocab"`
	Tokenizer TokenizerConfig `mapstructure:"tokenizer"`
	LogLevel  string          `mapstructure:"log_level"`
}

type CorpusConfig struct {
	Path      string `mapstructure:"path"`
	IDMapPath string `mapstructure:"id_map_path"`
}

type VocabConfig struct {
	Path        string  `mapstructure:"path"`
	MaxVocab    int     `mapstructure:"max_vocab"`
	MinFreq     int     `mapstructure:"min_freq"`
	MaxDocRatio float64 `mapstructure:"max_doc_ratio"`
	MaxDocCount int     `mapstructure:"max_doc_count"`
	// UseDocCount selects the absolute-count document-frequency limit
	// instead of the proportional one.
	UseDocCount bool `mapstructure:"use_doc_count"`
	Binary      bool `mapstructure:"binary"`
}

type TokenizerConfig struct {
	Sep  string `mapstructure:"sep"`
	Kind string `mapstructure:"kind"` // "word" or "char"
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		Corpus: CorpusConfig{
			Path:      "",
			IDMapPath: "",
		},
		Vocab: VocabConfig{
			Path:        "vocab.json",
			MaxVocab:    0,
			MinFreq:     1,
			MaxDocRatio: 1.0,
			MaxDocCount: 0,
			UseDocCount: false,
			Binary:      false,
		},
		Tokenizer: TokenizerConfig{
			Sep:  " ",
			Kind: "word",
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("corpus-path", defaults.Corpus.Path, "Path to corpus file (.json object or .tsv id<TAB>text)")
	fs.String("corpus-id-map-path", defaults.Corpus.IDMapPath, "Path to raw-id → dense-id JSON map (optional)")
	fs.String("vocab-path", defaults.Vocab.Path, "Path to vocabulary file")
	fs.Int("vocab-max-vocab", defaults.Vocab.MaxVocab, "Maximum vocabulary size (0 = unlimited)")
	fs.Int("vocab-min-freq", defaults.Vocab.MinFreq, "Minimum corpus frequency for vocabulary terms")
	fs.Float64("vocab-max-doc-ratio", defaults.Vocab.MaxDocRatio, "Maximum document-frequency proportion for vocabulary terms")
	fs.Int("vocab-max-doc-count", defaults.Vocab.MaxDocCount, "Maximum absolute document frequency (used with --vocab-use-doc-count)")
	fs.Bool("vocab-use-doc-count", defaults.Vocab.UseDocCount, "Interpret the document-frequency limit as an absolute count")
	fs.Bool("vocab-binary", defaults.Vocab.Binary, "Clamp nonzero counts to 1")
	fs.String("tokenizer-sep", defaults.Tokenizer.Sep, "Token separator")
	fs.String("tokenizer-kind", defaults.Tokenizer.Kind, "Tokenizer kind (word|char)")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}
	registerAliases(v)

	v.SetEnvPrefix("CORNAC_TEXT")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("cornac-text")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("corpus.path", c.Corpus.Path)
	v.SetDefault("corpus.id_map_path", c.Corpus.IDMapPath)
	v.SetDefault("vocab.path", c.Vocab.Path)
	v.SetDefault("vocab.max_vocab", c.Vocab.MaxVocab)
	v.SetDefault("vocab.min_freq", c.Vocab.MinFreq)
	v.SetDefault("vocab.max_doc_ratio", c.Vocab.MaxDocRatio)
	v.SetDefault("vocab.max_doc_count", c.Vocab.MaxDocCount)
	v.SetDefault("vocab.use_doc_count", c.Vocab.UseDocCount)
	v.SetDefault("vocab.binary", c.Vocab.Binary)
	v.SetDefault("tokenizer.sep", c.Tokenizer.Sep)
	v.SetDefault("tokenizer.kind", c.Tokenizer.Kind)
	v.SetDefault("log_level", c.LogLevel)
}

func registerAliases(v *viper.Viper) {
	v.RegisterAlias("corpus.path", "corpus-path")
	v.RegisterAlias("corpus.id_map_path", "corpus-id-map-path")
	v.RegisterAlias("vocab.path", "vocab-path")
	v.RegisterAlias("vocab.max_vocab", "vocab-max-vocab")
	v.RegisterAlias("vocab.min_freq", "vocab-min-freq")
	v.RegisterAlias("vocab.max_doc_ratio", "vocab-max-doc-ratio")
	v.RegisterAlias("vocab.max_doc_count", "vocab-max-doc-count")
	v.RegisterAlias("vocab.use_doc_count", "vocab-use-doc-count")
	v.RegisterAlias("vocab.binary", "vocab-binary")
	v.RegisterAlias("tokenizer.sep", "tokenizer-sep")
	v.RegisterAlias("tokenizer.kind", "tokenizer-kind")
	v.RegisterAlias("log_level", "log-level")
}
