package text

import (
	"regexp"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
)

// Tokenizer splits raw text into an ordered token sequence.
type Tokenizer interface {
	// Tokenize splits a single text unit into tokens.
	Tokenize(t string) []string
	// BatchTokenize splits a corpus of text units, one token sequence per
	// input, preserving input order.
	BatchTokenize(texts []string) [][]string
}

// RewriteRule is a pure text transformation applied before splitting.
type RewriteRule func(string) string

var (
	tagPattern     = regexp.MustCompile(`<([^>]+)>`)
	numericPattern = regexp.MustCompile(`[0-9]+`)
	spacePattern   = regexp.MustCompile(` {2,}`)
)

// Lowercase converts text to lower case.
func Lowercase(t string) string { return strings.ToLower(t) }

// StripTags removes markup tags,
// e.g. StripTags("<i>Hello</i> <b>World</b>!") -> "Hello World!".
func StripTags(t string) string { return tagPattern.ReplaceAllString(t, "") }

// StripNumeric replaces digit runs with a single space.
func StripNumeric(t string) string { return numericPattern.ReplaceAllString(t, " ") }

// StripPunctuation removes !"#$%&'()*+,-./:;<=>?@[\]^_`{|}~ from text.
func StripPunctuation(t string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", r) {
			return -1
		}
		return r
	}, t)
}

// CollapseSpaces collapses runs of two or more spaces into one.
func CollapseSpaces(t string) string { return spacePattern.ReplaceAllString(t, " ") }

// DefaultRules returns the stock rewrite rule chain in application order.
func DefaultRules() []RewriteRule {
	return []RewriteRule{Lowercase, StripTags, StripNumeric, StripPunctuation, CollapseSpaces}
}

// BaseTokenizer applies an ordered list of rewrite rules and then splits the
// result on a separator.
type BaseTokenizer struct {
	sep   string
	rules []RewriteRule
}

// TokenizerOption customizes a BaseTokenizer or CharTokenizer.
type TokenizerOption func(*BaseTokenizer)

// WithSep sets the split separator. Default is a single space.
func WithSep(sep string) TokenizerOption {
	return func(b *BaseTokenizer) { b.sep = sep }
}

// WithRules replaces the rewrite rule chain. Rules are applied strictly in
// the given order before splitting.
func WithRules(rules ...RewriteRule) TokenizerOption {
	return func(b *BaseTokenizer) { b.rules = rules }
}

// NewBaseTokenizer creates a tokenizer with the default separator and the
// default rewrite rules, both overridable via options.
func NewBaseTokenizer(opts ...TokenizerOption) *BaseTokenizer {
	b := &BaseTokenizer{sep: " ", rules: DefaultRules()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Tokenize applies the rewrite rules in order and splits on the separator.
func (b *BaseTokenizer) Tokenize(t string) []string {
	for _, rule := range b.rules {
		t = rule(t)
	}
	return strings.Split(t, b.sep)
}

// BatchTokenize tokenizes a corpus, one token sequence per document in the
// input order.
func (b *BaseTokenizer) BatchTokenize(texts []string) [][]string {
	return parallelTokenize(texts, b.Tokenize)
}

// CharTokenizer applies the same rewrite rules as BaseTokenizer but splits
// the result into single-rune tokens, skipping spaces.
type CharTokenizer struct {
	rules []RewriteRule
}

// NewCharTokenizer creates a character-level tokenizer. The separator option
// is ignored since splitting is per rune.
func NewCharTokenizer(opts ...TokenizerOption) *CharTokenizer {
	b := &BaseTokenizer{rules: DefaultRules()}
	for _, opt := range opts {
		opt(b)
	}
	return &CharTokenizer{rules: b.rules}
}

// Tokenize applies the rewrite rules in order and splits into runes,
// dropping spaces.
func (c *CharTokenizer) Tokenize(t string) []string {
	for _, rule := range c.rules {
		t = rule(t)
	}
	tokens := make([]string, 0, len(t))
	for _, r := range t {
		if r == ' ' {
			continue
		}
		tokens = append(tokens, string(r))
	}
	return tokens
}

// BatchTokenize tokenizes a corpus, one token sequence per document in the
// input order.
func (c *CharTokenizer) BatchTokenize(texts []string) [][]string {
	return parallelTokenize(texts, c.Tokenize)
}

// parallelTokenize fans tokenization out across GOMAXPROCS workers. Results
// are written by input index, so output order always matches input order.
func parallelTokenize(texts []string, tokenize func(string) []string) [][]string {
	out := make([][]string, len(texts))

	workers := runtime.GOMAXPROCS(0)
	if workers > len(texts) {
		workers = len(texts)
	}
	if workers <= 1 {
		for i, t := range texts {
			out[i] = tokenize(t)
		}
		return out
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= len(texts) {
					return
				}
				out[i] = tokenize(texts[i])
			}
		}()
	}
	wg.Wait()

	return out
}
