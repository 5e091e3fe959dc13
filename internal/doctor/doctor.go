// Package doctor provides preflight checks for cornac-text.
package doctor

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	textpkg "github.com/PreferredAI/Cornac/text"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// CorpusFunc loads the corpus and returns its document count or an error.
type CorpusFunc func() (int, error)

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// LoadCorpus loads the configured corpus file.
	LoadCorpus CorpusFunc
	// SkipCorpus skips the corpus check when no corpus path is configured.
	SkipCorpus bool
	// VocabPath is the vocabulary file to verify, empty to skip.
	VocabPath string
	// MinFreq and the document-frequency limit are the configured fitting
	// parameters. UseDocCount selects which limit is active, matching what
	// fit will actually run with.
	MinFreq     int
	MaxDocRatio float64
	MaxDocCount int
	UseDocCount bool
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- corpus file ------------------------------------------------------
	if cfg.SkipCorpus {
		fmt.Fprintf(w, "%s corpus file: skipped\n", PassMark)
	} else {
		n, err := cfg.LoadCorpus()
		if err != nil {
			res.fail(fmt.Sprintf("corpus file: %v", err))
			fmt.Fprintf(w, "%s corpus file: unreadable (%v)\n", FailMark, err)
		} else if n == 0 {
			res.fail("corpus file: no documents")
			fmt.Fprintf(w, "%s corpus file: empty\n", FailMark)
		} else {
			fmt.Fprintf(w, "%s corpus file: %d documents\n", PassMark, n)
		}
	}

	// ---- vocabulary file --------------------------------------------------
	if cfg.VocabPath == "" {
		fmt.Fprintf(w, "%s vocabulary file: skipped\n", PassMark)
	} else if _, err := os.Stat(cfg.VocabPath); errors.Is(err, fs.ErrNotExist) {
		// A vocabulary that has not been fitted yet is not a failure.
		fmt.Fprintf(w, "%s vocabulary file %s: not present (fit will create it)\n", PassMark, cfg.VocabPath)
	} else {
		vocab, err := textpkg.LoadVocabulary(cfg.VocabPath)
		if err != nil {
			res.fail(fmt.Sprintf("vocabulary file %q: %v", cfg.VocabPath, err))
			fmt.Fprintf(w, "%s vocabulary file %s: unreadable (%v)\n", FailMark, cfg.VocabPath, err)
		} else {
			fmt.Fprintf(w, "%s vocabulary file: %d tokens\n", PassMark, vocab.Size())
		}
	}

	// ---- fitting parameters -----------------------------------------------
	limitName, limitBad := "max doc ratio", cfg.MaxDocRatio < 0
	limitValue := fmt.Sprintf("%v", cfg.MaxDocRatio)
	if cfg.UseDocCount {
		limitName, limitBad = "max doc count", cfg.MaxDocCount < 0
		limitValue = fmt.Sprintf("%d", cfg.MaxDocCount)
	}

	if cfg.MinFreq < 0 || limitBad {
		res.fail(fmt.Sprintf("fit parameters: min freq %d, %s %s must be non-negative",
			cfg.MinFreq, limitName, limitValue))
		fmt.Fprintf(w, "%s fit parameters: negative threshold\n", FailMark)
	} else {
		fmt.Fprintf(w, "%s fit parameters: min freq %d, %s %s\n", PassMark, cfg.MinFreq, limitName, limitValue)
	}

	return res
}
