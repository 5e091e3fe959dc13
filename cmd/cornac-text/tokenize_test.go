package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/PreferredAI/Cornac/internal/testutil"
)

func TestTokenize_PrintsTokens(t *testing.T) {
	out, err := runCommand(t, "tokenize", "--text", "Nice <b>Movie</b>")
	if err != nil {
		t.Fatalf("tokenize: %v\n%s", err, out)
	}

	if got := strings.TrimSpace(out); got != "nice movie" {
		t.Errorf("tokenize output = %q, want %q", got, "nice movie")
	}
}

func TestTokenize_IDsUseFittedVocabulary(t *testing.T) {
	corpusPath := testutil.WriteCorpusJSON(t, testutil.SampleCorpus())
	vocabPath := filepath.Join(t.TempDir(), "vocab.json")

	if out, err := runCommand(t, "fit",
		"--corpus-path", corpusPath,
		"--vocab-path", vocabPath); err != nil {
		t.Fatalf("fit: %v\n%s", err, out)
	}

	out, err := runCommand(t, "tokenize", "--ids",
		"--vocab-path", vocabPath,
		"--text", "c b z")
	if err != nil {
		t.Fatalf("tokenize --ids: %v\n%s", err, out)
	}

	// "c" and "b" are the two most frequent terms; "z" maps to <UNK>.
	if got := strings.TrimSpace(out); got != "4 5 1" {
		t.Errorf("id output = %q, want %q", got, "4 5 1")
	}
}

func TestTokenize_ReadsStdin(t *testing.T) {
	root := NewRootCmd()
	root.SetIn(strings.NewReader("a b c\n"))

	var out strings.Builder
	root.SetOut(&out)
	root.SetArgs([]string{"tokenize"})

	if err := root.Execute(); err != nil {
		t.Fatalf("tokenize: %v", err)
	}

	if got := strings.TrimSpace(out.String()); got != "a b c" {
		t.Errorf("tokenize output = %q, want %q", got, "a b c")
	}
}

func TestTokenize_EmptyInputFails(t *testing.T) {
	root := NewRootCmd()
	root.SetIn(strings.NewReader(""))
	root.SetErr(&strings.Builder{})
	root.SetOut(&strings.Builder{})
	root.SetArgs([]string{"tokenize"})

	if err := root.Execute(); err == nil {
		t.Fatal("expected error for empty input")
	}
}
