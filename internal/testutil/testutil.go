// Package testutil provides shared fixture helpers for tests that drive the
// command line tools against corpus and vocabulary files on disk.
//
// Typical usage:
//
//	func TestFit(t *testing.T) {
//	    corpusPath := testutil.WriteCorpusJSON(t, testutil.SampleCorpus())
//	    ...
//	}
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SampleCorpus returns a small raw-id → text mapping with known term
// statistics, shared by CLI tests.
func SampleCorpus() map[string]string {
	return map[string]string{
		"u0": "a b c",
		"u1": "b c d d",
		"u2": "c b e c f",
	}
}

// WriteCorpusJSON writes idText as a JSON corpus file in a temp dir and
// returns its path.
func WriteCorpusJSON(tb testing.TB, idText map[string]string) string {
	tb.Helper()

	b, err := json.Marshal(idText)
	if err != nil {
		tb.Fatalf("marshal corpus: %v", err)
	}

	path := filepath.Join(tb.TempDir(), "corpus.json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		tb.Fatalf("write corpus: %v", err)
	}
	return path
}

// WriteCorpusTSV writes idText as id<TAB>text lines in a temp dir and
// returns the file path. Iteration order is not specified; callers that
// care about line order should not.
func WriteCorpusTSV(tb testing.TB, idText map[string]string) string {
	tb.Helper()

	var sb strings.Builder
	for id, text := range idText {
		sb.WriteString(id)
		sb.WriteByte('\t')
		sb.WriteString(text)
		sb.WriteByte('\n')
	}

	path := filepath.Join(tb.TempDir(), "corpus.tsv")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		tb.Fatalf("write corpus: %v", err)
	}
	return path
}

// WriteIDMapJSON writes a raw-id → dense-id JSON map in a temp dir and
// returns its path.
func WriteIDMapJSON(tb testing.TB, idMap map[string]int) string {
	tb.Helper()

	b, err := json.Marshal(idMap)
	if err != nil {
		tb.Fatalf("marshal id map: %v", err)
	}

	path := filepath.Join(tb.TempDir(), "idmap.json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		tb.Fatalf("write id map: %v", err)
	}
	return path
}
