package text

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// ---------------------------------------------------------------------------
// construction
// ---------------------------------------------------------------------------

func TestNewVocabulary_ReservedPrelude(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "plain tokens",
			input: []string{"a", "b"},
			want:  []string{PAD, UNK, BOS, EOS, "a", "b"},
		},
		{
			name:  "empty input",
			input: nil,
			want:  []string{PAD, UNK, BOS, EOS},
		},
		{
			name:  "reserved tokens moved to prelude",
			input: []string{"a", EOS, "b", PAD},
			want:  []string{PAD, UNK, BOS, EOS, "a", "b"},
		},
		{
			name:  "duplicate reserved tokens collapsed",
			input: []string{UNK, "a", UNK, UNK},
			want:  []string{PAD, UNK, BOS, EOS, "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVocabulary(tt.input)
			if got := v.Tokens(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokens() = %v, want %v", got, tt.want)
			}
			if v.Size() != len(tt.want) {
				t.Errorf("Size() = %d, want %d", v.Size(), len(tt.want))
			}
		})
	}
}

func TestNewVocabulary_DoesNotMutateInput(t *testing.T) {
	input := []string{"a", PAD, "b"}
	NewVocabulary(input)

	want := []string{"a", PAD, "b"}
	if !reflect.DeepEqual(input, want) {
		t.Errorf("input mutated to %v", input)
	}
}

// ---------------------------------------------------------------------------
// ToIdx / ToTokens / ToText
// ---------------------------------------------------------------------------

func TestToIdx_UnknownMapsToUNK(t *testing.T) {
	v := NewVocabulary([]string{"a", "b"})

	got := v.ToIdx([]string{"a", "nope", "b", ""})
	want := []int{4, 1, 5, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToIdx = %v, want %v", got, want)
	}
}

func TestToTokens_RoundTrip(t *testing.T) {
	v := NewVocabulary([]string{"a", "b", "c"})

	ids := []int{0, 1, 2, 3, 4, 5, 6}
	tokens, err := v.ToTokens(ids)
	if err != nil {
		t.Fatalf("ToTokens: %v", err)
	}

	if got := v.ToIdx(tokens); !reflect.DeepEqual(got, ids) {
		t.Errorf("ToIdx(ToTokens(ids)) = %v, want %v", got, ids)
	}
}

func TestToText_Joins(t *testing.T) {
	v := NewVocabulary([]string{"hello", "world"})

	got, err := v.ToText([]int{4, 5}, " ")
	if err != nil {
		t.Fatalf("ToText: %v", err)
	}
	if got != "hello world" {
		t.Errorf("ToText = %q, want %q", got, "hello world")
	}
}

func TestToTokens_OutOfRange(t *testing.T) {
	v := NewVocabulary([]string{"a"})

	for _, id := range []int{-1, 5, 100} {
		_, err := v.ToTokens([]int{id})
		if !errors.Is(err, ErrIDOutOfRange) {
			t.Errorf("ToTokens([%d]): err = %v, want ErrIDOutOfRange", id, err)
		}
	}
}

// ---------------------------------------------------------------------------
// VocabularyFromTokens / VocabularyFromSequences
// ---------------------------------------------------------------------------

func TestVocabularyFromTokens_FrequencyOrder(t *testing.T) {
	// c:4, b:3, d:2, then a, e, f tied at 1 in first-seen order.
	tokens := []string{
		"a", "b", "c",
		"b", "c", "d", "d",
		"c", "b", "e", "c", "f",
	}

	v := VocabularyFromTokens(tokens, 0, 1)
	want := []string{PAD, UNK, BOS, EOS, "c", "b", "d", "a", "e", "f"}
	if got := v.Tokens(); !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens() = %v, want %v", got, want)
	}
}

func TestVocabularyFromTokens_MinFreq(t *testing.T) {
	tokens := []string{"a", "a", "b", "c", "c", "c"}

	v := VocabularyFromTokens(tokens, 0, 2)
	want := []string{PAD, UNK, BOS, EOS, "c", "a"}
	if got := v.Tokens(); !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens() = %v, want %v", got, want)
	}
}

func TestVocabularyFromTokens_MaxVocab(t *testing.T) {
	tokens := []string{"a", "a", "a", "b", "b", "c"}

	v := VocabularyFromTokens(tokens, 2, 1)
	want := []string{PAD, UNK, BOS, EOS, "a", "b"}
	if got := v.Tokens(); !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens() = %v, want %v", got, want)
	}
}

func TestVocabularyFromSequences(t *testing.T) {
	seqs := [][]string{{"x", "y"}, {"y"}}

	v := VocabularyFromSequences(seqs, 0, 1)
	want := []string{PAD, UNK, BOS, EOS, "y", "x"}
	if got := v.Tokens(); !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens() = %v, want %v", got, want)
	}
}

func TestVocabularyFromTokens_DistinctCount(t *testing.T) {
	tokens := []string{"a", "b", "a", "c", "b", "a"}

	v := VocabularyFromTokens(tokens, 0, 1)
	if v.Size() != 4+3 {
		t.Errorf("Size() = %d, want %d", v.Size(), 4+3)
	}
}

// ---------------------------------------------------------------------------
// Save / Load
// ---------------------------------------------------------------------------

func TestSaveLoad_RoundTrip(t *testing.T) {
	v := VocabularyFromTokens([]string{"b", "a", "b"}, 0, 1)
	path := filepath.Join(t.TempDir(), "vocab.json")

	if err := v.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("LoadVocabulary: %v", err)
	}

	if !reflect.DeepEqual(loaded.Tokens(), v.Tokens()) {
		t.Errorf("loaded tokens %v, want %v", loaded.Tokens(), v.Tokens())
	}
}

func TestLoadVocabulary_MissingFile(t *testing.T) {
	_, err := LoadVocabulary(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadVocabulary_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, err := LoadVocabulary(path)
	if err == nil {
		t.Fatal("expected error for corrupt file")
	}
}

func TestSave_LeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	v := NewVocabulary([]string{"a"})

	if err := v.Save(filepath.Join(dir, "vocab.json")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "vocab.json" {
		t.Errorf("unexpected directory contents: %v", entries)
	}
}
