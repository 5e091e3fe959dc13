package text

import (
	"errors"
	"reflect"
	"sync"
	"testing"
)

// builtModality returns a modality built over the three-document corpus with
// raw ids u0..u2 mapped to dense ids 0..2.
func builtModality(t *testing.T, opts ...ModalityOption) *TextModality {
	t.Helper()

	idText := map[string]string{
		"u0": "a b c",
		"u1": "b c d d",
		"u2": "c b e c f",
	}
	idMap := map[string]int{"u0": 0, "u1": 1, "u2": 2}

	m := NewTextModality(append([]ModalityOption{WithIDText(idText)}, opts...)...)
	if err := m.Build(idMap); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

// ---------------------------------------------------------------------------
// Build
// ---------------------------------------------------------------------------

func TestBuild_StoresAlignedState(t *testing.T) {
	m := builtModality(t)

	if m.Vocabulary() == nil || m.Counts() == nil || m.Sequences() == nil {
		t.Fatal("expected vocabulary, counts and sequences after Build")
	}
	if got := len(m.Sequences()); got != m.Counts().Rows() {
		t.Errorf("len(sequences) = %d, counts rows = %d", got, m.Counts().Rows())
	}

	// Sequences hold final vocabulary ids: vocab is c=4, b=5, d=6, a=7,
	// e=8, f=9.
	want := [][]int{
		{7, 5, 4},
		{5, 4, 6, 6},
		{4, 5, 8, 4, 9},
	}
	if got := m.Sequences(); !reflect.DeepEqual(got, want) {
		t.Errorf("Sequences() = %v, want %v", got, want)
	}
}

func TestBuild_ReordersByDenseID(t *testing.T) {
	idText := map[string]string{
		"x": "only x",
		"y": "only y",
	}
	// y comes first in dense order.
	idMap := map[string]int{"y": 0, "x": 1}

	m := NewTextModality(WithIDText(idText))
	if err := m.Build(idMap); err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Row 0 must be y's text: its distinguishing token maps to a column.
	tokens := m.Vocabulary().Tokens()
	seq0, err := m.Vocabulary().ToTokens(m.Sequences()[0])
	if err != nil {
		t.Fatalf("ToTokens: %v", err)
	}
	if !reflect.DeepEqual(seq0, []string{"only", "y"}) {
		t.Errorf("row 0 tokens = %v (vocab %v), want [only y]", seq0, tokens)
	}
}

func TestBuild_SkipsIDsWithoutText(t *testing.T) {
	idText := map[string]string{
		"u0": "a b",
		"u2": "b c",
	}
	idMap := map[string]int{"u0": 0, "u1": 1, "u2": 2}

	m := NewTextModality(WithIDText(idText))
	if err := m.Build(idMap); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if got := len(m.Sequences()); got != 2 {
		t.Errorf("len(sequences) = %d, want 2", got)
	}
	if got := m.Counts().Rows(); got != 2 {
		t.Errorf("counts rows = %d, want 2", got)
	}
}

func TestBuild_WithoutTextIsNoop(t *testing.T) {
	m := NewTextModality()
	if err := m.Build(map[string]int{"u0": 0}); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if m.Sequences() != nil || m.Counts() != nil {
		t.Error("expected no state without an id-text mapping")
	}
}

func TestBuild_PrunedTermsMapToUNKInSequences(t *testing.T) {
	// Doc-count limit 2 drops b and c; their sequence positions fall back
	// to the UNK id against the pruned vocabulary.
	m := builtModality(t, WithModalityMaxDocCount(2))

	wantVocab := []string{PAD, UNK, BOS, EOS, "d", "a", "e", "f"}
	if got := m.Vocabulary().Tokens(); !reflect.DeepEqual(got, wantVocab) {
		t.Fatalf("vocabulary = %v, want %v", got, wantVocab)
	}

	want := [][]int{
		{5, 1, 1},
		{1, 1, 4, 4},
		{1, 1, 6, 1, 7},
	}
	if got := m.Sequences(); !reflect.DeepEqual(got, want) {
		t.Errorf("Sequences() = %v, want %v", got, want)
	}
}

func TestBuild_MaxVocabCapsFeatures(t *testing.T) {
	m := builtModality(t, WithModalityMaxDocCount(2), WithMaxVocab(1))

	wantVocab := []string{PAD, UNK, BOS, EOS, "d"}
	if got := m.Vocabulary().Tokens(); !reflect.DeepEqual(got, wantVocab) {
		t.Fatalf("vocabulary = %v, want %v", got, wantVocab)
	}

	wantDense := [][]int{{0}, {2}, {0}}
	if got := m.Counts().Dense(); !reflect.DeepEqual(got, wantDense) {
		t.Errorf("counts = %v, want %v", got, wantDense)
	}
}

func TestBuild_BinaryClampsStoredCounts(t *testing.T) {
	m := builtModality(t, WithModalityBinary(true))

	// "b c d d" and the double "c" row collapse to all-ones counts.
	want := [][]int{
		{1, 1, 0, 1, 0, 0},
		{1, 1, 1, 0, 0, 0},
		{1, 1, 0, 0, 1, 1},
	}
	if got := m.Counts().Dense(); !reflect.DeepEqual(got, want) {
		t.Errorf("counts = %v, want %v", got, want)
	}
}

// ---------------------------------------------------------------------------
// BatchSeq
// ---------------------------------------------------------------------------

func TestBatchSeq_InferredLength(t *testing.T) {
	m := builtModality(t)

	got, err := m.BatchSeq([]int{0, 2}, 0)
	if err != nil {
		t.Fatalf("BatchSeq: %v", err)
	}

	// Longest requested sequence has 5 tokens; shorter rows are
	// right-padded with PAD (0).
	want := [][]int{
		{7, 5, 4, 0, 0},
		{4, 5, 8, 4, 9},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BatchSeq = %v, want %v", got, want)
	}
}

func TestBatchSeq_ExplicitLength(t *testing.T) {
	m := builtModality(t)

	got, err := m.BatchSeq([]int{1, 2}, 2)
	if err != nil {
		t.Fatalf("BatchSeq: %v", err)
	}

	// Longer rows are truncated.
	want := [][]int{
		{5, 4},
		{4, 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BatchSeq = %v, want %v", got, want)
	}
}

func TestBatchSeq_WidthMatchesMaxLength(t *testing.T) {
	m := builtModality(t)

	got, err := m.BatchSeq([]int{0}, 10)
	if err != nil {
		t.Fatalf("BatchSeq: %v", err)
	}
	if len(got[0]) != 10 {
		t.Errorf("row width = %d, want 10", len(got[0]))
	}
}

func TestBatchSeq_BeforeBuild(t *testing.T) {
	m := NewTextModality(WithIDText(map[string]string{"u0": "a"}))

	_, err := m.BatchSeq([]int{0}, 0)
	if !errors.Is(err, ErrSequencesNotBuilt) {
		t.Fatalf("err = %v, want ErrSequencesNotBuilt", err)
	}
}

func TestBatchSeq_OutOfRangeID(t *testing.T) {
	m := builtModality(t)

	_, err := m.BatchSeq([]int{99}, 0)
	if !errors.Is(err, ErrIDOutOfRange) {
		t.Fatalf("err = %v, want ErrIDOutOfRange", err)
	}
}

// ---------------------------------------------------------------------------
// BatchBOW
// ---------------------------------------------------------------------------

func TestBatchBOW_RowsMatchFittedMatrix(t *testing.T) {
	m := builtModality(t)

	got, err := m.BatchBOW([]int{2, 0}, false)
	if err != nil {
		t.Fatalf("BatchBOW: %v", err)
	}

	full := m.Counts().Dense()
	want := [][]int{full[2], full[0]}
	if !reflect.DeepEqual(got.Dense(), want) {
		t.Errorf("BatchBOW = %v, want %v", got.Dense(), want)
	}
}

func TestBatchBOW_BinaryDoesNotMutateStoredCounts(t *testing.T) {
	m := builtModality(t)
	before := m.Counts().Dense()

	sub, err := m.BatchBOW([]int{1}, true)
	if err != nil {
		t.Fatalf("BatchBOW: %v", err)
	}
	_, rowCounts := m.Counts().Row(1)
	if sub.NNZ() != len(rowCounts) {
		t.Errorf("binarization changed the sparsity pattern")
	}

	if got := m.Counts().Dense(); !reflect.DeepEqual(got, before) {
		t.Errorf("stored counts mutated: %v", got)
	}
}

func TestBatchBOW_BeforeBuild(t *testing.T) {
	m := NewTextModality(WithIDText(map[string]string{"u0": "a"}))

	_, err := m.BatchBOW([]int{0}, false)
	if !errors.Is(err, ErrCountsNotBuilt) {
		t.Fatalf("err = %v, want ErrCountsNotBuilt", err)
	}
}

// ---------------------------------------------------------------------------
// BatchTFIDF
// ---------------------------------------------------------------------------

func TestBatchTFIDF_NotImplemented(t *testing.T) {
	m := builtModality(t)

	_, err := m.BatchTFIDF([]int{0})
	if !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("err = %v, want ErrNotImplemented", err)
	}
}

// ---------------------------------------------------------------------------
// Concurrency
// ---------------------------------------------------------------------------

func TestBatchAccessors_ConcurrentReads(t *testing.T) {
	m := builtModality(t)

	wantSeq, err := m.BatchSeq([]int{0, 1, 2}, 0)
	if err != nil {
		t.Fatalf("BatchSeq: %v", err)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				seq, err := m.BatchSeq([]int{0, 1, 2}, 0)
				if err != nil {
					t.Errorf("BatchSeq: %v", err)
					return
				}
				if !reflect.DeepEqual(seq, wantSeq) {
					t.Errorf("BatchSeq = %v, want %v", seq, wantSeq)
					return
				}

				// Binarizing one reader's copy must not disturb the others.
				if _, err := m.BatchBOW([]int{2, 1}, true); err != nil {
					t.Errorf("BatchBOW: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if m.Counts().Dense()[1][2] != 2 {
		t.Error("stored counts mutated by concurrent binarized reads")
	}
}
