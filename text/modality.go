package text

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
)

var (
	// ErrSequencesNotBuilt is returned by BatchSeq before Build has run.
	ErrSequencesNotBuilt = errors.New("sequences are not built; call Build first")
	// ErrCountsNotBuilt is returned by BatchBOW before Build has run.
	ErrCountsNotBuilt = errors.New("counts are not built; call Build first")
	// ErrNotImplemented marks the reserved TF-IDF extension point.
	ErrNotImplemented = errors.New("tfidf features are not implemented")
)

// TextModality aligns raw per-entity text with the dataset's dense ids and
// exposes batch accessors over the resulting token-id sequences and
// bag-of-words counts. Build runs once; afterwards the modality is read-only
// and the batch accessors are safe for concurrent callers.
type TextModality struct {
	idText    map[string]string
	tokenizer Tokenizer
	vocab     *Vocabulary
	maxVocab  int

	maxDocRatio   float64
	maxDocCount   int
	maxDocIsCount bool
	minFreq       int
	binary        bool

	logger *slog.Logger

	sequences [][]int
	counts    *SparseMatrix
}

// ModalityOption customizes a TextModality.
type ModalityOption func(*TextModality)

// WithIDText supplies the raw entity id → text mapping.
func WithIDText(idText map[string]string) ModalityOption {
	return func(m *TextModality) { m.idText = idText }
}

// WithModalityTokenizer sets the tokenizer used at build time.
func WithModalityTokenizer(tok Tokenizer) ModalityOption {
	return func(m *TextModality) { m.tokenizer = tok }
}

// WithModalityVocabulary supplies a pre-built vocabulary; the frequency
// thresholds and max vocab are then ignored and pruning is disabled.
func WithModalityVocabulary(vocab *Vocabulary) ModalityOption {
	return func(m *TextModality) { m.vocab = vocab }
}

// WithMaxVocab caps the fitted vocabulary at n terms.
func WithMaxVocab(n int) ModalityOption {
	return func(m *TextModality) { m.maxVocab = n }
}

// WithModalityMaxDocRatio limits terms by document-frequency proportion.
func WithModalityMaxDocRatio(ratio float64) ModalityOption {
	return func(m *TextModality) {
		m.maxDocRatio = ratio
		m.maxDocIsCount = false
	}
}

// WithModalityMaxDocCount limits terms by absolute document frequency.
func WithModalityMaxDocCount(n int) ModalityOption {
	return func(m *TextModality) {
		m.maxDocCount = n
		m.maxDocIsCount = true
	}
}

// WithModalityMinFreq sets the minimum corpus frequency for vocabulary
// terms.
func WithModalityMinFreq(n int) ModalityOption {
	return func(m *TextModality) { m.minFreq = n }
}

// WithModalityBinary clamps the stored counts to 1 at build time.
func WithModalityBinary(binary bool) ModalityOption {
	return func(m *TextModality) { m.binary = binary }
}

// WithLogger sets the logger used during Build. Default is slog.Default().
func WithLogger(logger *slog.Logger) ModalityOption {
	return func(m *TextModality) { m.logger = logger }
}

// NewTextModality creates a modality. Build must be called with the global
// id map before the batch accessors are usable.
func NewTextModality(opts ...ModalityOption) *TextModality {
	m := &TextModality{maxDocRatio: 1.0, minFreq: 1}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// Build reorders the raw texts into dense-id order 0..N-1, fits the
// vectorizer over them, and stores the final vocabulary, sequences and
// counts. Raw ids present in the map but missing from the text mapping are
// skipped silently; text is an optional feature source. Sequences are
// re-mapped through the final vocabulary so they stay consistent with the
// possibly pruned count matrix.
func (m *TextModality) Build(idMap map[string]int) error {
	if m.idText == nil {
		return nil
	}

	denseToRaw := lo.Invert(idMap)
	orderedTexts := make([]string, 0, len(idMap))
	for dense := 0; dense < len(idMap); dense++ {
		rawID, ok := denseToRaw[dense]
		if !ok {
			continue
		}
		text, ok := m.idText[rawID]
		if !ok {
			continue
		}
		orderedTexts = append(orderedTexts, text)
	}

	opts := []VectorizerOption{
		WithTokenizer(m.tokenizer),
		WithVocabulary(m.vocab),
		WithMinFreq(m.minFreq),
		WithBinary(m.binary),
	}
	if m.maxDocIsCount {
		opts = append(opts, WithMaxDocCount(m.maxDocCount))
	} else {
		opts = append(opts, WithMaxDocRatio(m.maxDocRatio))
	}
	if m.maxVocab > 0 {
		opts = append(opts, WithMaxFeatures(m.maxVocab))
	}

	vectorizer, err := NewCountVectorizer(opts...)
	if err != nil {
		return fmt.Errorf("build text modality: %w", err)
	}

	sequences, counts, err := vectorizer.FitTransform(orderedTexts)
	if err != nil {
		return fmt.Errorf("build text modality: %w", err)
	}

	m.vocab = vectorizer.Vocabulary()
	m.counts = counts
	m.sequences = make([][]int, len(sequences))
	for i, seq := range sequences {
		m.sequences[i] = m.vocab.ToIdx(seq)
	}
	m.idText = nil // raw text is no longer needed once built

	m.logger.Info("text modality built",
		slog.Int("documents", counts.Rows()),
		slog.Int("vocab_size", m.vocab.Size()),
		slog.Int("nnz", counts.NNZ()))

	return nil
}

// Vocabulary returns the final vocabulary, nil before Build.
func (m *TextModality) Vocabulary() *Vocabulary { return m.vocab }

// Counts returns the stored count matrix, nil before Build.
func (m *TextModality) Counts() *SparseMatrix { return m.counts }

// Sequences returns the stored token-id sequences, nil before Build.
func (m *TextModality) Sequences() [][]int { return m.sequences }

// BatchSeq returns a fixed-width matrix of token-id sequences for the
// requested dense ids. Rows are truncated to maxLength and right-padded with
// the PAD id. maxLength <= 0 means the longest requested sequence.
func (m *TextModality) BatchSeq(ids []int, maxLength int) ([][]int, error) {
	if m.sequences == nil {
		return nil, ErrSequencesNotBuilt
	}

	for _, id := range ids {
		if id < 0 || id >= len(m.sequences) {
			return nil, fmt.Errorf("dense id %d: %w (documents %d)", id, ErrIDOutOfRange, len(m.sequences))
		}
	}

	if maxLength <= 0 {
		for _, id := range ids {
			if n := len(m.sequences[id]); n > maxLength {
				maxLength = n
			}
		}
	}

	out := make([][]int, len(ids))
	for i, id := range ids {
		row := make([]int, maxLength) // zero value is the PAD id
		copy(row, m.sequences[id])
		out[i] = row
	}

	return out, nil
}

// BatchBOW returns the bag-of-words sub-matrix for the requested dense ids.
// Binarization applies to the returned copy only; the stored counts are
// never mutated.
func (m *TextModality) BatchBOW(ids []int, binary bool) (*SparseMatrix, error) {
	if m.counts == nil {
		return nil, ErrCountsNotBuilt
	}

	sub, err := m.counts.SelectRows(ids)
	if err != nil {
		return nil, err
	}
	if binary {
		sub.Binarize()
	}

	return sub, nil
}

// BatchTFIDF is a reserved extension point and always fails with
// ErrNotImplemented.
func (m *TextModality) BatchTFIDF(ids []int) (*SparseMatrix, error) {
	return nil, ErrNotImplemented
}
