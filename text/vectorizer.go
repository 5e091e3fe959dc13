package text

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNegativeFrequency is returned when a vectorizer is constructed with
	// a negative min frequency or document-frequency limit.
	ErrNegativeFrequency = errors.New("max doc frequency and min frequency must be non-negative")
	// ErrInvalidMaxFeatures is returned when the feature cap is not a
	// positive integer.
	ErrInvalidMaxFeatures = errors.New("max features must be a positive integer")
	// ErrVocabularyExhausted is returned when pruning removes every term.
	ErrVocabularyExhausted = errors.New("no terms remain after pruning")
	// ErrNotFitted is returned by Transform before a vocabulary exists.
	ErrNotFitted = errors.New("vectorizer has no vocabulary; call Fit or FitTransform first")
)

// CountVectorizer converts a collection of text documents into a sparse
// matrix of token counts. Unless a fixed vocabulary is supplied, fitting
// builds one from corpus statistics and prunes it by document frequency and
// feature cap.
type CountVectorizer struct {
	tokenizer  Tokenizer
	vocab      *Vocabulary
	fixedVocab bool

	// Document-frequency limit: a raw document count when maxDocIsCount is
	// set, otherwise a proportion of the corpus size.
	maxDocRatio   float64
	maxDocCount   int
	maxDocIsCount bool

	minFreq     int
	maxFeatures int // -1 while unset
	stopWords   []string
	binary      bool
}

// VectorizerOption customizes a CountVectorizer.
type VectorizerOption func(*CountVectorizer)

// WithTokenizer sets the tokenizer. Default is NewBaseTokenizer().
func WithTokenizer(tok Tokenizer) VectorizerOption {
	return func(v *CountVectorizer) { v.tokenizer = tok }
}

// WithVocabulary supplies a pre-built vocabulary. The frequency thresholds
// and the feature cap are ignored and pruning is disabled.
func WithVocabulary(vocab *Vocabulary) VectorizerOption {
	return func(v *CountVectorizer) {
		v.vocab = vocab
		v.fixedVocab = vocab != nil
	}
}

// WithMaxDocRatio limits terms to those appearing in at most ratio × corpus
// size documents. Default is 1.0.
func WithMaxDocRatio(ratio float64) VectorizerOption {
	return func(v *CountVectorizer) {
		v.maxDocRatio = ratio
		v.maxDocIsCount = false
	}
}

// WithMaxDocCount limits terms to those appearing in at most n documents.
func WithMaxDocCount(n int) VectorizerOption {
	return func(v *CountVectorizer) {
		v.maxDocCount = n
		v.maxDocIsCount = true
	}
}

// WithMinFreq sets the minimum corpus frequency for a term to enter the
// vocabulary. Default is 1.
func WithMinFreq(n int) VectorizerOption {
	return func(v *CountVectorizer) { v.minFreq = n }
}

// WithMaxFeatures caps the vocabulary at the n most frequent surviving
// terms. Must be positive when given.
func WithMaxFeatures(n int) VectorizerOption {
	return func(v *CountVectorizer) { v.maxFeatures = n }
}

// WithStopWords records a stop-word list. Reserved: the list is accepted
// but not applied.
func WithStopWords(words []string) VectorizerOption {
	return func(v *CountVectorizer) { v.stopWords = words }
}

// WithBinary clamps all nonzero counts to 1.
func WithBinary(binary bool) VectorizerOption {
	return func(v *CountVectorizer) { v.binary = binary }
}

// NewCountVectorizer creates a vectorizer and validates its parameters
// eagerly: negative frequency thresholds and a non-positive feature cap are
// construction errors.
func NewCountVectorizer(opts ...VectorizerOption) (*CountVectorizer, error) {
	v := &CountVectorizer{
		maxDocRatio: 1.0,
		minFreq:     1,
		maxFeatures: -1, // sentinel: unset
	}
	for _, opt := range opts {
		opt(v)
	}

	if v.minFreq < 0 {
		return nil, fmt.Errorf("min freq %d: %w", v.minFreq, ErrNegativeFrequency)
	}
	if v.maxDocIsCount && v.maxDocCount < 0 {
		return nil, fmt.Errorf("max doc count %d: %w", v.maxDocCount, ErrNegativeFrequency)
	}
	if !v.maxDocIsCount && v.maxDocRatio < 0 {
		return nil, fmt.Errorf("max doc ratio %v: %w", v.maxDocRatio, ErrNegativeFrequency)
	}
	if v.maxFeatures != -1 && v.maxFeatures <= 0 {
		return nil, fmt.Errorf("max features %d: %w", v.maxFeatures, ErrInvalidMaxFeatures)
	}

	if v.tokenizer == nil {
		v.tokenizer = NewBaseTokenizer()
	}

	return v, nil
}

// Vocabulary returns the current vocabulary, nil before fitting when none
// was supplied.
func (v *CountVectorizer) Vocabulary() *Vocabulary { return v.vocab }

// count assembles the sparse document-term matrix directly from per-document
// (column, count) pairs. Columns are vocabulary ids minus the reserved
// offset; tokens absent from the vocabulary contribute nothing.
func (v *CountVectorizer) count(sequences [][]string) *SparseMatrix {
	indptr := make([]int, 1, len(sequences)+1)
	var indices, data []int

	for _, seq := range sequences {
		counter := make(map[int]int)
		for _, tok := range seq {
			idx, ok := v.vocab.tok2idx[tok]
			if !ok || idx < numSpecialTokens {
				continue
			}
			counter[idx-numSpecialTokens]++
		}

		cols := make([]int, 0, len(counter))
		for col := range counter {
			cols = append(cols, col)
		}
		sort.Ints(cols)
		for _, col := range cols {
			indices = append(indices, col)
			data = append(data, counter[col])
		}
		indptr = append(indptr, len(indices))
	}

	return newSparseMatrix(len(sequences), v.vocab.Size()-numSpecialTokens, indptr, indices, data)
}

// limitFeatures prunes terms whose document frequency exceeds maxDocCount,
// then applies the feature cap, keeping surviving terms in their existing
// frequency-descending order. The vocabulary is rebuilt after any drop.
func (v *CountVectorizer) limitFeatures(m *SparseMatrix, maxDocCount float64) (*SparseMatrix, error) {
	if maxDocCount >= float64(m.Rows()) {
		return m, nil
	}

	df := m.DocFreq()
	keep := make([]int, 0, len(df))
	for col, n := range df {
		if float64(n) <= maxDocCount {
			keep = append(keep, col)
		}
	}
	if v.maxFeatures > 0 && len(keep) > v.maxFeatures {
		keep = keep[:v.maxFeatures]
	}
	if len(keep) == 0 {
		return nil, fmt.Errorf("%w; try a lower min freq or a higher max doc freq", ErrVocabularyExhausted)
	}

	v.vocab.pruneTerms(keep)

	return m.KeepColumns(keep), nil
}

// FitTransform tokenizes the documents, builds the vocabulary from corpus
// statistics unless one was supplied, and returns the tokenized sequences
// together with the document-term matrix. Row i of the matrix corresponds to
// rawDocuments[i]. Document-frequency pruning and the feature cap only apply
// to a freshly built vocabulary.
func (v *CountVectorizer) FitTransform(rawDocuments []string) ([][]string, *SparseMatrix, error) {
	sequences := v.tokenizer.BatchTokenize(rawDocuments)

	if v.vocab == nil {
		v.vocab = VocabularyFromSequences(sequences, 0, v.minFreq)
	}

	m := v.count(sequences)
	if v.binary {
		m.Binarize()
	}

	if !v.fixedVocab {
		maxDocCount := float64(v.maxDocCount)
		if !v.maxDocIsCount {
			maxDocCount = v.maxDocRatio * float64(m.Rows())
		}
		pruned, err := v.limitFeatures(m, maxDocCount)
		if err != nil {
			return nil, nil, err
		}
		m = pruned
	}

	return sequences, m, nil
}

// Transform tokenizes and counts the documents against the existing
// vocabulary without mutating or pruning it. Out-of-vocabulary tokens are
// dropped from the counts silently.
func (v *CountVectorizer) Transform(rawDocuments []string) ([][]string, *SparseMatrix, error) {
	if v.vocab == nil {
		return nil, nil, ErrNotFitted
	}

	sequences := v.tokenizer.BatchTokenize(rawDocuments)
	m := v.count(sequences)
	if v.binary {
		m.Binarize()
	}

	return sequences, m, nil
}

// Fit builds the vocabulary from the documents, discarding the sequences and
// the matrix.
func (v *CountVectorizer) Fit(rawDocuments []string) error {
	_, _, err := v.FitTransform(rawDocuments)
	return err
}
