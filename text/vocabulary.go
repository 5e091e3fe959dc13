package text

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Reserved tokens. They always occupy ids 0-3 of every vocabulary and are
// excluded from count-matrix columns.
const (
	PAD = "<PAD>"
	UNK = "<UNK>"
	BOS = "<BOS>"
	EOS = "<EOS>"
)

// specialTokens is the fixed reserved prelude of every vocabulary.
var specialTokens = []string{PAD, UNK, BOS, EOS}

const numSpecialTokens = 4

// unkID is the id every unknown token maps to.
const unkID = 1

// ErrIDOutOfRange is returned when decoding a token id outside [0, Size).
var ErrIDOutOfRange = errors.New("token id out of vocabulary range")

// Vocabulary is a bidirectional mapping between tokens and integer ids.
// Ids 0-3 are always the reserved tokens PAD, UNK, BOS, EOS.
type Vocabulary struct {
	idx2tok []string
	tok2idx map[string]int
}

// NewVocabulary creates a vocabulary from an ordered token list. Reserved
// tokens are removed wherever they occur in the input and re-inserted as the
// fixed 4-token prelude.
func NewVocabulary(idx2tok []string) *Vocabulary {
	v := &Vocabulary{idx2tok: addSpecialTokens(idx2tok)}
	v.buildTok2Idx()
	return v
}

// addSpecialTokens normalizes the reserved prelude: a fixed prelude followed
// by the input filtered of any reserved member. The input slice is not
// mutated.
func addSpecialTokens(idx2tok []string) []string {
	out := make([]string, 0, numSpecialTokens+len(idx2tok))
	out = append(out, specialTokens...)
	for _, tok := range idx2tok {
		if isSpecialToken(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func isSpecialToken(tok string) bool {
	switch tok {
	case PAD, UNK, BOS, EOS:
		return true
	}
	return false
}

// buildTok2Idx rebuilds the reverse map from idx2tok.
func (v *Vocabulary) buildTok2Idx() {
	v.tok2idx = make(map[string]int, len(v.idx2tok))
	for idx, tok := range v.idx2tok {
		v.tok2idx[tok] = idx
	}
}

// Size returns the number of entries including the reserved tokens.
func (v *Vocabulary) Size() int { return len(v.idx2tok) }

// Tokens returns a copy of the ordered token list.
func (v *Vocabulary) Tokens() []string {
	return append([]string(nil), v.idx2tok...)
}

// ToIdx converts tokens to their integer ids. Tokens absent from the
// vocabulary map to the UNK id (1).
func (v *Vocabulary) ToIdx(tokens []string) []int {
	ids := make([]int, len(tokens))
	for i, tok := range tokens {
		idx, ok := v.tok2idx[tok]
		if !ok {
			idx = unkID
		}
		ids[i] = idx
	}
	return ids
}

// ToTokens converts integer ids back to their tokens. An id outside
// [0, Size) is an error.
func (v *Vocabulary) ToTokens(ids []int) ([]string, error) {
	tokens := make([]string, len(ids))
	for i, id := range ids {
		if id < 0 || id >= len(v.idx2tok) {
			return nil, fmt.Errorf("decode id %d: %w (size %d)", id, ErrIDOutOfRange, len(v.idx2tok))
		}
		tokens[i] = v.idx2tok[id]
	}
	return tokens, nil
}

// ToText converts integer ids back to tokens joined by sep.
func (v *Vocabulary) ToText(ids []int, sep string) (string, error) {
	tokens, err := v.ToTokens(ids)
	if err != nil {
		return "", err
	}
	return strings.Join(tokens, sep), nil
}

// VocabularyFromTokens builds a vocabulary from a flat token list. Tokens are
// ordered by descending corpus frequency, ties broken by first-seen order.
// At most maxVocab tokens with frequency >= minFreq are kept; maxVocab <= 0
// means no cap.
func VocabularyFromTokens(tokens []string, maxVocab, minFreq int) *Vocabulary {
	freq := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if freq[tok] == 0 {
			order = append(order, tok)
		}
		freq[tok]++
	}

	// Stable sort over first-seen order gives the tie rule for free.
	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})

	if maxVocab > 0 && len(order) > maxVocab {
		order = order[:maxVocab]
	}

	idx2tok := make([]string, 0, len(order))
	for _, tok := range order {
		if freq[tok] >= minFreq {
			idx2tok = append(idx2tok, tok)
		}
	}

	return NewVocabulary(idx2tok)
}

// VocabularyFromSequences builds a vocabulary from tokenized sequences by
// flattening them and delegating to VocabularyFromTokens.
func VocabularyFromSequences(sequences [][]string, maxVocab, minFreq int) *Vocabulary {
	total := 0
	for _, seq := range sequences {
		total += len(seq)
	}
	flat := make([]string, 0, total)
	for _, seq := range sequences {
		flat = append(flat, seq...)
	}
	return VocabularyFromTokens(flat, maxVocab, minFreq)
}

// Save writes the ordered token list to path. The file is written to a
// temporary sibling first and renamed into place, so readers never observe a
// partial vocabulary.
func (v *Vocabulary) Save(path string) error {
	b, err := json.Marshal(v.idx2tok)
	if err != nil {
		return fmt.Errorf("encode vocabulary: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write vocabulary %q: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write vocabulary %q: %w", path, err)
	}

	return nil
}

// LoadVocabulary reads an ordered token list saved by Save and reconstructs
// the vocabulary, rebuilding the reverse map deterministically. A failed
// load returns an error without constructing anything, so an existing
// vocabulary held by the caller is never left half-replaced.
func LoadVocabulary(path string) (*Vocabulary, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary %q: %w", path, err)
	}

	var idx2tok []string
	if err := json.Unmarshal(b, &idx2tok); err != nil {
		return nil, fmt.Errorf("decode vocabulary %q: %w", path, err)
	}

	return NewVocabulary(idx2tok), nil
}

// pruneTerms rebuilds the vocabulary keeping only the given term columns.
// keep holds matrix column indices (vocabulary id minus the reserved
// offset), sorted ascending, so surviving term order is stable.
func (v *Vocabulary) pruneTerms(keep []int) {
	idx2tok := make([]string, 0, numSpecialTokens+len(keep))
	idx2tok = append(idx2tok, specialTokens...)
	for _, col := range keep {
		idx2tok = append(idx2tok, v.idx2tok[col+numSpecialTokens])
	}
	v.idx2tok = idx2tok
	v.buildTok2Idx()
}
