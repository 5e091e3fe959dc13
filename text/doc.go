// Package text converts raw per-entity text into aligned machine-consumable
// representations for recommendation models: fixed-vocabulary token-id
// sequences for sequence models and sparse bag-of-words count matrices for
// count-based models, both addressed by externally assigned dense ids.
//
// The pipeline is Tokenizer → Vocabulary → CountVectorizer → TextModality:
// a tokenizer splits raw text into tokens, a vocabulary maps tokens to
// integer ids, the vectorizer fits the vocabulary over a corpus and builds
// a prunable sparse term-count matrix, and the modality aligns everything
// with the dense-id order used by the rest of the dataset.
package text
