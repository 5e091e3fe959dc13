package text

import (
	"fmt"
	"sort"
)

// SparseMatrix is a compressed sparse row term-count matrix. Rows are
// documents, columns are vocabulary terms excluding the reserved prelude
// (column index = vocabulary id - 4). Column indices are kept sorted within
// each row so matrices compare reproducibly.
type SparseMatrix struct {
	rows, cols int
	indptr     []int // len rows+1; row i spans indices[indptr[i]:indptr[i+1]]
	indices    []int
	data       []int
}

// newSparseMatrix assembles a matrix from raw CSR arrays and enforces the
// column-sorted-within-row postcondition.
func newSparseMatrix(rows, cols int, indptr, indices, data []int) *SparseMatrix {
	m := &SparseMatrix{rows: rows, cols: cols, indptr: indptr, indices: indices, data: data}
	m.sortIndices()
	return m
}

// sortIndices sorts each row's entries by column index.
func (m *SparseMatrix) sortIndices() {
	for i := 0; i < m.rows; i++ {
		start, end := m.indptr[i], m.indptr[i+1]
		row := rowEntries{indices: m.indices[start:end], data: m.data[start:end]}
		if !sort.IsSorted(row) {
			sort.Sort(row)
		}
	}
}

type rowEntries struct {
	indices []int
	data    []int
}

func (r rowEntries) Len() int           { return len(r.indices) }
func (r rowEntries) Less(i, j int) bool { return r.indices[i] < r.indices[j] }
func (r rowEntries) Swap(i, j int) {
	r.indices[i], r.indices[j] = r.indices[j], r.indices[i]
	r.data[i], r.data[j] = r.data[j], r.data[i]
}

// Rows returns the number of document rows.
func (m *SparseMatrix) Rows() int { return m.rows }

// Cols returns the number of term columns.
func (m *SparseMatrix) Cols() int { return m.cols }

// NNZ returns the number of stored entries.
func (m *SparseMatrix) NNZ() int { return len(m.data) }

// Row returns the column indices and counts of row i. The returned slices
// alias the matrix storage and must not be modified.
func (m *SparseMatrix) Row(i int) (cols, counts []int) {
	start, end := m.indptr[i], m.indptr[i+1]
	return m.indices[start:end], m.data[start:end]
}

// RowSum returns the sum of counts in row i.
func (m *SparseMatrix) RowSum(i int) int {
	sum := 0
	_, counts := m.Row(i)
	for _, c := range counts {
		sum += c
	}
	return sum
}

// Dense expands the matrix into dense rows. Intended for small matrices in
// diagnostics and tests only; the pipeline itself never densifies.
func (m *SparseMatrix) Dense() [][]int {
	out := make([][]int, m.rows)
	for i := 0; i < m.rows; i++ {
		row := make([]int, m.cols)
		cols, counts := m.Row(i)
		for k, c := range cols {
			row[c] = counts[k]
		}
		out[i] = row
	}
	return out
}

// DocFreq returns, for every column, the number of rows in which the column
// is nonzero.
func (m *SparseMatrix) DocFreq() []int {
	df := make([]int, m.cols)
	for _, col := range m.indices {
		df[col]++
	}
	return df
}

// KeepColumns returns a new matrix containing only the columns listed in
// keep, which must be sorted ascending. Surviving columns are renumbered
// 0..len(keep)-1 in their existing order.
func (m *SparseMatrix) KeepColumns(keep []int) *SparseMatrix {
	remap := make(map[int]int, len(keep))
	for newCol, oldCol := range keep {
		remap[oldCol] = newCol
	}

	indptr := make([]int, 1, m.rows+1)
	indices := make([]int, 0, len(m.indices))
	data := make([]int, 0, len(m.data))
	for i := 0; i < m.rows; i++ {
		cols, counts := m.Row(i)
		for k, col := range cols {
			newCol, ok := remap[col]
			if !ok {
				continue
			}
			indices = append(indices, newCol)
			data = append(data, counts[k])
		}
		indptr = append(indptr, len(indices))
	}

	// The remap is monotonic, so rows stay column-sorted.
	return &SparseMatrix{rows: m.rows, cols: len(keep), indptr: indptr, indices: indices, data: data}
}

// SelectRows returns a new matrix whose rows are the requested rows in the
// requested order. Row ids may repeat. An id outside [0, Rows) is an error.
func (m *SparseMatrix) SelectRows(ids []int) (*SparseMatrix, error) {
	nnz := 0
	for _, id := range ids {
		if id < 0 || id >= m.rows {
			return nil, fmt.Errorf("row %d: %w (rows %d)", id, ErrIDOutOfRange, m.rows)
		}
		nnz += m.indptr[id+1] - m.indptr[id]
	}

	indptr := make([]int, 1, len(ids)+1)
	indices := make([]int, 0, nnz)
	data := make([]int, 0, nnz)
	for _, id := range ids {
		cols, counts := m.Row(id)
		indices = append(indices, cols...)
		data = append(data, counts...)
		indptr = append(indptr, len(indices))
	}

	return &SparseMatrix{rows: len(ids), cols: m.cols, indptr: indptr, indices: indices, data: data}, nil
}

// Binarize clamps every stored count to 1 in place. The sparsity pattern is
// unchanged.
func (m *SparseMatrix) Binarize() {
	for i := range m.data {
		m.data[i] = 1
	}
}
