// Package report reorders similarity matrices and writes them to disk.
package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
)

var ErrDuplicateID = errors.New("report: duplicate sample id in ordering")

// Result is the JSON document of one run.
type Result struct {
	RunID     string         `json:"run_id"`
	CreatedAt time.Time      `json:"created_at"`
	Metric    string         `json:"metric"`
	Modality  string         `json:"modality"`
	Samples   []string       `json:"samples"`
	Matrix    [][]float64    `json:"matrix"`
	Clusters  map[string]int `json:"clusters,omitempty"`
}

// NewResult captures ids and matrix under a fresh run id.
func NewResult(metric, modality string, ids []string, m mat.Symmetric) Result {
	n := m.SymmetricDim()
	rows := make([][]float64, n)
	for i := range n {
		rows[i] = make([]float64, n)
		for j := range n {
			rows[i][j] = m.At(i, j)
		}
	}
	return Result{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Metric:    metric,
		Modality:  modality,
		Samples:   append([]string(nil), ids...),
		Matrix:    rows,
	}
}

// WithClusters attaches cluster numbers, assignment[k] belonging to Samples[k].
func (r Result) WithClusters(assignment []int) Result {
	r.Clusters = make(map[string]int, len(assignment))
	for k, c := range assignment {
		if k < len(r.Samples) {
			r.Clusters[r.Samples[k]] = c
		}
	}
	return r
}

// Reorder permutes ids and m to follow order. Ids named in order come first,
// in that order; unknown names are ignored. Remaining ids keep their
// relative position at the end.
func Reorder(ids []string, m mat.Symmetric, order []string) ([]string, *mat.SymDense, error) {
	n := m.SymmetricDim()
	if n == 0 || len(ids) != n {
		return nil, nil, fmt.Errorf("report: %d ids for a %dx%d matrix", len(ids), n, n)
	}

	index := make(map[string]int, n)
	for i, id := range ids {
		index[id] = i
	}

	seen := make(map[string]bool, len(order))
	perm := make([]int, 0, n)
	for _, id := range order {
		if seen[id] {
			return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		seen[id] = true
		if i, ok := index[id]; ok {
			perm = append(perm, i)
		}
	}
	for i, id := range ids {
		if !seen[id] {
			perm = append(perm, i)
		}
	}

	outIDs := make([]string, n)
	out := mat.NewSymDense(n, nil)
	for a, i := range perm {
		outIDs[a] = ids[i]
		for b := a; b < n; b++ {
			out.SetSym(a, b, m.At(i, perm[b]))
		}
	}
	return outIDs, out, nil
}

// WriteCSV writes a header row of ids followed by one labelled row per
// sample.
func WriteCSV(w io.Writer, ids []string, m mat.Symmetric) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"sample"}, ids...)); err != nil {
		return err
	}
	row := make([]string, len(ids)+1)
	for i, id := range ids {
		row[0] = id
		for j := range ids {
			row[j+1] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteClusters writes one "sample,cluster" row per id.
func WriteClusters(w io.Writer, ids []string, assignment []int) error {
	if len(ids) != len(assignment) {
		return fmt.Errorf("report: %d ids for %d cluster assignments", len(ids), len(assignment))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"sample", "cluster"}); err != nil {
		return err
	}
	for i, id := range ids {
		if err := cw.Write([]string{id, strconv.Itoa(assignment[i])}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteJSON(w io.Writer, r Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
