package workload

import (
	"context"
	"fmt"

	apperrors "github.com/agbru/parfor/internal/errors"
	"github.com/agbru/parfor/internal/parallel"
)

// Matrix multiplies a Rows x Cols matrix by a Cols x Cols matrix with a
// two-dimensional loop over the output cells. Only the rows are
// partitioned.
type Matrix struct{}

func (Matrix) Name() string        { return "matrix" }
func (Matrix) Description() string { return "integer matrix multiplication (2D)" }
func (Matrix) Ops(p Params) int64  { return int64(p.Rows) * int64(p.Cols) }

func (Matrix) Run(ctx context.Context, p Params) (Measurement, error) {
	if err := ctx.Err(); err != nil {
		return Measurement{}, err
	}
	rows, cols := p.Rows, p.Cols
	a, b := matrixInputs(rows, cols)
	out := make([]int64, rows*cols)

	var m Measurement
	m.Ops = int64(rows) * int64(cols)
	err := parallel.For2D(0, rows-1, 0, cols-1, func(i, j int) {
		out[i*cols+j] = dot(a, b, i, j, cols)
	}, p.Threads, loopOptions(ctx, p, &m.Report)...)
	if err != nil {
		return m, err
	}

	ref := make([]int64, rows*cols)
	m.Sequential = timed(func() {
		for i := range rows {
			for j := range cols {
				ref[i*cols+j] = dot(a, b, i, j, cols)
			}
		}
	})
	for k := range ref {
		if out[k] != ref[k] {
			return m, apperrors.MismatchError{
				Workload: "matrix",
				Detail:   fmt.Sprintf("c[%d][%d] = %d, want %d", k/cols, k%cols, out[k], ref[k]),
			}
		}
	}
	return m, nil
}

// dot returns row i of a times column j of b, both matrices stored row-major
// with n columns.
func dot(a, b []int64, i, j, n int) int64 {
	var s int64
	row := a[i*n : (i+1)*n]
	for k, v := range row {
		s += v * b[k*n+j]
	}
	return s
}

func matrixInputs(rows, cols int) (a, b []int64) {
	a = make([]int64, rows*cols)
	b = make([]int64, cols*cols)
	for k := range a {
		a[k] = int64(k%17) - 8
	}
	for k := range b {
		b[k] = int64(k%13) - 6
	}
	return a, b
}
