package workload

import (
	"context"
	"fmt"

	apperrors "github.com/agbru/parfor/internal/errors"
	"github.com/agbru/parfor/internal/parallel"
)

// Vector adds two float64 vectors element-wise with a one-dimensional loop.
type Vector struct{}

func (Vector) Name() string        { return "vector" }
func (Vector) Description() string { return "element-wise vector addition (1D)" }
func (Vector) Ops(p Params) int64  { return int64(p.Size) }

func (Vector) Run(ctx context.Context, p Params) (Measurement, error) {
	if err := ctx.Err(); err != nil {
		return Measurement{}, err
	}
	n := p.Size
	a, b := vectorInputs(n)
	sum := make([]float64, n)

	var m Measurement
	m.Ops = int64(n)
	err := parallel.For(0, n-1, func(i int) {
		sum[i] = a[i] + b[i]
	}, p.Threads, loopOptions(ctx, p, &m.Report)...)
	if err != nil {
		return m, err
	}

	ref := make([]float64, n)
	m.Sequential = timed(func() {
		for i := range ref {
			ref[i] = a[i] + b[i]
		}
	})
	for i := range ref {
		if sum[i] != ref[i] {
			return m, apperrors.MismatchError{
				Workload: "vector",
				Detail:   fmt.Sprintf("sum[%d] = %g, want %g", i, sum[i], ref[i]),
			}
		}
	}
	return m, nil
}

func vectorInputs(n int) (a, b []float64) {
	a = make([]float64, n)
	b = make([]float64, n)
	for i := range n {
		a[i] = float64(i%1024) * 0.5
		b[i] = float64((i*7)%1024) * 0.25
	}
	return a, b
}
