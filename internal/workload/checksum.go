package workload

import (
	"context"
	"fmt"
	"sync/atomic"

	apperrors "github.com/agbru/parfor/internal/errors"
	"github.com/agbru/parfor/internal/parallel"
)

// checkEvery is how often, in indices, the checksum body polls for
// cancellation.
const checkEvery = 4096

// Checksum folds a mixing function over [0, Size) into a shared atomic
// accumulator. Its body is fallible: every partition stops once the run
// context is canceled.
type Checksum struct{}

func (Checksum) Name() string        { return "checksum" }
func (Checksum) Description() string { return "atomic checksum with cancellation (1D, fallible)" }
func (Checksum) Ops(p Params) int64  { return int64(p.Size) }

func (Checksum) Run(ctx context.Context, p Params) (Measurement, error) {
	var (
		m   Measurement
		sum atomic.Uint64
	)
	m.Ops = int64(p.Size)
	err := parallel.ForErr(0, p.Size-1, func(i int) error {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		sum.Add(mix(uint64(i)))
		return nil
	}, p.Threads, loopOptions(ctx, p, &m.Report)...)
	if err != nil {
		return m, err
	}

	var ref uint64
	m.Sequential = timed(func() {
		for i := range p.Size {
			ref += mix(uint64(i))
		}
	})
	if got := sum.Load(); got != ref {
		return m, apperrors.MismatchError{
			Workload: "checksum",
			Detail:   fmt.Sprintf("sum = %#x, want %#x", got, ref),
		}
	}
	return m, nil
}

// mix is the splitmix64 finalizer.
func mix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
