package parallel

import (
	"errors"
	"math"
	"reflect"
	"testing"

	apperrors "github.com/agbru/parfor/internal/errors"
)

func TestWorkers(t *testing.T) {
	t.Parallel()
	tests := []struct {
		threads, want int
	}{
		{-3, 0},
		{0, 0},
		{1, 0},
		{2, 1},
		{4, 3},
		{64, 63},
	}
	for _, tt := range tests {
		if got := Workers(tt.threads); got != tt.want {
			t.Errorf("Workers(%d) = %d, want %d", tt.threads, got, tt.want)
		}
	}
}

func TestSplitBoundaries(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		low, high int
		workers   int
		wantChunk int
		want      []Range
	}{
		{
			name: "ten indices four threads",
			low:  0, high: 9, workers: 3,
			wantChunk: 3,
			want:      []Range{{0, 2}, {3, 5}, {6, 8}, {9, 9}},
		},
		{
			name: "single index many threads",
			low:  5, high: 5, workers: 7,
			wantChunk: 1,
			want: []Range{
				{5, 5}, {6, 5}, {6, 5}, {6, 5},
				{6, 5}, {6, 5}, {6, 5}, {6, 5},
			},
		},
		{
			name: "caller only",
			low:  -4, high: 4, workers: 0,
			wantChunk: 9,
			want:      []Range{{-4, 4}},
		},
		{
			name: "even split",
			low:  10, high: 17, workers: 1,
			wantChunk: 4,
			want:      []Range{{10, 13}, {14, 17}},
		},
		{
			name: "short last partitions",
			low:  0, high: 9, workers: 5,
			wantChunk: 2,
			want:      []Range{{0, 1}, {2, 3}, {4, 5}, {6, 7}, {8, 9}, {10, 9}},
		},
		{
			name: "empty range",
			low:  3, high: 2, workers: 2,
			wantChunk: 0,
			want:      []Range{{3, 2}, {3, 2}, {3, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			plan, err := Split(tt.low, tt.high, tt.workers)
			if err != nil {
				t.Fatalf("Split() error = %v", err)
			}
			if plan.ChunkSize != tt.wantChunk {
				t.Errorf("ChunkSize = %d, want %d", plan.ChunkSize, tt.wantChunk)
			}
			if plan.Workers != tt.workers {
				t.Errorf("Workers = %d, want %d", plan.Workers, tt.workers)
			}
			got := make([]Range, len(plan.Partitions))
			for i, p := range plan.Partitions {
				got[i] = p.Range
				if p.Index != i {
					t.Errorf("partition %d has Index %d", i, p.Index)
				}
				if p.Inline != (i == tt.workers) {
					t.Errorf("partition %d Inline = %v", i, p.Inline)
				}
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("partitions = %v, want %v", got, tt.want)
			}
			if c := plan.Caller(); c.Index != tt.workers || !c.Inline {
				t.Errorf("Caller() = %+v", c)
			}
		})
	}
}

func TestSplitRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		low, high int
		workers   int
		field     string
	}{
		{"negative workers", 0, 9, -1, "workers"},
		{"high at MaxInt", 0, math.MaxInt, 2, "high"},
		{"span wider than MaxInt", math.MinInt, 0, 2, "high"},
		{"full int range", math.MinInt, math.MaxInt - 1, 2, "high"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Split(tt.low, tt.high, tt.workers)
			var ve apperrors.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Split() error = %v, want ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestSplitAcceptsExtremeBounds(t *testing.T) {
	t.Parallel()
	plan, err := Split(math.MaxInt-10, math.MaxInt-1, 3)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	total := 0
	for _, p := range plan.Partitions {
		total += p.Len()
	}
	if total != 10 {
		t.Errorf("covered %d indices, want 10", total)
	}
	if last := plan.Partitions[len(plan.Partitions)-1]; last.High != math.MaxInt-1 {
		t.Errorf("last partition = %v", last.Range)
	}
}

func TestSplitIsDeterministic(t *testing.T) {
	t.Parallel()
	a, errA := Split(-17, 1234, 6)
	b, errB := Split(-17, 1234, 6)
	if errA != nil || errB != nil {
		t.Fatalf("Split() errors = %v, %v", errA, errB)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Split() not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestRange(t *testing.T) {
	t.Parallel()
	r := Range{Low: 2, High: 4}
	if r.Len() != 3 || r.Empty() {
		t.Errorf("Range %v: Len = %d, Empty = %v", r, r.Len(), r.Empty())
	}
	if !r.Contains(2) || !r.Contains(4) || r.Contains(5) {
		t.Errorf("Range %v Contains is wrong", r)
	}
	if r.String() != "[2,4]" {
		t.Errorf("String() = %q", r.String())
	}
	empty := Range{Low: 5, High: 4}
	if empty.Len() != 0 || !empty.Empty() {
		t.Errorf("Range %v should be empty", empty)
	}
}
