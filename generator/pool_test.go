package generator

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlyon/async-stripe-sub040/internal/emit"
)

func numberedJobs(n int, fail map[int]error) []renderJob {
	jobs := make([]renderJob, n)
	for i := range jobs {
		jobs[i] = func() (*emit.File, error) {
			if err := fail[i]; err != nil {
				return nil, err
			}
			return &emit.File{Path: fmt.Sprintf("f%02d.go", i)}, nil
		}
	}
	return jobs
}

func TestRunPoolPreservesOrder(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 64} {
		t.Run(fmt.Sprint(workers), func(t *testing.T) {
			var calls atomic.Int32
			var last int
			files, err := runPool(workers, numberedJobs(20, nil), func(done, total int) {
				calls.Add(1)
				assert.Equal(t, 20, total)
				last = done
			})
			require.NoError(t, err)
			require.Len(t, files, 20)
			for i, f := range files {
				assert.Equal(t, fmt.Sprintf("f%02d.go", i), f.Path)
			}
			assert.Equal(t, int32(20), calls.Load())
			assert.Equal(t, 20, last)
		})
	}
}

func TestRunPoolEarliestError(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")
	files, err := runPool(4, numberedJobs(10, map[int]error{7: second, 3: first}), nil)
	assert.Nil(t, files)
	assert.ErrorIs(t, err, first)
}

func TestRunPoolEmpty(t *testing.T) {
	files, err := runPool(4, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}
