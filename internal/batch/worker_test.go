package batch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestSplit(t *testing.T) {
	assert.Nil(t, Split([]int{}, 100))

	pkgs := Split(seq(250), 100)
	require.Len(t, pkgs, 3)
	assert.Len(t, pkgs[0], 100)
	assert.Len(t, pkgs[1], 100)
	assert.Len(t, pkgs[2], 50)
	assert.Equal(t, 200, pkgs[2][0])

	assert.Len(t, Split(seq(100), 100), 1)
	assert.Len(t, Split(seq(5), 0), 1)
}

func TestRun_EmptyInput_NeverCallsFn(t *testing.T) {
	w := Worker[int]{}
	n, err := w.Run(context.Background(), nil, func(ctx context.Context, pkg []int) (int, error) {
		t.Fatalf("fn must not be called")
		return 0, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRun_SumsEveryPackage(t *testing.T) {
	w := Worker[int]{MaxThreads: 3, PackageSize: 100}

	n, err := w.Run(context.Background(), seq(250), func(ctx context.Context, pkg []int) (int, error) {
		return len(pkg), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 250, n)
}

func TestRun_NeverExceedsMaxThreads(t *testing.T) {
	w := Worker[int]{MaxThreads: 3, PackageSize: 10}

	var active, peak int32
	_, err := w.Run(context.Background(), seq(200), func(ctx context.Context, pkg []int) (int, error) {
		cur := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if cur <= p || atomic.CompareAndSwapInt32(&peak, p, cur) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return len(pkg), nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&peak), int32(1))
}

func TestRun_FailedPackage_ReportsAfterAllPackagesRan(t *testing.T) {
	w := Worker[int]{MaxThreads: 3, PackageSize: 100}
	boom := errors.New("remote fault")

	var mu sync.Mutex
	ran := map[int]bool{}

	n, err := w.Run(context.Background(), seq(300), func(ctx context.Context, pkg []int) (int, error) {
		idx := pkg[0] / 100
		mu.Lock()
		ran[idx] = true
		mu.Unlock()
		if idx == 1 {
			return 0, boom
		}
		return len(pkg), nil
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))

	var pe *PackageError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.Index)
	assert.Equal(t, 1, pe.Failed)

	assert.Len(t, ran, 3, "every package must run before the error is reported")
	assert.Equal(t, 200, n, "successful packages are still summed")
}

func TestRun_MultipleFailures_ReturnsLowestIndex(t *testing.T) {
	w := Worker[int]{MaxThreads: 3, PackageSize: 10}

	_, err := w.Run(context.Background(), seq(50), func(ctx context.Context, pkg []int) (int, error) {
		idx := pkg[0] / 10
		if idx == 4 || idx == 2 {
			// make the later package fail first
			if idx == 2 {
				time.Sleep(5 * time.Millisecond)
			}
			return 0, errors.New("fail " + string(rune('0'+idx)))
		}
		return len(pkg), nil
	})

	var pe *PackageError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Index)
	assert.Equal(t, 2, pe.Failed)
	assert.Contains(t, err.Error(), "fail 2")
}

func TestRunAll_ResultsInPackageOrder(t *testing.T) {
	w := Worker[int]{MaxThreads: 2, PackageSize: 4}

	results := w.RunAll(context.Background(), seq(10), func(ctx context.Context, pkg []int) (int, error) {
		if pkg[0] == 4 {
			return 0, errors.New("bad")
		}
		return len(pkg), nil
	})

	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
	}
	assert.Equal(t, 4, results[0].Count)
	assert.Error(t, results[1].Err)
	assert.Equal(t, 2, results[2].Size)
}
