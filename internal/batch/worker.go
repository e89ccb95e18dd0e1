package batch

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shschool-data/internal/logger"
)

const (
	DefaultMaxThreads  = 3
	DefaultPackageSize = 100
)

// PackageFunc handles one package and reports how many records the remote
// side says it touched.
type PackageFunc[T any] func(ctx context.Context, pkg []T) (int, error)

type Result struct {
	Index int
	Size  int
	Count int
	Err   error
}

// PackageError is returned by Run when at least one package failed. Index is
// the lowest failed package.
type PackageError struct {
	Index  int
	Failed int
	Err    error
}

func (e *PackageError) Error() string {
	return fmt.Sprintf("package %d failed (%d failed packages): %v", e.Index, e.Failed, e.Err)
}

func (e *PackageError) Unwrap() error { return e.Err }

// Worker fans packages out over a bounded number of goroutines. Every package
// runs to completion; there is no early cancellation when one fails.
type Worker[T any] struct {
	MaxThreads  int
	PackageSize int
	Log         *zap.Logger
}

func New[T any](maxThreads, packageSize int, log *zap.Logger) Worker[T] {
	return Worker[T]{MaxThreads: maxThreads, PackageSize: packageSize, Log: log}
}

// Options carries worker limits for services that batch more than one item
// type.
type Options struct {
	MaxThreads  int
	PackageSize int
	Log         *zap.Logger
}

func For[T any](o Options) Worker[T] {
	return New[T](o.MaxThreads, o.PackageSize, o.Log)
}

func (w Worker[T]) limits() (int, int) {
	threads, size := w.MaxThreads, w.PackageSize
	if threads <= 0 {
		threads = DefaultMaxThreads
	}
	if size <= 0 {
		size = DefaultPackageSize
	}
	return threads, size
}

// Split cuts items into consecutive packages of at most size records.
func Split[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		size = DefaultPackageSize
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end])
	}
	return out
}

// RunAll executes fn for every package and returns one result per package,
// in package order.
func (w Worker[T]) RunAll(ctx context.Context, items []T, fn PackageFunc[T]) []Result {
	threads, size := w.limits()
	packages := Split(items, size)
	results := make([]Result, len(packages))
	if len(packages) == 0 {
		return results
	}

	log := logger.OrNop(w.Log)

	var g errgroup.Group
	g.SetLimit(threads)
	for i, pkg := range packages {
		g.Go(func() error {
			n, err := fn(ctx, pkg)
			results[i] = Result{Index: i, Size: len(pkg), Count: n, Err: err}
			if err != nil {
				log.Warn("batch package failed",
					zap.Int("package", i),
					zap.Int("size", len(pkg)),
					zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Run executes every package and sums the counts of the successful ones.
// When any package fails the first failure in package order is returned,
// after all packages have finished.
func (w Worker[T]) Run(ctx context.Context, items []T, fn PackageFunc[T]) (int, error) {
	results := w.RunAll(ctx, items, fn)
	return Sum(results)
}

func Sum(results []Result) (int, error) {
	total := 0
	var first *PackageError
	for _, r := range results {
		if r.Err != nil {
			if first == nil {
				first = &PackageError{Index: r.Index, Err: r.Err}
			}
			first.Failed++
			continue
		}
		total += r.Count
	}
	if first != nil {
		return total, first
	}
	return total, nil
}
