package histogram

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrInvalidThreadCount is returned when parallel counting is asked for
// zero or fewer threads.
var ErrInvalidThreadCount = errors.New("histogram: thread count must be positive")

// Chunk is a half-open byte range [Start, End) of the input.
type Chunk struct {
	Start, End int
}

// Len is the number of bytes in the chunk.
func (c Chunk) Len() int { return c.End - c.Start }

// Chunks splits length bytes into threads chunks of length/threads bytes
// each, followed by one remainder chunk of length%threads bytes when that is
// non-zero. Empty chunks are left out.
func Chunks(length int, threads int) ([]Chunk, error) {
	if threads <= 0 {
		return nil, ErrInvalidThreadCount
	}
	size := length / threads
	chunks := make([]Chunk, 0, threads+1)
	if size > 0 {
		for i := 0; i < threads; i++ {
			chunks = append(chunks, Chunk{Start: i * size, End: (i + 1) * size})
		}
	}
	if rem := length % threads; rem > 0 {
		chunks = append(chunks, Chunk{Start: length - rem, End: length})
	}
	return chunks, nil
}

// CountParallel counts data by splitting it with Chunks and counting each
// chunk on its own goroutine. At most threads chunks are counted at once.
// It blocks until every chunk has been merged.
func CountParallel(ctx context.Context, data []byte, threads int) (Table, error) {
	return CountParallelWithProgress(ctx, data, threads, nil)
}

// CountParallelWithProgress is CountParallel, calling onChunk with the chunk
// length after each chunk has been merged. onChunk may be called from several
// goroutines at once and may be nil.
func CountParallelWithProgress(ctx context.Context, data []byte, threads int, onChunk func(n int)) (Table, error) {
	chunks, err := Chunks(len(data), threads)
	if err != nil {
		return Table{}, err
	}

	var (
		mu     sync.Mutex
		shared Table
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for _, chunk := range chunks {
		chunk := chunk
		g.Go(func() error {
			// Check if another worker already failed
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			var local Table
			local.scan(data[chunk.Start:chunk.End])

			mu.Lock()
			shared.add(&local)
			mu.Unlock()

			if onChunk != nil {
				onChunk(chunk.Len())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Table{}, err
	}
	return shared, nil
}
