package wavetable

import (
	"golang.org/x/sync/errgroup"
)

// ----- Concurrent Batch Processing ----- //

// ProcessConcurrent folds a batch of frames across several workers. Each
// worker owns a private effect instance from the factory, so stateful
// effects (the chaos-fold cache in particular) are never shared between
// goroutines and need no locking. Frames keep their order.
func ProcessConcurrent(frames [][]float64, params map[string]float64, workers int, factory func() Effect) ([][]float64, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(frames) {
		workers = len(frames)
	}
	out := make([][]float64, len(frames))
	if len(frames) == 0 {
		return out, nil
	}
	var g errgroup.Group
	chunk := (len(frames) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > len(frames) {
			end = len(frames)
		}
		if start >= end {
			break
		}
		g.Go(func() error {
			effect := factory()
			for i := start; i < end; i++ {
				out[i] = effect.Process(frames[i], params)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
