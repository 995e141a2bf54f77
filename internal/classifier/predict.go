package classifier

import (
	"context"
	"fmt"
	"sort"
	"time"

	"signd/pkg/types"
)

// Predict decodes data as an image, runs one forward pass, and returns the
// ranked top-K predictions. filename is echoed back in the response.
func (c *Classifier) Predict(ctx context.Context, data []byte, filename string) (*types.PredictResponse, error) {
	if c.backend == nil {
		return nil, ErrNotLoaded(c.loadErr)
	}
	input, err := preprocess(data, c.imageSize)
	if err != nil {
		return nil, err
	}
	if c.inputLen > 0 && len(input) != c.inputLen {
		return nil, fmt.Errorf("preprocessed tensor has %d values, model expects %d", len(input), c.inputLen)
	}

	// Admission: the backend reuses tensors, so runs are serialized. Waiters
	// past maxWait are shed as too-busy.
	release, err := c.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	scores, err := c.backend.infer(input)
	observeInference(time.Since(start))
	if err != nil {
		c.failures.Add(1)
		predictionsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	ranked := rank(scores, c.labels, c.topK)
	if len(ranked) == 0 {
		c.failures.Add(1)
		predictionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("model produced no output scores")
	}
	c.predictions.Add(1)
	predictionsTotal.WithLabelValues("ok").Inc()
	return &types.PredictResponse{
		Success:        true,
		Prediction:     ranked[0],
		TopPredictions: ranked,
		Filename:       filename,
	}, nil
}

func (c *Classifier) acquire(ctx context.Context) (func(), error) {
	timer := time.NewTimer(c.maxWait)
	defer timer.Stop()
	select {
	case c.gate <- struct{}{}:
		return func() { <-c.gate }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		predictionsTotal.WithLabelValues("too_busy").Inc()
		return nil, tooBusyError{}
	}
}

// rank returns the k highest-scoring classes, best first. Output indices
// beyond the label set keep a placeholder name rather than failing the request.
func rank(scores []float32, labels []string, k int) []types.Prediction {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })
	if k > len(idx) {
		k = len(idx)
	}
	out := make([]types.Prediction, 0, k)
	for _, i := range idx[:k] {
		label := fmt.Sprintf("unknown class %d", i)
		if i < len(labels) {
			label = labels[i]
		}
		out = append(out, types.Prediction{ClassID: i, Label: label, Confidence: scores[i]})
	}
	return out
}
