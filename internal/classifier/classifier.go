package classifier

import (
	"fmt"
	"sync/atomic"
	"time"

	"signd/pkg/types"
)

// Classifier wraps a loaded model artifact, its label set, and the inference
// backend. The label set and tensor geometry are immutable after construction.
type Classifier struct {
	artifact  types.ModelArtifact
	labels    []string
	imageSize int
	inputLen  int
	topK      int
	maxWait   time.Duration

	// gate serializes backend access; the backend reuses its tensors.
	gate    chan struct{}
	backend backend
	loadErr string

	startTime   time.Time
	predictions atomic.Uint64
	failures    atomic.Uint64
}

// New constructs a Classifier from cfg. A missing inference runtime is not
// fatal: the Classifier comes up degraded, Ready reports false, and Predict
// returns a not-loaded error until the process is rebuilt with the runtime.
func New(cfg Config) (*Classifier, error) {
	c := &Classifier{
		artifact:  cfg.Artifact,
		labels:    append([]string(nil), cfg.Metadata.Classes...),
		imageSize: cfg.Metadata.ImageSize,
		topK:      cfg.TopK,
		maxWait:   cfg.MaxWait,
		gate:      make(chan struct{}, 1),
		startTime: time.Now(),
	}
	if c.topK <= 0 {
		c.topK = defaultTopK
	}
	if c.maxWait <= 0 {
		c.maxWait = defaultMaxWait
	}
	if c.imageSize <= 0 {
		return nil, fmt.Errorf("metadata: image size must be positive")
	}
	if len(c.labels) == 0 {
		return nil, fmt.Errorf("metadata: empty label set")
	}
	c.inputLen = 1
	for _, d := range cfg.Metadata.InputShape {
		if d > 0 {
			c.inputLen *= int(d)
		}
	}

	b, err := newBackendFn(cfg.Artifact.Path, cfg.Metadata, cfg.ORTLibrary)
	if err != nil {
		if IsBackendUnavailable(err) {
			c.loadErr = err.Error()
			return c, nil
		}
		return nil, err
	}
	c.backend = b
	return c, nil
}

// Ready reports whether an inference backend is live.
func (c *Classifier) Ready() bool { return c.backend != nil }

// LoadError returns the reason the classifier is degraded, if it is.
func (c *Classifier) LoadError() string { return c.loadErr }

// ModelPath returns the path of the configured model artifact.
func (c *Classifier) ModelPath() string { return c.artifact.Path }

// Labels returns a copy of the ordered label set.
func (c *Classifier) Labels() []string {
	return append([]string(nil), c.labels...)
}

// Status summarizes the classifier for GET /status.
func (c *Classifier) Status() types.StatusResponse {
	state := "ready"
	if !c.Ready() {
		state = "degraded"
	}
	return types.StatusResponse{
		State:            state,
		ModelID:          c.artifact.ID,
		ModelPath:        c.artifact.Path,
		LastError:        c.loadErr,
		ClassCount:       len(c.labels),
		TopK:             c.topK,
		PredictionsTotal: c.predictions.Load(),
		FailuresTotal:    c.failures.Load(),
		UptimeSeconds:    int64(time.Since(c.startTime).Seconds()),
		ServerTimeUnix:   time.Now().Unix(),
	}
}

// Close releases backend resources. Safe to call on a degraded classifier.
func (c *Classifier) Close() error {
	if c.backend == nil {
		return nil
	}
	return c.backend.close()
}
